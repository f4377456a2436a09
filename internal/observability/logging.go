// Package observability provides structured logging for muse.
package observability

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// LevelSilent sits above every level slog emits, so a handler configured
// with it drops all records.
const LevelSilent = slog.Level(16)

// Logger wraps slog with secret redaction and request correlation.
type Logger struct {
	logger  *slog.Logger
	redacts []*regexp.Regexp
}

// LogConfig configures logger construction.
type LogConfig struct {
	// Level is one of the muse log levels: error, warn, info, http,
	// verbose, debug, silly, silent. Unknown values fall back to info.
	Level string

	// Format is "json" or "text". Defaults to json.
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer

	// RedactPatterns adds regexes on top of the built-in secret patterns.
	RedactPatterns []string
}

type contextKey string

// RequestIDKey carries a correlation id through context into log records.
const RequestIDKey contextKey = "request_id"

// defaultRedactPatterns match secrets that must never reach a log sink.
var defaultRedactPatterns = []string{
	`(?i)(api[_-]?key|apikey)[\s:=]+["']?([a-zA-Z0-9_\-]{16,})["']?`,
	`(?i)(secret|password|token)[\s:=]+["']?([^\s"']{8,})["']?`,
	`sk-ant-[a-zA-Z0-9_-]{95,}`,
	`sk-[a-zA-Z0-9]{48,}`,
}

// NewLogger builds a structured logger from cfg.
func NewLogger(cfg LogConfig) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: LevelFromString(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}

	patterns := append(append([]string{}, defaultRedactPatterns...), cfg.RedactPatterns...)
	redacts := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		if re, err := regexp.Compile(pattern); err == nil {
			redacts = append(redacts, re)
		}
	}

	return &Logger{logger: slog.New(handler), redacts: redacts}
}

// LevelFromString maps a muse log level onto slog.
//
// The config surface exposes more granularity than slog offers, so
// neighbouring levels collapse: http joins info, verbose and silly join
// debug. "silent" disables output entirely.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	case "info", "http":
		return slog.LevelInfo
	case "verbose", "debug", "silly":
		return slog.LevelDebug
	case "silent":
		return LevelSilent
	default:
		return slog.LevelInfo
	}
}

// WithRequestID attaches a correlation id to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the correlation id carried by ctx, if any.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithFields returns a logger that adds the given key-value pairs to every
// record.
func (l *Logger) WithFields(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...), redacts: l.redacts}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args...)
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	msg = l.redactString(msg)

	redacted := make([]any, len(args))
	for i, arg := range args {
		redacted[i] = l.redactValue(arg)
	}

	attrs := make([]any, 0, len(redacted)+2)
	if id := RequestID(ctx); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	attrs = append(attrs, redacted...)

	l.logger.Log(ctx, level, msg, attrs...)
}

func (l *Logger) redactValue(v any) any {
	switch val := v.(type) {
	case string:
		return l.redactString(val)
	case error:
		return l.redactString(val.Error())
	case []byte:
		return l.redactString(string(val))
	case map[string]any:
		if b, err := json.Marshal(val); err == nil {
			return l.redactString(string(b))
		}
		return val
	default:
		return v
	}
}

func (l *Logger) redactString(s string) string {
	for _, re := range l.redacts {
		s = re.ReplaceAllString(s, "[redacted]")
	}
	return s
}
