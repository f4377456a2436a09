package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/lunahq/muse/internal/observability"
)

// Issue is a single validation rule failure: the dotted path of the
// offending field and a lower-cased description of the broken constraint.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string { return i.Path + ": " + i.Message }

// ValidationError aggregates every issue found in one validation pass.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return "config validation failed: " + strings.Join(msgs, "; ")
}

// LogLevels are the accepted values for logs.level.
var LogLevels = []string{"error", "warn", "info", "http", "verbose", "debug", "silly", "silent"}

// ImageOrders are the accepted values for image.order.
var ImageOrders = []string{"random", "recent"}

// ChatImageSizes are the accepted values for chat.image.size.
var ChatImageSizes = []string{"256x256", "512x512", "1024x1024"}

// StylePresets are the accepted imagegen style tags.
var StylePresets = []string{
	"3d-model", "analog-film", "anime", "cinematic", "comic-book",
	"digital-art", "enhance", "fantasy-art", "isometric", "line-art",
	"low-poly", "modeling-compound", "neon-punk", "origami", "photographic",
	"pixel-art", "tile-texture",
}

// Check runs the full rule set against a lower-cased configuration snapshot
// and returns every violation found, in field order. It never stops at the
// first failure and never mutates the snapshot.
//
// Enum comparisons are exact: the snapshot must already be lower-cased (see
// Lowercase).
func Check(snapshot map[string]any) []Issue {
	c := &checker{}
	c.checkTelemetry(snapshot)
	c.checkLogs(snapshot)
	c.checkTime(snapshot)
	c.checkImage(snapshot)
	c.checkTranscript(snapshot)
	c.checkChat(snapshot)
	c.checkImageGen(snapshot)
	c.checkSystem(snapshot)
	return c.issues
}

type checker struct {
	issues []Issue
}

func (c *checker) addf(path, format string, args ...any) {
	c.issues = append(c.issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) checkTelemetry(snapshot map[string]any) {
	if v, ok := snapshot["telemetry"]; ok {
		if _, ok := v.(bool); !ok {
			c.addf("telemetry", "must be a boolean")
		}
	} else {
		c.addf("telemetry", "required field is missing")
	}
}

func (c *checker) checkLogs(snapshot map[string]any) {
	m, ok := c.section(snapshot, "logs")
	if !ok {
		return
	}
	c.requireEnum(m, "logs", "level", LogLevels)
}

func (c *checker) checkTime(snapshot map[string]any) {
	m, ok := c.section(snapshot, "time")
	if !ok {
		return
	}
	c.requireString(m, "time", "zone")
	c.optionalString(m, "time", "format")
}

func (c *checker) checkImage(snapshot map[string]any) {
	m, ok := c.section(snapshot, "image")
	if !ok {
		return
	}
	c.requireIntMin(m, "image", "interval", 10)
	c.requireEnum(m, "image", "order", ImageOrders)
}

func (c *checker) checkTranscript(snapshot map[string]any) {
	m, ok := c.section(snapshot, "transcript")
	if !ok {
		return
	}
	c.requireString(m, "transcript", "folder")
	c.requireIntMin(m, "transcript", "minimum", 1)
	c.requireInt(m, "transcript", "limit")
}

func (c *checker) checkChat(snapshot map[string]any) {
	m, ok := c.section(snapshot, "chat")
	if !ok {
		return
	}
	c.requireString(m, "chat", "provider")
	c.requireString(m, "chat", "model")
	c.requireString(m, "chat", "prompt")
	c.optionalString(m, "chat", "style")

	state, img := triState(m, "image")
	switch state {
	case stateAbsent, stateDisabled:
		return
	case stateMalformed:
		c.addf("chat.image", "must be a mapping or false")
		return
	}
	c.requireEnum(img, "chat.image", "size", ChatImageSizes)
	c.requireIntMin(img, "chat.image", "amount", 1)
}

func (c *checker) checkImageGen(snapshot map[string]any) {
	state, m := triState(snapshot, "imagegen")
	switch state {
	case stateAbsent, stateDisabled:
		return
	case stateMalformed:
		c.addf("imagegen", "must be a mapping or false")
		return
	}

	c.requireString(m, "imagegen", "provider")
	engine, engineOK := c.requireString(m, "imagegen", "engine")
	width, widthOK := c.requireInt(m, "imagegen", "width")
	height, heightOK := c.requireInt(m, "imagegen", "height")
	c.requireInt(m, "imagegen", "timeout")
	c.requireFloatRange(m, "imagegen", "cfg_scale", 0, 35)
	c.requireIntRange(m, "imagegen", "samples", 1, 10)
	c.requireIntRange(m, "imagegen", "steps", 10, 50)
	c.checkStyles(m)

	// The cross-field rules only apply to dimensions that passed the
	// primitive checks above. Each one reports independently.
	if widthOK && heightOK {
		if !dimensionsAligned(width, height) {
			c.addf("imagegen", "width and height must be multiples of 64")
		}
		if engineOK {
			lo, hi := engineAreaBounds(engine)
			if area := width * height; area < lo || area > hi {
				c.addf("imagegen", "width x height must be between %d and %d for engine %q", lo, hi, engine)
			}
		}
	}
}

func (c *checker) checkStyles(m map[string]any) {
	v, ok := m["style"]
	if !ok {
		c.addf("imagegen.style", "required field is missing")
		return
	}
	list, ok := v.([]any)
	if !ok {
		c.addf("imagegen.style", "must be a list of style presets")
		return
	}
	if len(list) == 0 {
		c.addf("imagegen.style", "must name at least one style preset")
		return
	}
	for i, entry := range list {
		path := fmt.Sprintf("imagegen.style.%d", i)
		s, ok := entry.(string)
		if !ok {
			c.addf(path, "must be a string")
			continue
		}
		if !containsString(StylePresets, s) {
			c.addf(path, "must be one of: %s", strings.Join(StylePresets, ", "))
		}
	}
}

func (c *checker) checkSystem(snapshot map[string]any) {
	m, ok := c.section(snapshot, "system")
	if !ok {
		return
	}
	c.requireInt(m, "system", "port")
	c.requireString(m, "system", "data")
}

// dimensionsAligned reports whether both dimensions sit on the 64-pixel grid
// the diffusion engines require.
func dimensionsAligned(width, height int) bool {
	return width%64 == 0 && height%64 == 0
}

// engineAreaBounds returns the allowed width*height range for an engine.
// 768-family engines (identified by a "768" substring in the engine id) need
// at least a 768x768 canvas; everything else accepts 512x512 up to 1024x1024.
func engineAreaBounds(engine string) (lo, hi int) {
	if strings.Contains(engine, "768") {
		return 768 * 768, 1024 * 1024
	}
	return 512 * 512, 1024 * 1024
}

// sectionState is the shape of an optional tri-state sub-config.
type sectionState int

const (
	stateAbsent sectionState = iota
	stateDisabled
	stateEnabled
	stateMalformed
)

// triState classifies an optional sub-config: missing entirely, explicitly
// switched off with a bare false, a populated mapping, or anything else.
func triState(m map[string]any, key string) (sectionState, map[string]any) {
	v, ok := m[key]
	if !ok {
		return stateAbsent, nil
	}
	if b, ok := v.(bool); ok && !b {
		return stateDisabled, nil
	}
	if sub, ok := asMap(v); ok {
		return stateEnabled, sub
	}
	return stateMalformed, nil
}

func (c *checker) section(snapshot map[string]any, key string) (map[string]any, bool) {
	v, ok := snapshot[key]
	if !ok {
		c.addf(key, "required section is missing")
		return nil, false
	}
	m, ok := asMap(v)
	if !ok {
		c.addf(key, "must be a mapping")
		return nil, false
	}
	return m, true
}

func (c *checker) requireString(m map[string]any, section, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		c.addf(section+"."+key, "required field is missing")
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		c.addf(section+"."+key, "must be a string")
		return "", false
	}
	return s, true
}

func (c *checker) optionalString(m map[string]any, section, key string) {
	if v, ok := m[key]; ok {
		if _, ok := v.(string); !ok {
			c.addf(section+"."+key, "must be a string")
		}
	}
}

func (c *checker) requireInt(m map[string]any, section, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		c.addf(section+"."+key, "required field is missing")
		return 0, false
	}
	n, ok := asInt(v)
	if !ok {
		c.addf(section+"."+key, "must be an integer")
		return 0, false
	}
	return n, true
}

func (c *checker) requireIntMin(m map[string]any, section, key string, min int) {
	n, ok := c.requireInt(m, section, key)
	if ok && n < min {
		c.addf(section+"."+key, "must be at least %d", min)
	}
}

func (c *checker) requireIntRange(m map[string]any, section, key string, lo, hi int) {
	n, ok := c.requireInt(m, section, key)
	if ok && (n < lo || n > hi) {
		c.addf(section+"."+key, "must be between %d and %d", lo, hi)
	}
}

func (c *checker) requireFloatRange(m map[string]any, section, key string, lo, hi float64) {
	v, ok := m[key]
	if !ok {
		c.addf(section+"."+key, "required field is missing")
		return
	}
	f, ok := asFloat(v)
	if !ok {
		c.addf(section+"."+key, "must be a number")
		return
	}
	if f < lo || f > hi {
		c.addf(section+"."+key, "must be between %g and %g", lo, hi)
	}
}

func (c *checker) requireEnum(m map[string]any, section, key string, allowed []string) {
	s, ok := c.requireString(m, section, key)
	if ok && !containsString(allowed, s) {
		c.addf(section+"."+key, "must be one of: %s", strings.Join(allowed, ", "))
	}
}

// asMap, asInt, and asFloat absorb the type differences between the yaml and
// json5 decoders (json5 produces float64 for every number).
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func containsString(list []string, s string) bool {
	for _, entry := range list {
		if entry == s {
			return true
		}
	}
	return false
}

// Validator evaluates configuration snapshots against the muse rule set and
// reports results either as return values or through the logger.
type Validator struct {
	logger *observability.Logger
}

// NewValidator returns a Validator that reports through logger in log mode.
func NewValidator(logger *observability.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate runs the full rule set against snapshot.
//
// With returnErrors true it returns every violation as a "<path>: <message>"
// string and produces no log output. With returnErrors false it returns nil
// and reports through the logger instead: the violation count and each
// violation at error level, plus a redacted dump of the whole snapshot at
// debug level regardless of the outcome.
func (v *Validator) Validate(ctx context.Context, snapshot map[string]any, returnErrors bool) []string {
	issues := Check(snapshot)
	if returnErrors {
		msgs := make([]string, len(issues))
		for i, issue := range issues {
			msgs[i] = issue.String()
		}
		return msgs
	}

	if v.logger != nil {
		if len(issues) > 0 {
			v.logger.Error(ctx, "config validation failed", "violations", len(issues))
			for _, issue := range issues {
				v.logger.Error(ctx, issue.String())
			}
		}
		v.logger.Debug(ctx, "config snapshot", "config", Redacted(snapshot))
	}
	return nil
}
