package doctor

import (
	"strings"
	"testing"
)

func doctorSnapshot() map[string]any {
	return map[string]any{
		"telemetry":  true,
		"logs":       map[string]any{"level": "info"},
		"time":       map[string]any{"zone": "utc"},
		"image":      map[string]any{"interval": 30, "order": "random"},
		"transcript": map[string]any{"folder": "transcripts", "minimum": 1, "limit": 100},
		"chat": map[string]any{
			"provider": "anthropic",
			"model":    "claude-sonnet-4-5",
			"prompt":   "prompts/companion.txt",
		},
		"imagegen": false,
		"system":   map[string]any{"port": 3000, "data": "data"},
	}
}

func TestCheckSchemaCleanSnapshot(t *testing.T) {
	warnings, err := CheckSchema(doctorSnapshot())
	if err != nil {
		t.Fatalf("CheckSchema() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestCheckSchemaReportsDrift(t *testing.T) {
	snapshot := doctorSnapshot()
	snapshot["logs"] = map[string]any{"level": 5}

	warnings, err := CheckSchema(snapshot)
	if err != nil {
		t.Fatalf("CheckSchema() error = %v", err)
	}
	if len(warnings) == 0 {
		t.Fatalf("expected warnings for a numeric log level")
	}
	joined := strings.Join(warnings, "\n")
	if !strings.Contains(joined, "level") {
		t.Fatalf("expected the offending field in warnings, got %v", warnings)
	}
}
