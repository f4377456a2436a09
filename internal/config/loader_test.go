package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const validConfigYAML = `
telemetry: true
logs:
  level: info
time:
  zone: America/New_York
image:
  interval: 30
  order: random
transcript:
  folder: transcripts
  minimum: 2
  limit: 100
chat:
  provider: OpenAI
  model: gpt-4o
  prompt: prompts/companion.txt
  image:
    size: 512x512
    amount: 1
imagegen:
  provider: stability
  engine: stable-diffusion-v1-5
  width: 512
  height: 512
  timeout: 60
  cfg_scale: 7
  samples: 1
  steps: 30
  style:
    - photographic
system:
  port: 3000
  data: data
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, "muse.yaml", validConfigYAML))
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if cfg.Chat.Provider != "openai" {
		t.Fatalf("expected lower-cased provider, got %q", cfg.Chat.Provider)
	}
	if !cfg.ImageGen.Enabled() || cfg.ImageGen.Params.Width != 512 {
		t.Fatalf("unexpected imagegen config %+v", cfg.ImageGen)
	}
	if cfg.Chat.Image.Mode != ModeEnabled || cfg.Chat.Image.Size != "512x512" {
		t.Fatalf("unexpected chat image config %+v", cfg.Chat.Image)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "muse.yaml", `
time:
  zone: UTC
chat:
  provider: anthropic
  model: claude-sonnet-4-5
  prompt: prompts/companion.txt
`))
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if !cfg.Telemetry {
		t.Fatalf("expected telemetry default true")
	}
	if cfg.Logs.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Logs.Level)
	}
	if cfg.Image.Interval != 30 || cfg.Image.Order != "random" {
		t.Fatalf("unexpected image defaults %+v", cfg.Image)
	}
	if cfg.System.Port != 3000 || cfg.System.Data != "data" {
		t.Fatalf("unexpected system defaults %+v", cfg.System)
	}
	if cfg.ImageGen.Mode != ModeAbsent {
		t.Fatalf("expected absent imagegen, got %+v", cfg.ImageGen)
	}
}

func TestLoadReturnsEveryViolation(t *testing.T) {
	_, err := Load(writeConfig(t, "muse.yaml", `
logs:
  level: trace
time:
  zone: UTC
image:
  interval: 5
chat:
  provider: anthropic
  model: claude-sonnet-4-5
  prompt: prompts/companion.txt
`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Fatalf("expected two issues, got %v", verr.Issues)
	}
	if !strings.Contains(err.Error(), "logs.level") || !strings.Contains(err.Error(), "image.interval") {
		t.Fatalf("expected both paths in error text, got %v", err)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "muse.yaml", `
time:
  zone: UTC
chat:
  provider: anthropic
  model: claude-sonnet-4-5
  prompt: prompts/companion.txt
  temperature: 0.7
`))
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLoadDisabledImageGenSentinel(t *testing.T) {
	cfg, err := Load(writeConfig(t, "muse.yaml", `
time:
  zone: UTC
chat:
  provider: anthropic
  model: claude-sonnet-4-5
  prompt: prompts/companion.txt
  image: false
imagegen: false
`))
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if cfg.ImageGen.Mode != ModeDisabled {
		t.Fatalf("expected disabled imagegen, got %+v", cfg.ImageGen)
	}
	if cfg.Chat.Image.Mode != ModeDisabled {
		t.Fatalf("expected disabled chat image, got %+v", cfg.Chat.Image)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("MUSE_TZ", "UTC")
	cfg, err := Load(writeConfig(t, "muse.yaml", `
time:
  zone: ${MUSE_TZ}
chat:
  provider: anthropic
  model: claude-sonnet-4-5
  prompt: prompts/companion.txt
`))
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if cfg.Time.Zone != "utc" {
		t.Fatalf("expected expanded and lower-cased zone, got %q", cfg.Time.Zone)
	}
}

func TestLoadRawResolvesIncludes(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.yaml")
	if err := os.WriteFile(basePath, []byte("logs:\n  level: debug\ntelemetry: false\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	mainPath := filepath.Join(dir, "muse.yaml")
	if err := os.WriteFile(mainPath, []byte("$include: base.yaml\nlogs:\n  level: warn\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	raw, err := LoadRaw(mainPath)
	if err != nil {
		t.Fatalf("LoadRaw() error = %v", err)
	}
	logs, _ := raw["logs"].(map[string]any)
	if logs["level"] != "warn" {
		t.Fatalf("expected including file to win, got %v", logs)
	}
	if raw["telemetry"] != false {
		t.Fatalf("expected included telemetry to survive, got %v", raw["telemetry"])
	}
}

func TestLoadRawDetectsIncludeCycles(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.yaml")
	bPath := filepath.Join(dir, "b.yaml")
	if err := os.WriteFile(aPath, []byte("$include: b.yaml\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(bPath, []byte("$include: a.yaml\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadRaw(aPath); err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestLoadJSON5(t *testing.T) {
	cfg, err := Load(writeConfig(t, "muse.json5", `{
  // comments are fine in json5
  time: { zone: "UTC" },
  chat: {
    provider: "anthropic",
    model: "claude-sonnet-4-5",
    prompt: "prompts/companion.txt",
  },
  imagegen: {
    provider: "stability",
    engine: "stable-diffusion-v1-5",
    width: 512,
    height: 512,
    timeout: 60,
    cfg_scale: 7.5,
    samples: 1,
    steps: 30,
    style: ["anime"],
  },
}`))
	if err != nil {
		t.Fatalf("expected json5 config to load, got %v", err)
	}
	if cfg.ImageGen.Params.CfgScale != 7.5 {
		t.Fatalf("unexpected cfg_scale %v", cfg.ImageGen.Params.CfgScale)
	}
	if cfg.ImageGen.Params.Width != 512 {
		t.Fatalf("unexpected width %v", cfg.ImageGen.Params.Width)
	}
}

func TestLowercaseIsDeepAndNonMutating(t *testing.T) {
	raw := map[string]any{
		"logs": map[string]any{"level": "INFO"},
		"chat": map[string]any{
			"provider": "OpenAI",
			"styles":   []any{"Casual", 7},
		},
	}
	want := map[string]any{
		"logs": map[string]any{"level": "INFO"},
		"chat": map[string]any{
			"provider": "OpenAI",
			"styles":   []any{"Casual", 7},
		},
	}

	lowered := Lowercase(raw)
	if lowered["logs"].(map[string]any)["level"] != "info" {
		t.Fatalf("expected lowered level, got %v", lowered)
	}
	if lowered["chat"].(map[string]any)["styles"].([]any)[0] != "casual" {
		t.Fatalf("expected lowered list entry, got %v", lowered)
	}
	if !reflect.DeepEqual(raw, want) {
		t.Fatalf("input was mutated: %v", raw)
	}
}

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}
