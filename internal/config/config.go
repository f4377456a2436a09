// Package config loads and validates the muse configuration.
//
// The load pipeline mirrors how the app consumes configuration: the raw file
// (yaml or json5) is merged with its includes, environment variables are
// expanded, defaults are filled in, every string value is lower-cased, and
// the resulting snapshot is run through the rule engine in validate.go before
// it is decoded into the typed Config.
package config

import "fmt"

// Config is the root configuration structure for muse.
type Config struct {
	Telemetry  bool             `yaml:"telemetry"`
	Logs       LogsConfig       `yaml:"logs"`
	Time       TimeConfig       `yaml:"time"`
	Image      ImageConfig      `yaml:"image"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Chat       ChatConfig       `yaml:"chat"`
	ImageGen   ImageGenConfig   `yaml:"imagegen,omitempty"`
	System     SystemConfig     `yaml:"system"`
}

// LogsConfig controls log output.
type LogsConfig struct {
	Level string `yaml:"level"`
}

// TimeConfig sets the companion's clock.
type TimeConfig struct {
	Zone   string `yaml:"zone"`
	Format string `yaml:"format,omitempty"`
}

// ImageConfig controls how often and in which order generated images are
// posted.
type ImageConfig struct {
	Interval int    `yaml:"interval"`
	Order    string `yaml:"order"`
}

// TranscriptConfig controls conversation transcript rollups.
type TranscriptConfig struct {
	Folder  string `yaml:"folder"`
	Minimum int    `yaml:"minimum"`
	Limit   int    `yaml:"limit"`
}

// SystemConfig holds process-level settings.
type SystemConfig struct {
	Port int    `yaml:"port"`
	Data string `yaml:"data"`
}

// Load reads, validates, and decodes the configuration at path.
//
// Validation failures are returned as a *ValidationError carrying every
// violation found; the caller decides whether that is fatal.
func Load(path string) (*Config, error) {
	snapshot, err := Snapshot(path)
	if err != nil {
		return nil, err
	}
	if issues := Check(snapshot); len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	cfg, err := decodeSnapshot(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Snapshot reads the configuration at path into the normalized form the rule
// engine consumes: includes resolved, env expanded, defaults applied, and
// every string value lower-cased.
func Snapshot(path string) (map[string]any, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	applyDefaults(raw)
	return Lowercase(raw), nil
}

// applyDefaults fills defaulted fields missing from the raw config. Fields
// without an entry here (time.zone, the chat provider settings) are required
// and their absence surfaces as a validation issue instead.
func applyDefaults(raw map[string]any) {
	if _, ok := raw["telemetry"]; !ok {
		raw["telemetry"] = true
	}
	defaultSection(raw, "logs", map[string]any{"level": "info"})
	defaultSection(raw, "image", map[string]any{"interval": 30, "order": "random"})
	defaultSection(raw, "transcript", map[string]any{"folder": "transcripts", "minimum": 1, "limit": 100})
	defaultSection(raw, "system", map[string]any{"port": 3000, "data": "data"})
}

func defaultSection(raw map[string]any, key string, defaults map[string]any) {
	section, ok := raw[key].(map[string]any)
	if !ok {
		if _, present := raw[key]; present {
			// Wrong shape; leave it for the validator to report.
			return
		}
		section = map[string]any{}
		raw[key] = section
	}
	for field, value := range defaults {
		if _, ok := section[field]; !ok {
			section[field] = value
		}
	}
}
