package config

import "strings"

// redactedPlaceholder replaces secret values in config dumps.
const redactedPlaceholder = "[redacted]"

// secretKeys name fields whose values never belong in a log sink.
var secretKeys = map[string]bool{
	"key":           true,
	"api_key":       true,
	"apikey":        true,
	"token":         true,
	"secret":        true,
	"password":      true,
	"authorization": true,
}

// Redacted returns a deep copy of raw with every secret-bearing value
// replaced by a fixed placeholder, safe to hand to the logger. The input is
// never mutated.
func Redacted(raw map[string]any) map[string]any {
	return redactMap(raw)
}

func redactMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		normalized := strings.ToLower(strings.ReplaceAll(k, "-", "_"))
		if secretKeys[normalized] {
			out[k] = redactedPlaceholder
			continue
		}
		out[k] = redactValue(v)
	}
	return out
}

func redactValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return redactMap(val)
	case []any:
		out := make([]any, len(val))
		for i, entry := range val {
			out[i] = redactValue(entry)
		}
		return out
	default:
		return v
	}
}
