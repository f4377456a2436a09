package doctor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lunahq/muse/internal/config"
)

// CheckSchema cross-checks a raw config snapshot against the JSON schema
// generated from the Config struct. Structural drift between the schema and
// the rule engine surfaces here as warnings rather than hard failures.
func CheckSchema(snapshot map[string]any) ([]string, error) {
	data, err := config.JSONSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("muse-config.json", bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to register schema: %w", err)
	}
	schema, err := compiler.Compile("muse-config.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	normalized, err := normalize(snapshot)
	if err != nil {
		return nil, err
	}

	err = schema.Validate(normalized)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}

	var warnings []string
	for _, cause := range ve.BasicOutput().Errors {
		if cause.Error == "" || cause.InstanceLocation == "" {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("%s: %s", cause.InstanceLocation, cause.Error))
	}
	if len(warnings) == 0 {
		warnings = append(warnings, ve.Error())
	}
	return warnings, nil
}

// normalize round-trips the snapshot through encoding/json so the validator
// sees the value kinds it expects (yaml decodes numbers as int, json as
// float64).
func normalize(snapshot map[string]any) (any, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	var out any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("failed to normalize config: %w", err)
	}
	return out, nil
}
