package config

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// ImageGenConfig is the optional dedicated image-generation provider. The
// whole section may be absent, an explicit `false`, or a populated mapping.
type ImageGenConfig struct {
	Mode   SectionMode
	Params ImageGenParams
}

// ImageGenParams are the diffusion parameters sent to the image backend.
type ImageGenParams struct {
	Provider string   `yaml:"provider"`
	Engine   string   `yaml:"engine"`
	Width    int      `yaml:"width"`
	Height   int      `yaml:"height"`
	Timeout  int      `yaml:"timeout"`
	CfgScale float64  `yaml:"cfg_scale"`
	Samples  int      `yaml:"samples"`
	Steps    int      `yaml:"steps"`
	Style    []string `yaml:"style"`
}

// Enabled reports whether image generation is configured and switched on.
func (c ImageGenConfig) Enabled() bool { return c.Mode == ModeEnabled }

// IsZero lets yaml omit an absent section on marshal.
func (c ImageGenConfig) IsZero() bool { return c.Mode == ModeAbsent }

func (c *ImageGenConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var flag bool
		if err := node.Decode(&flag); err != nil || flag {
			return fmt.Errorf("imagegen must be a mapping or false")
		}
		*c = ImageGenConfig{Mode: ModeDisabled}
		return nil
	case yaml.MappingNode:
		var params ImageGenParams
		if err := node.Decode(&params); err != nil {
			return err
		}
		*c = ImageGenConfig{Mode: ModeEnabled, Params: params}
		return nil
	default:
		return fmt.Errorf("imagegen must be a mapping or false")
	}
}

func (c ImageGenConfig) MarshalYAML() (any, error) {
	switch c.Mode {
	case ModeDisabled:
		return false, nil
	case ModeEnabled:
		return c.Params, nil
	default:
		return nil, nil
	}
}

// JSONSchema renders the tri-state as `false | object` so the generated
// schema matches what the loader accepts.
func (ImageGenConfig) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("provider", &jsonschema.Schema{Type: "string"})
	props.Set("engine", &jsonschema.Schema{Type: "string"})
	props.Set("width", &jsonschema.Schema{Type: "integer"})
	props.Set("height", &jsonschema.Schema{Type: "integer"})
	props.Set("timeout", &jsonschema.Schema{Type: "integer"})
	props.Set("cfg_scale", &jsonschema.Schema{Type: "number"})
	props.Set("samples", &jsonschema.Schema{Type: "integer"})
	props.Set("steps", &jsonschema.Schema{Type: "integer"})
	props.Set("style", &jsonschema.Schema{
		Type:  "array",
		Items: &jsonschema.Schema{Type: "string", Enum: anySlice(StylePresets)},
	})
	return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
		{Type: "boolean"},
		{
			Type:       "object",
			Properties: props,
			Required: []string{
				"provider", "engine", "width", "height",
				"timeout", "cfg_scale", "samples", "steps", "style",
			},
		},
	}}
}
