package config

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// SectionMode distinguishes the three states an optional provider sub-config
// can be in: not mentioned at all, explicitly switched off with a bare
// `false`, or populated.
type SectionMode int

const (
	ModeAbsent SectionMode = iota
	ModeDisabled
	ModeEnabled
)

// ChatConfig is the primary text-generation provider.
type ChatConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Prompt   string `yaml:"prompt"`
	Style    string `yaml:"style,omitempty"`

	// Image is the provider's own image endpoint (DALL-E style sizes),
	// separate from the dedicated imagegen section.
	Image ChatImageConfig `yaml:"image,omitempty"`
}

// ChatImageConfig configures the chat provider's image endpoint.
type ChatImageConfig struct {
	Mode   SectionMode
	Size   string
	Amount int
}

// IsZero lets yaml omit an absent sub-config on marshal.
func (c ChatImageConfig) IsZero() bool { return c.Mode == ModeAbsent }

func (c *ChatImageConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var flag bool
		if err := node.Decode(&flag); err != nil || flag {
			return fmt.Errorf("chat.image must be a mapping or false")
		}
		*c = ChatImageConfig{Mode: ModeDisabled}
		return nil
	case yaml.MappingNode:
		var params struct {
			Size   string `yaml:"size"`
			Amount int    `yaml:"amount"`
		}
		if err := node.Decode(&params); err != nil {
			return err
		}
		*c = ChatImageConfig{Mode: ModeEnabled, Size: params.Size, Amount: params.Amount}
		return nil
	default:
		return fmt.Errorf("chat.image must be a mapping or false")
	}
}

func (c ChatImageConfig) MarshalYAML() (any, error) {
	switch c.Mode {
	case ModeDisabled:
		return false, nil
	case ModeEnabled:
		return map[string]any{"size": c.Size, "amount": c.Amount}, nil
	default:
		return nil, nil
	}
}

// JSONSchema renders the tri-state as `false | object` so the generated
// schema matches what the loader accepts.
func (ChatImageConfig) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("size", &jsonschema.Schema{Type: "string", Enum: anySlice(ChatImageSizes)})
	props.Set("amount", &jsonschema.Schema{Type: "integer"})
	return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
		{Type: "boolean"},
		{Type: "object", Properties: props, Required: []string{"size", "amount"}},
	}}
}

func anySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
