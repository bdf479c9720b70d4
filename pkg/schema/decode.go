package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a field document. JSON and YAML are both accepted; property
// declaration order is preserved in Field.Order.
func Parse(data []byte) (*Field, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("schema: document is empty")
	}
	var field Field
	if err := yaml.Unmarshal(data, &field); err != nil {
		return nil, fmt.Errorf("schema: parse document: %w", err)
	}
	return &field, nil
}

type fieldDocument struct {
	Type                 Type         `yaml:"type"`
	Label                Label        `yaml:"label"`
	Widget               string       `yaml:"ui:widget"`
	Enum                 []EnumOption `yaml:"enum"`
	AllowOther           *AllowOther  `yaml:"allowOther"`
	Items                *Field       `yaml:"items"`
	MinItems             int          `yaml:"minItems"`
	MaxItems             *int         `yaml:"maxItems"`
	Properties           yaml.Node    `yaml:"properties"`
	Required             []string     `yaml:"required"`
	AdditionalProperties bool         `yaml:"additionalProperties"`
}

// UnmarshalYAML decodes a field keeping the property order of the source.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	var doc fieldDocument
	if err := node.Decode(&doc); err != nil {
		return err
	}
	*f = Field{
		Type:                 doc.Type,
		Label:                doc.Label,
		Widget:               doc.Widget,
		Enum:                 doc.Enum,
		AllowOther:           doc.AllowOther,
		Items:                doc.Items,
		MinItems:             doc.MinItems,
		MaxItems:             doc.MaxItems,
		Required:             doc.Required,
		AdditionalProperties: doc.AdditionalProperties,
	}

	props := doc.Properties
	if props.Kind == 0 {
		return nil
	}
	if props.Kind != yaml.MappingNode {
		return fmt.Errorf("schema: line %d: properties must be a mapping", props.Line)
	}
	f.Properties = make(map[string]*Field, len(props.Content)/2)
	for i := 0; i+1 < len(props.Content); i += 2 {
		name := props.Content[i].Value
		var child Field
		if err := props.Content[i+1].Decode(&child); err != nil {
			return fmt.Errorf("schema: property %q: %w", name, err)
		}
		f.Set(name, &child)
	}
	return nil
}

// UnmarshalJSON routes JSON through the YAML decoder so both formats share
// one code path.
func (f *Field) UnmarshalJSON(data []byte) error {
	return yaml.Unmarshal(data, f)
}

// UnmarshalYAML accepts a scalar or a sequence of strings.
func (l *Label) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = Label{node.Value}
		return nil
	case yaml.SequenceNode:
		var labels []string
		if err := node.Decode(&labels); err != nil {
			return err
		}
		*l = Label(labels)
		return nil
	default:
		return fmt.Errorf("schema: line %d: label must be a string or a list of strings", node.Line)
	}
}

// MarshalJSON writes single labels as a plain string.
func (l Label) MarshalJSON() ([]byte, error) {
	if len(l) == 1 {
		return json.Marshal(l[0])
	}
	return json.Marshal([]string(l))
}

// UnmarshalYAML accepts `[key, label]`, `[key]` or a bare key.
func (o *EnumOption) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*o = EnumOption{Key: node.Value, Label: node.Value}
		return nil
	case yaml.SequenceNode:
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return err
		}
		switch len(pair) {
		case 1:
			*o = EnumOption{Key: pair[0], Label: pair[0]}
		case 2:
			*o = EnumOption{Key: pair[0], Label: pair[1]}
		default:
			return fmt.Errorf("schema: line %d: enum option must have one or two entries, got %d", node.Line, len(pair))
		}
		return nil
	default:
		return fmt.Errorf("schema: line %d: enum option must be a string or a [key, label] pair", node.Line)
	}
}

// MarshalJSON writes the option as a `[key, label]` pair.
func (o EnumOption) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{o.Key, o.Label})
}
