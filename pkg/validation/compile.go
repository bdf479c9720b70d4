package validation

import (
	"fmt"

	"github.com/goliatone/go-catalogform/pkg/metrics"
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

// Option customises a compiled Validator.
type Option func(*Validator)

// WithMetrics records validation outcomes on the collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(v *Validator) {
		v.metrics = collector
	}
}

// Validator is the compiled union of the plugin schemas. It is immutable and
// safe for concurrent use.
type Validator struct {
	root    *rule
	metrics *metrics.Collector
}

type property struct {
	name     string
	rule     *rule
	required bool
}

type rule struct {
	kind  schema.Type
	label string

	// string
	enum       map[string]struct{}
	hasEnum    bool
	allowOther string

	// array
	items    *rule
	minItems int
	maxItems *int

	// object
	properties []property
}

// Compile evaluates EditSchema(snapshot) on every plugin and compiles the
// union of the schema results. Hidden and Unset plugins contribute nothing;
// the later plugin wins when two contribute the same top-level key.
func Compile(plugins []plugin.Plugin, snapshot any, options ...Option) (*Validator, error) {
	union, err := plugin.UnionSchema(plugins, snapshot)
	if err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return CompileField(union, options...)
}

// CompileField compiles a single object or root field.
func CompileField(field *schema.Field, options ...Option) (*Validator, error) {
	if field != nil && !field.IsObject() {
		return nil, fmt.Errorf("validation: %w", &schema.CompilationError{Type: field.Type, Reason: "top-level schema must be an object or root"})
	}
	root, err := compile(field, "")
	if err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	v := &Validator{root: root}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v, nil
}

func compile(field *schema.Field, path string) (*rule, error) {
	if field == nil {
		return nil, &schema.CompilationError{Path: path, Reason: "field is nil"}
	}
	r := &rule{kind: field.Type, label: labelOf(field)}

	switch field.Type {
	case schema.TypeObject, schema.TypeRoot:
		if field.Properties == nil {
			return nil, &schema.CompilationError{Path: path, Type: field.Type, Reason: "object schema requires properties"}
		}
		r.kind = schema.TypeObject
		for _, name := range field.PropertyNames() {
			child, err := compile(field.Properties[name], schema.JoinPointer(path, name))
			if err != nil {
				return nil, err
			}
			r.properties = append(r.properties, property{
				name:     name,
				rule:     child,
				required: field.IsRequired(name),
			})
		}

	case schema.TypeArray:
		if field.Items == nil {
			return nil, &schema.CompilationError{Path: path, Type: field.Type, Reason: "array schema requires items"}
		}
		items, err := compile(field.Items, path+"/items")
		if err != nil {
			return nil, err
		}
		r.items = items
		r.minItems = field.MinItems
		r.maxItems = field.MaxItems

	case schema.TypeString:
		if field.HasEnum() {
			r.hasEnum = true
			r.enum = make(map[string]struct{}, len(field.Enum))
			for _, option := range field.Enum {
				r.enum[option.Key] = struct{}{}
			}
		}
		if field.AllowOther != nil {
			r.allowOther = field.AllowOther.Type
		}

	case schema.TypeNumber, schema.TypeJSON:

	default:
		return nil, &schema.CompilationError{Path: path, Type: field.Type, Reason: fmt.Sprintf("unknown field type %q", field.Type)}
	}
	return r, nil
}

// labelOf names a field in messages: its single string label, or "Value"
// for list labels and unlabelled fields.
func labelOf(field *schema.Field) string {
	if field.Label.Single() && field.Label[0] != "" {
		return field.Label[0]
	}
	return "Value"
}
