package schema

import (
	"sort"
)

// Type discriminates the closed set of field variants.
type Type string

const (
	TypeString Type = "string"
	TypeNumber Type = "number"
	TypeJSON   Type = "json"
	TypeArray  Type = "array"
	TypeObject Type = "object"
	TypeRoot   Type = "root"
)

// Known reports whether t is one of the supported field types.
func (t Type) Known() bool {
	switch t {
	case TypeString, TypeNumber, TypeJSON, TypeArray, TypeObject, TypeRoot:
		return true
	default:
		return false
	}
}

// EnumOption is a single (key, label) pair of a string enum. Documents encode
// it as a two element list `[key, label]` or as a bare key.
type EnumOption struct {
	Key   string
	Label string
}

// Option builds an EnumOption.
func Option(key, label string) EnumOption {
	return EnumOption{Key: key, Label: label}
}

// AllowOther lets a string enum accept values outside the option list when
// their runtime type matches Type ("string", "number", "boolean", "object").
type AllowOther struct {
	Type string `json:"type" yaml:"type"`
}

// Label is either a single label or a cyclic list of labels used to name the
// items of an array one by one.
type Label []string

// String returns the label when it is a single string, otherwise "".
func (l Label) String() string {
	if len(l) == 1 {
		return l[0]
	}
	return ""
}

// Single reports whether the label holds exactly one string.
func (l Label) Single() bool {
	return len(l) == 1
}

// At returns the label for the i-th array item, cycling through the list.
func (l Label) At(i int) string {
	if len(l) == 0 {
		return ""
	}
	if i < 0 {
		i = -i
	}
	return l[i%len(l)]
}

// Field describes one node of an editable document. Type selects which of the
// remaining members are meaningful.
type Field struct {
	Type   Type   `json:"type"`
	Label  Label  `json:"label,omitempty"`
	Widget string `json:"ui:widget,omitempty"`

	// string
	Enum       []EnumOption `json:"enum,omitempty"`
	AllowOther *AllowOther  `json:"allowOther,omitempty"`

	// array
	Items    *Field `json:"items,omitempty"`
	MinItems int    `json:"minItems,omitempty"`
	MaxItems *int   `json:"maxItems,omitempty"`

	// object | root
	Properties           map[string]*Field `json:"properties,omitempty"`
	Order                []string          `json:"-"`
	Required             []string          `json:"required,omitempty"`
	AdditionalProperties bool              `json:"additionalProperties,omitempty"`
}

// Property pairs a property name with its field for ordered construction.
type Property struct {
	Name  string
	Field *Field
}

// Prop builds a Property.
func Prop(name string, field *Field) Property {
	return Property{Name: name, Field: field}
}

// String builds a string field.
func String(label string) *Field {
	return &Field{Type: TypeString, Label: labelOf(label)}
}

// Number builds a number field.
func Number(label string) *Field {
	return &Field{Type: TypeNumber, Label: labelOf(label)}
}

// JSON builds an opaque json field.
func JSON(label string) *Field {
	return &Field{Type: TypeJSON, Label: labelOf(label)}
}

// Array builds an array field of items.
func Array(label string, items *Field) *Field {
	return &Field{Type: TypeArray, Label: labelOf(label), Items: items}
}

// Object builds an object field keeping the property declaration order.
func Object(label string, props ...Property) *Field {
	f := &Field{Type: TypeObject, Label: labelOf(label), Properties: map[string]*Field{}}
	for _, p := range props {
		f.Set(p.Name, p.Field)
	}
	return f
}

// Root builds the top-level object a plugin returns from EditSchema.
func Root(props ...Property) *Field {
	f := Object("", props...)
	f.Type = TypeRoot
	return f
}

func labelOf(label string) Label {
	if label == "" {
		return nil
	}
	return Label{label}
}

// IsObject reports whether the field is an object or root node.
func (f *Field) IsObject() bool {
	return f != nil && (f.Type == TypeObject || f.Type == TypeRoot)
}

// HasEnum reports whether an enum list is present, even an empty one.
func (f *Field) HasEnum() bool {
	return f != nil && f.Enum != nil
}

// IsRequired reports whether name is listed in the required set.
func (f *Field) IsRequired(name string) bool {
	if f == nil {
		return false
	}
	for _, candidate := range f.Required {
		if candidate == name {
			return true
		}
	}
	return false
}

// Set adds or replaces a property. New names are appended to the declaration
// order; replaced names keep their position.
func (f *Field) Set(name string, field *Field) *Field {
	if f.Properties == nil {
		f.Properties = make(map[string]*Field)
	}
	if _, exists := f.Properties[name]; !exists {
		f.Order = append(f.Order, name)
	}
	f.Properties[name] = field
	return f
}

// Delete removes a property and its order entry.
func (f *Field) Delete(name string) *Field {
	if f.Properties == nil {
		return f
	}
	if _, exists := f.Properties[name]; !exists {
		return f
	}
	delete(f.Properties, name)
	for idx, candidate := range f.Order {
		if candidate == name {
			f.Order = append(f.Order[:idx:idx], f.Order[idx+1:]...)
			break
		}
	}
	return f
}

// PropertyNames returns property names in declaration order. Names missing
// from Order (maps filled by hand) follow in lexical order.
func (f *Field) PropertyNames() []string {
	if f == nil || len(f.Properties) == 0 {
		return nil
	}
	names := make([]string, 0, len(f.Properties))
	seen := make(map[string]struct{}, len(f.Properties))
	for _, name := range f.Order {
		if _, ok := f.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	var rest []string
	for name := range f.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// WithEnum sets the enum options.
func (f *Field) WithEnum(options ...EnumOption) *Field {
	f.Enum = append([]EnumOption{}, options...)
	return f
}

// WithAllowOther permits values outside the enum whose type matches typ.
func (f *Field) WithAllowOther(typ string) *Field {
	f.AllowOther = &AllowOther{Type: typ}
	return f
}

// WithWidget sets an explicit widget key.
func (f *Field) WithWidget(widget string) *Field {
	f.Widget = widget
	return f
}

// WithLabels replaces the label with a cyclic list.
func (f *Field) WithLabels(labels ...string) *Field {
	f.Label = append(Label{}, labels...)
	return f
}

// WithRequired marks properties as required.
func (f *Field) WithRequired(names ...string) *Field {
	f.Required = append(f.Required, names...)
	return f
}

// WithMinItems sets the minimum array length.
func (f *Field) WithMinItems(n int) *Field {
	f.MinItems = n
	return f
}

// WithMaxItems sets the maximum array length.
func (f *Field) WithMaxItems(n int) *Field {
	f.MaxItems = &n
	return f
}

// WithAdditionalProperties toggles acceptance of undeclared keys.
func (f *Field) WithAdditionalProperties(allow bool) *Field {
	f.AdditionalProperties = allow
	return f
}

// Clone returns a deep copy so callers can mutate the result freely.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	out := *f
	if f.Label != nil {
		out.Label = append(Label{}, f.Label...)
	}
	if f.Enum != nil {
		out.Enum = append([]EnumOption{}, f.Enum...)
	}
	if f.AllowOther != nil {
		allow := *f.AllowOther
		out.AllowOther = &allow
	}
	if f.MaxItems != nil {
		limit := *f.MaxItems
		out.MaxItems = &limit
	}
	out.Items = f.Items.Clone()
	if f.Properties != nil {
		out.Properties = make(map[string]*Field, len(f.Properties))
		for name, prop := range f.Properties {
			out.Properties[name] = prop.Clone()
		}
	}
	if f.Order != nil {
		out.Order = append([]string{}, f.Order...)
	}
	if f.Required != nil {
		out.Required = append([]string{}, f.Required...)
	}
	return &out
}
