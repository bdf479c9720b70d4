package plugin

import (
	"context"
	"strings"

	"github.com/goliatone/go-catalogform/pkg/schema"
)

// Definition builds a plugin from plain functions.
type Definition struct {
	Name       string
	Init       func(ctx context.Context, data any) error
	EditSchema func(snapshot any) EditResult
	EnterData  func(data any) (map[string]any, error)
	ExitData   func(formData map[string]any) (map[string]any, error)
	Hooks      []Hook
	Watch      []string
}

// Defined is the plugin produced by Define.
type Defined struct {
	Base
	def Definition
}

// Define validates the definition and returns the plugin. Missing EnterData
// or ExitData functions are reported here, before the plugin is ever used.
func Define(def Definition) (*Defined, error) {
	if def.EnterData == nil {
		return nil, &ContractError{Plugin: def.Name, Method: "EnterData"}
	}
	if def.ExitData == nil {
		return nil, &ContractError{Plugin: def.Name, Method: "ExitData"}
	}
	p := &Defined{Base: NewBase(def.Name), def: def}
	for _, hook := range def.Hooks {
		p.RegisterHook(hook.Target, hook)
	}
	return p, nil
}

// MustDefine panics when Define fails. Useful for package level wiring.
func MustDefine(def Definition) *Defined {
	p, err := Define(def)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Defined) Init(ctx context.Context, data any) error {
	if p.def.Init == nil {
		return nil
	}
	return p.def.Init(ctx, data)
}

func (p *Defined) EditSchema(snapshot any) EditResult {
	if p.def.EditSchema == nil {
		return Unset()
	}
	return p.def.EditSchema(snapshot)
}

func (p *Defined) EnterData(data any) (map[string]any, error) {
	if p.def.EnterData == nil {
		return nil, &ContractError{Plugin: p.Name(), Method: "EnterData"}
	}
	return p.def.EnterData(data)
}

func (p *Defined) ExitData(formData map[string]any) (map[string]any, error) {
	if p.def.ExitData == nil {
		return nil, &ContractError{Plugin: p.Name(), Method: "ExitData"}
	}
	return p.def.ExitData(formData)
}

func (p *Defined) WatchFields() []string {
	return append([]string(nil), p.def.Watch...)
}

// Declarative is a plugin described entirely by data: a schema and the list
// of top-level keys it copies between the external document and the form.
type Declarative struct {
	Base
	field *schema.Field
	keys  []string
}

// NewDeclarative builds a declarative plugin. When keys is empty the schema's
// property names are used.
func NewDeclarative(name string, field *schema.Field, keys ...string) (*Declarative, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ContractError{Method: "Name"}
	}
	if !field.IsObject() {
		return nil, &schema.CompilationError{Reason: "declarative plugin schema must be an object or root"}
	}
	if err := schema.Check(field); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		keys = field.PropertyNames()
	}
	return &Declarative{
		Base:  NewBase(name),
		field: field,
		keys:  append([]string(nil), keys...),
	}, nil
}

// EditSchema returns a copy of the declared schema so hooks may mutate it.
func (p *Declarative) EditSchema(any) EditResult {
	return Schema(p.field.Clone())
}

func (p *Declarative) EnterData(data any) (map[string]any, error) {
	return pick(data, p.keys), nil
}

func (p *Declarative) ExitData(formData map[string]any) (map[string]any, error) {
	return pick(formData, p.keys), nil
}

// Keys returns the top-level keys the plugin owns.
func (p *Declarative) Keys() []string {
	return append([]string(nil), p.keys...)
}

func pick(data any, keys []string) map[string]any {
	out := make(map[string]any, len(keys))
	source, _ := data.(map[string]any)
	for _, key := range keys {
		if value, ok := source[key]; ok {
			out[key] = value
		}
	}
	return out
}
