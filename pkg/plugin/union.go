package plugin

import "github.com/goliatone/go-catalogform/pkg/schema"

// Contribution is one plugin's EditSchema outcome for a snapshot.
type Contribution struct {
	Plugin Plugin
	Result EditResult
}

// Contributions evaluates EditSchema(snapshot) for every plugin in order.
func Contributions(plugins []Plugin, snapshot any) []Contribution {
	out := make([]Contribution, 0, len(plugins))
	for _, p := range plugins {
		if isNil(p) {
			continue
		}
		out = append(out, Contribution{Plugin: p, Result: p.EditSchema(snapshot)})
	}
	return out
}

// UnionSchema merges the top-level properties of every schema contribution
// into one root field. Hidden and Unset results are skipped. A later plugin
// replaces an earlier plugin's property of the same name, required flag
// included. Contributed fields are cloned.
func UnionSchema(plugins []Plugin, snapshot any) (*schema.Field, error) {
	root := schema.Root()
	required := map[string]bool{}
	for _, c := range Contributions(plugins, snapshot) {
		field, ok := c.Result.Field()
		if !ok {
			continue
		}
		if !field.IsObject() {
			return nil, &schema.CompilationError{
				Type:   field.Type,
				Reason: "plugin [" + c.Plugin.Name() + "] must return an object or root schema",
			}
		}
		if field.Properties == nil {
			return nil, &schema.CompilationError{Type: field.Type, Reason: "object schema requires properties"}
		}
		for _, name := range field.PropertyNames() {
			root.Set(name, field.Properties[name].Clone())
			required[name] = field.IsRequired(name)
		}
		if field.AdditionalProperties {
			root.AdditionalProperties = true
		}
	}
	for _, name := range root.PropertyNames() {
		if required[name] {
			root.Required = append(root.Required, name)
		}
	}
	return root, nil
}
