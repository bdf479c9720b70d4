package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-catalogform/pkg/schema"
)

// Built-in widget keys.
const (
	WidgetObject      = "object"
	WidgetText        = "text"
	WidgetNumber      = "number"
	WidgetRadio       = "radio"
	WidgetCheckbox    = "checkbox"
	WidgetSelect      = "select"
	WidgetArray       = "array"
	WidgetArrayString = "array:string"
	WidgetJSON        = "json"
	WidgetTagger      = "tagger"
)

// Matcher decides whether a widget key applies to the supplied field.
type Matcher func(field *schema.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widget keys for fields based on the explicit override or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry only honours explicit overrides.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in dispatch rules
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher with the provided widget key and priority. Higher
// priority values take precedence. Built-ins use priorities 10 to 80 and the
// text fallback 0.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget key for a field. The explicit ui:widget override
// is honoured before matcher evaluation, regardless of type.
func (r *Registry) Resolve(field *schema.Field) (string, bool) {
	if field == nil {
		return "", false
	}
	if explicit := strings.TrimSpace(field.Widget); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Dispatch is Resolve with the text fallback applied.
func (r *Registry) Dispatch(field *schema.Field) string {
	if key, ok := r.Resolve(field); ok {
		return key
	}
	return WidgetText
}

var defaultRegistry = NewRegistry()

// Dispatch maps a field to its widget key using the built-in rules:
// override, checkbox, array:string, array, object, radio, json, number, text.
func Dispatch(field *schema.Field) string {
	return defaultRegistry.Dispatch(field)
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetCheckbox, 80, func(field *schema.Field) bool {
		return field.Type == schema.TypeArray &&
			field.Items != nil &&
			field.Items.Type == schema.TypeString &&
			field.Items.HasEnum()
	})

	r.Register(WidgetArrayString, 70, func(field *schema.Field) bool {
		if field.Type != schema.TypeArray || field.Items == nil {
			return false
		}
		return field.Items.Type == schema.TypeString || field.Items.Type == schema.TypeNumber
	})

	r.Register(WidgetArray, 60, func(field *schema.Field) bool {
		return field.Type == schema.TypeArray
	})

	r.Register(WidgetObject, 50, func(field *schema.Field) bool {
		return field.IsObject()
	})

	r.Register(WidgetRadio, 40, func(field *schema.Field) bool {
		return field.Type == schema.TypeString && field.HasEnum()
	})

	r.Register(WidgetJSON, 30, func(field *schema.Field) bool {
		return field.Type == schema.TypeJSON
	})

	r.Register(WidgetNumber, 20, func(field *schema.Field) bool {
		return field.Type == schema.TypeNumber
	})

	r.Register(WidgetText, 0, func(*schema.Field) bool {
		return true
	})
}
