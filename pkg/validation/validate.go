package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-catalogform/internal/values"
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

// Result is the outcome of Validate: Data on success, Errors otherwise.
type Result struct {
	Data   map[string]any `json:"data"`
	Errors ErrorTree      `json:"errors"`
}

// Valid reports whether the result carries no errors.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validate compiles the plugin schemas for data and validates data against
// them. The error is non-nil only for schema authoring bugs.
func Validate(plugins []plugin.Plugin, data any, options ...Option) (Result, error) {
	v, err := Compile(plugins, data, options...)
	if err != nil {
		return Result{}, err
	}
	cast, tree := v.Validate(data)
	return Result{Data: cast, Errors: tree}, nil
}

// Validate checks data and collects every failure. It returns the cast data
// and a nil tree on success, or nil data and the error tree otherwise.
func (v *Validator) Validate(data any) (map[string]any, ErrorTree) {
	cast, failure := v.root.validate(values.Normalize(data), true, false)
	if failure != nil {
		tree, ok := failure.(map[string]any)
		if !ok {
			tree = map[string]any{"": failure}
		}
		errs := ErrorTree(tree)
		v.metrics.ObserveValidation(errs.Len())
		return nil, errs
	}
	v.metrics.ObserveValidation(0)
	out, _ := cast.(map[string]any)
	return out, nil
}

// validate returns the cast value and the failure for one value. A failure is
// a message string, a map of property failures or a list of item failures.
func (r *rule) validate(value any, present, required bool) (any, any) {
	if value == nil {
		present = false
	}

	switch r.kind {
	case schema.TypeObject:
		return r.validateObject(value, present)
	case schema.TypeArray:
		if !present {
			return r.absent(required)
		}
		return r.validateArray(value)
	case schema.TypeString:
		if !present {
			return r.absent(required)
		}
		return r.validateString(value, required)
	case schema.TypeNumber:
		if !present {
			return r.absent(required)
		}
		return r.validateNumber(value)
	case schema.TypeJSON:
		if !present {
			return r.absent(required)
		}
		return value, nil
	default:
		return value, nil
	}
}

func (r *rule) absent(required bool) (any, any) {
	if required {
		return nil, r.label + " is a required field"
	}
	return nil, nil
}

// validateObject treats a missing object as an empty one so the required
// properties below it are still reported. Unknown keys are kept.
func (r *rule) validateObject(value any, present bool) (any, any) {
	input := map[string]any{}
	if present {
		m, ok := value.(map[string]any)
		if !ok {
			return nil, r.typeMessage("object")
		}
		input = m
	}

	out := make(map[string]any, len(input))
	for key, item := range input {
		out[key] = item
	}
	failures := map[string]any{}
	for _, prop := range r.properties {
		raw, ok := input[prop.name]
		cast, failure := prop.rule.validate(raw, ok, prop.required)
		if failure != nil {
			failures[prop.name] = failure
			continue
		}
		if cast != nil {
			out[prop.name] = cast
		}
	}
	if len(failures) > 0 {
		return nil, failures
	}
	return out, nil
}

// validateArray validates every item; a length violation replaces the item
// failures for the array path.
func (r *rule) validateArray(value any) (any, any) {
	items, ok := value.([]any)
	if !ok {
		return nil, r.typeMessage("array")
	}

	if len(items) < r.minItems {
		return nil, fmt.Sprintf("%s field must have at least %d items", r.label, r.minItems)
	}
	if r.maxItems != nil && len(items) > *r.maxItems {
		return nil, fmt.Sprintf("%s field must have at most %d items", r.label, *r.maxItems)
	}

	out := make([]any, len(items))
	failures := make([]any, len(items))
	failed := false
	for idx, item := range items {
		cast, failure := r.items.validate(item, true, false)
		if failure != nil {
			failures[idx] = failure
			failed = true
			continue
		}
		out[idx] = cast
	}
	if failed {
		return nil, failures
	}
	return out, nil
}

// validateString casts scalars to text, then applies the enum rule before the
// required rule: an empty string only bypasses the enum when the field is
// optional.
func (r *rule) validateString(value any, required bool) (any, any) {
	text, ok := toText(value)
	if !ok {
		return nil, r.typeMessage("string")
	}

	if r.hasEnum && !(text == "" && !required) {
		_, inOptions := r.enum[text]
		allowed := inOptions || (r.allowOther != "" && typeName(value) == r.allowOther)
		if !allowed {
			return nil, r.label + " value is invalid"
		}
	}
	if required && text == "" {
		return nil, r.label + " is a required field"
	}
	return text, nil
}

func (r *rule) validateNumber(value any) (any, any) {
	number, ok := toNumber(value)
	if !ok {
		return nil, "Value must be a number"
	}
	return number, nil
}

func (r *rule) typeMessage(kind string) string {
	return fmt.Sprintf("%s must be a `%s` type", r.label, kind)
}

func toText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	default:
		return "", false
	}
}

// toNumber accepts numbers and numeric strings. Whitespace inside strings is
// ignored; an empty string is not a number.
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		compact := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, v)
		if compact == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(compact, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// typeName reports the runtime type name matched by AllowOther.
func typeName(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, uint, uint64, uint32, json.Number:
		return "number"
	case nil:
		return "undefined"
	default:
		return "object"
	}
}
