package stac

import (
	"github.com/goliatone/go-catalogform/internal/values"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

// FieldIf returns a property for id: ifTrue when condition holds, ifFalse
// otherwise. The second result is false when no field applies.
func FieldIf(condition bool, id string, ifTrue, ifFalse *schema.Field) (schema.Property, bool) {
	if condition {
		return schema.Prop(id, ifTrue), true
	}
	if ifFalse != nil {
		return schema.Prop(id, ifFalse), true
	}
	return schema.Property{}, false
}

// EmptyStringToNull replaces "" with nil, descending into lists.
func EmptyStringToNull(v any) any {
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		for idx, item := range list {
			out[idx] = EmptyStringToNull(item)
		}
		return out
	}
	if s, ok := v.(string); ok && s == "" {
		return nil
	}
	return v
}

// NullToEmptyString replaces nil with "", descending into lists.
func NullToEmptyString(v any) any {
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		for idx, item := range list {
			out[idx] = NullToEmptyString(item)
		}
		return out
	}
	if v == nil {
		return ""
	}
	return v
}

// ObjectToArray turns {a: {...}, b: {...}} into [{keyName: a, ...}, ...]
// sorted by key. each, when set, transforms every value first. Non-map
// values are stored under "value".
func ObjectToArray(stack any, keyName string, each func(map[string]any) map[string]any) []any {
	m, _ := values.Normalize(stack).(map[string]any)
	out := make([]any, 0, len(m))
	for _, key := range values.SortedKeys(m) {
		item, ok := m[key].(map[string]any)
		if !ok {
			item = map[string]any{"value": m[key]}
		}
		if each != nil {
			item = each(item)
		}
		entry := make(map[string]any, len(item)+1)
		entry[keyName] = key
		for k, v := range item {
			if k == keyName {
				continue
			}
			entry[k] = v
		}
		out = append(out, entry)
	}
	return out
}

// ArrayToObject is the inverse of ObjectToArray: every map item is stored
// under its keyName value with that key removed. Items without a string key
// are skipped; a later item replaces an earlier one with the same key.
func ArrayToObject(stack any, keyName string, each func(map[string]any) map[string]any) map[string]any {
	list, _ := values.Normalize(stack).([]any)
	out := make(map[string]any, len(list))
	for _, raw := range list {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		key, ok := item[keyName].(string)
		if !ok {
			continue
		}
		rest := make(map[string]any, len(item))
		for k, v := range item {
			if k != keyName {
				rest[k] = v
			}
		}
		if each != nil {
			rest = each(rest)
		}
		out[key] = rest
	}
	return out
}

// ObjectToTuple turns {a: 1, b: [2, 3]} into [[a, 1], [b, 2, 3]] sorted by
// key. List values are spread after the key.
func ObjectToTuple(stack any) []any {
	m, _ := values.Normalize(stack).(map[string]any)
	out := make([]any, 0, len(m))
	for _, key := range values.SortedKeys(m) {
		tuple := []any{key}
		if list, ok := m[key].([]any); ok {
			tuple = append(tuple, list...)
		} else {
			tuple = append(tuple, m[key])
		}
		out = append(out, tuple)
	}
	return out
}

// TupleToObject turns [[a, 1], [b, 2]] into {a: 1, b: 2}. Only the first
// value after the key is kept; malformed tuples are skipped.
func TupleToObject(stack any) map[string]any {
	list, _ := values.Normalize(stack).([]any)
	out := make(map[string]any, len(list))
	for _, raw := range list {
		tuple, ok := raw.([]any)
		if !ok || len(tuple) == 0 {
			continue
		}
		key, ok := tuple[0].(string)
		if !ok {
			continue
		}
		var value any
		if len(tuple) > 1 {
			value = tuple[1]
		}
		out[key] = value
	}
	return out
}
