// Package values normalises decoded documents into generic form data.
package values

import (
	"reflect"
	"sort"
)

// Normalize deep-copies maps with string keys, slices and arrays into the
// generic map[string]any and []any shapes used by form data. Scalars pass
// through unchanged.
func Normalize(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = Normalize(item)
		}
		return out
	case string, bool, float64, float32, int, int64, int32, uint, uint64, uint32:
		return v
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return value
		}
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return value
		}
		if rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for idx := 0; idx < rv.Len(); idx++ {
			out[idx] = Normalize(rv.Index(idx).Interface())
		}
		return out
	case reflect.Array:
		out := make([]any, rv.Len())
		for idx := 0; idx < rv.Len(); idx++ {
			out[idx] = Normalize(rv.Index(idx).Interface())
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return value
	default:
		return value
	}
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Lookup walks nested maps along path. It reports false when a segment is
// missing or a non-map value is reached before the end of the path.
func Lookup(data any, path ...string) (any, bool) {
	current := data
	for _, segment := range path {
		m, ok := Normalize(current).(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
