package schema

import "fmt"

// Skeleton derives the empty form data for a field:
//
//   - object/root: a map of property skeletons
//   - array: MinItems skeletons of Items, or an empty list
//   - json: an empty map
//   - string/number: "" (numbers are only normalised on exit/validation)
//
// Every call returns freshly allocated values.
func Skeleton(field *Field) (any, error) {
	return skeleton(field, "")
}

func skeleton(field *Field, path string) (any, error) {
	if field == nil {
		return nil, &CompilationError{Path: path, Reason: "field is nil"}
	}

	switch field.Type {
	case TypeObject, TypeRoot:
		if field.Properties == nil {
			return nil, &CompilationError{Path: path, Type: field.Type, Reason: "object schema requires properties"}
		}
		out := make(map[string]any, len(field.Properties))
		for _, name := range field.PropertyNames() {
			value, err := skeleton(field.Properties[name], JoinPointer(path, name))
			if err != nil {
				return nil, err
			}
			out[name] = value
		}
		return out, nil

	case TypeArray:
		if field.Items == nil {
			return nil, &CompilationError{Path: path, Type: field.Type, Reason: "array schema requires items"}
		}
		if field.MinItems <= 0 {
			return []any{}, nil
		}
		out := make([]any, field.MinItems)
		for idx := range out {
			value, err := skeleton(field.Items, fmt.Sprintf("%s/%d", path, idx))
			if err != nil {
				return nil, err
			}
			out[idx] = value
		}
		return out, nil

	case TypeJSON:
		return map[string]any{}, nil

	case TypeString, TypeNumber:
		return "", nil

	default:
		return nil, &CompilationError{Path: path, Type: field.Type, Reason: fmt.Sprintf("unknown field type %q", field.Type)}
	}
}

// SkeletonMap is Skeleton for object and root fields, returning the map
// directly.
func SkeletonMap(field *Field) (map[string]any, error) {
	if field != nil && !field.IsObject() {
		return nil, &CompilationError{Type: field.Type, Reason: "top-level schema must be an object or root"}
	}
	value, err := Skeleton(field)
	if err != nil {
		return nil, err
	}
	return value.(map[string]any), nil
}
