package schema

import "fmt"

// CompilationError reports a schema that cannot be turned into a skeleton,
// a validator or an export: arrays without items, objects without properties
// or unknown field types. It always indicates a plugin authoring bug.
type CompilationError struct {
	Path   string
	Type   Type
	Reason string
}

func (e *CompilationError) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	if e.Type == "" {
		return fmt.Sprintf("schema: compile %s: %s", path, e.Reason)
	}
	return fmt.Sprintf("schema: compile %s (%s): %s", path, e.Type, e.Reason)
}

// Check walks a field and returns the first structural problem found.
func Check(field *Field) error {
	return check(field, "")
}

func check(field *Field, path string) error {
	if field == nil {
		return &CompilationError{Path: path, Reason: "field is nil"}
	}
	switch field.Type {
	case TypeString, TypeNumber, TypeJSON:
		return nil
	case TypeArray:
		if field.Items == nil {
			return &CompilationError{Path: path, Type: field.Type, Reason: "array schema requires items"}
		}
		return check(field.Items, path+"/items")
	case TypeObject, TypeRoot:
		if field.Properties == nil {
			return &CompilationError{Path: path, Type: field.Type, Reason: "object schema requires properties"}
		}
		for _, name := range field.PropertyNames() {
			if err := check(field.Properties[name], JoinPointer(path, name)); err != nil {
				return err
			}
		}
		return nil
	default:
		return &CompilationError{Path: path, Type: field.Type, Reason: fmt.Sprintf("unknown field type %q", field.Type)}
	}
}

// JoinPointer appends a JSON pointer segment, escaping "~" and "/".
func JoinPointer(parent, segment string) string {
	return parent + "/" + escapePointer(segment)
}

func escapePointer(segment string) string {
	out := make([]byte, 0, len(segment))
	for i := 0; i < len(segment); i++ {
		switch segment[i] {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, segment[i])
		}
	}
	return string(out)
}
