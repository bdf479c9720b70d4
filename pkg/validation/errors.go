package validation

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-catalogform/pkg/schema"
)

// ErrorTree mirrors the shape of the validated data. Leaves are messages;
// objects nest as map[string]any and arrays as []any with nil entries for
// items that passed. A top-level failure on non-object data uses the "" key.
type ErrorTree map[string]any

// Issue is one flattened validation failure.
type Issue struct {
	Path    string `json:"path"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Issues lists every leaf of the tree sorted by path. Path is a JSON pointer
// and Field its dotted form.
func (t ErrorTree) Issues() []Issue {
	var issues []Issue
	walk(map[string]any(t), "", func(pointer, message string) {
		issues = append(issues, Issue{
			Path:    pointer,
			Field:   FieldPath(pointer),
			Message: message,
		})
	})
	sort.Slice(issues, func(i, j int) bool {
		return issues[i].Path < issues[j].Path
	})
	return issues
}

// Flatten maps dotted field paths (providers.0.name) to their message.
func (t ErrorTree) Flatten() map[string]string {
	out := map[string]string{}
	walk(map[string]any(t), "", func(pointer, message string) {
		out[FieldPath(pointer)] = message
	})
	return out
}

// Len counts the messages in the tree.
func (t ErrorTree) Len() int {
	count := 0
	walk(map[string]any(t), "", func(string, string) { count++ })
	return count
}

// Message returns the message at pointer, if the tree holds one there.
func (t ErrorTree) Message(pointer string) (string, bool) {
	var found string
	ok := false
	walk(map[string]any(t), "", func(p, message string) {
		if p == pointer {
			found, ok = message, true
		}
	})
	return found, ok
}

func walk(node any, pointer string, visit func(pointer, message string)) {
	switch value := node.(type) {
	case string:
		visit(pointer, value)
	case map[string]any:
		for key, child := range value {
			if key == "" && pointer == "" {
				walk(child, "", visit)
				continue
			}
			walk(child, schema.JoinPointer(pointer, key), visit)
		}
	case ErrorTree:
		walk(map[string]any(value), pointer, visit)
	case []any:
		for idx, child := range value {
			if child == nil {
				continue
			}
			walk(child, pointer+"/"+strconv.Itoa(idx), visit)
		}
	}
}

// FieldPath converts a JSON pointer into a dotted field path, unescaping
// ~1 and ~0 in each segment.
func FieldPath(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.ReplaceAll(part, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return strings.Join(out, ".")
}
