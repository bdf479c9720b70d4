package aggregator

import "github.com/goliatone/go-catalogform/internal/values"

// DeepDefaults fills the gaps of dst with the values of src and returns dst.
//
// A gap is a missing key, a nil value or an empty string (the skeleton's leaf
// value). Maps merge key by key and lists index by index, growing when src is
// longer. Any other populated value in dst is kept. Values copied from src are
// normalised to map[string]any and []any and never alias src.
func DeepDefaults(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for key, value := range src {
		value = values.Normalize(value)
		if value == nil {
			continue
		}
		dst[key] = fill(dst[key], value)
	}
	return dst
}

func fill(current, incoming any) any {
	if incoming == nil {
		return current
	}
	if isGap(current) {
		return incoming
	}
	switch cur := current.(type) {
	case map[string]any:
		in, ok := incoming.(map[string]any)
		if !ok {
			return cur
		}
		for key, value := range in {
			if value == nil {
				continue
			}
			cur[key] = fill(cur[key], value)
		}
		return cur
	case []any:
		in, ok := incoming.([]any)
		if !ok {
			return cur
		}
		for idx, value := range in {
			if idx < len(cur) {
				cur[idx] = fill(cur[idx], value)
				continue
			}
			cur = append(cur, value)
		}
		return cur
	default:
		return current
	}
}

func isGap(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}
