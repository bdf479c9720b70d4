package plugin

import "reflect"

// Spec is one entry of a plugin configuration list. Accepted forms are a
// Plugin, a Factory, any other func(data any) T with a single result (T may
// be a concrete plugin type or a slice of them) and nil. Anything else is
// ignored.
type Spec = any

// Factory builds plugins for the external data. It may return a Plugin, a
// []Plugin, a []any of plugins or nil.
type Factory func(data any) any

// Resolve turns specs into concrete plugins for data. Plugins pass through,
// factories are invoked and their results flattened in place, and every
// value that is not a Plugin is dropped silently. Order is preserved.
func Resolve(specs []Spec, data any) []Plugin {
	out := make([]Plugin, 0, len(specs))
	for _, spec := range specs {
		switch fn := spec.(type) {
		case Plugin:
			out = appendPlugin(out, fn)
		case Factory:
			out = appendResult(out, fn(data))
		case func(any) any:
			out = appendResult(out, fn(data))
		case func(any) Plugin:
			out = appendResult(out, fn(data))
		case func(any) []Plugin:
			out = appendResult(out, fn(data))
		default:
			if result, ok := callFactory(spec, data); ok {
				out = appendResult(out, result)
			}
		}
	}
	return out
}

func appendResult(out []Plugin, result any) []Plugin {
	switch value := result.(type) {
	case Plugin:
		return appendPlugin(out, value)
	case []Plugin:
		for _, p := range value {
			out = appendPlugin(out, p)
		}
	case []any:
		for _, item := range value {
			if p, ok := item.(Plugin); ok {
				out = appendPlugin(out, p)
			}
		}
	default:
		rv := reflect.ValueOf(result)
		if rv.Kind() != reflect.Slice {
			return out
		}
		for i := 0; i < rv.Len(); i++ {
			if p, ok := rv.Index(i).Interface().(Plugin); ok {
				out = appendPlugin(out, p)
			}
		}
	}
	return out
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// callFactory invokes spec when it is a func(any) T.
func callFactory(spec Spec, data any) (any, bool) {
	rv := reflect.ValueOf(spec)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}
	t := rv.Type()
	if t.NumIn() != 1 || t.In(0) != anyType || t.NumOut() != 1 || t.IsVariadic() {
		return nil, false
	}
	arg := reflect.New(anyType).Elem()
	if data != nil {
		arg.Set(reflect.ValueOf(data))
	}
	return rv.Call([]reflect.Value{arg})[0].Interface(), true
}

func appendPlugin(out []Plugin, p Plugin) []Plugin {
	if isNil(p) {
		return out
	}
	return append(out, p)
}

func isNil(p Plugin) bool {
	if p == nil {
		return true
	}
	rv := reflect.ValueOf(p)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
