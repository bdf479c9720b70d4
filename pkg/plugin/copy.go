package plugin

import (
	"reflect"
	"unsafe"
)

// copyPlugin gives the pass its own instance: Cloner when available, else a
// deep copy of pointer-to-struct plugins. Composed inputs are unwrapped so
// layers never accumulate across passes.
func copyPlugin(p Plugin) Plugin {
	if c, ok := p.(*Composed); ok {
		p = c.Unwrap()
	}
	if cloner, ok := p.(Cloner); ok {
		if cp := cloner.ClonePlugin(); !isNil(cp) {
			return cp
		}
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return p
	}
	cp := reflect.New(rv.Elem().Type())
	cp.Elem().Set(rv.Elem())

	c := newCopier()
	c.seen[rv.Pointer()] = cp
	c.deepen(cp.Elem())

	if out, ok := cp.Interface().(Plugin); ok {
		return out
	}
	return p
}

// copier deep-copies plugin state in place. Maps, slices, arrays, structs and
// the targets of pointers are duplicated. Funcs, channels, interface values
// and pointers to types holding sync or sync/atomic values are shared: they
// are handles to state owned outside the plugin. Plugins that need anything
// else implement Cloner.
type copier struct {
	seen   map[uintptr]reflect.Value
	shared map[reflect.Type]bool
}

func newCopier() *copier {
	return &copier{
		seen:   make(map[uintptr]reflect.Value),
		shared: make(map[reflect.Type]bool),
	}
}

// deepen replaces the references held by the addressable value v with copies.
func (c *copier) deepen(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		if isSyncType(v.Type()) {
			return
		}
		for i := 0; i < v.NumField(); i++ {
			c.deepen(writable(v.Field(i)))
		}

	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			c.deepen(writable(v.Index(i)))
		}

	case reflect.Slice:
		if v.IsNil() {
			return
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(out, v)
		for i := 0; i < out.Len(); i++ {
			c.deepen(out.Index(i))
		}
		v.Set(out)

	case reflect.Map:
		if v.IsNil() {
			return
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			value := reflect.New(v.Type().Elem()).Elem()
			value.Set(iter.Value())
			c.deepen(value)
			out.SetMapIndex(iter.Key(), value)
		}
		v.Set(out)

	case reflect.Ptr:
		if v.IsNil() || c.isShared(v.Type().Elem()) {
			return
		}
		if done, ok := c.seen[v.Pointer()]; ok {
			v.Set(done)
			return
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(v.Elem())
		c.seen[v.Pointer()] = out
		c.deepen(out.Elem())
		v.Set(out)
	}
}

// isShared reports whether t holds a sync or sync/atomic value, directly or
// through nested struct and array fields.
func (c *copier) isShared(t reflect.Type) bool {
	if shared, ok := c.shared[t]; ok {
		return shared
	}
	// recursive types resolve to false until proven otherwise
	c.shared[t] = false

	shared := isSyncType(t)
	if !shared {
		switch t.Kind() {
		case reflect.Struct:
			for i := 0; i < t.NumField() && !shared; i++ {
				shared = c.isShared(t.Field(i).Type)
			}
		case reflect.Array:
			shared = c.isShared(t.Elem())
		}
	}
	c.shared[t] = shared
	return shared
}

func isSyncType(t reflect.Type) bool {
	switch t.PkgPath() {
	case "sync", "sync/atomic":
		return true
	default:
		return false
	}
}

// writable strips the read-only flag reflect puts on values reached through
// unexported fields. v must be addressable.
func writable(v reflect.Value) reflect.Value {
	if v.CanSet() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}
