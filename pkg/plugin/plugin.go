package plugin

import "context"

// Plugin is one unit of the composed editor. EnterData and ExitData have no
// default: a type that embeds Base without providing them does not satisfy
// Plugin.
type Plugin interface {
	// Name identifies the plugin inside one composition. Hooks address their
	// target by name, so names must be unique per spec list.
	Name() string
	// Init prepares the plugin for the external data. It may block on I/O.
	Init(ctx context.Context, data any) error
	// EditSchema describes the plugin's fields for the given form snapshot.
	// It must be a pure function of the snapshot.
	EditSchema(snapshot any) EditResult
	// EnterData maps the external representation into form data.
	EnterData(data any) (map[string]any, error)
	// ExitData maps form data back into the external representation.
	ExitData(formData map[string]any) (map[string]any, error)
	// Hooks lists the hooks this plugin applies to other plugins.
	Hooks() []Hook
}

// Watcher is implemented by plugins whose schema depends on specific form
// fields, so hosts know which value changes require a recompute.
type Watcher interface {
	WatchFields() []string
}

// Cloner lets a plugin control how it is copied for a resolution pass. Plugins
// holding maps or slices they mutate in Init should implement it.
type Cloner interface {
	ClonePlugin() Plugin
}

// WatchFields returns the watched fields of p, unwrapping composed plugins.
func WatchFields(p Plugin) []string {
	if c, ok := p.(*Composed); ok {
		p = c.Unwrap()
	}
	if w, ok := p.(Watcher); ok {
		return w.WatchFields()
	}
	return nil
}

// Base carries the name and hook list and supplies the optional lifecycle
// defaults: Init is a no-op and EditSchema returns Unset. Embed it and add
// EnterData/ExitData to satisfy Plugin.
type Base struct {
	name  string
	hooks []Hook
}

// NewBase returns a Base with the given plugin name.
func NewBase(name string) Base {
	return Base{name: name}
}

func (b Base) Name() string {
	if b.name == "" {
		return "Plugin"
	}
	return b.name
}

func (b Base) Init(context.Context, any) error { return nil }

func (b Base) EditSchema(any) EditResult { return Unset() }

// Hooks returns a copy of the registered hooks.
func (b Base) Hooks() []Hook {
	if len(b.hooks) == 0 {
		return nil
	}
	return append([]Hook(nil), b.hooks...)
}

// RegisterHook appends a hook targeting the plugin called target.
func (b *Base) RegisterHook(target string, hook Hook) {
	hook.Target = target
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], hook)
}

// OnAfterInit registers an AfterInit hook on target.
func (b *Base) OnAfterInit(target string, fn AfterInitFunc) {
	b.RegisterHook(target, Hook{AfterInit: fn})
}

// OnAfterEditSchema registers an AfterEditSchema hook on target.
func (b *Base) OnAfterEditSchema(target string, fn AfterEditSchemaFunc) {
	b.RegisterHook(target, Hook{AfterEditSchema: fn})
}

// Unimplemented provides EnterData and ExitData that fail with a
// ContractError. Embed it next to Base in plugins that only contribute hooks
// or schema and want misuse reported at call time.
type Unimplemented struct {
	PluginName string
}

func (u Unimplemented) EnterData(any) (map[string]any, error) {
	return nil, &ContractError{Plugin: u.PluginName, Method: "EnterData"}
}

func (u Unimplemented) ExitData(map[string]any) (map[string]any, error) {
	return nil, &ContractError{Plugin: u.PluginName, Method: "ExitData"}
}

// As unwraps composed plugins and reports whether p is a T.
func As[T Plugin](p Plugin) (T, bool) {
	if c, ok := p.(*Composed); ok {
		p = c.Unwrap()
	}
	out, ok := p.(T)
	return out, ok
}
