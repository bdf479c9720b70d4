package plugin

import "context"

// Composed is the per-pass copy of a plugin with its effective Init and
// EditSchema materialised from the hooks that target it.
type Composed struct {
	base       Plugin
	init       func(ctx context.Context, data any) error
	editSchema func(snapshot any) EditResult
}

func (c *Composed) Name() string  { return c.base.Name() }
func (c *Composed) Hooks() []Hook { return c.base.Hooks() }

func (c *Composed) Init(ctx context.Context, data any) error {
	return c.init(ctx, data)
}

func (c *Composed) EditSchema(snapshot any) EditResult {
	return c.editSchema(snapshot)
}

func (c *Composed) EnterData(data any) (map[string]any, error) {
	return c.base.EnterData(data)
}

func (c *Composed) ExitData(formData map[string]any) (map[string]any, error) {
	return c.base.ExitData(formData)
}

// Unwrap returns the copied plugin the composition was built from.
func (c *Composed) Unwrap() Plugin {
	return c.base
}

// SkippedHook records a hook whose target is not part of the composition.
type SkippedHook struct {
	Source string
	Target string
}

// Composition is the outcome of one hook composition pass.
type Composition struct {
	Plugins []Plugin
	Skipped []SkippedHook
}

// ApplyHooks copies plugins and wires every hook into its target's copy. The
// input plugins are never modified. Hooks naming an unknown target are
// skipped.
func ApplyHooks(plugins []Plugin) []Plugin {
	return Compose(plugins).Plugins
}

// Compose is ApplyHooks that also reports the skipped hooks.
//
// Hooks on the same target compose in the order their source plugins appear:
// each wraps the previously wrapped method, so the first source's AfterInit
// runs first and the last source's AfterEditSchema sees every earlier change.
func Compose(plugins []Plugin) Composition {
	composed := make([]*Composed, 0, len(plugins))
	byName := make(map[string]*Composed, len(plugins))

	for _, p := range plugins {
		if isNil(p) {
			continue
		}
		base := copyPlugin(p)
		c := &Composed{
			base:       base,
			init:       base.Init,
			editSchema: base.EditSchema,
		}
		composed = append(composed, c)
		if _, exists := byName[base.Name()]; !exists {
			byName[base.Name()] = c
		}
	}

	var skipped []SkippedHook
	for _, source := range composed {
		for _, hook := range source.Hooks() {
			target, ok := byName[hook.Target]
			if !ok {
				skipped = append(skipped, SkippedHook{Source: source.Name(), Target: hook.Target})
				continue
			}
			if hook.AfterInit != nil {
				target.init = wrapInit(target, target.init, hook.AfterInit)
			}
			if hook.AfterEditSchema != nil {
				target.editSchema = wrapEditSchema(target, target.editSchema, hook.AfterEditSchema)
			}
		}
	}

	out := make([]Plugin, len(composed))
	for idx, c := range composed {
		out[idx] = c
	}
	return Composition{Plugins: out, Skipped: skipped}
}

func wrapInit(target *Composed, next func(context.Context, any) error, hook AfterInitFunc) func(context.Context, any) error {
	return func(ctx context.Context, data any) error {
		if err := next(ctx, data); err != nil {
			return err
		}
		return hook(ctx, target, data)
	}
}

func wrapEditSchema(target *Composed, next func(any) EditResult, hook AfterEditSchemaFunc) func(any) EditResult {
	return func(snapshot any) EditResult {
		return hook(target, snapshot, next(snapshot))
	}
}
