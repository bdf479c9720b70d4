// Package catalogform is the top-level entry point of the catalog form
// engine. It re-exports the pieces most callers need: the default STAC
// configuration, a composition pass, validation and HTML rendering.
//
// The packages under pkg/ can be used directly for finer control.
package catalogform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-catalogform/pkg/aggregator"
	"github.com/goliatone/go-catalogform/pkg/config"
	"github.com/goliatone/go-catalogform/pkg/renderers/vanilla"
	"github.com/goliatone/go-catalogform/pkg/source"
	"github.com/goliatone/go-catalogform/pkg/stac"
	"github.com/goliatone/go-catalogform/pkg/validation"
	"github.com/goliatone/go-catalogform/pkg/widgets"
)

// PluginConfig aliases config.PluginConfig.
type PluginConfig = config.PluginConfig

// State aliases aggregator.State.
type State = aggregator.State

// Result aliases validation.Result.
type Result = validation.Result

// DefaultConfig returns the STAC collection plugins with the vanilla widget
// table.
func DefaultConfig() PluginConfig {
	return stac.DefaultConfig()
}

// EmbeddedTemplates exposes the vanilla widget templates so callers can copy
// or override them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// NewLoader returns a catalog document loader.
func NewLoader(options ...source.Option) *source.Loader {
	return source.NewLoader(options...)
}

// Compose runs one composition pass of the collection plugins of cfg over
// data. A nil data composes the form of a new document.
func Compose(ctx context.Context, cfg PluginConfig, data any, options ...aggregator.Option) (*State, error) {
	return aggregator.New(options...).Compose(ctx, aggregator.CollectionPlugins(cfg), data)
}

// Validate checks formData against the schema composed by state.
func Validate(state *State, formData any) (Result, error) {
	if state == nil || !state.Ready {
		return Result{}, aggregator.ErrNotReady
	}
	return validation.Validate(state.Plugins, formData)
}

// RenderHTML renders the form of state through the widget table of cfg.
// Widget failures are isolated and reported in the result, never returned as
// an error.
func RenderHTML(ctx context.Context, cfg PluginConfig, state *State) (widgets.TreeResult, error) {
	if state == nil || !state.Ready {
		return widgets.TreeResult{}, aggregator.ErrNotReady
	}
	root, err := state.Schema(state.FormData)
	if err != nil {
		return widgets.TreeResult{}, err
	}
	return widgets.NewEngine(cfg.Widgets).RenderTree(ctx, root, ""), nil
}
