package config

import (
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/widgets"
)

// PluginConfig carries the collection-level and item-level plugin spec lists
// plus the widget render table.
type PluginConfig struct {
	CollectionPlugins []plugin.Spec
	ItemPlugins       []plugin.Spec
	Widgets           widgets.Table
}

// Extend combines configurations left to right: plugin lists are
// concatenated and widget tables merged with later keys winning. Inputs are
// not modified.
func Extend(configs ...PluginConfig) PluginConfig {
	var out PluginConfig
	for _, cfg := range configs {
		out.CollectionPlugins = append(out.CollectionPlugins, cfg.CollectionPlugins...)
		out.ItemPlugins = append(out.ItemPlugins, cfg.ItemPlugins...)
		if len(cfg.Widgets) == 0 {
			continue
		}
		out.Widgets = out.Widgets.Merge(cfg.Widgets)
	}
	return out
}
