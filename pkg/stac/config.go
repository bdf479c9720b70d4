package stac

import (
	"github.com/goliatone/go-catalogform/pkg/config"
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/renderers/vanilla"
)

// Extension names accepted by CollectionPlugins.
const (
	ExtensionItemAssets = "item-assets"
	ExtensionRender     = "render"
)

// CollectionPlugins returns fresh collection plugin specs: the core plugin
// followed by the enabled extensions. A nil list enables every extension.
func CollectionPlugins(extensions []string) []plugin.Spec {
	enabled := func(name string) bool {
		if extensions == nil {
			return true
		}
		for _, candidate := range extensions {
			if candidate == name {
				return true
			}
		}
		return false
	}

	specs := []plugin.Spec{NewCore()}
	if enabled(ExtensionItemAssets) {
		specs = append(specs, NewItemAssets())
	}
	if enabled(ExtensionRender) {
		specs = append(specs, NewRender())
	}
	return specs
}

// DefaultConfig is the editor's out of the box configuration: every
// collection plugin, no item plugins and the vanilla widget table.
func DefaultConfig() config.PluginConfig {
	return config.Extend(
		config.PluginConfig{Widgets: vanilla.Default()},
		config.PluginConfig{CollectionPlugins: CollectionPlugins(nil)},
	)
}
