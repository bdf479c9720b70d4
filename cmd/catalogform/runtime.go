package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-catalogform/pkg/aggregator"
	"github.com/goliatone/go-catalogform/pkg/config"
	"github.com/goliatone/go-catalogform/pkg/metrics"
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/renderers/vanilla"
	"github.com/goliatone/go-catalogform/pkg/source"
	"github.com/goliatone/go-catalogform/pkg/stac"
)

const fetchTimeout = 30 * time.Second

// pluginConfig builds the editor configuration from settings: the STAC
// collection plugins with the enabled extensions, declarative plugins from
// plugins.dir and the vanilla widget table.
func pluginConfig(s config.Settings) (config.PluginConfig, error) {
	extensions := make([]string, 0, len(s.Plugins.Extensions))
	for _, ext := range s.Plugins.Extensions {
		extensions = append(extensions, strings.ToLower(strings.TrimSpace(ext)))
	}

	cfg := config.PluginConfig{
		CollectionPlugins: stac.CollectionPlugins(extensions),
		Widgets:           vanilla.Default(),
	}

	if dir := strings.TrimSpace(s.Plugins.Dir); dir != "" {
		declared, err := config.LoadDeclarative(os.DirFS(dir))
		if err != nil {
			return config.PluginConfig{}, err
		}
		cfg = config.Extend(cfg, config.PluginConfig{CollectionPlugins: config.Specs(declared)})
		logger.Debug().Str("dir", dir).Int("plugins", len(declared)).Msg("declarative plugins loaded")
	}
	return cfg, nil
}

func specsFor(cfg config.PluginConfig, level string) ([]plugin.Spec, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "collection":
		return aggregator.CollectionPlugins(cfg), nil
	case "item":
		return aggregator.ItemPlugins(cfg), nil
	default:
		return nil, fmt.Errorf("unknown level %q (want collection or item)", level)
	}
}

func newAggregator(collector *metrics.Collector) *aggregator.Aggregator {
	options := []aggregator.Option{aggregator.WithLogger(logger), aggregator.WithMetrics(collector)}
	if tracer != nil {
		options = append(options, aggregator.WithTracer(tracer.Tracer()))
	}
	return aggregator.New(options...)
}

// loadDocument reads a catalog document named on the command line. An empty
// argument means a new document.
func loadDocument(ctx context.Context, cmd *cobra.Command, arg string) (any, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, nil
	}
	src, err := source.Parse(arg, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return source.NewLoader(source.WithHTTP(fetchTimeout)).Load(ctx, src)
}

// loadFormData reads the --form-data document, which must be an object.
func loadFormData(ctx context.Context, cmd *cobra.Command, arg string) (map[string]any, error) {
	doc, err := loadDocument(ctx, cmd, arg)
	if err != nil || doc == nil {
		return nil, err
	}
	formData, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("form data in %s must be an object", arg)
	}
	return formData, nil
}

// composeFor runs one aggregator pass for the document named by args[0], if
// any, using the command's --level flag.
func composeFor(cmd *cobra.Command, args []string) (*aggregator.State, config.PluginConfig, error) {
	ctx := cmd.Context()

	cfg, err := pluginConfig(settings)
	if err != nil {
		return nil, cfg, err
	}
	level, _ := cmd.Flags().GetString("level")
	specs, err := specsFor(cfg, level)
	if err != nil {
		return nil, cfg, err
	}

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	doc, err := loadDocument(ctx, cmd, arg)
	if err != nil {
		return nil, cfg, err
	}

	state, err := newAggregator(nil).Compose(ctx, specs, doc)
	if err != nil {
		return nil, cfg, err
	}
	return state, cfg, nil
}

func writeJSON(out io.Writer, payload any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
