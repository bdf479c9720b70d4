package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-catalogform/internal/watch"
	"github.com/goliatone/go-catalogform/pkg/aggregator"
	"github.com/goliatone/go-catalogform/pkg/source"
	"github.com/goliatone/go-catalogform/pkg/validation"
)

var watchCmd = &cobra.Command{
	Use:   "watch <document>",
	Short: "Recompose the form whenever a document file changes",
	Long: `Watch a catalog document on disk. Every save starts a new composition pass;
passes overtaken by a newer save are discarded. Each published pass is
logged together with the number of validation issues in its seeded data.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("level", "collection", "plugin list to compose: collection or item")
	watchCmd.Flags().Duration("debounce", 250*time.Millisecond, "quiet period before a change is processed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	cfg, err := pluginConfig(settings)
	if err != nil {
		return err
	}
	level, _ := cmd.Flags().GetString("level")
	specs, err := specsFor(cfg, level)
	if err != nil {
		return err
	}

	watchCfg := watch.DefaultConfig(path)
	watchCfg.Debounce, _ = cmd.Flags().GetDuration("debounce")
	watchCfg.Logger = logger
	watcher, err := watch.New(watchCfg)
	if err != nil {
		return err
	}
	changes, err := watcher.Start()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()

	controller := aggregator.NewController(newAggregator(nil))
	defer controller.Close()

	loader := source.NewLoader()
	refresh := func() {
		doc, err := loader.Load(ctx, source.FromFile(path))
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("document not loaded")
			return
		}
		controller.Update(ctx, specs, doc)
	}

	published := make(chan struct{}, 1)
	refresh()
	go reportPasses(ctx, controller, published)
	logger.Info().Str("path", path).Msg("watching document")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			refresh()
			select {
			case published <- struct{}{}:
			default:
			}
		}
	}
}

// reportPasses logs the outcome of the newest epoch each time it publishes.
func reportPasses(ctx context.Context, controller *aggregator.Controller, wake <-chan struct{}) {
	var last uint64
	for {
		state, err := controller.Wait(ctx)
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return
		}
		// epoch 0 means no document has been loaded yet
		if epoch := state.Epoch; epoch != 0 && epoch != last {
			last = epoch
			logPass(epoch, state, err)
		}
		select {
		case <-ctx.Done():
			return
		case <-wake:
		}
	}
}

func logPass(epoch uint64, state *aggregator.State, err error) {
	if err != nil {
		logger.Error().Err(err).Uint64("epoch", epoch).Msg("composition failed")
		return
	}
	issues := 0
	if result, verr := validation.Validate(state.Plugins, state.FormData); verr == nil {
		issues = result.Errors.Len()
	} else {
		logger.Error().Err(verr).Msg("validator compilation failed")
	}
	logger.Info().
		Uint64("epoch", epoch).
		Str("pass_id", state.PassID).
		Strs("plugins", pluginNames(state.Plugins)).
		Strs("watch", state.WatchFields()).
		Int("issues", issues).
		Msg("form ready")
}
