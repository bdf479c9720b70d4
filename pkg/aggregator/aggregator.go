package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-catalogform/pkg/config"
	"github.com/goliatone/go-catalogform/pkg/metrics"
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

// ErrNotReady is returned by State methods before a pass has published.
var ErrNotReady = errors.New("aggregator: plugins are not ready")

// Option customises the aggregator.
type Option func(*Aggregator)

// WithLogger sets the structured logger used for pass diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithTracer sets the tracer used for pass spans. Nil keeps the noop tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Aggregator) {
		if tracer != nil {
			a.tracer = tracer
		}
	}
}

// WithMetrics records pass outcomes on the collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(a *Aggregator) {
		a.metrics = collector
	}
}

// Aggregator runs composition passes: resolve, apply hooks, init, build the
// skeleton and seed it with the external data.
type Aggregator struct {
	logger  zerolog.Logger
	tracer  trace.Tracer
	metrics *metrics.Collector
}

// New constructs an Aggregator applying the provided options.
func New(options ...Option) *Aggregator {
	a := &Aggregator{
		logger: zerolog.Nop(),
		tracer: noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a
}

// Compose executes one full pass for specs and data. The returned state is
// ready; on error no state is returned.
func (a *Aggregator) Compose(ctx context.Context, specs []plugin.Spec, data any) (*State, error) {
	if ctx == nil {
		return nil, errors.New("aggregator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passID := uuid.NewString()
	started := time.Now()
	logger := a.logger.With().Str("pass_id", passID).Logger()

	ctx, span := a.tracer.Start(ctx, "aggregator.compose",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("catalogform.pass_id", passID)),
	)
	defer span.End()

	composition := plugin.Compose(plugin.Resolve(specs, data))
	plugins := composition.Plugins
	for _, skipped := range composition.Skipped {
		logger.Debug().
			Str("source", skipped.Source).
			Str("target", skipped.Target).
			Msg("hook target not in composition, skipped")
	}
	span.SetAttributes(
		attribute.Int("catalogform.plugins", len(plugins)),
		attribute.Int("catalogform.hooks_skipped", len(composition.Skipped)),
	)
	logger.Debug().Int("plugins", len(plugins)).Msg("composition pass started")

	state, err := a.run(ctx, logger, plugins, data)
	elapsed := time.Since(started)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.metrics.ObservePass(metrics.OutcomeError, len(plugins), len(composition.Skipped), elapsed)
		logger.Warn().Err(err).Dur("elapsed", elapsed).Msg("composition pass failed")
		return nil, err
	}

	state.PassID = passID
	span.SetStatus(codes.Ok, "")
	a.metrics.ObservePass(metrics.OutcomeOK, len(plugins), len(composition.Skipped), elapsed)
	logger.Info().
		Int("plugins", len(plugins)).
		Int("form_keys", len(state.FormData)).
		Dur("elapsed", elapsed).
		Msg("composition pass ready")
	return state, nil
}

func (a *Aggregator) run(ctx context.Context, logger zerolog.Logger, plugins []plugin.Plugin, data any) (*State, error) {
	if err := initAll(ctx, plugins, data); err != nil {
		return nil, err
	}

	formData, err := buildSkeleton(logger, plugins)
	if err != nil {
		return nil, err
	}

	for _, p := range plugins {
		entered, err := p.EnterData(data)
		if err != nil {
			return nil, fmt.Errorf("aggregator: enter data %s: %w", p.Name(), err)
		}
		formData = DeepDefaults(formData, entered)
	}

	return &State{
		Ready:    true,
		Plugins:  plugins,
		FormData: formData,
	}, nil
}

// initAll runs every Init concurrently and waits for all of them. The first
// failure cancels the shared context.
func initAll(ctx context.Context, plugins []plugin.Plugin, data any) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, p := range plugins {
		group.Go(func() error {
			if err := p.Init(groupCtx, data); err != nil {
				return fmt.Errorf("aggregator: init %s: %w", p.Name(), err)
			}
			return nil
		})
	}
	return group.Wait()
}

// buildSkeleton shallow-merges the skeleton of every plugin schema. A later
// plugin's top-level key replaces an earlier one.
func buildSkeleton(logger zerolog.Logger, plugins []plugin.Plugin) (map[string]any, error) {
	out := map[string]any{}
	for _, c := range plugin.Contributions(plugins, nil) {
		switch {
		case c.Result.IsHidden():
			continue
		case c.Result.IsUnset():
			logger.Debug().Str("plugin", c.Plugin.Name()).Msg("plugin has no edit schema")
			continue
		}
		field, _ := c.Result.Field()
		skeleton, err := schema.SkeletonMap(field)
		if err != nil {
			return nil, fmt.Errorf("aggregator: skeleton %s: %w", c.Plugin.Name(), err)
		}
		for key, value := range skeleton {
			if _, exists := out[key]; exists {
				logger.Debug().Str("plugin", c.Plugin.Name()).Str("key", key).Msg("skeleton key replaced")
			}
			out[key] = value
		}
	}
	return out, nil
}

// CollectionPlugins returns the collection-level spec list of cfg.
func CollectionPlugins(cfg config.PluginConfig) []plugin.Spec {
	return cfg.CollectionPlugins
}

// ItemPlugins returns the item-level spec list of cfg.
func ItemPlugins(cfg config.PluginConfig) []plugin.Spec {
	return cfg.ItemPlugins
}
