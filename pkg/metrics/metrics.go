// Package metrics provides Prometheus metrics for plugin composition,
// validation and widget rendering.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalogform"

// Collector holds the Prometheus metrics of the engine. A nil *Collector is
// valid and records nothing.
type Collector struct {
	// Composition metrics
	PassesTotal     *prometheus.CounterVec
	PassDuration    prometheus.Histogram
	PluginsResolved prometheus.Gauge
	HooksSkipped    prometheus.Counter
	StalePasses     prometheus.Counter

	// Validation metrics
	ValidationsTotal *prometheus.CounterVec
	ValidationErrors prometheus.Counter

	// Widget metrics
	RenderFailures *prometheus.CounterVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates a collector registered with the default Prometheus registerer.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector registered with reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		PassesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "composition_passes_total",
				Help:      "Total number of plugin composition passes by outcome",
			},
			[]string{"outcome"},
		),
		PassDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "composition_pass_duration_seconds",
				Help:      "Duration of resolve, compose, init, skeleton and seed",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		PluginsResolved: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "plugins_resolved",
				Help:      "Number of plugins in the most recent composition pass",
			},
		),
		HooksSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hooks_skipped_total",
				Help:      "Total number of hooks whose target was not in the composition",
			},
		),
		StalePasses: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_passes_total",
				Help:      "Total number of passes discarded because a newer pass started",
			},
		),
		ValidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of validations by outcome",
			},
			[]string{"outcome"},
		),
		ValidationErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of field level validation messages",
			},
		),
		RenderFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "widget_render_failures_total",
				Help:      "Total number of isolated widget failures by kind",
			},
			[]string{"kind"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"route"},
		),
	}
}

// ObservePass records a finished composition pass.
func (c *Collector) ObservePass(outcome string, plugins, skippedHooks int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.PassesTotal.WithLabelValues(outcome).Inc()
	c.PassDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		c.PluginsResolved.Set(float64(plugins))
	}
	if skippedHooks > 0 {
		c.HooksSkipped.Add(float64(skippedHooks))
	}
}

// ObserveStale records a pass dropped by the epoch guard.
func (c *Collector) ObserveStale() {
	if c == nil {
		return
	}
	c.StalePasses.Inc()
}

// ObserveValidation records one validator run and the number of messages it
// produced.
func (c *Collector) ObserveValidation(messages int) {
	if c == nil {
		return
	}
	if messages == 0 {
		c.ValidationsTotal.WithLabelValues(OutcomeOK).Inc()
		return
	}
	c.ValidationsTotal.WithLabelValues(OutcomeInvalid).Inc()
	c.ValidationErrors.Add(float64(messages))
}

// ObserveRenderFailure records an isolated widget failure.
func (c *Collector) ObserveRenderFailure(kind string) {
	if c == nil {
		return
	}
	c.RenderFailures.WithLabelValues(kind).Inc()
}

// ObserveRequest records a served HTTP request.
func (c *Collector) ObserveRequest(route, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.RequestsTotal.WithLabelValues(route, status).Inc()
	c.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeInvalid = "invalid"
)

// Render failure kinds.
const (
	KindMissingWidget = "missing_widget"
	KindRenderError   = "render_error"
)
