package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalogform/pkg/aggregator"
	"github.com/goliatone/go-catalogform/pkg/config"
	"github.com/goliatone/go-catalogform/pkg/metrics"
)

const defaultMaxBodyBytes = 4 << 20

// Config wires the router to the engine.
type Config struct {
	Plugins        config.PluginConfig
	Aggregator     *aggregator.Aggregator
	Metrics        *metrics.Collector
	MetricsHandler http.Handler // served at /metrics when set
	Logger         zerolog.Logger
	MaxBodyBytes   int64
	Timeout        time.Duration
}

// NewRouter builds the HTTP surface:
//
//	GET  /health
//	POST /form          compose a form for a catalog document
//	POST /validate      validate form data
//	POST /out           convert form data back into a catalog document
//	GET  /schema        composed schema for a new document
//	POST /schema        composed schema for a catalog document
//	POST /render        HTML form for a catalog document
//	GET  /openapi.json  OpenAPI document for a new document
//	GET  /metrics
//
// Every endpoint accepts ?level=item to use the item plugin list instead of
// the collection list.
func NewRouter(cfg Config) chi.Router {
	h := newHandler(cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newLoggingMiddleware(h.logger))
	r.Use(middleware.Recoverer)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}
	if cfg.Metrics != nil {
		r.Use(newMetricsMiddleware(cfg.Metrics))
	}

	r.Get("/health", h.health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Post("/form", h.form)
	r.Post("/validate", h.validate)
	r.Post("/out", h.out)
	r.Get("/schema", h.schema)
	r.Post("/schema", h.schema)
	r.Post("/render", h.render)
	r.Get("/openapi.json", h.openAPI)

	return r
}

func newLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}

func newMetricsMiddleware(m *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = r.Method + " " + pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(route, strconv.Itoa(status), time.Since(start))
		})
	}
}
