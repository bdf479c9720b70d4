package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalogform/pkg/aggregator"
	"github.com/goliatone/go-catalogform/pkg/config"
	"github.com/goliatone/go-catalogform/pkg/metrics"
	"github.com/goliatone/go-catalogform/pkg/openapi"
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
	"github.com/goliatone/go-catalogform/pkg/validation"
	"github.com/goliatone/go-catalogform/pkg/widgets"
)

type handler struct {
	plugins  config.PluginConfig
	agg      *aggregator.Aggregator
	metrics  *metrics.Collector
	logger   zerolog.Logger
	maxBytes int64
}

func newHandler(cfg Config) *handler {
	agg := cfg.Aggregator
	if agg == nil {
		agg = aggregator.New(aggregator.WithLogger(cfg.Logger), aggregator.WithMetrics(cfg.Metrics))
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	return &handler{
		plugins:  cfg.Plugins,
		agg:      agg,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		maxBytes: maxBytes,
	}
}

// formRequest carries the catalog document a form was opened for and the
// current form values.
type formRequest struct {
	Source   any            `json:"source"`
	FormData map[string]any `json:"formData"`
}

type formResponse struct {
	PassID   string         `json:"passId"`
	Plugins  []string       `json:"plugins"`
	FormData map[string]any `json:"formData"`
	Schema   *schema.Field  `json:"schema"`
	Watch    []string       `json:"watch,omitempty"`
}

type validateResponse struct {
	Valid  bool                 `json:"valid"`
	Data   map[string]any       `json:"data,omitempty"`
	Errors validation.ErrorTree `json:"errors,omitempty"`
	Issues []validation.Issue   `json:"issues,omitempty"`
}

type renderResponse struct {
	HTML     string   `json:"html"`
	Failures []string `json:"failures,omitempty"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) form(w http.ResponseWriter, r *http.Request) {
	var source any
	if err := h.decode(w, r, &source); err != nil {
		writeError(w, err)
		return
	}
	state, err := h.compose(r, source)
	if err != nil {
		writeError(w, err)
		return
	}
	root, err := state.Schema(state.FormData)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, formResponse{
		PassID:   state.PassID,
		Plugins:  pluginNames(state.Plugins),
		FormData: state.FormData,
		Schema:   root,
		Watch:    state.WatchFields(),
	})
}

func (h *handler) validate(w http.ResponseWriter, r *http.Request) {
	var req formRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	state, err := h.compose(r, req.Source)
	if err != nil {
		writeError(w, err)
		return
	}
	formData := req.FormData
	if formData == nil {
		formData = state.FormData
	}

	result, err := validation.Validate(state.Plugins, formData, validation.WithMetrics(h.metrics))
	if err != nil {
		writeError(w, err)
		return
	}
	if !result.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, validateResponse{
			Errors: result.Errors,
			Issues: result.Errors.Issues(),
		})
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: true, Data: result.Data})
}

func (h *handler) out(w http.ResponseWriter, r *http.Request) {
	var req formRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.FormData == nil {
		writeError(w, StatusError{Code: http.StatusBadRequest, Err: errors.New("httpapi: formData is required")})
		return
	}
	state, err := h.compose(r, req.Source)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := state.ToOutData(req.FormData)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (h *handler) schema(w http.ResponseWriter, r *http.Request) {
	var source any
	if r.Method == http.MethodPost {
		if err := h.decode(w, r, &source); err != nil {
			writeError(w, err)
			return
		}
	}
	state, err := h.compose(r, source)
	if err != nil {
		writeError(w, err)
		return
	}
	root, err := state.Schema(state.FormData)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "openapi" {
		exported, err := openapi.Schema(root)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, exported)
		return
	}
	writeJSON(w, http.StatusOK, root)
}

func (h *handler) render(w http.ResponseWriter, r *http.Request) {
	var source any
	if err := h.decode(w, r, &source); err != nil {
		writeError(w, err)
		return
	}
	state, err := h.compose(r, source)
	if err != nil {
		writeError(w, err)
		return
	}
	root, err := state.Schema(state.FormData)
	if err != nil {
		writeError(w, err)
		return
	}

	engine := widgets.NewEngine(h.plugins.Widgets, widgets.WithLogger(h.logger), widgets.WithMetrics(h.metrics))
	result := engine.RenderTree(r.Context(), root, "")
	resp := renderResponse{HTML: string(result.Output)}
	for _, failure := range result.Failures {
		resp.Failures = append(resp.Failures, failure.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) openAPI(w http.ResponseWriter, r *http.Request) {
	state, err := h.compose(r, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	root, err := state.Schema(state.FormData)
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := openapi.Document(r.Context(), "Catalog form", "1.0.0", root)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *handler) compose(r *http.Request, source any) (*aggregator.State, error) {
	specs := aggregator.CollectionPlugins(h.plugins)
	switch level := r.URL.Query().Get("level"); level {
	case "", "collection":
	case "item":
		specs = aggregator.ItemPlugins(h.plugins)
	default:
		return nil, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("httpapi: unknown level %q", level)}
	}
	return h.agg.Compose(r.Context(), specs, source)
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, h.maxBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return StatusError{Code: http.StatusBadRequest, Err: errors.New("httpapi: request body is empty")}
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("httpapi: decode body: %w", err)}
	}
	return nil
}

func pluginNames(plugins []plugin.Plugin) []string {
	names := make([]string, 0, len(plugins))
	for _, p := range plugins {
		names = append(names, p.Name())
	}
	return names
}
