package widgets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalogform/pkg/metrics"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

// Node is what a renderer receives: the field's JSON pointer inside the form
// data, the field itself and whether its parent requires it.
type Node struct {
	Pointer  string
	Field    *schema.Field
	Required bool
}

// Renderer produces the output for one node. Its contents are opaque to the
// engine.
type Renderer func(ctx context.Context, node Node) ([]byte, error)

// Table maps widget keys to renderers.
type Table map[string]Renderer

// Keys returns the widget keys in lexical order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new table holding t overlaid with other. Keys in other
// replace keys in t.
func (t Table) Merge(other Table) Table {
	out := make(Table, len(t)+len(other))
	for key, renderer := range t {
		out[key] = renderer
	}
	for key, renderer := range other {
		out[key] = renderer
	}
	return out
}

// Option customises an Engine.
type Option func(*Engine)

// WithRegistry overrides the dispatch registry.
func WithRegistry(registry *Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithLogger logs isolated node failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics counts isolated node failures.
func WithMetrics(collector *metrics.Collector) Option {
	return func(e *Engine) {
		e.metrics = collector
	}
}

// Engine dispatches nodes to a render table, isolating failures per node.
type Engine struct {
	table    Table
	registry *Registry
	logger   zerolog.Logger
	metrics  *metrics.Collector
}

// NewEngine builds an engine over table.
func NewEngine(table Table, options ...Option) *Engine {
	e := &Engine{
		table:    table,
		registry: defaultRegistry,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Render dispatches node and runs its renderer. A missing key or a failing
// renderer yields a placeholder together with a *MissingWidgetError or
// *RenderError; the output is always usable.
func (e *Engine) Render(ctx context.Context, node Node) ([]byte, error) {
	key := e.registry.Dispatch(node.Field)
	renderer, ok := e.table[key]
	if !ok || renderer == nil {
		err := &MissingWidgetError{Pointer: node.Pointer, Widget: key}
		e.metrics.ObserveRenderFailure(metrics.KindMissingWidget)
		e.logger.Debug().Str("pointer", node.Pointer).Str("widget", key).Msg("widget not registered")
		return Placeholder(node.Pointer, err.Error()), err
	}

	out, err := call(context.WithValue(ctx, engineKey{}, e), renderer, node)
	if err != nil {
		renderErr := &RenderError{Pointer: node.Pointer, Widget: key}
		var panicked *panicError
		if errors.As(err, &panicked) {
			renderErr.Panic = panicked.value
		} else {
			renderErr.Err = err
		}
		e.metrics.ObserveRenderFailure(metrics.KindRenderError)
		e.logger.Warn().Err(renderErr).Str("pointer", node.Pointer).Msg("widget render failed")
		return Placeholder(node.Pointer, renderErr.Error()), renderErr
	}
	return out, nil
}

// TreeResult is the outcome of RenderTree.
type TreeResult struct {
	Output   []byte
	Failures []error
}

// RenderTree renders every property of an object field in declaration order,
// each inside its own isolation boundary. Non-object fields render as a
// single node. Renderers of nested objects call RenderTree for their
// children; failures of those nested calls are reported by the outermost
// RenderTree as well, in render order.
func (e *Engine) RenderTree(ctx context.Context, field *schema.Field, pointer string) TreeResult {
	sink, ok := ctx.Value(failureSinkKey{}).(*failureSink)
	if !ok {
		sink = &failureSink{}
		ctx = context.WithValue(ctx, failureSinkKey{}, sink)
	}
	start := sink.len()

	var buf bytes.Buffer
	if !field.IsObject() {
		out, err := e.Render(ctx, Node{Pointer: pointer, Field: field})
		buf.Write(out)
		sink.add(err)
		return TreeResult{Output: buf.Bytes(), Failures: sink.since(start)}
	}

	for _, name := range field.PropertyNames() {
		node := Node{
			Pointer:  schema.JoinPointer(pointer, name),
			Field:    field.Properties[name],
			Required: field.IsRequired(name),
		}
		out, err := e.Render(ctx, node)
		buf.Write(out)
		sink.add(err)
	}
	return TreeResult{Output: buf.Bytes(), Failures: sink.since(start)}
}

type failureSinkKey struct{}

// failureSink collects node failures across nested RenderTree calls.
type failureSink struct {
	mu   sync.Mutex
	errs []error
}

func (s *failureSink) add(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func (s *failureSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errs)
}

func (s *failureSink) since(start int) []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) == start {
		return nil
	}
	return append([]error(nil), s.errs[start:]...)
}

// Render dispatches node against table with the built-in registry.
func Render(ctx context.Context, table Table, node Node) ([]byte, error) {
	return NewEngine(table).Render(ctx, node)
}

// RenderTree renders the properties of field against table with the
// built-in registry.
func RenderTree(ctx context.Context, table Table, field *schema.Field, pointer string) TreeResult {
	return NewEngine(table).RenderTree(ctx, field, pointer)
}

type engineKey struct{}

// FromContext returns the engine running the current renderer so object
// renderers can render their children through the same table.
func FromContext(ctx context.Context) (*Engine, bool) {
	e, ok := ctx.Value(engineKey{}).(*Engine)
	return e, ok
}

type panicError struct {
	value any
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

func call(ctx context.Context, renderer Renderer, node Node) (out []byte, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			out = nil
			err = &panicError{value: recovered}
		}
	}()
	return renderer(ctx, node)
}

var (
	placeholderPolicyOnce sync.Once
	placeholderPolicy     *bluemonday.Policy
)

// Placeholder returns the inline markup shown in place of a failed node.
// Pointer and message are escaped and the result is passed through a strict
// sanitizer.
func Placeholder(pointer, message string) []byte {
	raw := fmt.Sprintf(
		`<div class="catalogform-widget-error" data-pointer="%s" role="alert">%s</div>`,
		html.EscapeString(pointerOrRoot(pointer)),
		html.EscapeString(strings.TrimSpace(message)),
	)
	return placeholderSanitizer().SanitizeBytes([]byte(raw))
}

func placeholderSanitizer() *bluemonday.Policy {
	placeholderPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("div")
		policy.AllowAttrs("class", "role").OnElements("div")
		policy.AllowDataAttributes()
		placeholderPolicy = policy
	})
	return placeholderPolicy
}
