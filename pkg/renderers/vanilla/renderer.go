package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-catalogform/pkg/schema"
	"github.com/goliatone/go-catalogform/pkg/widgets"
)

// Keys lists the widget keys the embedded templates cover.
var Keys = []string{
	widgets.WidgetObject,
	widgets.WidgetText,
	widgets.WidgetNumber,
	widgets.WidgetRadio,
	widgets.WidgetCheckbox,
	widgets.WidgetSelect,
	widgets.WidgetArray,
	widgets.WidgetArrayString,
	widgets.WidgetJSON,
	widgets.WidgetTagger,
}

type Option func(*config)

type config struct {
	templateFS fs.FS
	extension  string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithExtension overrides the template file extension (".tpl").
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// Renderer turns widget nodes into plain HTML using pongo2 templates.
type Renderer struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	extension string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), extension: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		return nil, errors.New("vanilla renderer: template FS is nil")
	}

	return &Renderer{
		set:       pongo2.NewSet("catalogform-vanilla", pongo2.NewFSLoader(cfg.templateFS)),
		templates: make(map[string]*pongo2.Template),
		extension: cfg.extension,
	}, nil
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
)

// Default returns the render table backed by the embedded templates.
func Default() widgets.Table {
	defaultOnce.Do(func() {
		r, err := New()
		if err != nil {
			panic(err)
		}
		defaultRenderer = r
	})
	return defaultRenderer.Table()
}

// Table returns one renderer per key in Keys.
func (r *Renderer) Table() widgets.Table {
	table := make(widgets.Table, len(Keys))
	for _, key := range Keys {
		table[key] = r.Widget(key)
	}
	return table
}

// Widget returns a renderer executing the template for key. Object and array
// widgets render their children through the engine found in ctx.
func (r *Renderer) Widget(key string) widgets.Renderer {
	return func(ctx context.Context, node widgets.Node) ([]byte, error) {
		data, err := nodeContext(ctx, key, node)
		if err != nil {
			return nil, err
		}
		tmpl, err := r.template(key)
		if err != nil {
			return nil, err
		}
		out, err := tmpl.ExecuteBytes(data)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: execute %q: %w", key, err)
		}
		return out, nil
	}
}

func (r *Renderer) template(key string) (*pongo2.Template, error) {
	name := templateName(key) + r.extension

	r.mu.RLock()
	if tmpl, ok := r.templates[name]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: load template %q: %w", name, err)
	}
	r.templates[name] = tmpl
	return tmpl, nil
}

func templateName(key string) string {
	return strings.ReplaceAll(key, ":", "-")
}

func nodeContext(ctx context.Context, key string, node widgets.Node) (pongo2.Context, error) {
	field := node.Field
	if field == nil {
		field = schema.String("")
	}

	data := pongo2.Context{
		"widget":   key,
		"pointer":  node.Pointer,
		"id":       controlID(node.Pointer),
		"label":    field.Label.String(),
		"labels":   []string(field.Label),
		"required": node.Required,
		"options":  optionList(field),
	}
	if field.AllowOther != nil {
		data["allow_other"] = field.AllowOther.Type
	}

	switch {
	case field.IsObject():
		children, err := renderChildren(ctx, field, node.Pointer)
		if err != nil {
			return nil, err
		}
		data["children"] = children
	case field.Type == schema.TypeArray && field.Items != nil:
		data["min_items"] = field.MinItems
		if field.MaxItems != nil {
			data["max_items"] = *field.MaxItems
		}
		data["options"] = optionList(field.Items)
		if key == widgets.WidgetArray {
			item, err := renderChildren(ctx, field.Items, node.Pointer+"/0")
			if err != nil {
				return nil, err
			}
			data["item"] = item
		}
	}
	return data, nil
}

// renderChildren renders field through the engine running the current
// renderer. Failed children render as placeholders and are reported by the
// outermost RenderTree.
func renderChildren(ctx context.Context, field *schema.Field, pointer string) (string, error) {
	engine, ok := widgets.FromContext(ctx)
	if !ok {
		return "", errors.New("vanilla renderer: no widget engine in context")
	}
	return string(engine.RenderTree(ctx, field, pointer).Output), nil
}

func optionList(field *schema.Field) []map[string]string {
	if field == nil || len(field.Enum) == 0 {
		return nil
	}
	out := make([]map[string]string, 0, len(field.Enum))
	for _, option := range field.Enum {
		out = append(out, map[string]string{"key": option.Key, "label": option.Label})
	}
	return out
}

func controlID(pointer string) string {
	trimmed := strings.Trim(pointer, "/")
	if trimmed == "" {
		return "cf-root"
	}
	replacer := strings.NewReplacer("/", "-", "~1", "_", "~0", "_", " ", "_")
	return "cf-" + replacer.Replace(trimmed)
}
