package stac

import (
	"context"

	"github.com/goliatone/go-catalogform/internal/values"
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

// CoreName is the name extension hooks target.
const CoreName = "CollectionsCore"

// Core edits the fields every STAC collection carries.
type Core struct {
	plugin.Base
	isNew bool
}

// NewCore returns the core collection plugin.
func NewCore() *Core {
	return &Core{Base: plugin.NewBase(CoreName)}
}

// Init marks the collection as new when the data has no id. Only new
// collections get an editable id field.
func (c *Core) Init(_ context.Context, data any) error {
	id, _ := values.Lookup(data, "id")
	c.isNew = isBlank(id)
	return nil
}

func (c *Core) EditSchema(any) plugin.EditResult {
	props := []schema.Property{}
	if prop, ok := FieldIf(c.isNew, "id", schema.String("Collection ID"), nil); ok {
		props = append(props, prop)
	}
	props = append(props,
		schema.Prop("title", schema.String("Title")),
		schema.Prop("description", schema.String("Description")),
		schema.Prop("keywords", schema.Array("Keywords", schema.String("Keyword")).WithWidget("tagger")),
		schema.Prop("license", schema.String("License").
			WithWidget("tagger").
			WithAllowOther("string").
			WithEnum(licenseOptions...)),
		schema.Prop("providers", schema.Array("Providers", schema.Object("",
			schema.Prop("name", schema.String("Name")),
			schema.Prop("roles", schema.Array("Roles", schema.String("Role").WithEnum(providerRoles...))),
			schema.Prop("url", schema.String("URL")),
		).WithRequired("name"))),
		schema.Prop("stac_extensions", schema.Array("STAC Extensions",
			schema.String("Extension").WithEnum().WithAllowOther("string"),
		)),
		schema.Prop("spatial", schema.Array("Spatial Extent",
			schema.Array("Extent", schema.Number("").WithLabels("Min Longitude", "Min Latitude", "Max Longitude", "Max Latitude")).
				WithMinItems(4).
				WithMaxItems(4),
		).WithMinItems(1)),
		schema.Prop("temporal", schema.Array("Temporal Extent",
			schema.Array("Extent", schema.String("").WithLabels("Start", "End")).
				WithMinItems(2).
				WithMaxItems(2),
		).WithMinItems(1)),
		schema.Prop("links", schema.Array("Links", schema.Object("",
			schema.Prop("href", schema.String("URL")),
			schema.Prop("rel", schema.String("Relation")),
			schema.Prop("type", schema.String("Type").WithWidget("select").WithEnum(mediaTypes...)),
			schema.Prop("title", schema.String("Title")),
		).WithRequired("rel", "href", "type")).WithMinItems(1)),
		schema.Prop("assets", schema.Array("Assets", schema.Object("",
			schema.Prop("id", schema.String("Id")),
			schema.Prop("href", schema.String("Href")),
			schema.Prop("title", schema.String("Title")),
			schema.Prop("description", schema.String("Description")),
			schema.Prop("type", schema.String("Type")),
			schema.Prop("roles", schema.Array("Roles", schema.String("Role"))),
		).WithRequired("id", "href"))),
		schema.Prop("summaries", schema.JSON("Summaries")),
	)

	return plugin.Schema(schema.Root(props...).
		WithRequired("id", "description", "license", "spatial", "temporal", "links"))
}

func (c *Core) EnterData(data any) (map[string]any, error) {
	doc, _ := values.Normalize(data).(map[string]any)

	spatial, _ := values.Lookup(doc, "extent", "spatial", "bbox")
	temporal := []any{}
	if raw, ok := values.Lookup(doc, "extent", "temporal", "interval"); ok {
		if intervals, ok := raw.([]any); ok {
			for _, interval := range intervals {
				temporal = append(temporal, NullToEmptyString(interval))
			}
		}
	}

	return map[string]any{
		"id":              doc["id"],
		"title":           doc["title"],
		"description":     doc["description"],
		"keywords":        listOrEmpty(doc["keywords"]),
		"license":         doc["license"],
		"providers":       listOrEmpty(doc["providers"]),
		"stac_extensions": doc["stac_extensions"],
		"spatial":         listOrEmpty(spatial),
		"temporal":        temporal,
		"links":           listOrEmpty(doc["links"]),
		"assets":          ObjectToArray(doc["assets"], "id", nil),
		"summaries":       mapOrEmpty(doc["summaries"]),
	}, nil
}

// ExitData rebuilds the collection document. Assets are keyed by their id,
// which they keep.
func (c *Core) ExitData(formData map[string]any) (map[string]any, error) {
	temporal := []any{}
	for _, interval := range listOrEmpty(formData["temporal"]) {
		temporal = append(temporal, EmptyStringToNull(interval))
	}

	assets := map[string]any{}
	for _, raw := range listOrEmpty(formData["assets"]) {
		asset, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		id, ok := asset["id"].(string)
		if !ok {
			continue
		}
		assets[id] = asset
	}

	out := map[string]any{
		"type":            "Collection",
		"stac_version":    "1.0.0",
		"id":              formData["id"],
		"title":           formData["title"],
		"description":     formData["description"],
		"keywords":        formData["keywords"],
		"license":         formData["license"],
		"providers":       formData["providers"],
		"stac_extensions": formData["stac_extensions"],
		"extent": map[string]any{
			"spatial":  map[string]any{"bbox": listOrEmpty(formData["spatial"])},
			"temporal": map[string]any{"interval": temporal},
		},
		"links":     formData["links"],
		"assets":    assets,
		"summaries": formData["summaries"],
	}
	return compact(out), nil
}

var licenseOptions = []schema.EnumOption{
	schema.Option("Apache-2.0", "Apache License 2.0"),
	schema.Option("MIT", "MIT License"),
	schema.Option("GPL-3.0", "GNU General Public License v3.0"),
	schema.Option("BSD-3-Clause", "BSD 3-Clause License"),
	schema.Option("MPL-2.0", "Mozilla Public License 2.0"),
}

var providerRoles = []schema.EnumOption{
	schema.Option("licensor", "Licensor"),
	schema.Option("producer", "Producer"),
	schema.Option("processor", "Processor"),
	schema.Option("host", "Host"),
}

var mediaTypes = []schema.EnumOption{
	schema.Option("application/geo+json", "geo+json"),
	schema.Option("application/geopackage+sqlite3", "geopackage+sqlite3"),
	schema.Option("application/json", "json"),
	schema.Option("application/schema+json", "schema+json"),
	schema.Option("application/vnd.google-earth.kml+xml", "vnd.google-earth.kml+xml"),
	schema.Option("application/vnd.google-earth.kmz", "vnd.google-earth.kmz"),
	schema.Option("application/vnd.oai.openapi+json;version=3.0", "vnd.oai.openapi+json;version=3.0"),
	schema.Option("application/x-hdf", "x-hdf"),
	schema.Option("application/x-hdf5", "x-hdf5"),
	schema.Option("application/xml", "xml"),
	schema.Option("image/jp2", "jp2"),
	schema.Option("image/jpeg", "jpeg"),
	schema.Option("image/png", "png"),
	schema.Option("image/tiff; application=geotiff; profile=cloud-optimized", "COG"),
	schema.Option("image/tiff; application=geotiff", "Geotiff"),
	schema.Option("text/html", "HTML"),
	schema.Option("text/plain", "Text"),
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func listOrEmpty(v any) []any {
	if list, ok := values.Normalize(v).([]any); ok {
		return list
	}
	return []any{}
}

func mapOrEmpty(v any) map[string]any {
	if m, ok := values.Normalize(v).(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// compact drops nil top-level values so absent fields stay absent in the
// output document.
func compact(m map[string]any) map[string]any {
	for key, value := range m {
		if value == nil {
			delete(m, key)
		}
	}
	return m
}
