package openapi_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalogform/pkg/openapi"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

func collectionField() *schema.Field {
	return schema.Root(
		schema.Prop("title", schema.String("Title")),
		schema.Prop("license", schema.String("License").WithEnum(
			schema.Option("MIT", "MIT License"),
			schema.Option("Apache-2.0", "Apache License 2.0"),
		)),
		schema.Prop("type", schema.String("Type").WithEnum(schema.Option("one", "One")).WithAllowOther("string")),
		schema.Prop("spatial", schema.Array("Spatial Extent",
			schema.Array("Extent", schema.Number("").WithLabels("Min Longitude", "Min Latitude", "Max Longitude", "Max Latitude")).
				WithMinItems(4).
				WithMaxItems(4),
		).WithMinItems(1)),
		schema.Prop("summaries", schema.JSON("Summaries")),
		schema.Prop("keywords", schema.Array("Keywords", schema.String("")).WithWidget("tagger")),
	).WithRequired("title", "license")
}

func TestSchema_Shape(t *testing.T) {
	s, err := openapi.Schema(collectionField())
	require.NoError(t, err)

	assert.Equal(t, openapi3.Types{"object"}, *s.Type)
	assert.Equal(t, []string{"title", "license"}, s.Required)
	assert.Equal(t, "Title", s.Properties["title"].Value.Title)

	license := s.Properties["license"].Value
	assert.Equal(t, []any{"MIT", "Apache-2.0"}, license.Enum)

	other := s.Properties["type"].Value
	assert.Empty(t, other.Enum)
	assert.Equal(t, "string", other.Extensions["x-catalogform-allow-other"])

	spatial := s.Properties["spatial"].Value
	assert.Equal(t, uint64(1), spatial.MinItems)
	assert.Nil(t, spatial.MaxItems)
	extent := spatial.Items.Value
	assert.Equal(t, uint64(4), extent.MinItems)
	require.NotNil(t, extent.MaxItems)
	assert.Equal(t, uint64(4), *extent.MaxItems)
	assert.Equal(t, []string{"Min Longitude", "Min Latitude", "Max Longitude", "Max Latitude"}, extent.Items.Value.Extensions["x-catalogform-labels"])

	summaries := s.Properties["summaries"].Value
	require.NotNil(t, summaries.AdditionalProperties.Has)
	assert.True(t, *summaries.AdditionalProperties.Has)

	assert.Equal(t, "tagger", s.Properties["keywords"].Value.Extensions["x-catalogform-widget"])
}

func TestSchema_VisitJSON(t *testing.T) {
	s, err := openapi.Schema(collectionField())
	require.NoError(t, err)

	valid := map[string]any{
		"title":   "Sentinel",
		"license": "MIT",
		"type":    "special",
		"spatial": []any{[]any{-180.0, -90.0, 180.0, 90.0}},
	}
	require.NoError(t, s.VisitJSON(valid))

	require.Error(t, s.VisitJSON(map[string]any{"title": "Sentinel"}))
	require.Error(t, s.VisitJSON(map[string]any{"title": "Sentinel", "license": "GPL"}))
	require.Error(t, s.VisitJSON(map[string]any{
		"title":   "Sentinel",
		"license": "MIT",
		"spatial": []any{[]any{1.0}},
	}))
}

func TestSchema_CompilationErrors(t *testing.T) {
	_, err := openapi.Schema(schema.Root(schema.Prop("list", &schema.Field{Type: schema.TypeArray})))
	var compileErr *schema.CompilationError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "/list", compileErr.Path)

	_, err = openapi.Schema(&schema.Field{Type: "date"})
	require.ErrorAs(t, err, &compileErr)
}

func TestDocument(t *testing.T) {
	doc, err := openapi.Document(context.Background(), "Catalog form", "1.0.0", collectionField())
	require.NoError(t, err)

	assert.Equal(t, "Catalog form", doc.Info.Title)
	require.Contains(t, doc.Components.Schemas, openapi.SchemaName)

	item := doc.Paths.Map()["/validate"]
	require.NotNil(t, item)
	require.NotNil(t, item.Post)
	assert.Equal(t, "validateForm", item.Post.OperationID)

	body := item.Post.RequestBody.Value.Content.Get("application/json")
	require.NotNil(t, body)
	require.NotNil(t, body.Schema.Value)
	assert.Contains(t, body.Schema.Value.Properties, "spatial")
}
