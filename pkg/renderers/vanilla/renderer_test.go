package vanilla_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalogform/pkg/renderers/vanilla"
	"github.com/goliatone/go-catalogform/pkg/schema"
	"github.com/goliatone/go-catalogform/pkg/widgets"
)

func TestDefault_CoversEveryKey(t *testing.T) {
	table := vanilla.Default()
	assert.ElementsMatch(t, vanilla.Keys, table.Keys())
}

func TestRenderTree_EmbeddedTemplates(t *testing.T) {
	field := schema.Root(
		schema.Prop("title", schema.String("Title")),
		schema.Prop("license", schema.String("License").WithEnum(
			schema.Option("MIT", "MIT License"),
			schema.Option("Apache-2.0", "Apache License 2.0"),
		)),
		schema.Prop("extent", schema.Object("Extent",
			schema.Prop("spatial", schema.JSON("Spatial")),
		)),
		schema.Prop("keywords", schema.Array("Keywords", schema.String("Keyword"))),
		schema.Prop("providers", schema.Array("Providers", schema.Object("",
			schema.Prop("name", schema.String("Name")),
		).WithRequired("name"))),
	).WithRequired("title")

	result := widgets.RenderTree(context.Background(), vanilla.Default(), field, "")
	require.Empty(t, result.Failures)

	out := string(result.Output)
	assert.Contains(t, out, `<input type="text" id="cf-title" name="/title" required>`)
	assert.Contains(t, out, `value="MIT"> MIT License`)
	assert.Contains(t, out, `data-widget="radio"`)
	assert.Contains(t, out, `data-pointer="/extent/spatial"`)
	assert.Contains(t, out, `data-format="json"`)
	assert.Contains(t, out, `data-widget="array:string"`)
	assert.Contains(t, out, `name="/providers/0/name" required`)

	assert.Less(t, strings.Index(out, `name="/title"`), strings.Index(out, `name="/license"`))
}

func TestRenderTree_EscapesLabels(t *testing.T) {
	field := schema.Root(schema.Prop("title", schema.String("<b>Title</b>")))

	result := widgets.RenderTree(context.Background(), vanilla.Default(), field, "")
	require.Empty(t, result.Failures)
	assert.NotContains(t, string(result.Output), "<b>")
	assert.Contains(t, string(result.Output), "&lt;b&gt;Title&lt;/b&gt;")
}

func TestNew_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"text.html": {Data: []byte(`<span>{{ label }}:{{ pointer }}</span>`)},
	}
	r, err := vanilla.New(vanilla.WithTemplatesFS(files), vanilla.WithExtension("html"))
	require.NoError(t, err)

	table := r.Table()
	out, err := widgets.Render(context.Background(), table, widgets.Node{
		Pointer: "/title",
		Field:   schema.String("Title"),
	})
	require.NoError(t, err)
	assert.Equal(t, "<span>Title:/title</span>", string(out))

	out, err = widgets.Render(context.Background(), table, widgets.Node{
		Pointer: "/level",
		Field:   schema.Number("Level"),
	})
	var renderErr *widgets.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, widgets.WidgetNumber, renderErr.Widget)
	assert.Contains(t, string(out), `data-pointer="/level"`)
}

func TestNew_NilFS(t *testing.T) {
	_, err := vanilla.New(vanilla.WithTemplatesFS(nil))
	require.Error(t, err)
}

func TestWidget_RequiresEngineForObjects(t *testing.T) {
	r, err := vanilla.New()
	require.NoError(t, err)

	_, err = r.Widget(widgets.WidgetObject)(context.Background(), widgets.Node{
		Field: schema.Object("Extent", schema.Prop("a", schema.String("A"))),
	})
	require.Error(t, err)
}

func TestRenderTree_ReportsNestedFailures(t *testing.T) {
	table := vanilla.Default()
	delete(table, widgets.WidgetText)

	field := schema.Root(
		schema.Prop("providers", schema.Array("Providers", schema.Object("",
			schema.Prop("name", schema.String("Name")),
		))),
		schema.Prop("extent", schema.Object("Extent",
			schema.Prop("label", schema.String("Label")),
		)),
	)

	result := widgets.RenderTree(context.Background(), table, field, "")
	out := string(result.Output)
	assert.Contains(t, out, `data-pointer="/providers/0/name"`)
	assert.Contains(t, out, `data-pointer="/extent/label"`)

	require.Len(t, result.Failures, 2)
	var missing *widgets.MissingWidgetError
	require.ErrorAs(t, result.Failures[0], &missing)
	assert.Equal(t, "/providers/0/name", missing.Pointer)
	require.ErrorAs(t, result.Failures[1], &missing)
	assert.Equal(t, "/extent/label", missing.Pointer)
}
