package stac

import (
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

const (
	RenderName = "Render Extension"
	RenderURL  = "https://stac-extensions.github.io/render/v2.0.0/schema.json"
)

// Render edits the renders map of the render extension. Custom colormaps
// are edited as [value, color] pairs.
type Render struct {
	plugin.Base
}

func NewRender() *Render {
	p := &Render{Base: plugin.NewBase(RenderName)}
	AddExtensionOption(&p.Base, "Render", RenderURL)
	return p
}

func (p *Render) WatchFields() []string {
	return []string{"stac_extensions"}
}

func (p *Render) EditSchema(snapshot any) plugin.EditResult {
	if !HasExtension(snapshot, "render", nil) {
		return plugin.Hidden()
	}

	colormaps := make([]schema.EnumOption, 0, len(colormapNames))
	for _, name := range colormapNames {
		colormaps = append(colormaps, schema.Option(name, name))
	}

	return plugin.Schema(schema.Root(
		schema.Prop("renders", schema.Array("Renders", schema.Object("",
			schema.Prop("id", schema.String("Render ID")),
			schema.Prop("assets", schema.Array("Assets", schema.String("")).WithMinItems(1)),
			schema.Prop("rescale", schema.Array("Rescale",
				schema.Array("", schema.Number("").WithLabels("Min", "Max")).WithMinItems(2).WithMaxItems(2),
			)),
			schema.Prop("nodata", schema.String("No Data Value")),
			schema.Prop("colormap_name", schema.String("Colormap").WithWidget("tagger").WithEnum(colormaps...)),
			schema.Prop("colormap", schema.Array("Colormap (Custom)",
				schema.Array("", schema.String("").WithLabels("Value", "Color")).WithMinItems(2).WithMaxItems(2),
			)),
			schema.Prop("resampling", schema.String("Resampling").WithWidget("tagger").WithEnum(resamplingOptions...)),
			schema.Prop("expression", schema.String("Expression")),
			schema.Prop("minmax_zoom", schema.Array("Min/Max Zoom",
				schema.Number("").WithLabels("Min", "Max"),
			).WithMinItems(2).WithMaxItems(2)),
		).WithRequired("id", "assets").WithAdditionalProperties(true))),
	))
}

func (p *Render) EnterData(data any) (map[string]any, error) {
	doc := mapOrEmpty(data)
	return map[string]any{
		"renders": ObjectToArray(doc["renders"], "id", func(v map[string]any) map[string]any {
			v["colormap"] = ObjectToTuple(v["colormap"])
			return v
		}),
	}, nil
}

// ExitData omits renders when the list is empty.
func (p *Render) ExitData(formData map[string]any) (map[string]any, error) {
	renders := ArrayToObject(formData["renders"], "id", func(v map[string]any) map[string]any {
		v["colormap"] = TupleToObject(v["colormap"])
		return v
	})
	if len(renders) == 0 {
		return map[string]any{}, nil
	}
	return map[string]any{"renders": renders}, nil
}

var resamplingOptions = []schema.EnumOption{
	schema.Option("near", "Nearest neighbour"),
	schema.Option("bilinear", "Bilinear"),
	schema.Option("cubic", "Cubic"),
	schema.Option("cubicspline", "Cubic spline"),
	schema.Option("lanczos", "Lanczos windowed sinc"),
	schema.Option("average", "Average"),
	schema.Option("rms", "Root mean square"),
	schema.Option("mode", "Mode"),
	schema.Option("max", "Maximum"),
	schema.Option("min", "Minimum"),
	schema.Option("med", "Median"),
	schema.Option("q1", "First quartile"),
	schema.Option("q3", "Third quartile"),
	schema.Option("sum", "Weighted sum"),
}
