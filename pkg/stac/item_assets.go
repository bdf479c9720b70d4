package stac

import (
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

const (
	ItemAssetsName = "Item Assets Extension"
	ItemAssetsURL  = "https://stac-extensions.github.io/item-assets/v1.0.0/schema.json"
)

// ItemAssets edits the item_assets map of the item-assets extension as a
// list keyed by id.
type ItemAssets struct {
	plugin.Base
}

func NewItemAssets() *ItemAssets {
	p := &ItemAssets{Base: plugin.NewBase(ItemAssetsName)}
	AddExtensionOption(&p.Base, "Item Assets Definition", ItemAssetsURL)
	return p
}

func (p *ItemAssets) WatchFields() []string {
	return []string{"stac_extensions"}
}

func (p *ItemAssets) EditSchema(snapshot any) plugin.EditResult {
	if !HasExtension(snapshot, "item-assets", nil) {
		return plugin.Hidden()
	}

	return plugin.Schema(schema.Root(
		schema.Prop("item_assets", schema.Array("Item Assets", schema.Object("",
			schema.Prop("id", schema.String("Item Asset ID")),
			schema.Prop("type", schema.String("Type")),
			schema.Prop("title", schema.String("Title")),
			schema.Prop("description", schema.String("Description")),
			schema.Prop("roles", schema.Array("Roles",
				schema.String("Role").WithEnum(
					schema.Option("thumbnail", "Thumbnail"),
					schema.Option("overview", "Overview"),
					schema.Option("data", "Data"),
					schema.Option("metadata", "Metadata"),
				),
			).WithWidget("tagger")),
		).WithRequired("id")).WithMinItems(1)),
	))
}

func (p *ItemAssets) EnterData(data any) (map[string]any, error) {
	doc := mapOrEmpty(data)
	return map[string]any{
		"item_assets": ObjectToArray(doc["item_assets"], "id", nil),
	}, nil
}

// ExitData omits item_assets when the list is empty.
func (p *ItemAssets) ExitData(formData map[string]any) (map[string]any, error) {
	assets := ArrayToObject(formData["item_assets"], "id", nil)
	if len(assets) == 0 {
		return map[string]any{}, nil
	}
	return map[string]any{"item_assets": assets}, nil
}
