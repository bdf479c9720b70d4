package plugin

import "context"

// AfterInitFunc runs after the target's Init has completed successfully.
type AfterInitFunc func(ctx context.Context, target Plugin, data any) error

// AfterEditSchemaFunc receives the target's EditSchema result and returns the
// result that replaces it. It is responsible for pass-through.
type AfterEditSchemaFunc func(target Plugin, snapshot any, result EditResult) EditResult

// Hook is held by a source plugin and applied to the plugin named Target in
// the same composition.
type Hook struct {
	Target          string
	AfterInit       AfterInitFunc
	AfterEditSchema AfterEditSchemaFunc
}
