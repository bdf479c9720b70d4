package plugin

import "github.com/goliatone/go-catalogform/pkg/schema"

type resultKind uint8

const (
	resultUnset resultKind = iota
	resultHidden
	resultSchema
)

// EditResult is what EditSchema returns: a concrete object/root schema, the
// Hidden marker (nothing to contribute for this snapshot) or Unset (the
// plugin never implemented EditSchema). The zero value is Unset.
type EditResult struct {
	kind  resultKind
	field *schema.Field
}

// Schema wraps a field. A nil field yields Unset.
func Schema(field *schema.Field) EditResult {
	if field == nil {
		return EditResult{}
	}
	return EditResult{kind: resultSchema, field: field}
}

// Hidden marks a plugin as contributing nothing for the current snapshot.
func Hidden() EditResult {
	return EditResult{kind: resultHidden}
}

// Unset is the result of a plugin without an EditSchema implementation.
func Unset() EditResult {
	return EditResult{}
}

func (r EditResult) IsSchema() bool { return r.kind == resultSchema }
func (r EditResult) IsHidden() bool { return r.kind == resultHidden }
func (r EditResult) IsUnset() bool  { return r.kind == resultUnset }

// Field returns the schema when the result carries one.
func (r EditResult) Field() (*schema.Field, bool) {
	if r.kind != resultSchema {
		return nil, false
	}
	return r.field, true
}

func (r EditResult) String() string {
	switch r.kind {
	case resultHidden:
		return "hidden"
	case resultSchema:
		return "schema"
	default:
		return "unset"
	}
}
