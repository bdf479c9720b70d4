package widgets

import (
	"testing"

	"github.com/goliatone/go-catalogform/pkg/schema"
)

func TestDispatch_ExplicitWidgetWins(t *testing.T) {
	field := schema.String("Kind").WithEnum(schema.Option("a", "A")).WithWidget("custom")

	if got := Dispatch(field); got != "custom" {
		t.Fatalf("expected explicit widget to win, got %q", got)
	}

	array := schema.Array("Tags", schema.String("").WithEnum()).WithWidget(WidgetTagger)
	if got := Dispatch(array); got != WidgetTagger {
		t.Fatalf("expected explicit widget on array, got %q", got)
	}
}

func TestDispatch_Builtins(t *testing.T) {
	cases := []struct {
		name   string
		field  *schema.Field
		expect string
	}{
		{
			name:   "array of enum strings",
			field:  schema.Array("Extensions", schema.String("").WithEnum(schema.Option("a", "A"))),
			expect: WidgetCheckbox,
		},
		{
			name:   "array of strings with empty enum",
			field:  schema.Array("Extensions", schema.String("").WithEnum()),
			expect: WidgetCheckbox,
		},
		{
			name:   "array of strings",
			field:  schema.Array("Keywords", schema.String("")),
			expect: WidgetArrayString,
		},
		{
			name:   "array of numbers",
			field:  schema.Array("Bbox", schema.Number("")),
			expect: WidgetArrayString,
		},
		{
			name:   "array of objects",
			field:  schema.Array("Providers", schema.Object("", schema.Prop("name", schema.String("Name")))),
			expect: WidgetArray,
		},
		{
			name:   "array of arrays",
			field:  schema.Array("Matrix", schema.Array("", schema.Number(""))),
			expect: WidgetArray,
		},
		{
			name:   "object",
			field:  schema.Object("Extent", schema.Prop("spatial", schema.JSON(""))),
			expect: WidgetObject,
		},
		{
			name:   "root",
			field:  schema.Root(),
			expect: WidgetObject,
		},
		{
			name:   "string enum",
			field:  schema.String("License").WithEnum(schema.Option("MIT", "MIT")),
			expect: WidgetRadio,
		},
		{
			name:   "json",
			field:  schema.JSON("Summaries"),
			expect: WidgetJSON,
		},
		{
			name:   "number",
			field:  schema.Number("Level"),
			expect: WidgetNumber,
		},
		{
			name:   "plain string",
			field:  schema.String("Title"),
			expect: WidgetText,
		},
		{
			name:   "nil field",
			field:  nil,
			expect: WidgetText,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Dispatch(tc.field); got != tc.expect {
				t.Fatalf("expected %q, got %q", tc.expect, got)
			}
		})
	}
}

func TestRegistry_CustomMatcherPriority(t *testing.T) {
	reg := NewRegistry()
	reg.Register(WidgetSelect, 45, func(field *schema.Field) bool {
		return field.Type == schema.TypeString && len(field.Enum) > 5
	})

	many := schema.String("Many").WithEnum(
		schema.Option("1", "1"), schema.Option("2", "2"), schema.Option("3", "3"),
		schema.Option("4", "4"), schema.Option("5", "5"), schema.Option("6", "6"),
	)
	if got := reg.Dispatch(many); got != WidgetSelect {
		t.Fatalf("expected select for long enum, got %q", got)
	}

	few := schema.String("Few").WithEnum(schema.Option("1", "1"))
	if got := reg.Dispatch(few); got != WidgetRadio {
		t.Fatalf("expected radio for short enum, got %q", got)
	}

	if got := Dispatch(many); got != WidgetRadio {
		t.Fatalf("default registry must be unaffected, got %q", got)
	}
}

func TestRegistry_TiesFollowRegistrationOrder(t *testing.T) {
	reg := &Registry{}
	reg.Register("first", 10, func(*schema.Field) bool { return true })
	reg.Register("second", 10, func(*schema.Field) bool { return true })

	if got, ok := reg.Resolve(schema.String("")); !ok || got != "first" {
		t.Fatalf("expected first registration to win, got %q (ok=%v)", got, ok)
	}
}

func TestRegistry_EmptyAndInvalidRegistrations(t *testing.T) {
	reg := &Registry{}
	reg.Register("  ", 10, func(*schema.Field) bool { return true })
	reg.Register("nil", 10, nil)

	if _, ok := reg.Resolve(schema.String("")); ok {
		t.Fatal("expected empty registry to resolve nothing")
	}
	if got := reg.Dispatch(schema.Number("")); got != WidgetText {
		t.Fatalf("expected text fallback, got %q", got)
	}

	var nilReg *Registry
	if got, ok := nilReg.Resolve(schema.String("").WithWidget("x")); !ok || got != "x" {
		t.Fatalf("nil registry should still honour overrides, got %q", got)
	}
}
