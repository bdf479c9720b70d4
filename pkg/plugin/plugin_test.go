package plugin_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

type mockPlugin struct {
	plugin.Base
	initCalls *atomic.Int32
	record    func(event string)
	schema    func(snapshot any) plugin.EditResult
	ready     bool
}

func newMock(name string) *mockPlugin {
	return &mockPlugin{Base: plugin.NewBase(name), initCalls: &atomic.Int32{}}
}

func (m *mockPlugin) Init(_ context.Context, _ any) error {
	m.initCalls.Add(1)
	m.ready = true
	if m.record != nil {
		m.record("init:" + m.Name())
	}
	return nil
}

func (m *mockPlugin) EditSchema(snapshot any) plugin.EditResult {
	if m.schema == nil {
		return plugin.Unset()
	}
	return m.schema(snapshot)
}

func (m *mockPlugin) EnterData(any) (map[string]any, error) {
	return map[string]any{}, nil
}

func (m *mockPlugin) ExitData(map[string]any) (map[string]any, error) {
	return map[string]any{}, nil
}

func TestResolve_PassesPluginsAndInvokesFactories(t *testing.T) {
	a := newMock("A")
	b := newMock("B")
	var seen any

	var nilMock *mockPlugin
	result := plugin.Resolve([]plugin.Spec{
		a,
		nil,
		plugin.Factory(func(data any) any {
			seen = data
			return b
		}),
		nilMock,
		"garbage",
		42,
	}, map[string]any{"id": "x"})

	require.Len(t, result, 2)
	assert.Same(t, a, result[0])
	assert.Same(t, b, result[1])
	assert.Equal(t, map[string]any{"id": "x"}, seen)
}

func TestResolve_FlattensFactoryResults(t *testing.T) {
	a, b, c, d := newMock("A"), newMock("B"), newMock("C"), newMock("D")

	result := plugin.Resolve([]plugin.Spec{
		func(any) []plugin.Plugin { return []plugin.Plugin{a, nil, b} },
		func(any) any { return []any{c, "skip", nil} },
		func(any) plugin.Plugin { return nil },
		func(any) any { return nil },
		d,
	}, nil)

	names := make([]string, 0, len(result))
	for _, p := range result {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, names)
}

func TestResolve_InvokesTypedFactories(t *testing.T) {
	a, b, c := newMock("A"), newMock("B"), newMock("C")
	var seen any

	result := plugin.Resolve([]plugin.Spec{
		func(data any) *mockPlugin {
			seen = data
			return a
		},
		func(any) []*mockPlugin { return []*mockPlugin{b, nil, c} },
		func(any) *mockPlugin { return nil },
		func(any) string { return "not a plugin" },
		func(string) *mockPlugin { return a },
		func(any) (*mockPlugin, error) { return a, nil },
	}, "doc")

	require.Len(t, result, 3)
	assert.Same(t, a, result[0])
	assert.Same(t, b, result[1])
	assert.Same(t, c, result[2])
	assert.Equal(t, "doc", seen)
}

func TestResolve_IgnoresTopLevelSlices(t *testing.T) {
	a := newMock("A")
	result := plugin.Resolve([]plugin.Spec{[]plugin.Plugin{a}}, nil)
	assert.Empty(t, result)
}

func TestBase_Defaults(t *testing.T) {
	var base plugin.Base
	assert.Equal(t, "Plugin", base.Name())
	assert.NoError(t, base.Init(context.Background(), nil))
	assert.True(t, base.EditSchema(nil).IsUnset())
	assert.Nil(t, base.Hooks())
}

func TestBase_RegisterHookDoesNotShareBackingArray(t *testing.T) {
	source := newMock("source")
	source.OnAfterInit("one", func(context.Context, plugin.Plugin, any) error { return nil })

	copyA := *source
	copyB := *source
	copyA.OnAfterInit("two", func(context.Context, plugin.Plugin, any) error { return nil })
	copyB.OnAfterInit("three", func(context.Context, plugin.Plugin, any) error { return nil })

	require.Len(t, copyA.Hooks(), 2)
	assert.Equal(t, "two", copyA.Hooks()[1].Target)
	assert.Equal(t, "three", copyB.Hooks()[1].Target)
	assert.Len(t, source.Hooks(), 1)
}

func TestUnimplemented_ReturnsContractError(t *testing.T) {
	type partial struct {
		plugin.Base
		plugin.Unimplemented
	}
	p := &partial{Base: plugin.NewBase("Partial"), Unimplemented: plugin.Unimplemented{PluginName: "Partial"}}

	var _ plugin.Plugin = p

	_, err := p.EnterData(nil)
	var contractErr *plugin.ContractError
	require.True(t, errors.As(err, &contractErr))
	assert.Equal(t, "Partial", contractErr.Plugin)
	assert.EqualError(t, err, "plugin [Partial] must implement EnterData")

	_, err = p.ExitData(nil)
	assert.EqualError(t, err, "plugin [Partial] must implement ExitData")
}

func TestDefine_RejectsMissingDataTransforms(t *testing.T) {
	_, err := plugin.Define(plugin.Definition{Name: "NoEnter"})
	var contractErr *plugin.ContractError
	require.ErrorAs(t, err, &contractErr)
	assert.Equal(t, "EnterData", contractErr.Method)

	_, err = plugin.Define(plugin.Definition{
		Name:      "NoExit",
		EnterData: func(any) (map[string]any, error) { return nil, nil },
	})
	require.ErrorAs(t, err, &contractErr)
	assert.Equal(t, "NoExit", contractErr.Plugin)
	assert.Equal(t, "ExitData", contractErr.Method)

	assert.Panics(t, func() { plugin.MustDefine(plugin.Definition{Name: "Bad"}) })
}

func TestDefined_ZeroValueFailsAtCallTime(t *testing.T) {
	var p plugin.Defined
	_, err := p.EnterData(nil)
	assert.EqualError(t, err, "plugin [Plugin] must implement EnterData")
	_, err = p.ExitData(nil)
	assert.EqualError(t, err, "plugin [Plugin] must implement ExitData")
	assert.True(t, p.EditSchema(nil).IsUnset())
	assert.NoError(t, p.Init(context.Background(), nil))
}

func TestDefine_DelegatesAndRegistersHooks(t *testing.T) {
	field := schema.Root(schema.Prop("title", schema.String("Title")))
	p := plugin.MustDefine(plugin.Definition{
		Name:       "Defined",
		EditSchema: func(any) plugin.EditResult { return plugin.Schema(field) },
		EnterData: func(data any) (map[string]any, error) {
			return map[string]any{"title": data.(map[string]any)["title"]}, nil
		},
		ExitData: func(form map[string]any) (map[string]any, error) {
			return map[string]any{"title": form["title"]}, nil
		},
		Hooks: []plugin.Hook{{Target: "Other", AfterInit: func(context.Context, plugin.Plugin, any) error { return nil }}},
		Watch: []string{"stac_extensions"},
	})

	got, ok := p.EditSchema(nil).Field()
	require.True(t, ok)
	assert.Same(t, field, got)

	in, err := p.EnterData(map[string]any{"title": "T"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "T"}, in)

	require.Len(t, p.Hooks(), 1)
	assert.Equal(t, "Other", p.Hooks()[0].Target)
	assert.Equal(t, []string{"stac_extensions"}, plugin.WatchFields(p))
}

func TestDeclarative_PicksOwnedKeys(t *testing.T) {
	field := schema.Root(
		schema.Prop("sci:doi", schema.String("DOI")),
		schema.Prop("sci:citation", schema.String("Citation")),
	)
	p, err := plugin.NewDeclarative("Scientific", field)
	require.NoError(t, err)

	in, err := p.EnterData(map[string]any{"sci:doi": "10.1/x", "title": "ignored"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sci:doi": "10.1/x"}, in)

	out, err := p.ExitData(map[string]any{"sci:citation": "c", "other": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sci:citation": "c"}, out)

	first, _ := p.EditSchema(nil).Field()
	first.Delete("sci:doi")
	second, _ := p.EditSchema(nil).Field()
	assert.Equal(t, []string{"sci:doi", "sci:citation"}, second.PropertyNames())

	_, err = plugin.NewDeclarative("Broken", &schema.Field{Type: schema.TypeObject})
	var compileErr *schema.CompilationError
	assert.ErrorAs(t, err, &compileErr)

	_, err = plugin.NewDeclarative("", field)
	assert.Error(t, err)
}

func TestEditResult_Kinds(t *testing.T) {
	assert.True(t, plugin.Schema(nil).IsUnset())
	assert.True(t, plugin.Hidden().IsHidden())
	assert.Equal(t, "hidden", plugin.Hidden().String())

	var zero plugin.EditResult
	assert.True(t, zero.IsUnset())
	_, ok := zero.Field()
	assert.False(t, ok)
}
