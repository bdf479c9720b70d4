package aggregator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalogform/pkg/aggregator"
	"github.com/goliatone/go-catalogform/pkg/config"
	"github.com/goliatone/go-catalogform/pkg/metrics"
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

type stubPlugin struct {
	plugin.Base
	field   *schema.Field
	hidden  bool
	enter   map[string]any
	exit    map[string]any
	initErr error
	release chan struct{}
	started chan struct{}
}

func newStub(name string) *stubPlugin {
	return &stubPlugin{Base: plugin.NewBase(name)}
}

func (p *stubPlugin) Init(ctx context.Context, _ any) error {
	if p.started != nil {
		close(p.started)
	}
	if p.release != nil {
		<-p.release
	}
	return p.initErr
}

func (p *stubPlugin) EditSchema(any) plugin.EditResult {
	if p.hidden {
		return plugin.Hidden()
	}
	return plugin.Schema(p.field)
}

func (p *stubPlugin) EnterData(any) (map[string]any, error) {
	return p.enter, nil
}

func (p *stubPlugin) ExitData(map[string]any) (map[string]any, error) {
	return p.exit, nil
}

func TestCompose_BuildsSkeletonAndSeeds(t *testing.T) {
	core := newStub("Core")
	core.field = schema.Root(
		schema.Prop("title", schema.String("Title")),
		schema.Prop("keywords", schema.Array("Keywords", schema.String(""))),
		schema.Prop("extent", schema.Object("Extent",
			schema.Prop("spatial", schema.Array("Spatial", schema.Number("")).WithMinItems(2)),
		)),
	)
	core.enter = map[string]any{
		"title":    "Sentinel",
		"keywords": []string{"a", "b"},
	}

	hidden := newStub("Hidden")
	hidden.hidden = true
	hidden.field = schema.Root(schema.Prop("secret", schema.String("")))

	unset := newStub("Unset")

	state, err := aggregator.New().Compose(context.Background(), []plugin.Spec{core, hidden, unset}, map[string]any{})
	require.NoError(t, err)
	require.True(t, state.Ready)
	require.Len(t, state.Plugins, 3)
	assert.NotEmpty(t, state.PassID)

	want := map[string]any{
		"title":    "Sentinel",
		"keywords": []any{"a", "b"},
		"extent": map[string]any{
			"spatial": []any{"", ""},
		},
	}
	if diff := cmp.Diff(want, state.FormData); diff != "" {
		t.Fatalf("form data mismatch (-want +got):\n%s", diff)
	}
}

type countingPlugin struct {
	stubPlugin
	counts map[string]int
}

func (p *countingPlugin) Init(_ context.Context, data any) error {
	doc, _ := data.(map[string]any)
	id, _ := doc["id"].(string)
	p.counts[id]++
	return nil
}

func TestCompose_ConcurrentPassesLeaveSpecsUntouched(t *testing.T) {
	counter := &countingPlugin{stubPlugin: *newStub("Counter"), counts: map[string]int{}}
	counter.field = schema.Root(schema.Prop("id", schema.String("ID")))
	specs := []plugin.Spec{counter}
	agg := aggregator.New()

	const passes = 8
	var wg sync.WaitGroup
	errs := make(chan error, passes)
	for i := 0; i < passes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := agg.Compose(context.Background(), specs, map[string]any{"id": "k"})
			if err != nil {
				errs <- err
				return
			}
			p, ok := plugin.As[*countingPlugin](state.Plugins[0])
			if !ok || p.counts["k"] != 1 {
				errs <- errors.New("pass did not get its own plugin copy")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assert.Empty(t, counter.counts)
}

func TestCompose_SkeletonCollisionLastPluginWins(t *testing.T) {
	first := newStub("First")
	first.field = schema.Root(schema.Prop("shared", schema.Object("Shared",
		schema.Prop("a", schema.String("")),
	)))
	second := newStub("Second")
	second.field = schema.Root(schema.Prop("shared", schema.Array("Shared", schema.String(""))))

	state, err := aggregator.New().Compose(context.Background(), []plugin.Spec{first, second}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"shared": []any{}}, state.FormData)
}

func TestCompose_SeedFirstValueWins(t *testing.T) {
	first := newStub("First")
	first.field = schema.Root(schema.Prop("title", schema.String("")), schema.Prop("license", schema.String("")))
	first.enter = map[string]any{"title": "from first", "license": ""}

	second := newStub("Second")
	second.enter = map[string]any{"title": "from second", "license": "MIT", "extra": 1}

	state, err := aggregator.New().Compose(context.Background(), []plugin.Spec{first, second}, nil)
	require.NoError(t, err)

	want := map[string]any{"title": "from first", "license": "MIT", "extra": 1}
	if diff := cmp.Diff(want, state.FormData); diff != "" {
		t.Fatalf("form data mismatch (-want +got):\n%s", diff)
	}
}

func TestCompose_InitErrorHaltsPass(t *testing.T) {
	broken := newStub("Broken")
	broken.initErr = errors.New("fetch failed")

	_, err := aggregator.New().Compose(context.Background(), []plugin.Spec{broken}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggregator: init Broken")
	assert.ErrorIs(t, err, broken.initErr)
}

func TestCompose_ContractErrorHaltsPass(t *testing.T) {
	type partial struct {
		plugin.Base
		plugin.Unimplemented
	}
	p := &partial{Base: plugin.NewBase("Partial"), Unimplemented: plugin.Unimplemented{PluginName: "Partial"}}

	_, err := aggregator.New().Compose(context.Background(), []plugin.Spec{p}, nil)
	var contractErr *plugin.ContractError
	require.ErrorAs(t, err, &contractErr)
	assert.Equal(t, "EnterData", contractErr.Method)
}

func TestCompose_CompilationErrorHaltsPass(t *testing.T) {
	bad := newStub("Bad")
	bad.field = schema.Root(schema.Prop("list", &schema.Field{Type: schema.TypeArray}))

	_, err := aggregator.New().Compose(context.Background(), []plugin.Spec{bad}, nil)
	var compileErr *schema.CompilationError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "/list", compileErr.Path)
}

func TestCompose_RequiresContext(t *testing.T) {
	//nolint:staticcheck // exercising the nil guard
	_, err := aggregator.New().Compose(nil, nil, nil)
	assert.EqualError(t, err, "aggregator: context is required")
}

func TestCompose_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewWithRegistry(reg)

	source := newStub("Source")
	source.OnAfterInit("Missing", func(context.Context, plugin.Plugin, any) error { return nil })

	_, err := aggregator.New(aggregator.WithMetrics(collector)).Compose(context.Background(), []plugin.Spec{source}, nil)
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.PassesTotal.WithLabelValues(metrics.OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.HooksSkipped))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.PluginsResolved))
}

func TestState_ToOutDataLastPluginWins(t *testing.T) {
	first := newStub("First")
	first.exit = map[string]any{"title": "first", "id": "a"}
	second := newStub("Second")
	second.exit = map[string]any{"title": "second"}

	state, err := aggregator.New().Compose(context.Background(), []plugin.Spec{first, second}, nil)
	require.NoError(t, err)

	out, err := state.ToOutData(state.FormData)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "second", "id": "a"}, out)
}

func TestState_NotReady(t *testing.T) {
	var state *aggregator.State
	_, err := state.ToOutData(nil)
	assert.ErrorIs(t, err, aggregator.ErrNotReady)

	_, err = (&aggregator.State{}).Schema(nil)
	assert.ErrorIs(t, err, aggregator.ErrNotReady)
	assert.Nil(t, (&aggregator.State{}).WatchFields())
}

func TestState_SchemaAndWatchFields(t *testing.T) {
	watcher := plugin.MustDefine(plugin.Definition{
		Name: "Watcher",
		EditSchema: func(any) plugin.EditResult {
			return plugin.Schema(schema.Root(schema.Prop("stac_extensions", schema.Array("", schema.String("")))))
		},
		EnterData: func(any) (map[string]any, error) { return nil, nil },
		ExitData:  func(map[string]any) (map[string]any, error) { return nil, nil },
		Watch:     []string{"stac_extensions"},
	})
	other := newStub("Other")
	other.field = schema.Root(schema.Prop("title", schema.String("Title")))

	state, err := aggregator.New().Compose(context.Background(), []plugin.Spec{watcher, other}, nil)
	require.NoError(t, err)

	field, err := state.Schema(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []string{"stac_extensions", "title"}, field.PropertyNames())
	assert.Equal(t, []string{"stac_extensions"}, state.WatchFields())
}

func TestPluginConfigLists(t *testing.T) {
	a, b := newStub("A"), newStub("B")
	cfg := config.PluginConfig{
		CollectionPlugins: []plugin.Spec{a},
		ItemPlugins:       []plugin.Spec{b},
	}
	assert.Equal(t, []plugin.Spec{a}, aggregator.CollectionPlugins(cfg))
	assert.Equal(t, []plugin.Spec{b}, aggregator.ItemPlugins(cfg))
}

func waitTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
