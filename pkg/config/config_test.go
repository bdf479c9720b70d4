package config_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalogform/pkg/config"
	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
	"github.com/goliatone/go-catalogform/pkg/widgets"
)

func renderer(label string) widgets.Renderer {
	return func(context.Context, widgets.Node) ([]byte, error) {
		return []byte(label), nil
	}
}

func TestExtend_ConcatenatesListsAndOverridesWidgets(t *testing.T) {
	a := plugin.MustDefine(plugin.Definition{
		Name:      "A",
		EnterData: func(any) (map[string]any, error) { return nil, nil },
		ExitData:  func(map[string]any) (map[string]any, error) { return nil, nil },
	})
	b := plugin.MustDefine(plugin.Definition{
		Name:      "B",
		EnterData: func(any) (map[string]any, error) { return nil, nil },
		ExitData:  func(map[string]any) (map[string]any, error) { return nil, nil },
	})

	base := config.PluginConfig{
		CollectionPlugins: []plugin.Spec{a},
		Widgets:           widgets.Table{"text": renderer("base-text"), "number": renderer("base-number")},
	}
	extra := config.PluginConfig{
		CollectionPlugins: []plugin.Spec{b},
		ItemPlugins:       []plugin.Spec{b},
		Widgets:           widgets.Table{"text": renderer("extra-text")},
	}

	got := config.Extend(base, extra)
	assert.Equal(t, []plugin.Spec{a, b}, got.CollectionPlugins)
	assert.Equal(t, []plugin.Spec{b}, got.ItemPlugins)
	assert.Equal(t, []string{"number", "text"}, got.Widgets.Keys())

	out, err := got.Widgets["text"](context.Background(), widgets.Node{})
	require.NoError(t, err)
	assert.Equal(t, "extra-text", string(out))
	assert.Len(t, base.CollectionPlugins, 1)
}

func TestLoadDeclarative(t *testing.T) {
	fsys := fstest.MapFS{
		"plugins/a-scientific.yaml": {Data: []byte(`
plugins:
  - name: Scientific
    schema:
      type: root
      properties:
        sci:doi:
          type: string
          label: DOI
        sci:citation:
          type: string
          label: Citation
      required: ["sci:doi"]
`)},
		"plugins/b-version.json": {Data: []byte(`{
  "plugins": [
    {
      "name": "Version",
      "keys": ["version"],
      "schema": {
        "type": "root",
        "properties": {
          "version": {"type": "string", "label": "Version"},
          "deprecated": {"type": "string", "enum": [["true", "Yes"], ["false", "No"]]}
        }
      }
    }
  ]
}`)},
		"plugins/README.md": {Data: []byte("ignored")},
	}

	plugins, err := config.LoadDeclarative(fsys)
	require.NoError(t, err)
	require.Len(t, plugins, 2)

	assert.Equal(t, "Scientific", plugins[0].Name())
	assert.Equal(t, []string{"sci:doi", "sci:citation"}, plugins[0].Keys())
	field, ok := plugins[0].EditSchema(nil).Field()
	require.True(t, ok)
	assert.True(t, field.IsRequired("sci:doi"))

	assert.Equal(t, "Version", plugins[1].Name())
	assert.Equal(t, []string{"version"}, plugins[1].Keys())
	versionSchema, _ := plugins[1].EditSchema(nil).Field()
	assert.Equal(t, []schema.EnumOption{schema.Option("true", "Yes"), schema.Option("false", "No")},
		versionSchema.Properties["deprecated"].Enum)

	specs := config.Specs(plugins)
	assert.Len(t, plugin.Resolve(specs, nil), 2)
}

func TestLoadDeclarative_Errors(t *testing.T) {
	cases := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{
			name: "empty file",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("  \n")}},
			want: "config: file a.yaml is empty",
		},
		{
			name: "missing name",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("plugins:\n  - schema: {type: root, properties: {}}\n")}},
			want: "config: file a.yaml plugin 0 has an empty name",
		},
		{
			name: "missing schema",
			fsys: fstest.MapFS{"a.yaml": {Data: []byte("plugins:\n  - name: X\n")}},
			want: `config: file a.yaml plugin "X" has no schema`,
		},
		{
			name: "duplicate names",
			fsys: fstest.MapFS{
				"a.yaml": {Data: []byte("plugins:\n  - name: X\n    schema: {type: root, properties: {}}\n")},
				"b.yaml": {Data: []byte("plugins:\n  - name: X\n    schema: {type: root, properties: {}}\n")},
			},
			want: `config: duplicate plugin "X" (files a.yaml and b.yaml)`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.LoadDeclarative(tc.fsys)
			require.Error(t, err)
			assert.EqualError(t, err, tc.want)
		})
	}

	t.Run("array without items", func(t *testing.T) {
		fsys := fstest.MapFS{"a.yaml": {Data: []byte("plugins:\n  - name: X\n    schema: {type: root, properties: {list: {type: array}}}\n")}}
		_, err := config.LoadDeclarative(fsys)
		var compileErr *schema.CompilationError
		require.ErrorAs(t, err, &compileErr)
		assert.Equal(t, "/list", compileErr.Path)
	})
}

func TestLoadDeclarative_NilFS(t *testing.T) {
	plugins, err := config.LoadDeclarative(nil)
	require.NoError(t, err)
	assert.Empty(t, plugins)
}

func TestSettings(t *testing.T) {
	defaults := config.Defaults()
	require.NoError(t, defaults.Validate())
	assert.True(t, defaults.ExtensionEnabled("Item-Assets"))

	bad := defaults
	bad.Log.Format = "xml"
	assert.EqualError(t, bad.Validate(), `config: log.format "xml" must be console or json`)

	bad = defaults
	bad.HTTP.Addr = " "
	assert.EqualError(t, bad.Validate(), "config: http.addr is required")

	bad = defaults
	bad.Plugins.Extensions = []string{"render", ""}
	assert.EqualError(t, bad.Validate(), "config: plugins.extensions[1] is empty")

	bad = defaults
	bad.Tracing.Exporter = "jaeger"
	assert.EqualError(t, bad.Validate(), `config: tracing.exporter "jaeger" must be stdout, otlp or none`)

	bad = defaults
	bad.Tracing.SampleRate = 1.5
	assert.EqualError(t, bad.Validate(), "config: tracing.sample_rate 1.5 must be between 0 and 1")
}
