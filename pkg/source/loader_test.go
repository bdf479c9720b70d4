package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalogform/pkg/source"
)

const collectionJSON = `{"id": "sentinel-2", "extent": {"spatial": {"bbox": [[-180, -90, 180, 90]]}}}`

const collectionYAML = `
id: sentinel-2
extent:
  spatial:
    bbox:
      - [-180, -90, 180, 90]
`

func TestLoad_FileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.json")
	require.NoError(t, os.WriteFile(path, []byte(collectionJSON), 0o600))

	doc, err := source.NewLoader().Load(context.Background(), source.FromFile(path))
	require.NoError(t, err)

	want := map[string]any{
		"id": "sentinel-2",
		"extent": map[string]any{
			"spatial": map[string]any{"bbox": []any{[]any{-180.0, -90.0, 180.0, 90.0}}},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FSYAML(t *testing.T) {
	files := fstest.MapFS{"collections/s2.yaml": {Data: []byte(collectionYAML)}}

	doc, err := source.NewLoader(source.WithFileSystem(files)).Load(context.Background(), source.FromFS("collections/s2.yaml"))
	require.NoError(t, err)

	want := map[string]any{
		"id": "sentinel-2",
		"extent": map[string]any{
			"spatial": map[string]any{"bbox": []any{[]any{-180, -90, 180, 90}}},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}

	_, err = source.NewLoader().Load(context.Background(), source.FromFS("collections/s2.yaml"))
	require.ErrorContains(t, err, "fs is not configured")
}

func TestLoad_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(collectionJSON))
	}))
	defer srv.Close()

	src, err := source.FromURL(srv.URL + "/collection.json")
	require.NoError(t, err)

	_, err = source.NewLoader().Load(context.Background(), src)
	require.ErrorContains(t, err, "http support disabled")

	loader := source.NewLoader(source.WithHTTP(time.Second))
	doc, err := loader.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "sentinel-2", doc.(map[string]any)["id"])

	missing, err := source.FromURL(srv.URL + "/missing")
	require.NoError(t, err)
	_, err = loader.Load(context.Background(), missing)
	require.ErrorContains(t, err, "404")
}

func TestLoad_ReaderAndEmpty(t *testing.T) {
	doc, err := source.NewLoader().Load(context.Background(), source.FromReader("stdin", strings.NewReader("  \n")))
	require.NoError(t, err)
	assert.Nil(t, doc)

	_, err = source.NewLoader().Load(context.Background(), source.FromReader("stdin", strings.NewReader("id: [unclosed")))
	require.ErrorContains(t, err, "source: reader stdin")
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.NewLoader().Load(ctx, source.FromFile("collection.json"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParse(t *testing.T) {
	stdin := strings.NewReader("{}")

	src, err := source.Parse("-", stdin)
	require.NoError(t, err)
	assert.Equal(t, source.KindReader, src.Kind())

	src, err = source.Parse("https://example.com/collection.json", stdin)
	require.NoError(t, err)
	assert.Equal(t, source.KindURL, src.Kind())

	src, err = source.Parse("./data/../collection.json", stdin)
	require.NoError(t, err)
	assert.Equal(t, source.KindFile, src.Kind())
	assert.Equal(t, "collection.json", src.Location())

	_, err = source.Parse("  ", stdin)
	require.Error(t, err)
}
