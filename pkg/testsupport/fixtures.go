// Package testsupport holds fixture and golden helpers shared by package
// tests.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-catalogform/pkg/source"
)

// LoadDocument reads a JSON or YAML fixture into generic data. It fails the
// test on error to keep table setup concise.
func LoadDocument(t *testing.T, path string) map[string]any {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a fixture without requiring testing.T. The
// fixture must hold an object.
func LoadDocumentFromPath(path string) (map[string]any, error) {
	if path == "" {
		return nil, errors.New("testsupport: document path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read document: %w", err)
	}
	decoded, err := source.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode document: %w", err)
	}
	doc, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("testsupport: %s does not hold an object", path)
	}
	return doc, nil
}

// AssertJSONGolden compares value, encoded as indented JSON, against the
// golden file at path. With UPDATE_GOLDENS set the golden is rewritten
// instead.
func AssertJSONGolden(t *testing.T, path string, value any) {
	t.Helper()

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if os.Getenv("UPDATE_GOLDENS") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	var want, got any
	if err := json.Unmarshal(data, &want); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("golden mismatch %s (-want +got):\n%s", path, diff)
	}
}
