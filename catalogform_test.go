package catalogform

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-catalogform/pkg/aggregator"
)

func TestEmbeddedTemplatesContainsWidgets(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), "text.tpl")
	if err != nil {
		t.Fatalf("expected text template to be readable: %v", err)
	}
	if !strings.Contains(string(data), "{{ pointer }}") {
		t.Fatalf("expected text template to reference the pointer")
	}
}

func TestComposeValidateRender(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()

	state, err := Compose(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	result, err := Validate(state, state.FormData)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Valid() {
		t.Fatalf("expected a blank collection to be invalid")
	}
	if got := result.Errors.Flatten()["id"]; got != "Collection ID is a required field" {
		t.Fatalf("unexpected id message %q", got)
	}

	rendered, err := RenderHTML(ctx, cfg, state)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(rendered.Output), `name="/id"`) {
		t.Fatalf("expected the id input in the rendered form")
	}
}

func TestNotReadyState(t *testing.T) {
	if _, err := Validate(&State{}, nil); !errors.Is(err, aggregator.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if _, err := RenderHTML(context.Background(), DefaultConfig(), nil); !errors.Is(err, aggregator.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}
