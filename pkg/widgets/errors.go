package widgets

import "fmt"

// MissingWidgetError reports a widget key absent from the render table. It is
// non-fatal: the node renders as a placeholder.
type MissingWidgetError struct {
	Pointer string
	Widget  string
}

func (e *MissingWidgetError) Error() string {
	return fmt.Sprintf("widgets: no renderer for widget %q at %s", e.Widget, pointerOrRoot(e.Pointer))
}

// RenderError reports a renderer that failed or panicked. The failure is
// contained to the node at Pointer.
type RenderError struct {
	Pointer string
	Widget  string
	Err     error
	Panic   any
}

func (e *RenderError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("widgets: render %q at %s panicked: %v", e.Widget, pointerOrRoot(e.Pointer), e.Panic)
	}
	return fmt.Sprintf("widgets: render %q at %s: %v", e.Widget, pointerOrRoot(e.Pointer), e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func pointerOrRoot(pointer string) string {
	if pointer == "" {
		return "/"
	}
	return pointer
}
