// Package validation compiles the schemas contributed by a plugin set into
// one validator and runs it against form data.
//
// Validation never fails with a Go error: every problem is reported in an
// ErrorTree that mirrors the schema nesting, one message per path. Only
// schema authoring bugs (*schema.CompilationError) are returned as errors,
// at compile time.
package validation
