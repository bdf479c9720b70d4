// Package httpapi exposes the composition engine over HTTP for hosts that
// run the editor as a service: compose a form for a catalog document,
// validate form data, convert it back, export the composed schema and
// render it with the configured widget table.
package httpapi
