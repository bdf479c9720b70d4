// Package aggregator turns a plugin spec list and an external document into a
// ready plugin set and its seeded form data.
//
// A pass resolves the specs, applies hooks on per-pass copies, runs every
// Init concurrently and only then builds the skeleton and seeds it. Nothing
// is published before the whole pass has finished; Controller adds epoch
// guarding for hosts that re-run passes as inputs change.
//
// Plugins sharing a top-level key are not merged: the last plugin's schema
// and output win, while seeding keeps the first populated value. Same-named
// top-level keys across plugins are unsupported.
package aggregator
