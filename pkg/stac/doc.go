// Package stac provides the collection plugins of the catalog editor: the
// core collection fields plus the item-assets and render extensions, and the
// data helpers they share.
//
// Extension plugins stay hidden until the form's stac_extensions list names
// their schema URL. Each one registers a hook on the core plugin so its URL
// shows up as an option of that list.
package stac
