// Package plugin holds the contract a catalog editor plugin implements, the
// resolver that turns a heterogeneous spec list into concrete plugins, and the
// hook composer that cross-wires plugins for one resolution pass.
//
// A plugin contributes one section of the edit form: EditSchema describes its
// fields, EnterData maps the external document into form data and ExitData
// maps form data back. Hooks let one plugin extend another plugin's Init or
// EditSchema without either holding a reference to the other; they are
// materialised by ApplyHooks on per-pass copies, never on the caller's
// instances.
package plugin
