// Package schema defines the field vocabulary plugins use to describe their
// slice of an editable catalog document (string, number, json, array,
// object/root), decoding from JSON or YAML, and the skeleton builder that
// derives empty form data from a field.
package schema
