// Package openapi exports composed form schemas as OpenAPI 3 schemas so
// services outside the editor can validate or document catalog payloads.
//
// Enum labels, cyclic item labels, widget overrides and allowOther rules have
// no OpenAPI equivalent and travel as x-catalogform-* extensions.
package openapi
