package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-catalogform/pkg/schema"
)

const (
	extensionLabels     = "x-catalogform-labels"
	extensionOptions    = "x-catalogform-options"
	extensionAllowOther = "x-catalogform-allow-other"
	extensionWidget     = "x-catalogform-widget"

	// SchemaName is the component name used by Document.
	SchemaName = "CatalogForm"
)

// Schema converts a field tree into an OpenAPI schema. String enums become
// enum constraints unless allowOther is set, in which case the options are
// only listed as an extension.
func Schema(field *schema.Field) (*openapi3.Schema, error) {
	return convert(field, "")
}

func convert(field *schema.Field, path string) (*openapi3.Schema, error) {
	if field == nil {
		return nil, &schema.CompilationError{Path: path, Reason: "field is nil"}
	}

	out := &openapi3.Schema{Extensions: map[string]any{}}
	if label := field.Label.String(); label != "" {
		out.Title = label
	} else if len(field.Label) > 1 {
		out.Extensions[extensionLabels] = []string(field.Label)
	}
	if field.Widget != "" {
		out.Extensions[extensionWidget] = field.Widget
	}

	switch field.Type {
	case schema.TypeString:
		out.Type = &openapi3.Types{"string"}
		if field.HasEnum() {
			options := make([]map[string]string, 0, len(field.Enum))
			keys := make([]any, 0, len(field.Enum))
			for _, option := range field.Enum {
				options = append(options, map[string]string{"key": option.Key, "label": option.Label})
				keys = append(keys, option.Key)
			}
			out.Extensions[extensionOptions] = options
			if field.AllowOther != nil {
				out.Extensions[extensionAllowOther] = field.AllowOther.Type
			} else if len(keys) > 0 {
				out.Enum = keys
			}
		}

	case schema.TypeNumber:
		out.Type = &openapi3.Types{"number"}

	case schema.TypeJSON:
		allow := true
		out.Type = &openapi3.Types{"object"}
		out.AdditionalProperties = openapi3.AdditionalProperties{Has: &allow}

	case schema.TypeArray:
		if field.Items == nil {
			return nil, &schema.CompilationError{Path: path, Type: field.Type, Reason: "array schema requires items"}
		}
		items, err := convert(field.Items, path+"/items")
		if err != nil {
			return nil, err
		}
		out.Type = &openapi3.Types{"array"}
		out.Items = openapi3.NewSchemaRef("", items)
		if field.MinItems > 0 {
			out.MinItems = uint64(field.MinItems)
		}
		if field.MaxItems != nil && *field.MaxItems >= 0 {
			limit := uint64(*field.MaxItems)
			out.MaxItems = &limit
		}

	case schema.TypeObject, schema.TypeRoot:
		if field.Properties == nil {
			return nil, &schema.CompilationError{Path: path, Type: field.Type, Reason: "object schema requires properties"}
		}
		out.Type = &openapi3.Types{"object"}
		out.Properties = make(openapi3.Schemas, len(field.Properties))
		for _, name := range field.PropertyNames() {
			child, err := convert(field.Properties[name], schema.JoinPointer(path, name))
			if err != nil {
				return nil, err
			}
			out.Properties[name] = openapi3.NewSchemaRef("", child)
			if field.IsRequired(name) {
				out.Required = append(out.Required, name)
			}
		}
		if field.AdditionalProperties {
			allow := true
			out.AdditionalProperties = openapi3.AdditionalProperties{Has: &allow}
		}

	default:
		return nil, &schema.CompilationError{Path: path, Type: field.Type, Reason: fmt.Sprintf("unknown field type %q", field.Type)}
	}

	if len(out.Extensions) == 0 {
		out.Extensions = nil
	}
	return out, nil
}

// Document wraps the exported schema in a minimal OpenAPI 3 document that
// describes the validate endpoint of the HTTP API. The document is loaded and
// validated with kin-openapi before it is returned.
func Document(ctx context.Context, title, version string, field *schema.Field) (*openapi3.T, error) {
	if ctx == nil {
		return nil, errors.New("openapi: context is required")
	}
	exported, err := Schema(field)
	if err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}

	ref := map[string]any{"$ref": "#/components/schemas/" + SchemaName}
	payload := map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": title, "version": version},
		"paths": map[string]any{
			"/validate": map[string]any{
				"post": map[string]any{
					"operationId": "validateForm",
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{"schema": ref},
						},
					},
					"responses": map[string]any{
						"200": map[string]any{"description": "Form data is valid"},
						"422": map[string]any{"description": "Form data has validation errors"},
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{SchemaName: exported},
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode document: %w", err)
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}
