package batches

import (
	"encoding/json"
	"fmt"
)

// SchemaProperty declares a single field of a structured response.
type SchemaProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// ResponseSchema is the declared shape model responses must conform to.
// Components receive the schema explicitly; it is never inferred from
// ambient definitions.
type ResponseSchema struct {
	Name       string
	Properties map[string]SchemaProperty
	Required   []string
}

// ResponseFormatSchema is the inner json_schema object of a response format.
type ResponseFormatSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

// ResponseFormat is the structured-output response_format payload understood
// by the chat completions endpoint.
type ResponseFormat struct {
	Type       string               `json:"type"` // "json_schema"
	JSONSchema ResponseFormatSchema `json:"json_schema"`
}

// ResponseFormat renders the schema as a strict json_schema response format.
func (s ResponseSchema) ResponseFormat() *ResponseFormat {
	return &ResponseFormat{
		Type: "json_schema",
		JSONSchema: ResponseFormatSchema{
			Name:   s.Name,
			Schema: s.objectSchema(),
			Strict: true,
		},
	}
}

// JSONSchema renders the schema as a plain JSON Schema document, suitable for
// validating assistant outputs.
func (s ResponseSchema) JSONSchema() (string, error) {
	doc, err := json.Marshal(s.objectSchema())
	if err != nil {
		return "", fmt.Errorf("failed to marshal response schema %s: %w", s.Name, err)
	}

	return string(doc), nil
}

func (s ResponseSchema) objectSchema() map[string]any {
	properties := make(map[string]any, len(s.Properties))
	for name, property := range s.Properties {
		properties[name] = property
	}

	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             s.Required,
		"additionalProperties": false,
	}
}
