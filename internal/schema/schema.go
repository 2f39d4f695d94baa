// Package schema holds the structural contracts sent to the extraction model.
//
// Schemas are plain data: they can be inspected, serialized, and converted to
// the provider wire format (genai.Schema) or to JSON Schema for local
// validation, independent of the Go types the response is decoded into.
package schema

import (
	"encoding/json"

	"google.golang.org/genai"
)

// Type is the primitive type of a schema node.
type Type string

const (
	TypeString Type = "string"
	TypeNumber Type = "number"
	TypeArray  Type = "array"
	TypeObject Type = "object"
)

// Property is a named child of an object node. Order is significant and is
// forwarded to the model as the property ordering.
type Property struct {
	Name   string
	Schema *Schema
}

// Schema is a declarative structural contract.
type Schema struct {
	Type        Type
	Description string
	Properties  []Property // TypeObject only
	Required    []string   // TypeObject only
	Items       *Schema    // TypeArray only
}

// property returns the child schema called name, or nil.
func (s *Schema) property(name string) *Schema {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{
		Type:        s.Type,
		Description: s.Description,
		Items:       s.Items.Clone(),
	}
	if s.Required != nil {
		out.Required = append([]string(nil), s.Required...)
	}
	if s.Properties != nil {
		out.Properties = make([]Property, len(s.Properties))
		for i, p := range s.Properties {
			out.Properties[i] = Property{Name: p.Name, Schema: p.Schema.Clone()}
		}
	}
	return out
}

// GenAI converts the schema to the Gemini response schema format.
func (s *Schema) GenAI() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Items:       s.Items.GenAI(),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		out.PropertyOrdering = make([]string, 0, len(s.Properties))
		for _, p := range s.Properties {
			out.Properties[p.Name] = p.Schema.GenAI()
			out.PropertyOrdering = append(out.PropertyOrdering, p.Name)
		}
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	return out
}

func genaiType(t Type) genai.Type {
	switch t {
	case TypeString:
		return genai.TypeString
	case TypeNumber:
		return genai.TypeNumber
	case TypeArray:
		return genai.TypeArray
	case TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

// JSONSchema converts the schema to a JSON Schema document (draft 2020-12 subset).
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for _, p := range s.Properties {
			props[p.Name] = p.Schema.JSONSchema()
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	return out
}

// MarshalJSON encodes the schema as JSON Schema.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.JSONSchema())
}
