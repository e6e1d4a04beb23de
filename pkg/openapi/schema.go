// Package openapi translates resolved WSDL services into OpenAPI 3.0
// documents with deterministic output: property order follows XSD element
// order and repeated marshals of the same document are byte-identical.
package openapi

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Schema is a JSON Schema node as embedded in the emitted documents.
// Properties keep insertion order through marshal and unmarshal, which is
// what makes stored schemas re-emit byte-for-byte.
type Schema struct {
	Type        string                                  `json:"type,omitempty"`
	Format      string                                  `json:"format,omitempty"`
	Description string                                  `json:"description,omitempty"`
	Properties  *orderedmap.OrderedMap[string, *Schema] `json:"properties,omitempty"`
	Required    []string                                `json:"required,omitempty"`
	Items       *Schema                                 `json:"items,omitempty"`
}

// NewObjectSchema returns an object schema with an empty (but present)
// properties map.
func NewObjectSchema() *Schema {
	return &Schema{Type: "object", Properties: orderedmap.New[string, *Schema]()}
}

// PropertyCount returns the number of declared properties.
func (s *Schema) PropertyCount() int {
	if s == nil || s.Properties == nil {
		return 0
	}
	return s.Properties.Len()
}

// Property returns the named property schema, or nil.
func (s *Schema) Property(name string) *Schema {
	if s == nil || s.Properties == nil {
		return nil
	}
	prop, _ := s.Properties.Get(name)
	return prop
}

// OnlyPropertyName returns the single declared property name when exactly
// one exists.
func (s *Schema) OnlyPropertyName() (string, bool) {
	if s.PropertyCount() != 1 {
		return "", false
	}
	return s.Properties.Oldest().Key, true
}

// PropertyNames returns property names in declaration order.
func (s *Schema) PropertyNames() []string {
	if s == nil || s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// IsRequired reports whether a property name appears in the required list.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
