package openapi

import (
	"github.com/rs/zerolog/log"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

// jsonTypes maps XSD built-ins with a direct JSON counterpart. Built-ins
// absent from this table (duration, token, QName, ...) have no faithful
// JSON shape and fall through to a plain object.
var jsonTypes = map[string]string{
	"string":             "string",
	"anyURI":             "string",
	"base64Binary":       "string",
	"hexBinary":          "string",
	"date":               "string",
	"dateTime":           "string",
	"time":               "string",
	"boolean":            "boolean",
	"int":                "integer",
	"integer":            "integer",
	"long":               "integer",
	"short":              "integer",
	"byte":               "integer",
	"unsignedLong":       "integer",
	"unsignedInt":        "integer",
	"unsignedShort":      "integer",
	"unsignedByte":       "integer",
	"positiveInteger":    "integer",
	"nonNegativeInteger": "integer",
	"negativeInteger":    "integer",
	"nonPositiveInteger": "integer",
	"decimal":            "number",
	"float":              "number",
	"double":             "number",
}

// formattedTypes carry their XSD local name as the JSON Schema format.
var formattedTypes = map[string]bool{
	"date":     true,
	"dateTime": true,
	"time":     true,
}

// SchemaFromType converts a resolved type into a JSON Schema. The
// conversion is pure and safe to run concurrently for distinct inputs; the
// cycle guard is per call and tracks only the current path, so a type may
// legitimately appear on several sibling branches.
func SchemaFromType(t *wsdl.Type) *Schema {
	return typeSchema(t, make(map[*wsdl.Type]bool))
}

// InputSchema converts an operation input; operations without an input body
// accept an empty object.
func InputSchema(t *wsdl.Type) *Schema {
	if t == nil {
		return NewObjectSchema()
	}
	return SchemaFromType(t)
}

// OutputSchema converts an operation output; one-way operations produce an
// unconstrained object.
func OutputSchema(t *wsdl.Type) *Schema {
	if t == nil {
		return &Schema{Type: "object"}
	}
	return SchemaFromType(t)
}

func typeSchema(t *wsdl.Type, onPath map[*wsdl.Type]bool) *Schema {
	if t == nil {
		return &Schema{Type: "object"}
	}

	if t.Kind == wsdl.KindPrimitive {
		return primitiveSchema(t.Primitive)
	}

	if onPath[t] {
		log.Warn().Str("type", typeLabel(t)).Msg("Circular reference detected in type graph")
		return &Schema{Type: "object", Description: "Circular reference to " + typeLabel(t)}
	}
	onPath[t] = true
	defer delete(onPath, t)

	switch t.Kind {
	case wsdl.KindList:
		return &Schema{Type: "array", Items: typeSchema(t.Item, onPath)}
	case wsdl.KindComplex:
		return complexSchema(t, onPath)
	default:
		log.Warn().Str("type", typeLabel(t)).Msg("Unknown XSD type, mapping to object")
		return &Schema{Type: "object"}
	}
}

func primitiveSchema(local string) *Schema {
	jsonType, ok := jsonTypes[local]
	if !ok {
		return &Schema{Type: "object"}
	}
	schema := &Schema{Type: jsonType}
	if formattedTypes[local] {
		schema.Format = local
	}
	return schema
}

func complexSchema(t *wsdl.Type, onPath map[*wsdl.Type]bool) *Schema {
	if inner, ok := t.WrapperList(); ok {
		return &Schema{Type: "array", Items: typeSchema(inner.Type, onPath)}
	}

	schema := &Schema{Type: "object", Properties: orderedmap.New[string, *Schema]()}
	var required []string

	for _, elem := range t.Elements {
		prop := typeSchema(elem.Type, onPath)
		if elem.Repeats() {
			prop = &Schema{Type: "array", Items: prop}
		}
		if elem.Documentation != "" {
			prop.Description = elem.Documentation
		}
		schema.Properties.Set(elem.Name, prop)

		// Nillable elements accept an explicit null upstream, so they are
		// not required of REST callers even when minOccurs says otherwise.
		if elem.MinOccurs >= 1 && !elem.Nillable {
			required = append(required, elem.Name)
		}
	}

	for _, attr := range t.Attributes {
		schema.Properties.Set(attr.Name, typeSchema(attr.Type, onPath))
		if attr.Required {
			required = append(required, attr.Name)
		}
	}

	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

func typeLabel(t *wsdl.Type) string {
	if t.Name != "" {
		return t.Name
	}
	return "anonymous type"
}
