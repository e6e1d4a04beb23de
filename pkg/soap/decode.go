package soap

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

// DecodeResponse extracts the operation result from a response envelope.
// Complex values come back as insertion-ordered objects following the
// output schema's element order; a Fault in the body is returned as a
// *Fault error.
func DecodeResponse(op *wsdl.OperationDescription, data []byte) (any, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("invalid response XML: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "Envelope" {
		return nil, fmt.Errorf("response is not a SOAP envelope")
	}
	body := childByTag(root, "Body")
	if body == nil {
		return nil, fmt.Errorf("response envelope has no Body")
	}

	if faultEl := childByTag(body, "Fault"); faultEl != nil {
		return nil, parseFault(faultEl)
	}

	children := body.ChildElements()
	if len(children) == 0 {
		return nil, nil
	}
	return decodeElement(children[0], op.Output), nil
}

func decodeElement(el *etree.Element, t *wsdl.Type) any {
	if isNilElement(el) {
		return nil
	}
	if t == nil {
		return decodeUnknown(el)
	}

	switch t.Kind {
	case wsdl.KindPrimitive:
		return parseScalar(el.Text(), t.Primitive)
	case wsdl.KindList:
		return decodeSpaceList(el.Text(), t.Item)
	case wsdl.KindComplex:
		return decodeComplex(el, t)
	default:
		return decodeUnknown(el)
	}
}

func decodeComplex(el *etree.Element, t *wsdl.Type) any {
	// Wrapper lists collapse: the container's repeated children become the
	// array the schema advertised, document order preserved.
	if inner, ok := t.WrapperList(); ok {
		items := make([]any, 0)
		for _, child := range el.ChildElements() {
			if child.Tag == inner.Name {
				items = append(items, decodeElement(child, inner.Type))
			}
		}
		return items
	}

	obj := orderedmap.New[string, any]()
	children := el.ChildElements()
	used := make([]bool, len(children))

	for _, field := range t.Elements {
		var matches []*etree.Element
		for i, child := range children {
			if !used[i] && child.Tag == field.Name {
				used[i] = true
				matches = append(matches, child)
			}
		}
		if len(matches) == 0 {
			continue
		}
		if field.Repeats() {
			items := make([]any, 0, len(matches))
			for _, m := range matches {
				items = append(items, decodeElement(m, field.Type))
			}
			obj.Set(field.Name, items)
		} else {
			obj.Set(field.Name, decodeElement(matches[0], field.Type))
		}
	}

	for _, attr := range t.Attributes {
		if v, ok := attrByName(el, attr.Name); ok {
			obj.Set(attr.Name, parseScalarType(v, attr.Type))
		}
	}

	// Elements the schema does not know still surface, after the declared
	// ones, in document order.
	for i, child := range children {
		if used[i] {
			continue
		}
		value := decodeUnknown(child)
		if existing, ok := obj.Get(child.Tag); ok {
			if arr, isArr := existing.([]any); isArr {
				obj.Set(child.Tag, append(arr, value))
			} else {
				obj.Set(child.Tag, []any{existing, value})
			}
		} else {
			obj.Set(child.Tag, value)
		}
	}

	text := strings.TrimSpace(el.Text())
	if obj.Len() == 0 {
		if text != "" {
			return text
		}
		return obj
	}
	if text != "" {
		obj.Set(textKey, text)
	}
	return obj
}

// decodeUnknown maps an element with no schema to JSON by structure alone:
// leaf elements become their text, others become objects with repeated
// names grouped into arrays.
func decodeUnknown(el *etree.Element) any {
	if isNilElement(el) {
		return nil
	}
	children := el.ChildElements()
	if len(children) == 0 {
		return el.Text()
	}

	obj := orderedmap.New[string, any]()
	for _, child := range children {
		value := decodeUnknown(child)
		if existing, ok := obj.Get(child.Tag); ok {
			if arr, isArr := existing.([]any); isArr {
				obj.Set(child.Tag, append(arr, value))
			} else {
				obj.Set(child.Tag, []any{existing, value})
			}
		} else {
			obj.Set(child.Tag, value)
		}
	}
	if text := strings.TrimSpace(el.Text()); text != "" {
		obj.Set(textKey, text)
	}
	return obj
}

func decodeSpaceList(text string, item *wsdl.Type) []any {
	fields := strings.Fields(text)
	items := make([]any, 0, len(fields))
	for _, f := range fields {
		items = append(items, parseScalarType(f, item))
	}
	return items
}

func parseScalarType(text string, t *wsdl.Type) any {
	if t == nil || t.Kind != wsdl.KindPrimitive {
		return text
	}
	return parseScalar(text, t.Primitive)
}

// parseScalar maps XSD lexical values to native JSON types. Values outside
// the type's lexical space pass through as strings rather than failing the
// whole response.
func parseScalar(text, primitive string) any {
	switch primitive {
	case wsdl.XSDBoolean:
		switch strings.TrimSpace(text) {
		case "true", "1":
			return true
		case "false", "0":
			return false
		}
		return text
	case wsdl.XSDInt, wsdl.XSDInteger, wsdl.XSDLong, wsdl.XSDShort, wsdl.XSDByte,
		wsdl.XSDUnsignedLong, wsdl.XSDUnsignedInt, wsdl.XSDUnsignedShort, wsdl.XSDUnsignedByte,
		wsdl.XSDPositiveInteger, wsdl.XSDNonNegativeInteger, wsdl.XSDNegativeInteger, wsdl.XSDNonPositiveInteger:
		if n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}
		return text
	case wsdl.XSDDecimal, wsdl.XSDFloat, wsdl.XSDDouble:
		if f, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}
		return text
	default:
		return text
	}
}

func childByTag(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

func attrByName(el *etree.Element, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Space == "xmlns" || a.Key == "xmlns" {
			continue
		}
		if a.Key == name {
			return a.Value, true
		}
	}
	return "", false
}

func isNilElement(el *etree.Element) bool {
	for _, a := range el.Attr {
		if a.Key != "nil" {
			continue
		}
		if a.Value == "true" || a.Value == "1" {
			return true
		}
	}
	return false
}
