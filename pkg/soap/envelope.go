// Package soap executes document/literal operations against the endpoint
// described by a resolved WSDL service, translating between JSON-shaped
// values and SOAP envelopes in both directions.
package soap

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/beevik/etree"

	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

// textKey carries mixed content through the JSON mapping: on encode a
// "_text" property becomes element text, on decode element text alongside
// children comes back under the same key.
const textKey = "_text"

// BuildEnvelope serializes JSON-shaped parameters into a request envelope
// for the given operation. Children follow the input schema's element
// order; parameters the schema does not know are appended in sorted order
// so the output stays deterministic.
func BuildEnvelope(op *wsdl.OperationDescription, version string, params map[string]any) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soap:Envelope")
	env.CreateAttr("xmlns:soap", wsdl.GetSOAPEnvelopeNamespace(version))
	body := env.CreateElement("soap:Body")

	wrapper, err := createWrapper(body, op)
	if err != nil {
		return nil, err
	}
	if op.Input != nil || len(params) > 0 {
		writeComplexContent(wrapper, op.Input, params)
	}

	return doc.WriteToBytes()
}

// createWrapper adds the operation's body element. With
// elementFormDefault="qualified" the children inherit the target namespace
// through a default xmlns; otherwise the wrapper alone is prefixed so the
// children stay unqualified.
func createWrapper(body *etree.Element, op *wsdl.OperationDescription) (*etree.Element, error) {
	name := op.InputElement.LocalPart
	if name == "" {
		name = op.Name
	}
	if name == "" {
		return nil, fmt.Errorf("operation has no addressable input element")
	}

	ns := op.InputElement.Namespace
	switch {
	case ns == "":
		return body.CreateElement(name), nil
	case op.Qualified:
		wrapper := body.CreateElement(name)
		wrapper.CreateAttr("xmlns", ns)
		return wrapper, nil
	default:
		wrapper := body.CreateElement("m:" + name)
		wrapper.CreateAttr("xmlns:m", ns)
		return wrapper, nil
	}
}

// writeComplexContent fills an element from a JSON object, schema first:
// attributes become XML attributes, declared elements keep schema order,
// and leftover keys are appended sorted.
func writeComplexContent(el *etree.Element, t *wsdl.Type, value map[string]any) {
	consumed := make(map[string]bool, len(value))

	if t != nil {
		for _, attr := range t.Attributes {
			v, ok := value[attr.Name]
			if !ok {
				continue
			}
			consumed[attr.Name] = true
			el.CreateAttr(attr.Name, formatScalar(v))
		}
		for _, field := range t.Elements {
			v, ok := value[field.Name]
			if !ok {
				continue
			}
			consumed[field.Name] = true
			writeValue(el, field.Name, v, field.Type)
		}
	}

	if txt, ok := value[textKey]; ok {
		consumed[textKey] = true
		el.SetText(formatScalar(txt))
	}

	var extras []string
	for k := range value {
		if !consumed[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		writeValue(el, k, value[k], nil)
	}
}

// writeValue appends one named element (or several, for arrays) built from
// a JSON value.
func writeValue(parent *etree.Element, name string, value any, t *wsdl.Type) {
	// A JSON array aimed at a wrapper-list type re-wraps: one container
	// element holding a repeated inner element per item, mirroring how the
	// advertised schema collapsed the wrapper into an array.
	if inner, ok := t.WrapperList(); ok {
		if items, isArray := value.([]any); isArray {
			el := parent.CreateElement(name)
			for _, item := range items {
				writeValue(el, inner.Name, item, inner.Type)
			}
			return
		}
	}

	if items, ok := value.([]any); ok {
		for _, item := range items {
			writeValue(parent, name, item, t)
		}
		return
	}

	el := parent.CreateElement(name)
	switch v := value.(type) {
	case nil:
		// empty element; absent and null are indistinguishable upstream
	case map[string]any:
		writeComplexContent(el, childType(t), v)
	default:
		el.SetText(formatScalar(v))
	}
}

// childType unwraps list items so nested objects resolve against the right
// schema node.
func childType(t *wsdl.Type) *wsdl.Type {
	if t != nil && t.Kind == wsdl.KindList {
		return t.Item
	}
	return t
}

func formatScalar(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
