package openapi

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/iter"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

// Document is an OpenAPI 3.0 description of a converted SOAP service.
// Field order matches the emitted key order.
type Document struct {
	OpenAPI    string                                    `json:"openapi"`
	Info       Info                                      `json:"info"`
	Servers    []Server                                  `json:"servers"`
	Paths      *orderedmap.OrderedMap[string, *PathItem] `json:"paths"`
	Components Components                                `json:"components"`
}

type Info struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
	WsdlURL     string `json:"x-wsdl-url"`
}

type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type Components struct {
	Schemas map[string]*Schema `json:"schemas"`
}

// PathItem only ever carries POST; every converted operation is invoked
// by posting a JSON body to its proxy path.
type PathItem struct {
	Post *Operation `json:"post,omitempty"`
}

type Operation struct {
	OperationID  string               `json:"operationId"`
	Summary      string               `json:"summary"`
	Description  string               `json:"description"`
	Tags         []string             `json:"tags"`
	RequestBody  *RequestBody         `json:"requestBody,omitempty"`
	Responses    map[string]*Response `json:"responses"`
	SOAPMetadata *SOAPMetadata        `json:"x-soap-metadata,omitempty"`
}

type RequestBody struct {
	Required bool                  `json:"required"`
	Content  map[string]*MediaType `json:"content"`
}

type MediaType struct {
	Schema *Schema `json:"schema"`
}

type Response struct {
	Description string                `json:"description"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

// SOAPMetadata keeps the details the runtime translator needs to build
// the upstream request. soap_action stays present even when empty
// because an empty SOAPAction is still a valid SOAP 1.1 header value.
type SOAPMetadata struct {
	SOAPAction string `json:"soap_action"`
	PortName   string `json:"port_name"`
}

// Options control document assembly.
type Options struct {
	// ServiceName overrides the WSDL service name when non-empty.
	ServiceName string
	// ProxyBaseURL is the externally reachable base of this proxy,
	// used as the single servers[] entry.
	ProxyBaseURL string
	// WsdlURL is recorded in info.x-wsdl-url so a stored document can
	// be traced back to its source.
	WsdlURL string
}

// ConvertedOperation pairs an operation with its derived schemas and
// proxy path. The input schema doubles as the execution-time parameter
// validator and the tool registration schema.
type ConvertedOperation struct {
	Name         string
	SOAPAction   string
	Path         string
	InputSchema  *Schema
	OutputSchema *Schema
}

// Result is the outcome of converting a resolved service description.
type Result struct {
	Document    *Document
	ServiceName string
	Description string
	PortName    string
	Operations  []ConvertedOperation
}

// Convert builds the OpenAPI document for a resolved service. Operation
// schemas are derived concurrently; document order still follows the
// WSDL portType order.
func Convert(desc *wsdl.ServiceDescription, opts Options) *Result {
	serviceName := desc.Name
	if opts.ServiceName != "" {
		serviceName = opts.ServiceName
	}
	description := desc.Documentation
	if description == "" {
		description = "SOAP service converted from WSDL"
	}

	converted := iter.Map(desc.Operations, func(op *wsdl.OperationDescription) ConvertedOperation {
		return ConvertedOperation{
			Name:         op.Name,
			SOAPAction:   op.SOAPAction,
			Path:         fmt.Sprintf("/soap/%s/%s", serviceName, op.Name),
			InputSchema:  InputSchema(op.Input),
			OutputSchema: OutputSchema(op.Output),
		}
	})

	doc := &Document{
		OpenAPI: "3.0.0",
		Info: Info{
			Title:       serviceName,
			Description: description,
			Version:     "1.0.0",
			WsdlURL:     opts.WsdlURL,
		},
		Servers: []Server{{
			URL:         strings.TrimRight(opts.ProxyBaseURL, "/"),
			Description: "SOAP-to-REST Proxy Server",
		}},
		Paths:      orderedmap.New[string, *PathItem](),
		Components: Components{Schemas: map[string]*Schema{}},
	}

	for i, op := range converted {
		src := desc.Operations[i]
		doc.Paths.Set(op.Path, &PathItem{Post: &Operation{
			OperationID: op.Name,
			Summary:     defaultText(src.Documentation, "SOAP operation: "+op.Name),
			Description: defaultText(src.Documentation, "Execute SOAP operation "+op.Name),
			Tags:        []string{serviceName},
			RequestBody: &RequestBody{
				Required: true,
				Content:  jsonContent(op.InputSchema),
			},
			Responses: map[string]*Response{
				"200": {
					Description: "Successful SOAP response",
					Content:     jsonContent(op.OutputSchema),
				},
				"500": {
					Description: "SOAP fault or error",
					Content:     jsonContent(errorSchema()),
				},
			},
			SOAPMetadata: &SOAPMetadata{
				SOAPAction: op.SOAPAction,
				PortName:   desc.Port.Name,
			},
		}})
	}

	return &Result{
		Document:    doc,
		ServiceName: serviceName,
		Description: description,
		PortName:    desc.Port.Name,
		Operations:  converted,
	}
}

func jsonContent(schema *Schema) map[string]*MediaType {
	return map[string]*MediaType{
		"application/json": {Schema: schema},
	}
}

func errorSchema() *Schema {
	s := NewObjectSchema()
	s.Properties.Set("error", &Schema{Type: "string"})
	s.Properties.Set("detail", &Schema{Type: "string"})
	return s
}

func defaultText(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
