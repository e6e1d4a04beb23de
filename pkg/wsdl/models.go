package wsdl

// Document represents a parsed WSDL 1.1 document after import resolution
type Document struct {
	TargetNamespace string        `json:"target_namespace"`
	Name            string        `json:"name,omitempty"`
	Documentation   string        `json:"documentation,omitempty"`
	Types           *Types        `json:"types,omitempty"`
	Messages        []Message     `json:"messages"`
	PortTypes       []PortType    `json:"port_types"`
	Bindings        []Binding     `json:"bindings"`
	Services        []Service     `json:"services"`
	Imports         []Import      `json:"-"` // For internal resolution only
	TypeRegistry    *TypeRegistry `json:"type_registry,omitempty"`

	namespaces *NamespaceMap
}

// Namespaces returns the prefix declarations collected while parsing.
func (d *Document) Namespaces() *NamespaceMap {
	if d.namespaces == nil {
		return NewNamespaceMap()
	}
	return d.namespaces
}

// Import represents a wsdl:import element
type Import struct {
	Namespace string `json:"namespace,omitempty"`
	Location  string `json:"location,omitempty"`
}

// Types contains the type definitions (XSD schemas)
type Types struct {
	Schemas []XSDSchema `json:"schemas"`
}

// Service represents a WSDL service (collection of ports/endpoints)
type Service struct {
	Name          string `json:"name"`
	Documentation string `json:"documentation,omitempty"`
	Ports         []Port `json:"ports"`
}

// Port represents a single endpoint (binding + address)
type Port struct {
	Name        string `json:"name"`
	Binding     string `json:"binding"`      // QName reference to binding
	Address     string `json:"address"`      // Endpoint URL
	SOAPVersion string `json:"soap_version"` // "1.1" or "1.2"
}

// Binding represents the concrete protocol binding for a port type
type Binding struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`                   // QName reference to portType
	Style       string             `json:"style,omitempty"`        // "document" or "rpc"
	Transport   string             `json:"transport,omitempty"`    // e.g., "http://schemas.xmlsoap.org/soap/http"
	SOAPVersion string             `json:"soap_version,omitempty"` // "1.1" or "1.2"
	Operations  []BindingOperation `json:"operations"`
}

// BindingOperation defines operation-level binding details
type BindingOperation struct {
	Name       string     `json:"name"`
	SOAPAction string     `json:"soap_action,omitempty"`
	Style      string     `json:"style,omitempty"` // Overrides binding-level style
	Input      *BindingIO `json:"input,omitempty"`
	Output     *BindingIO `json:"output,omitempty"`
}

// BindingIO describes the encoding for input/output messages
type BindingIO struct {
	Use           string `json:"use,omitempty"`            // "literal" or "encoded"
	Namespace     string `json:"namespace,omitempty"`      // Namespace for encoded messages
	EncodingStyle string `json:"encoding_style,omitempty"` // SOAP encoding style URI
}

// PortType defines abstract operation signatures (interface)
type PortType struct {
	Name          string      `json:"name"`
	Documentation string      `json:"documentation,omitempty"`
	Operations    []Operation `json:"operations"`
}

// Operation defines a single abstract operation
type Operation struct {
	Name          string  `json:"name"`
	Documentation string  `json:"documentation,omitempty"`
	Input         *IORef  `json:"input,omitempty"`
	Output        *IORef  `json:"output,omitempty"`
	Faults        []IORef `json:"faults,omitempty"`
}

// IORef references a message (input, output, or fault)
type IORef struct {
	Name    string `json:"name,omitempty"`    // Name attribute (optional for input/output)
	Message string `json:"message,omitempty"` // QName reference to message
}

// Message defines an abstract data definition
type Message struct {
	Name          string        `json:"name"`
	Documentation string        `json:"documentation,omitempty"`
	Parts         []MessagePart `json:"parts"`

	// TargetNamespace is the namespace of the defining document, kept so
	// messages merged from imported documents stay resolvable.
	TargetNamespace string `json:"-"`
}

// MessagePart references a type or element within a message
type MessagePart struct {
	Name    string `json:"name"`
	Element string `json:"element,omitempty"` // QName reference to element (doc/literal style)
	Type    string `json:"type,omitempty"`    // QName reference to type (rpc style)
}

// TypeRegistry provides quick lookup of resolved schema components.
// Entries are keyed both by Clark notation ("{ns}local") and by bare
// local name; the bare key is a convenience for documents that never
// reuse a local name across namespaces.
type TypeRegistry struct {
	Elements     map[string]*XSDElement     `json:"elements,omitempty"`
	ComplexTypes map[string]*XSDComplexType `json:"complex_types,omitempty"`
	SimpleTypes  map[string]*XSDSimpleType  `json:"simple_types,omitempty"`
	Messages     map[string]*Message        `json:"messages,omitempty"`
}

// NewTypeRegistry creates an empty type registry
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		Elements:     make(map[string]*XSDElement),
		ComplexTypes: make(map[string]*XSDComplexType),
		SimpleTypes:  make(map[string]*XSDSimpleType),
		Messages:     make(map[string]*Message),
	}
}

// LookupElement resolves an element reference by Clark key, then bare name.
func (r *TypeRegistry) LookupElement(namespace, local string) *XSDElement {
	if e, ok := r.Elements[MakeTypeKey(namespace, local)]; ok {
		return e
	}
	return r.Elements[local]
}

// LookupComplexType resolves a complex type reference by Clark key, then bare name.
func (r *TypeRegistry) LookupComplexType(namespace, local string) *XSDComplexType {
	if ct, ok := r.ComplexTypes[MakeTypeKey(namespace, local)]; ok {
		return ct
	}
	return r.ComplexTypes[local]
}

// LookupSimpleType resolves a simple type reference by Clark key, then bare name.
func (r *TypeRegistry) LookupSimpleType(namespace, local string) *XSDSimpleType {
	if st, ok := r.SimpleTypes[MakeTypeKey(namespace, local)]; ok {
		return st
	}
	return r.SimpleTypes[local]
}

// LookupMessage resolves a message reference by Clark key, then bare name.
func (r *TypeRegistry) LookupMessage(namespace, local string) *Message {
	if m, ok := r.Messages[MakeTypeKey(namespace, local)]; ok {
		return m
	}
	return r.Messages[local]
}
