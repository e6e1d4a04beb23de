package wsdl

// Unbounded marks maxOccurs="unbounded".
const Unbounded = -1

// Kind classifies a resolved type.
type Kind int

const (
	// KindPrimitive is an XSD built-in simple type.
	KindPrimitive Kind = iota
	// KindComplex is structured content: child elements and attributes.
	KindComplex
	// KindList is an xsd:list of a simple item type.
	KindList
	// KindOpaque is anything that cannot be resolved to a usable shape:
	// unknown type references, xsd:union.
	KindOpaque
)

// Type is a resolved schema type. Named types are shared: two references to
// the same named type yield the same *Type, so pointer identity doubles as
// type identity for cycle detection during traversal.
type Type struct {
	Kind          Kind
	Name          string // Local name; empty for anonymous inline types
	Primitive     string // XSD local name for KindPrimitive ("string", "int", ...)
	Elements      []Element
	Attributes    []Attribute
	Item          *Type // Item type for KindList
	Documentation string
}

// Element is a resolved child element with its effective cardinality.
type Element struct {
	Name          string
	Type          *Type
	MinOccurs     int // 1 when the schema omits minOccurs
	MaxOccurs     int // 1 when omitted, Unbounded for "unbounded"
	Nillable      bool
	Documentation string
}

// Repeats reports whether the element may occur more than once.
func (e Element) Repeats() bool {
	return e.MaxOccurs == Unbounded || e.MaxOccurs > 1
}

// Attribute is a resolved attribute declaration.
type Attribute struct {
	Name     string
	Type     *Type
	Required bool
}

// ServiceDescription is the callable view of a WSDL: one service, one
// selected port, and the operations exposed through that port's binding.
type ServiceDescription struct {
	Name            string
	Documentation   string
	TargetNamespace string
	Port            PortDescription
	Operations      []OperationDescription
}

// PortDescription identifies the endpoint the operations dispatch to.
type PortDescription struct {
	Name        string
	Address     string
	SOAPVersion string // "1.1" or "1.2"
	BindingName string
}

// OperationDescription carries everything needed to call one operation and
// translate its payloads: the envelope element names and their resolved
// types.
type OperationDescription struct {
	Name          string
	SOAPAction    string
	Documentation string

	// Input is nil when the operation's input message has no parts.
	Input        *Type
	InputElement QName
	// Qualified reports whether child elements of the input are
	// namespace-qualified (elementFormDefault="qualified").
	Qualified bool

	// Output is nil for one-way operations or empty output messages.
	Output        *Type
	OutputElement QName
}

// WrapperList reports whether the type is a list wrapper: a complex type
// whose single element repeats. Such types surface as plain JSON arrays,
// in schemas and payloads alike; wrapper attributes are not carried.
func (t *Type) WrapperList() (*Element, bool) {
	if t == nil || t.Kind != KindComplex || len(t.Elements) != 1 {
		return nil, false
	}
	if !t.Elements[0].Repeats() {
		return nil, false
	}
	return &t.Elements[0], true
}

// Operation returns the named operation, or nil when the service does not
// define it.
func (d *ServiceDescription) Operation(name string) *OperationDescription {
	for i := range d.Operations {
		if d.Operations[i].Name == name {
			return &d.Operations[i]
		}
	}
	return nil
}
