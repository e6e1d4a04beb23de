package wsdl

import (
	"fmt"
	"strconv"
)

const maxElementRefHops = 16

// Resolver walks a parsed Document and produces resolved types and service
// descriptions. Named types are memoized by identity, so recursive schemas
// resolve to cyclic *Type graphs instead of recursing forever.
type Resolver struct {
	doc        *Document
	registry   *TypeRegistry
	namespaces map[string]string

	complexTypes map[*XSDComplexType]*Type
	simpleTypes  map[*XSDSimpleType]*Type
	primitives   map[string]*Type
	qualifiedNS  map[string]bool
}

// NewResolver creates a resolver over a parsed document.
func NewResolver(doc *Document) *Resolver {
	registry := doc.TypeRegistry
	if registry == nil {
		registry = NewTypeRegistry()
	}

	qualifiedNS := make(map[string]bool)
	if doc.Types != nil {
		for i := range doc.Types.Schemas {
			schema := &doc.Types.Schemas[i]
			if _, seen := qualifiedNS[schema.TargetNamespace]; !seen {
				qualifiedNS[schema.TargetNamespace] = schema.ElementFormDefault == "qualified"
			}
		}
	}

	return &Resolver{
		doc:          doc,
		registry:     registry,
		namespaces:   doc.Namespaces().All(),
		complexTypes: make(map[*XSDComplexType]*Type),
		simpleTypes:  make(map[*XSDSimpleType]*Type),
		primitives:   make(map[string]*Type),
		qualifiedNS:  qualifiedNS,
	}
}

// Describe resolves the document's first service into a callable
// description. Documents with multiple services expose only the first, in
// document order.
func (r *Resolver) Describe() (*ServiceDescription, error) {
	if len(r.doc.Services) == 0 {
		return nil, fmt.Errorf("%w: document defines no service", ErrMalformed)
	}
	svc := &r.doc.Services[0]

	port := r.selectPort(svc)
	if port == nil {
		return nil, fmt.Errorf("%w: service %q has no SOAP port with an address", ErrMalformed, svc.Name)
	}

	binding := r.findBinding(port.Binding)
	if binding == nil {
		return nil, fmt.Errorf("%w: binding %q not found", ErrMalformed, port.Binding)
	}

	bindingStyle := binding.Style
	if bindingStyle == "" {
		bindingStyle = "document"
	}
	if bindingStyle == "rpc" {
		return nil, fmt.Errorf("%w: rpc-style binding %q", ErrUnsupported, binding.Name)
	}

	portType := r.findPortType(binding.Type)
	if portType == nil {
		return nil, fmt.Errorf("%w: portType %q not found", ErrMalformed, binding.Type)
	}

	bindingOps := make(map[string]*BindingOperation, len(binding.Operations))
	for i := range binding.Operations {
		bindingOps[binding.Operations[i].Name] = &binding.Operations[i]
	}

	soapVersion := binding.SOAPVersion
	if soapVersion == "" {
		soapVersion = port.SOAPVersion
	}
	if soapVersion == "" {
		soapVersion = "1.1"
	}

	desc := &ServiceDescription{
		Name:            svc.Name,
		Documentation:   firstNonEmpty(svc.Documentation, r.doc.Documentation),
		TargetNamespace: r.doc.TargetNamespace,
		Port: PortDescription{
			Name:        port.Name,
			Address:     port.Address,
			SOAPVersion: soapVersion,
			BindingName: binding.Name,
		},
	}

	// Operations keep portType document order; ones absent from the
	// binding are not callable through this port and are skipped.
	for i := range portType.Operations {
		op := &portType.Operations[i]
		bop := bindingOps[op.Name]
		if bop == nil {
			continue
		}

		if bop.Style == "rpc" {
			return nil, fmt.Errorf("%w: rpc-style operation %q", ErrUnsupported, op.Name)
		}
		if usesEncoded(bop) {
			return nil, fmt.Errorf("%w: encoded use in operation %q", ErrUnsupported, op.Name)
		}

		input, inputElem, qualified, err := r.resolveIO(op.Input)
		if err != nil {
			return nil, err
		}
		output, outputElem, _, err := r.resolveIO(op.Output)
		if err != nil {
			return nil, err
		}

		desc.Operations = append(desc.Operations, OperationDescription{
			Name:          op.Name,
			SOAPAction:    bop.SOAPAction,
			Documentation: op.Documentation,
			Input:         input,
			InputElement:  inputElem,
			Qualified:     qualified,
			Output:        output,
			OutputElement: outputElem,
		})
	}

	return desc, nil
}

// selectPort picks a SOAP 1.1 port when one has an address, otherwise the
// first addressed port of any version.
func (r *Resolver) selectPort(svc *Service) *Port {
	var chosen *Port
	for i := range svc.Ports {
		port := &svc.Ports[i]
		if port.Address == "" {
			continue
		}
		if port.SOAPVersion == "1.1" {
			return port
		}
		if chosen == nil {
			chosen = port
		}
	}
	return chosen
}

func (r *Resolver) findBinding(ref string) *Binding {
	local := ExtractLocalName(ref)
	for i := range r.doc.Bindings {
		if r.doc.Bindings[i].Name == local {
			return &r.doc.Bindings[i]
		}
	}
	return nil
}

func (r *Resolver) findPortType(ref string) *PortType {
	local := ExtractLocalName(ref)
	for i := range r.doc.PortTypes {
		if r.doc.PortTypes[i].Name == local {
			return &r.doc.PortTypes[i]
		}
	}
	return nil
}

func usesEncoded(bop *BindingOperation) bool {
	if bop.Input != nil && bop.Input.Use == "encoded" {
		return true
	}
	if bop.Output != nil && bop.Output.Use == "encoded" {
		return true
	}
	return false
}

// resolveIO resolves a portType input/output reference down to the envelope
// element and its type. Messages whose first part references a global
// element follow document/literal conventions; a type-only part is wrapped
// into an unqualified element named after the part.
func (r *Resolver) resolveIO(ref *IORef) (*Type, QName, bool, error) {
	if ref == nil || ref.Message == "" {
		return nil, QName{}, false, nil
	}

	q := ParseQName(ref.Message, r.namespaces)
	msg := r.registry.LookupMessage(q.Namespace, q.LocalPart)
	if msg == nil {
		return nil, QName{}, false, fmt.Errorf("%w: message %q not found", ErrMalformed, ref.Message)
	}
	if len(msg.Parts) == 0 {
		return nil, QName{}, false, nil
	}

	for i := range msg.Parts {
		part := &msg.Parts[i]
		if part.Element == "" {
			continue
		}
		eq := ParseQName(part.Element, r.namespaces)
		elem := r.registry.LookupElement(eq.Namespace, eq.LocalPart)
		if elem == nil {
			return nil, QName{}, false, fmt.Errorf("%w: element %q not found", ErrMalformed, part.Element)
		}
		ns := elem.TargetNamespace
		if ns == "" {
			ns = eq.Namespace
		}
		name := QName{Namespace: ns, LocalPart: elem.Name}
		return r.elementType(elem, 0), name, r.qualifiedNS[ns], nil
	}

	part := &msg.Parts[0]
	if part.Type != "" {
		return r.resolveTypeRef(part.Type), QName{LocalPart: part.Name}, false, nil
	}
	return nil, QName{}, false, nil
}

// elementType resolves the type of an element declaration: a referenced
// global element, a named type reference, or an inline definition.
func (r *Resolver) elementType(elem *XSDElement, refHops int) *Type {
	for elem.Ref != "" {
		if refHops >= maxElementRefHops {
			return opaqueType(ExtractLocalName(elem.Ref))
		}
		refHops++
		q := ParseQName(elem.Ref, r.namespaces)
		target := r.registry.LookupElement(q.Namespace, q.LocalPart)
		if target == nil {
			return opaqueType(q.LocalPart)
		}
		elem = target
	}

	switch {
	case elem.Type != "":
		return r.resolveTypeRef(elem.Type)
	case elem.ComplexType != nil:
		return r.resolveComplexType(elem.ComplexType, elem.Name)
	case elem.SimpleType != nil:
		return r.resolveSimpleType(elem.SimpleType)
	default:
		// No type at all means xsd:anyType
		return opaqueType(elem.Name)
	}
}

// resolveTypeRef resolves a QName type reference against built-ins, then
// named complex and simple types. A local name matching an XSD built-in is
// the final fallback: prefix declarations for the XSD namespace are scoped
// to their source document and are not always recoverable after merging.
func (r *Resolver) resolveTypeRef(ref string) *Type {
	q := ParseQName(ref, r.namespaces)

	if q.Namespace == XSDNamespace {
		return r.primitive(q.LocalPart)
	}

	if ct := r.registry.LookupComplexType(q.Namespace, q.LocalPart); ct != nil {
		return r.resolveComplexType(ct, ct.Name)
	}
	if st := r.registry.LookupSimpleType(q.Namespace, q.LocalPart); st != nil {
		return r.resolveSimpleType(st)
	}

	if IsXSDBuiltinType(q.LocalPart) {
		return r.primitive(q.LocalPart)
	}

	return opaqueType(q.LocalPart)
}

// resolveComplexType resolves a complex type definition. A shell is
// memoized before the content is filled, so self-referential types resolve
// to cyclic graphs.
func (r *Resolver) resolveComplexType(ct *XSDComplexType, name string) *Type {
	if resolved, ok := r.complexTypes[ct]; ok {
		return resolved
	}

	if ct.Name != "" {
		name = ct.Name
	}
	shell := &Type{
		Kind:          KindComplex,
		Name:          name,
		Documentation: ct.Documentation,
	}
	r.complexTypes[ct] = shell

	switch {
	case ct.ComplexContent != nil:
		if ext := ct.ComplexContent.Extension; ext != nil {
			if base := r.resolveTypeRef(ext.Base); base.Kind == KindComplex {
				shell.Elements = append(shell.Elements, base.Elements...)
				shell.Attributes = append(shell.Attributes, base.Attributes...)
			}
			shell.Elements = append(shell.Elements, r.contentElements(ext.Sequence, ext.All, ext.Choice)...)
			shell.Attributes = append(shell.Attributes, r.resolveAttributes(ext.Attributes)...)
		} else if rst := ct.ComplexContent.Restriction; rst != nil {
			// Restriction redefines the content model outright
			shell.Elements = r.contentElements(rst.Sequence, rst.All, rst.Choice)
			shell.Attributes = r.resolveAttributes(rst.Attributes)
		}

	case ct.SimpleContent != nil:
		// Simple content collapses to its base value type; attributes on
		// the wrapper are not representable in the translated shape.
		base := ""
		if ct.SimpleContent.Extension != nil {
			base = ct.SimpleContent.Extension.Base
		} else if ct.SimpleContent.Restriction != nil {
			base = ct.SimpleContent.Restriction.Base
		}
		if base != "" {
			resolved := r.resolveTypeRef(base)
			shell.Kind = resolved.Kind
			shell.Primitive = resolved.Primitive
			shell.Elements = resolved.Elements
			shell.Attributes = resolved.Attributes
		} else {
			shell.Kind = KindOpaque
		}

	default:
		shell.Elements = r.contentElements(ct.Sequence, ct.All, ct.Choice)
	}

	shell.Attributes = append(shell.Attributes, r.resolveAttributes(ct.Attributes)...)
	return shell
}

// resolveSimpleType resolves a simple type to its base primitive, or to a
// list of its item type. Unions have no JSON shape and resolve opaque.
func (r *Resolver) resolveSimpleType(st *XSDSimpleType) *Type {
	if resolved, ok := r.simpleTypes[st]; ok {
		return resolved
	}

	shell := &Type{Kind: KindOpaque, Name: st.Name}
	r.simpleTypes[st] = shell

	switch {
	case st.Restriction != nil && st.Restriction.Base != "":
		base := r.resolveTypeRef(st.Restriction.Base)
		shell.Kind = base.Kind
		shell.Primitive = base.Primitive
		shell.Elements = base.Elements
		shell.Attributes = base.Attributes
		shell.Item = base.Item
	case st.List != nil && st.List.ItemType != "":
		shell.Kind = KindList
		shell.Item = r.resolveTypeRef(st.List.ItemType)
	}

	return shell
}

func (r *Resolver) contentElements(seq *XSDSequence, all *XSDAll, choice *XSDChoice) []Element {
	switch {
	case seq != nil:
		return r.sequenceElements(seq, false)
	case all != nil:
		return r.groupElements(all.Elements, false)
	case choice != nil:
		return r.choiceElements(choice)
	}
	return nil
}

func (r *Resolver) sequenceElements(seq *XSDSequence, forceOptional bool) []Element {
	out := r.groupElements(seq.Elements, forceOptional)
	for i := range seq.Choices {
		out = append(out, r.choiceElements(&seq.Choices[i])...)
	}
	for i := range seq.Sequences {
		out = append(out, r.sequenceElements(&seq.Sequences[i], forceOptional)...)
	}
	return out
}

// choiceElements flattens a choice into its branches. At most one branch
// appears in an instance, so every flattened element becomes optional.
func (r *Resolver) choiceElements(choice *XSDChoice) []Element {
	out := r.groupElements(choice.Elements, true)
	for i := range choice.Sequences {
		out = append(out, r.sequenceElements(&choice.Sequences[i], true)...)
	}
	return out
}

func (r *Resolver) groupElements(elems []XSDElement, forceOptional bool) []Element {
	out := make([]Element, 0, len(elems))
	for i := range elems {
		out = append(out, r.resolveParticle(&elems[i], forceOptional))
	}
	return out
}

// resolveParticle resolves one element particle. For ref particles the
// occurrence constraints come from the referencing site, everything else
// from the referenced declaration.
func (r *Resolver) resolveParticle(elem *XSDElement, forceOptional bool) Element {
	decl := elem
	for hops := 0; decl.Ref != "" && hops < maxElementRefHops; hops++ {
		q := ParseQName(decl.Ref, r.namespaces)
		target := r.registry.LookupElement(q.Namespace, q.LocalPart)
		if target == nil {
			return Element{
				Name:      q.LocalPart,
				Type:      opaqueType(q.LocalPart),
				MinOccurs: parseOccurs(elem.MinOccurs, 1),
				MaxOccurs: parseMaxOccurs(elem.MaxOccurs),
			}
		}
		decl = target
	}

	minOccurs := parseOccurs(elem.MinOccurs, 1)
	if forceOptional {
		minOccurs = 0
	}

	return Element{
		Name:          decl.Name,
		Type:          r.elementType(decl, 0),
		MinOccurs:     minOccurs,
		MaxOccurs:     parseMaxOccurs(elem.MaxOccurs),
		Nillable:      elem.Nillable || decl.Nillable,
		Documentation: firstNonEmpty(elem.Documentation, decl.Documentation),
	}
}

func (r *Resolver) resolveAttributes(attrs []XSDAttribute) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attribute, 0, len(attrs))
	for i := range attrs {
		attr := &attrs[i]
		if attr.Name == "" {
			// Global attribute refs are not indexed; nothing to resolve
			continue
		}
		attrType := r.primitive(XSDString)
		if attr.Type != "" {
			attrType = r.resolveTypeRef(attr.Type)
		}
		out = append(out, Attribute{
			Name:     attr.Name,
			Type:     attrType,
			Required: attr.Use == "required",
		})
	}
	return out
}

func (r *Resolver) primitive(local string) *Type {
	if t, ok := r.primitives[local]; ok {
		return t
	}
	t := &Type{Kind: KindPrimitive, Name: local, Primitive: local}
	r.primitives[local] = t
	return t
}

func opaqueType(name string) *Type {
	return &Type{Kind: KindOpaque, Name: name}
}

func parseOccurs(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func parseMaxOccurs(s string) int {
	if s == "" {
		return 1
	}
	if s == "unbounded" {
		return Unbounded
	}
	return parseOccurs(s, 1)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
