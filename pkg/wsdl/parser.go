package wsdl

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultUserAgent = "soapbridge-wsdl-loader/1.0"

// Parser loads WSDL documents from URLs, local files, or raw bytes and
// resolves wsdl:import, xsd:import and xsd:include references into a single
// merged Document. A Parser runs one load at a time; concurrent calls are
// serialized.
type Parser struct {
	mu       sync.Mutex
	client   *http.Client
	headers  map[string]string
	maxDepth int             // Max wsdl:import recursion depth
	cache    *DocumentCache  // Optional on-disk cache for fetched documents
	imported map[string]bool // Track resolved references to prevent cycles
}

// NewParser creates a new WSDL parser with a 30 second fetch timeout.
func NewParser() *Parser {
	return &Parser{
		client:   &http.Client{Timeout: 30 * time.Second},
		headers:  make(map[string]string),
		maxDepth: 10,
		imported: make(map[string]bool),
	}
}

// WithHeaders sets custom headers sent with every document fetch
func (p *Parser) WithHeaders(headers map[string]string) *Parser {
	p.headers = headers
	return p
}

// WithTimeout sets the per-request fetch timeout
func (p *Parser) WithTimeout(timeout time.Duration) *Parser {
	p.client.Timeout = timeout
	return p
}

// WithClient sets a custom HTTP client
func (p *Parser) WithClient(client *http.Client) *Parser {
	p.client = client
	return p
}

// WithCache attaches an on-disk document cache consulted before any fetch
func (p *Parser) WithCache(cache *DocumentCache) *Parser {
	p.cache = cache
	return p
}

// WithMaxDepth sets the maximum wsdl:import recursion depth
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// Parse loads a WSDL from an HTTP(S) URL or a local file path.
func (p *Parser) Parse(ctx context.Context, source string) (*Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.imported = map[string]bool{source: true}

	data, err := p.fetchDocument(ctx, source)
	if err != nil {
		return nil, err
	}

	return p.parse(ctx, data, source, 0)
}

// ParseBytes parses a WSDL already held in memory. The source is used to
// resolve relative import locations and may be empty when the document is
// self-contained.
func (p *Parser) ParseBytes(ctx context.Context, data []byte, source string) (*Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.imported = make(map[string]bool)
	if source != "" {
		p.imported[source] = true
	}

	return p.parse(ctx, data, source, 0)
}

// parse is the shared entry for top-level and imported documents. Only the
// top-level call (depth 0) builds the type registry.
func (p *Parser) parse(ctx context.Context, data []byte, source string, depth int) (*Document, error) {
	root, nsMap, err := prescanDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case root.Local == "definitions":
		// WSDL 1.1
	case root.Local == "description" || root.Space == WSDL2Namespace:
		return nil, fmt.Errorf("%w: WSDL 2.0 documents are not supported", ErrUnsupported)
	default:
		return nil, fmt.Errorf("%w: unexpected root element <%s>", ErrMalformed, root.Local)
	}

	var rawWSDL rawDefinitions
	if err := xml.Unmarshal(data, &rawWSDL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc := p.convertRawWSDL(&rawWSDL)
	doc.namespaces = nsMap

	if err := p.resolveImports(ctx, doc, source, depth); err != nil {
		return nil, err
	}

	if err := p.resolveSchemaRefs(ctx, doc, source); err != nil {
		return nil, err
	}

	if depth == 0 {
		doc.TypeRegistry = p.buildTypeRegistry(doc)
	}

	return doc, nil
}

// fetchDocument retrieves a document from an HTTP(S) URL or the filesystem.
func (p *Parser) fetchDocument(ctx context.Context, ref string) ([]byte, error) {
	if !isHTTPRef(ref) {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrUnreachable, ref, err)
		}
		return data, nil
	}

	if p.cache != nil {
		if data, ok := p.cache.Get(ref); ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreachable, ref, err)
	}

	req.Header.Set("Accept", "text/xml, application/xml, application/wsdl+xml")
	req.Header.Set("User-Agent", defaultUserAgent)
	for key, value := range p.headers {
		req.Header.Set(key, value)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrUnreachable, ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: unexpected status %d", ErrUnreachable, ref, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrUnreachable, ref, err)
	}

	if p.cache != nil {
		if err := p.cache.Put(ref, data); err != nil {
			log.Debug().Err(err).Str("url", ref).Msg("Could not cache fetched document")
		}
	}

	return data, nil
}

func isHTTPRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// prescanDocument walks the whole document once, validating well-formedness,
// capturing the root element name and collecting every xmlns declaration.
// The first binding of a prefix wins, so root-level declarations take
// precedence.
func prescanDocument(data []byte) (xml.Name, *NamespaceMap, error) {
	nsMap := NewNamespaceMap()
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var root xml.Name
	seenRoot := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return xml.Name{}, nil, err
		}

		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if !seenRoot {
			root = se.Name
			seenRoot = true
		}
		for _, attr := range se.Attr {
			switch {
			case attr.Name.Space == "xmlns":
				nsMap.Add(attr.Name.Local, attr.Value)
			case attr.Name.Space == "" && attr.Name.Local == "xmlns":
				nsMap.Add("", attr.Value)
			}
		}
	}

	if !seenRoot {
		return xml.Name{}, nil, errors.New("document has no root element")
	}
	return root, nsMap, nil
}

// convertRawWSDL converts raw XML structures to the domain model
func (p *Parser) convertRawWSDL(raw *rawDefinitions) *Document {
	doc := &Document{
		TargetNamespace: raw.TargetNamespace,
		Name:            raw.Name,
		Documentation:   extractDocumentation(raw.Documentation),
		Messages:        make([]Message, 0, len(raw.Messages)),
		PortTypes:       make([]PortType, 0, len(raw.PortTypes)),
		Bindings:        make([]Binding, 0, len(raw.Bindings)),
		Services:        make([]Service, 0, len(raw.Services)),
		Imports:         make([]Import, 0, len(raw.Imports)),
	}

	for _, imp := range raw.Imports {
		doc.Imports = append(doc.Imports, Import{
			Namespace: imp.Namespace,
			Location:  imp.Location,
		})
	}

	if raw.Types != nil {
		doc.Types = &Types{Schemas: make([]XSDSchema, 0, len(raw.Types.Schemas))}
		for i := range raw.Types.Schemas {
			doc.Types.Schemas = append(doc.Types.Schemas, p.convertRawSchema(&raw.Types.Schemas[i]))
		}
	}

	for i := range raw.Messages {
		doc.Messages = append(doc.Messages, p.convertRawMessage(&raw.Messages[i], raw.TargetNamespace))
	}

	for i := range raw.PortTypes {
		doc.PortTypes = append(doc.PortTypes, p.convertRawPortType(&raw.PortTypes[i]))
	}

	for i := range raw.Bindings {
		doc.Bindings = append(doc.Bindings, p.convertRawBinding(&raw.Bindings[i]))
	}

	for i := range raw.Services {
		doc.Services = append(doc.Services, p.convertRawService(&raw.Services[i]))
	}

	return doc
}

// convertRawSchema converts a raw XSD schema to the domain model
func (p *Parser) convertRawSchema(raw *rawSchema) XSDSchema {
	schema := XSDSchema{
		TargetNamespace:    raw.TargetNamespace,
		ElementFormDefault: raw.ElementFormDefault,
		Imports:            make([]XSDImport, 0, len(raw.Imports)),
		Includes:           make([]XSDInclude, 0, len(raw.Includes)),
		Elements:           make([]XSDElement, 0, len(raw.Elements)),
		ComplexTypes:       make([]XSDComplexType, 0, len(raw.ComplexTypes)),
		SimpleTypes:        make([]XSDSimpleType, 0, len(raw.SimpleTypes)),
	}

	for _, imp := range raw.Imports {
		schema.Imports = append(schema.Imports, XSDImport{
			Namespace:      imp.Namespace,
			SchemaLocation: imp.SchemaLocation,
		})
	}

	for _, inc := range raw.Includes {
		schema.Includes = append(schema.Includes, XSDInclude{
			SchemaLocation: inc.SchemaLocation,
		})
	}

	for i := range raw.Elements {
		schema.Elements = append(schema.Elements, p.convertRawElement(&raw.Elements[i], schema.TargetNamespace))
	}

	for i := range raw.ComplexTypes {
		schema.ComplexTypes = append(schema.ComplexTypes, p.convertRawComplexType(&raw.ComplexTypes[i]))
	}

	for i := range raw.SimpleTypes {
		schema.SimpleTypes = append(schema.SimpleTypes, p.convertRawSimpleType(&raw.SimpleTypes[i]))
	}

	return schema
}

// convertRawElement converts a raw XSD element to the domain model
func (p *Parser) convertRawElement(raw *rawElement, targetNS string) XSDElement {
	elem := XSDElement{
		Name:            raw.Name,
		Type:            raw.Type,
		Ref:             raw.Ref,
		MinOccurs:       raw.MinOccurs,
		MaxOccurs:       raw.MaxOccurs,
		Nillable:        raw.Nillable,
		Default:         raw.Default,
		Fixed:           raw.Fixed,
		Documentation:   extractAnnotation(raw.Annotation),
		TargetNamespace: targetNS,
	}

	if raw.ComplexType != nil {
		ct := p.convertRawComplexType(raw.ComplexType)
		elem.ComplexType = &ct
	}

	if raw.SimpleType != nil {
		st := p.convertRawSimpleType(raw.SimpleType)
		elem.SimpleType = &st
	}

	return elem
}

// convertRawComplexType converts a raw XSD complex type to the domain model
func (p *Parser) convertRawComplexType(raw *rawComplexType) XSDComplexType {
	ct := XSDComplexType{
		Name:          raw.Name,
		Abstract:      raw.Abstract,
		Mixed:         raw.Mixed,
		Documentation: extractAnnotation(raw.Annotation),
	}

	if raw.Sequence != nil {
		seq := p.convertRawSequence(raw.Sequence)
		ct.Sequence = &seq
	}

	if raw.All != nil {
		all := p.convertRawAll(raw.All)
		ct.All = &all
	}

	if raw.Choice != nil {
		choice := p.convertRawChoice(raw.Choice)
		ct.Choice = &choice
	}

	if raw.ComplexContent != nil {
		cc := p.convertRawComplexContent(raw.ComplexContent)
		ct.ComplexContent = &cc
	}

	if raw.SimpleContent != nil {
		sc := p.convertRawSimpleContent(raw.SimpleContent)
		ct.SimpleContent = &sc
	}

	for i := range raw.Attributes {
		ct.Attributes = append(ct.Attributes, p.convertRawAttribute(&raw.Attributes[i]))
	}

	return ct
}

// convertRawSequence converts a raw XSD sequence to the domain model
func (p *Parser) convertRawSequence(raw *rawSequence) XSDSequence {
	seq := XSDSequence{
		MinOccurs: raw.MinOccurs,
		MaxOccurs: raw.MaxOccurs,
		Elements:  make([]XSDElement, 0, len(raw.Elements)),
	}

	for i := range raw.Elements {
		seq.Elements = append(seq.Elements, p.convertRawElement(&raw.Elements[i], ""))
	}

	for i := range raw.Choices {
		seq.Choices = append(seq.Choices, p.convertRawChoice(&raw.Choices[i]))
	}

	for i := range raw.Sequences {
		seq.Sequences = append(seq.Sequences, p.convertRawSequence(&raw.Sequences[i]))
	}

	return seq
}

// convertRawAll converts a raw XSD all to the domain model
func (p *Parser) convertRawAll(raw *rawAll) XSDAll {
	all := XSDAll{
		MinOccurs: raw.MinOccurs,
		MaxOccurs: raw.MaxOccurs,
		Elements:  make([]XSDElement, 0, len(raw.Elements)),
	}

	for i := range raw.Elements {
		all.Elements = append(all.Elements, p.convertRawElement(&raw.Elements[i], ""))
	}

	return all
}

// convertRawChoice converts a raw XSD choice to the domain model
func (p *Parser) convertRawChoice(raw *rawChoice) XSDChoice {
	choice := XSDChoice{
		MinOccurs: raw.MinOccurs,
		MaxOccurs: raw.MaxOccurs,
		Elements:  make([]XSDElement, 0, len(raw.Elements)),
	}

	for i := range raw.Elements {
		choice.Elements = append(choice.Elements, p.convertRawElement(&raw.Elements[i], ""))
	}

	for i := range raw.Sequences {
		choice.Sequences = append(choice.Sequences, p.convertRawSequence(&raw.Sequences[i]))
	}

	return choice
}

// convertRawComplexContent converts raw complex content to the domain model
func (p *Parser) convertRawComplexContent(raw *rawComplexContent) XSDComplexContent {
	cc := XSDComplexContent{
		Mixed: raw.Mixed,
	}

	if raw.Extension != nil {
		ext := p.convertRawExtension(raw.Extension)
		cc.Extension = &ext
	}

	if raw.Restriction != nil {
		rest := p.convertRawRestriction(raw.Restriction)
		cc.Restriction = &rest
	}

	return cc
}

// convertRawSimpleContent converts raw simple content to the domain model
func (p *Parser) convertRawSimpleContent(raw *rawSimpleContent) XSDSimpleContent {
	sc := XSDSimpleContent{}

	if raw.Extension != nil {
		ext := p.convertRawExtension(raw.Extension)
		sc.Extension = &ext
	}

	if raw.Restriction != nil {
		rest := p.convertRawRestriction(raw.Restriction)
		sc.Restriction = &rest
	}

	return sc
}

// convertRawExtension converts a raw extension to the domain model
func (p *Parser) convertRawExtension(raw *rawExtension) XSDExtension {
	ext := XSDExtension{
		Base: raw.Base,
	}

	if raw.Sequence != nil {
		seq := p.convertRawSequence(raw.Sequence)
		ext.Sequence = &seq
	}

	if raw.All != nil {
		all := p.convertRawAll(raw.All)
		ext.All = &all
	}

	if raw.Choice != nil {
		choice := p.convertRawChoice(raw.Choice)
		ext.Choice = &choice
	}

	for i := range raw.Attributes {
		ext.Attributes = append(ext.Attributes, p.convertRawAttribute(&raw.Attributes[i]))
	}

	return ext
}

// convertRawRestriction converts a raw restriction to the domain model
func (p *Parser) convertRawRestriction(raw *rawRestriction) XSDRestriction {
	rest := XSDRestriction{
		Base: raw.Base,
	}

	if raw.Sequence != nil {
		seq := p.convertRawSequence(raw.Sequence)
		rest.Sequence = &seq
	}

	if raw.All != nil {
		all := p.convertRawAll(raw.All)
		rest.All = &all
	}

	if raw.Choice != nil {
		choice := p.convertRawChoice(raw.Choice)
		rest.Choice = &choice
	}

	for i := range raw.Attributes {
		rest.Attributes = append(rest.Attributes, p.convertRawAttribute(&raw.Attributes[i]))
	}

	return rest
}

// convertRawSimpleType converts a raw simple type to the domain model
func (p *Parser) convertRawSimpleType(raw *rawSimpleType) XSDSimpleType {
	st := XSDSimpleType{
		Name: raw.Name,
	}

	if raw.Restriction != nil {
		rest := p.convertRawRestriction(raw.Restriction)
		st.Restriction = &rest
	}

	if raw.List != nil {
		st.List = &XSDList{ItemType: raw.List.ItemType}
	}

	if raw.Union != nil {
		st.Union = &XSDUnion{MemberTypes: raw.Union.MemberTypes}
	}

	return st
}

// convertRawAttribute converts a raw attribute to the domain model
func (p *Parser) convertRawAttribute(raw *rawAttribute) XSDAttribute {
	return XSDAttribute{
		Name:    raw.Name,
		Ref:     raw.Ref,
		Type:    raw.Type,
		Use:     raw.Use,
		Default: raw.Default,
		Fixed:   raw.Fixed,
	}
}

// convertRawMessage converts a raw message to the domain model
func (p *Parser) convertRawMessage(raw *rawMessage, targetNS string) Message {
	msg := Message{
		Name:            raw.Name,
		Documentation:   extractDocumentation(raw.Documentation),
		Parts:           make([]MessagePart, 0, len(raw.Parts)),
		TargetNamespace: targetNS,
	}

	for _, part := range raw.Parts {
		msg.Parts = append(msg.Parts, MessagePart{
			Name:    part.Name,
			Element: part.Element,
			Type:    part.Type,
		})
	}

	return msg
}

// convertRawPortType converts a raw port type to the domain model
func (p *Parser) convertRawPortType(raw *rawPortType) PortType {
	pt := PortType{
		Name:          raw.Name,
		Documentation: extractDocumentation(raw.Documentation),
		Operations:    make([]Operation, 0, len(raw.Operations)),
	}

	for i := range raw.Operations {
		pt.Operations = append(pt.Operations, p.convertRawOperation(&raw.Operations[i]))
	}

	return pt
}

// convertRawOperation converts a raw operation to the domain model
func (p *Parser) convertRawOperation(raw *rawOperation) Operation {
	op := Operation{
		Name:          raw.Name,
		Documentation: extractDocumentation(raw.Documentation),
	}

	if raw.Input != nil {
		op.Input = &IORef{Name: raw.Input.Name, Message: raw.Input.Message}
	}

	if raw.Output != nil {
		op.Output = &IORef{Name: raw.Output.Name, Message: raw.Output.Message}
	}

	for _, fault := range raw.Faults {
		op.Faults = append(op.Faults, IORef{Name: fault.Name, Message: fault.Message})
	}

	return op
}

// convertRawBinding converts a raw binding to the domain model
func (p *Parser) convertRawBinding(raw *rawBinding) Binding {
	binding := Binding{
		Name:       raw.Name,
		Type:       raw.Type,
		Operations: make([]BindingOperation, 0, len(raw.Operations)),
	}

	if raw.SOAPBinding != nil {
		binding.Style = raw.SOAPBinding.Style
		binding.Transport = raw.SOAPBinding.Transport
		binding.SOAPVersion = "1.1"
	}
	if raw.SOAP12Binding != nil {
		binding.Style = raw.SOAP12Binding.Style
		binding.Transport = raw.SOAP12Binding.Transport
		binding.SOAPVersion = "1.2"
	}

	for i := range raw.Operations {
		binding.Operations = append(binding.Operations, p.convertRawBindingOperation(&raw.Operations[i]))
	}

	return binding
}

// convertRawBindingOperation converts a raw binding operation to the domain model
func (p *Parser) convertRawBindingOperation(raw *rawBindingOperation) BindingOperation {
	op := BindingOperation{
		Name: raw.Name,
	}

	if raw.SOAPOperation != nil {
		op.SOAPAction = raw.SOAPOperation.SOAPAction
		op.Style = raw.SOAPOperation.Style
	}
	if raw.SOAP12Operation != nil {
		op.SOAPAction = raw.SOAP12Operation.SOAPAction
		op.Style = raw.SOAP12Operation.Style
	}

	if raw.Input != nil {
		op.Input = convertRawBindingIO(raw.Input)
	}
	if raw.Output != nil {
		op.Output = convertRawBindingIO(raw.Output)
	}

	return op
}

func convertRawBindingIO(raw *rawBindingIO) *BindingIO {
	io := &BindingIO{}
	if raw.SOAPBody != nil {
		io.Use = raw.SOAPBody.Use
		io.Namespace = raw.SOAPBody.Namespace
		io.EncodingStyle = raw.SOAPBody.EncodingStyle
	}
	if raw.SOAP12Body != nil {
		io.Use = raw.SOAP12Body.Use
		io.Namespace = raw.SOAP12Body.Namespace
		io.EncodingStyle = raw.SOAP12Body.EncodingStyle
	}
	return io
}

// convertRawService converts a raw service to the domain model
func (p *Parser) convertRawService(raw *rawService) Service {
	svc := Service{
		Name:          raw.Name,
		Documentation: extractDocumentation(raw.Documentation),
		Ports:         make([]Port, 0, len(raw.Ports)),
	}

	for _, port := range raw.Ports {
		converted := Port{
			Name:    port.Name,
			Binding: port.Binding,
		}

		if port.SOAPAddress != nil {
			converted.Address = port.SOAPAddress.Location
			converted.SOAPVersion = "1.1"
		}
		if port.SOAP12Address != nil {
			converted.Address = port.SOAP12Address.Location
			converted.SOAPVersion = "1.2"
		}

		svc.Ports = append(svc.Ports, converted)
	}

	return svc
}

// resolveImports recursively fetches and merges wsdl:import references.
// A failing import fails the whole load: a document whose types or bindings
// live in an unreachable import cannot be converted faithfully.
func (p *Parser) resolveImports(ctx context.Context, doc *Document, sourceURL string, depth int) error {
	if depth > p.maxDepth {
		return fmt.Errorf("%w: import depth exceeds %d", ErrUnsupported, p.maxDepth)
	}

	for _, imp := range doc.Imports {
		if imp.Location == "" {
			continue
		}

		resolvedURL := ResolveURL(sourceURL, imp.Location)
		if p.imported[resolvedURL] {
			continue
		}
		p.imported[resolvedURL] = true

		importedData, err := p.fetchDocument(ctx, resolvedURL)
		if err != nil {
			return err
		}

		importedDoc, err := p.parse(ctx, importedData, resolvedURL, depth+1)
		if err != nil {
			return err
		}

		p.mergeWSDL(doc, importedDoc)
	}

	return nil
}

// resolveSchemaRefs flattens xsd:import and xsd:include references by
// fetching each referenced schema and appending it to the document. Imports
// keep their own target namespace; includes without one inherit the
// including schema's namespace (chameleon include). Appended schemas are
// revisited by the loop so nested references resolve too.
func (p *Parser) resolveSchemaRefs(ctx context.Context, doc *Document, sourceURL string) error {
	if doc.Types == nil {
		return nil
	}

	for i := 0; i < len(doc.Types.Schemas); i++ {
		schema := doc.Types.Schemas[i]

		base := schema.origin
		if base == "" {
			base = sourceURL
		}

		type schemaRef struct {
			location    string
			chameleonNS string
		}
		refs := make([]schemaRef, 0, len(schema.Imports)+len(schema.Includes))
		for _, imp := range schema.Imports {
			refs = append(refs, schemaRef{location: imp.SchemaLocation})
		}
		for _, inc := range schema.Includes {
			refs = append(refs, schemaRef{location: inc.SchemaLocation, chameleonNS: schema.TargetNamespace})
		}

		for _, ref := range refs {
			if ref.location == "" {
				continue
			}

			resolvedURL := ResolveURL(base, ref.location)
			if p.imported[resolvedURL] {
				continue
			}
			p.imported[resolvedURL] = true

			data, err := p.fetchDocument(ctx, resolvedURL)
			if err != nil {
				return err
			}

			fetched, fetchedNS, err := p.parseSchema(data, resolvedURL)
			if err != nil {
				return err
			}
			if fetched.TargetNamespace == "" && ref.chameleonNS != "" {
				fetched.TargetNamespace = ref.chameleonNS
			}

			if doc.namespaces != nil {
				mergeNamespaces(doc.namespaces, fetchedNS)
			}
			doc.Types.Schemas = append(doc.Types.Schemas, *fetched)
		}
	}

	return nil
}

// parseSchema parses a standalone XSD document.
func (p *Parser) parseSchema(data []byte, origin string) (*XSDSchema, *NamespaceMap, error) {
	root, nsMap, err := prescanDocument(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: schema %s: %v", ErrMalformed, origin, err)
	}
	if root.Local != "schema" {
		return nil, nil, fmt.Errorf("%w: schema %s: unexpected root element <%s>", ErrMalformed, origin, root.Local)
	}

	var raw rawSchema
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: schema %s: %v", ErrMalformed, origin, err)
	}

	schema := p.convertRawSchema(&raw)
	schema.origin = origin
	return &schema, nsMap, nil
}

// mergeWSDL merges an imported WSDL into the target document
func (p *Parser) mergeWSDL(target, source *Document) {
	target.Messages = append(target.Messages, source.Messages...)
	target.PortTypes = append(target.PortTypes, source.PortTypes...)
	target.Bindings = append(target.Bindings, source.Bindings...)
	target.Services = append(target.Services, source.Services...)

	if source.Types != nil {
		if target.Types == nil {
			target.Types = &Types{Schemas: make([]XSDSchema, 0, len(source.Types.Schemas))}
		}
		target.Types.Schemas = append(target.Types.Schemas, source.Types.Schemas...)
	}

	if target.namespaces != nil && source.namespaces != nil {
		mergeNamespaces(target.namespaces, source.namespaces)
	}
}

func mergeNamespaces(target, source *NamespaceMap) {
	for prefix, ns := range source.All() {
		target.Add(prefix, ns)
	}
}

// buildTypeRegistry builds a registry for quick type lookup
func (p *Parser) buildTypeRegistry(doc *Document) *TypeRegistry {
	registry := NewTypeRegistry()

	for i := range doc.Messages {
		msg := &doc.Messages[i]
		registry.Messages[MakeTypeKey(msg.TargetNamespace, msg.Name)] = msg
		// Also register without namespace for simple lookup
		registry.Messages[msg.Name] = msg
	}

	if doc.Types == nil {
		return registry
	}

	for i := range doc.Types.Schemas {
		schema := &doc.Types.Schemas[i]
		ns := schema.TargetNamespace

		for j := range schema.Elements {
			elem := &schema.Elements[j]
			registry.Elements[MakeTypeKey(ns, elem.Name)] = elem
			registry.Elements[elem.Name] = elem
		}

		for j := range schema.ComplexTypes {
			ct := &schema.ComplexTypes[j]
			if ct.Name != "" {
				registry.ComplexTypes[MakeTypeKey(ns, ct.Name)] = ct
				registry.ComplexTypes[ct.Name] = ct
			}
		}

		for j := range schema.SimpleTypes {
			st := &schema.SimpleTypes[j]
			if st.Name != "" {
				registry.SimpleTypes[MakeTypeKey(ns, st.Name)] = st
				registry.SimpleTypes[st.Name] = st
			}
		}
	}

	return registry
}

// extractDocumentation extracts text from a wsdl:documentation element.
// Pretty-printed WSDLs wrap documentation across indented lines, so the
// text is whitespace-normalized rather than just trimmed.
func extractDocumentation(doc *rawDocumentation) string {
	if doc == nil {
		return ""
	}
	return NormalizeWhitespace(doc.Content)
}

// extractAnnotation extracts text from xsd:annotation/xsd:documentation
func extractAnnotation(ann *rawAnnotation) string {
	if ann == nil {
		return ""
	}
	parts := make([]string, 0, len(ann.Documentation))
	for _, d := range ann.Documentation {
		if text := NormalizeWhitespace(d.Content); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
