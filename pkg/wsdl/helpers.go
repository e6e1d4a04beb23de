package wsdl

import (
	"net/url"
	"strings"
)

// QName represents a qualified name with namespace
type QName struct {
	Namespace string
	LocalPart string
	Prefix    string
}

// String renders the QName in Clark notation.
func (q QName) String() string {
	if q.Namespace == "" {
		return q.LocalPart
	}
	return "{" + q.Namespace + "}" + q.LocalPart
}

// ParseQName parses a qualified name string like "tns:localName" or "{namespace}localName"
func ParseQName(qname string, namespaces map[string]string) QName {
	qname = strings.TrimSpace(qname)

	// Handle Clark notation: {namespace}localName
	if strings.HasPrefix(qname, "{") {
		idx := strings.Index(qname, "}")
		if idx > 0 {
			return QName{
				Namespace: qname[1:idx],
				LocalPart: qname[idx+1:],
			}
		}
	}

	// Handle prefix:localName
	if idx := strings.Index(qname, ":"); idx > 0 {
		prefix := qname[:idx]
		localPart := qname[idx+1:]
		ns := ""
		if namespaces != nil {
			ns = namespaces[prefix]
		}
		return QName{
			Prefix:    prefix,
			LocalPart: localPart,
			Namespace: ns,
		}
	}

	// No prefix - use default namespace if available
	ns := ""
	if namespaces != nil {
		ns = namespaces[""]
	}
	return QName{
		LocalPart: qname,
		Namespace: ns,
	}
}

// ExtractLocalName extracts the local part from a QName string
func ExtractLocalName(qname string) string {
	qname = strings.TrimSpace(qname)

	// Handle Clark notation: {namespace}localName
	if strings.HasPrefix(qname, "{") {
		idx := strings.Index(qname, "}")
		if idx > 0 {
			return qname[idx+1:]
		}
	}

	// Handle prefix:localName
	if idx := strings.LastIndex(qname, ":"); idx >= 0 {
		return qname[idx+1:]
	}

	return qname
}

// MakeTypeKey creates a unique key for type lookup combining namespace and local name
func MakeTypeKey(namespace, localName string) string {
	if namespace == "" {
		return localName
	}
	return "{" + namespace + "}" + localName
}

// ResolveURL resolves a schemaLocation reference against the URL of the
// document that contains it, per RFC 3986. Plain filesystem paths resolve
// the same way, so file-based WSDLs can import sibling schema documents.
func ResolveURL(sourceURL, location string) string {
	if location == "" {
		return sourceURL
	}

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return location
	}

	base, err := url.Parse(sourceURL)
	if err != nil {
		return location
	}

	rel, err := url.Parse(location)
	if err != nil {
		return location
	}

	return base.ResolveReference(rel).String()
}

// NamespaceMap manages XML namespace prefixes
type NamespaceMap struct {
	prefixToNS map[string]string
	nsToPrefix map[string]string
}

// NewNamespaceMap creates a new namespace map
func NewNamespaceMap() *NamespaceMap {
	return &NamespaceMap{
		prefixToNS: make(map[string]string),
		nsToPrefix: make(map[string]string),
	}
}

// Add adds a prefix-namespace mapping. The first binding of a prefix wins:
// root-level declarations take precedence over redeclarations deeper in
// the document.
func (nm *NamespaceMap) Add(prefix, namespace string) {
	if _, exists := nm.prefixToNS[prefix]; !exists {
		nm.prefixToNS[prefix] = namespace
	}
	if _, exists := nm.nsToPrefix[namespace]; !exists {
		nm.nsToPrefix[namespace] = prefix
	}
}

// GetNamespace returns the namespace for a prefix
func (nm *NamespaceMap) GetNamespace(prefix string) string {
	return nm.prefixToNS[prefix]
}

// GetPrefix returns a prefix for a namespace
func (nm *NamespaceMap) GetPrefix(namespace string) string {
	return nm.nsToPrefix[namespace]
}

// ResolveQName resolves a QName to namespace and local part
func (nm *NamespaceMap) ResolveQName(qname string) (namespace, localPart string) {
	q := ParseQName(qname, nm.prefixToNS)
	return q.Namespace, q.LocalPart
}

// All returns all prefix-namespace pairs
func (nm *NamespaceMap) All() map[string]string {
	result := make(map[string]string)
	for k, v := range nm.prefixToNS {
		result[k] = v
	}
	return result
}

// GetSOAPEnvelopeNamespace returns the appropriate SOAP envelope namespace
func GetSOAPEnvelopeNamespace(version string) string {
	if version == "1.2" {
		return SOAP12EnvelopeNS
	}
	return SOAP11EnvelopeNS
}

// GetSOAPContentType returns the appropriate Content-Type header for SOAP version
func GetSOAPContentType(version string) string {
	if version == "1.2" {
		return "application/soap+xml; charset=utf-8"
	}
	return "text/xml; charset=utf-8"
}

// NormalizeWhitespace collapses whitespace in a string (like xs:token)
func NormalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
