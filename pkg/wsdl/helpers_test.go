package wsdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQName(t *testing.T) {
	namespaces := map[string]string{
		"tns": "http://example.com/tns",
		"":    "http://example.com/default",
	}

	tests := []struct {
		name     string
		input    string
		expected QName
	}{
		{
			name:     "prefixed",
			input:    "tns:FraudCheckRequest",
			expected: QName{Prefix: "tns", LocalPart: "FraudCheckRequest", Namespace: "http://example.com/tns"},
		},
		{
			name:     "clark notation",
			input:    "{http://example.com/x}Thing",
			expected: QName{LocalPart: "Thing", Namespace: "http://example.com/x"},
		},
		{
			name:     "unprefixed uses default namespace",
			input:    "Thing",
			expected: QName{LocalPart: "Thing", Namespace: "http://example.com/default"},
		},
		{
			name:     "unknown prefix",
			input:    "nope:Thing",
			expected: QName{Prefix: "nope", LocalPart: "Thing"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseQName(tc.input, namespaces))
		})
	}
}

func TestQNameString(t *testing.T) {
	assert.Equal(t, "{http://x}a", QName{Namespace: "http://x", LocalPart: "a"}.String())
	assert.Equal(t, "a", QName{LocalPart: "a"}.String())
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		location string
		expected string
	}{
		{
			name:     "relative against url",
			source:   "http://example.com/wsdl/service.wsdl",
			location: "types.xsd",
			expected: "http://example.com/wsdl/types.xsd",
		},
		{
			name:     "parent directory",
			source:   "http://example.com/wsdl/service.wsdl",
			location: "../common/types.xsd",
			expected: "http://example.com/common/types.xsd",
		},
		{
			name:     "absolute url wins",
			source:   "http://example.com/wsdl/service.wsdl",
			location: "https://other.com/types.xsd",
			expected: "https://other.com/types.xsd",
		},
		{
			name:     "relative against local path",
			source:   "/var/cache/uploads/service.wsdl",
			location: "types.xsd",
			expected: "/var/cache/uploads/types.xsd",
		},
		{
			name:     "empty location returns source",
			source:   "http://example.com/service.wsdl",
			location: "",
			expected: "http://example.com/service.wsdl",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveURL(tc.source, tc.location))
		})
	}
}

func TestNamespaceMapFirstWins(t *testing.T) {
	nm := NewNamespaceMap()
	nm.Add("tns", "http://first")
	nm.Add("tns", "http://second")

	assert.Equal(t, "http://first", nm.GetNamespace("tns"))
}

func TestSOAPVersionHelpers(t *testing.T) {
	assert.Equal(t, SOAP11EnvelopeNS, GetSOAPEnvelopeNamespace("1.1"))
	assert.Equal(t, SOAP12EnvelopeNS, GetSOAPEnvelopeNamespace("1.2"))
	assert.Equal(t, "text/xml; charset=utf-8", GetSOAPContentType("1.1"))
	assert.Equal(t, "application/soap+xml; charset=utf-8", GetSOAPContentType("1.2"))
}
