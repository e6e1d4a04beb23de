package wsdl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFraudWSDL(t *testing.T) *Document {
	t.Helper()
	data, err := os.ReadFile("testdata/fraud.wsdl")
	require.NoError(t, err)
	doc, err := NewParser().ParseBytes(context.Background(), data, "")
	require.NoError(t, err)
	return doc
}

func TestParseFraudWSDL(t *testing.T) {
	doc := loadFraudWSDL(t)

	assert.Equal(t, "http://insurance.example.com/fraud", doc.TargetNamespace)
	assert.Equal(t, "Scores insurance claims for fraud risk.", doc.Documentation)

	require.Len(t, doc.Services, 1)
	svc := doc.Services[0]
	assert.Equal(t, "FraudDetectionService", svc.Name)
	require.Len(t, svc.Ports, 1)
	assert.Equal(t, "http://upstream.example.com/fraud", svc.Ports[0].Address)
	assert.Equal(t, "1.1", svc.Ports[0].SOAPVersion)

	require.Len(t, doc.Bindings, 1)
	binding := doc.Bindings[0]
	assert.Equal(t, "document", binding.Style)
	assert.Equal(t, "1.1", binding.SOAPVersion)
	require.Len(t, binding.Operations, 2)
	assert.Equal(t, "http://insurance.example.com/fraud/CheckFraudRisk", binding.Operations[0].SOAPAction)
	assert.Equal(t, "literal", binding.Operations[0].Input.Use)

	require.Len(t, doc.PortTypes, 1)
	ops := doc.PortTypes[0].Operations
	require.Len(t, ops, 2)
	assert.Equal(t, "CheckFraudRisk", ops[0].Name)
	assert.Equal(t, "Scores a claim for fraud risk.", ops[0].Documentation)
	assert.Equal(t, "GetServiceStats", ops[1].Name)

	assert.Len(t, doc.Messages, 4)
	assert.Equal(t, "http://insurance.example.com/fraud", doc.Messages[0].TargetNamespace)
}

func TestParseBuildsTypeRegistry(t *testing.T) {
	doc := loadFraudWSDL(t)
	registry := doc.TypeRegistry
	require.NotNil(t, registry)

	elem := registry.LookupElement("http://insurance.example.com/fraud", "FraudCheckRequest")
	require.NotNil(t, elem)
	require.NotNil(t, elem.ComplexType)
	require.NotNil(t, elem.ComplexType.Sequence)
	assert.Len(t, elem.ComplexType.Sequence.Elements, 7)
	assert.Equal(t, "Internal customer identifier.", elem.ComplexType.Sequence.Elements[0].Documentation)

	// Bare-name fallback works for documents without namespace reuse
	assert.Same(t, elem, registry.LookupElement("", "FraudCheckRequest"))

	ct := registry.LookupComplexType("http://insurance.example.com/fraud", "RecentClaim")
	require.NotNil(t, ct)
	assert.Equal(t, "A previously settled or open claim on the policy.", ct.Documentation)
	require.Len(t, ct.Attributes, 1)
	assert.Equal(t, "settled", ct.Attributes[0].Name)
	assert.Equal(t, "required", ct.Attributes[0].Use)

	msg := registry.LookupMessage("http://insurance.example.com/fraud", "FraudCheckInput")
	require.NotNil(t, msg)
	require.Len(t, msg.Parts, 1)
	assert.Equal(t, "tns:FraudCheckRequest", msg.Parts[0].Element)
}

func TestParseCollectsNamespaces(t *testing.T) {
	doc := loadFraudWSDL(t)
	ns := doc.Namespaces()
	assert.Equal(t, "http://insurance.example.com/fraud", ns.GetNamespace("tns"))
	assert.Equal(t, XSDNamespace, ns.GetNamespace("xs"))
	assert.Equal(t, SOAP11Namespace, ns.GetNamespace("soap"))
}

func TestParseLocalFile(t *testing.T) {
	doc, err := NewParser().Parse(context.Background(), "testdata/fraud.wsdl")
	require.NoError(t, err)
	assert.Len(t, doc.Services, 1)
}

func TestParseRejectsWSDL2(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<description xmlns="http://www.w3.org/ns/wsdl" targetNamespace="http://example.com/v2">
  <interface name="StockQuote"/>
</description>`)

	_, err := NewParser().ParseBytes(context.Background(), data, "")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestParseRejectsNonWSDL(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "html page", data: `<html><body>Not Found</body></html>`},
		{name: "bare schema", data: `<schema xmlns="http://www.w3.org/2001/XMLSchema"/>`},
		{name: "truncated xml", data: `<definitions xmlns="http://schemas.xmlsoap.org/wsdl/"`},
		{name: "not xml at all", data: `{"openapi": "3.0.0"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewParser().ParseBytes(context.Background(), []byte(tc.data), "")
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParseUnreachableURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewParser().Parse(context.Background(), server.URL+"/missing.wsdl")
	assert.ErrorIs(t, err, ErrUnreachable)
}

const importingWSDL = `<?xml version="1.0"?>
<definitions xmlns="http://schemas.xmlsoap.org/wsdl/"
    xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
    xmlns:ext="http://example.com/ext"
    targetNamespace="http://example.com/svc">
  <types>
    <schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="http://example.com/svc">
      <import namespace="http://example.com/ext" schemaLocation="types.xsd"/>
    </schema>
  </types>
  <message name="PingInput">
    <part name="parameters" element="ext:PingRequest"/>
  </message>
  <portType name="PingPortType">
    <operation name="Ping">
      <input message="PingInput"/>
    </operation>
  </portType>
  <binding name="PingBinding" type="PingPortType">
    <soap:binding style="document" transport="http://schemas.xmlsoap.org/soap/http"/>
    <operation name="Ping">
      <soap:operation soapAction="urn:ping"/>
      <input><soap:body use="literal"/></input>
    </operation>
  </binding>
  <service name="PingService">
    <port name="PingPort" binding="PingBinding">
      <soap:address location="http://example.com/endpoint"/>
    </port>
  </service>
</definitions>`

const importedXSD = `<?xml version="1.0"?>
<schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="http://example.com/ext">
  <element name="PingRequest">
    <complexType>
      <sequence>
        <element name="payload" type="string"/>
      </sequence>
    </complexType>
  </element>
</schema>`

func TestParseResolvesSchemaImports(t *testing.T) {
	var xsdRequests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/svc.wsdl", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(importingWSDL))
	})
	mux.HandleFunc("/types.xsd", func(w http.ResponseWriter, r *http.Request) {
		xsdRequests.Add(1)
		w.Write([]byte(importedXSD))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	doc, err := NewParser().Parse(context.Background(), server.URL+"/svc.wsdl")
	require.NoError(t, err)
	assert.Equal(t, int32(1), xsdRequests.Load())

	// The imported schema keeps its own target namespace
	elem := doc.TypeRegistry.LookupElement("http://example.com/ext", "PingRequest")
	require.NotNil(t, elem)
	assert.Equal(t, "PingRequest", elem.Name)
}

func TestParseFailsOnBrokenSchemaImport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/svc.wsdl", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(importingWSDL))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	_, err := NewParser().Parse(context.Background(), server.URL+"/svc.wsdl")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestParseUsesDocumentCache(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		data, _ := os.ReadFile("testdata/fraud.wsdl")
		w.Write(data)
	}))
	defer server.Close()

	cache, err := NewDocumentCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	url := server.URL + "/fraud.wsdl"
	_, err = NewParser().WithCache(cache).Parse(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())

	_, err = NewParser().WithCache(cache).Parse(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load(), "second parse should be served from cache")
}

func TestParseHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewParser().Parse(ctx, server.URL+"/slow.wsdl")
	assert.ErrorIs(t, err, ErrUnreachable)
}
