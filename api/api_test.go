package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/soapbridge/soapbridge/db"
	"github.com/soapbridge/soapbridge/internal/config"
	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	config.SetDefaultConfig()
	os.Exit(m.Run())
}

const checkResponse = `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <FraudCheckResponse xmlns="http://insurance.example.com/fraud">
      <riskScore>42</riskScore>
      <riskFactors>
        <riskFactor>velocity</riskFactor>
      </riskFactors>
      <requiresManualReview>false</requiresManualReview>
      <assessmentDate>2024-05-02T10:15:00Z</assessmentDate>
    </FraudCheckResponse>
  </soap:Body>
</soap:Envelope>`

const statsResponse = `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <ServiceStatsResponse xmlns="http://insurance.example.com/fraud">
      <checksPerformed>12</checksPerformed>
      <averageRiskScore>41.5</averageRiskScore>
    </ServiceStatsResponse>
  </soap:Body>
</soap:Envelope>`

const faultResponse = `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <soap:Fault>
      <faultcode>soap:Server</faultcode>
      <faultstring>backend failure</faultstring>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`

// harness drives the full HTTP surface against a throwaway catalog, a fake
// SOAP upstream that serves its own WSDL, and a fake tool gateway.
type harness struct {
	app     *fiber.App
	bridge  *Bridge
	store   *db.DatabaseConnection
	gateway *fakeGateway

	server  *httptest.Server
	fixture []byte

	mu             sync.Mutex
	wsdlBody       []byte
	soapStatus     int
	soapBody       string
	lastSOAPAction string
	lastRequest    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	fixture, err := os.ReadFile(filepath.Join("..", "pkg", "wsdl", "testdata", "fraud.wsdl"))
	require.NoError(t, err)

	h := &harness{fixture: fixture, soapStatus: http.StatusOK, soapBody: checkResponse}

	mux := http.NewServeMux()
	mux.HandleFunc("/fraud.wsdl", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		body := h.wsdlBody
		h.mu.Unlock()
		w.Header().Set("Content-Type", "text/xml")
		w.Write(body)
	})
	mux.HandleFunc("/soap/fraud", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		h.mu.Lock()
		h.lastSOAPAction = r.Header.Get("SOAPAction")
		h.lastRequest = string(body)
		status := h.soapStatus
		response := h.soapBody
		h.mu.Unlock()
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(status)
		w.Write([]byte(response))
	})
	h.server = httptest.NewServer(mux)
	t.Cleanup(h.server.Close)

	h.setUpstreamAddress(h.server.URL + "/soap/fraud")

	dir := t.TempDir()
	store, err := db.NewConnection(filepath.Join(dir, "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cache, err := wsdl.NewDocumentCache(filepath.Join(dir, "wsdl-cache"), time.Hour)
	require.NoError(t, err)

	h.store = store
	h.gateway = newFakeGateway(t)
	h.bridge = NewBridge(store, cache)

	logger := zerolog.Nop()
	h.app = NewApp(h.bridge, logger)
	return h
}

// setUpstreamAddress rewrites the served WSDL so its SOAP port points at the
// given endpoint.
func (h *harness) setUpstreamAddress(address string) {
	rewritten := bytes.Replace(h.fixture,
		[]byte("http://upstream.example.com/fraud"), []byte(address), 1)
	h.mu.Lock()
	h.wsdlBody = rewritten
	h.mu.Unlock()
}

func (h *harness) setSOAPResponse(status int, body string) {
	h.mu.Lock()
	h.soapStatus = status
	h.soapBody = body
	h.mu.Unlock()
}

func (h *harness) capturedRequest() (soapAction, body string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastSOAPAction, h.lastRequest
}

func (h *harness) wsdlURL() string {
	return h.server.URL + "/fraud.wsdl"
}

// servedWSDL returns the WSDL body the upstream currently serves, for
// upload tests.
func (h *harness) servedWSDL() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.wsdlBody...)
}

// configureGateway points the bridge at the fake gateway through a settings
// override.
func (h *harness) configureGateway() {
	h.bridge.gateway.Override(h.gateway.server.URL, "test-token")
}

func (h *harness) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (h *harness) get(t *testing.T, target string) *http.Response {
	t.Helper()
	return h.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (h *harness) deleteReq(t *testing.T, target string) *http.Response {
	t.Helper()
	return h.do(t, httptest.NewRequest(http.MethodDelete, target, nil))
}

func (h *harness) postJSON(t *testing.T, target, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return h.do(t, req)
}

func (h *harness) postForm(t *testing.T, target string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return h.do(t, req)
}

// convert converts the upstream's WSDL through the API and returns the
// response payload.
func (h *harness) convert(t *testing.T, extra url.Values) map[string]interface{} {
	t.Helper()
	form := url.Values{}
	form.Set("wsdl_url", h.wsdlURL())
	for key, values := range extra {
		form[key] = values
	}
	resp := h.postForm(t, "/api/convert", form)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody(t, resp)
}

// seedService inserts a catalog entry directly, bypassing conversion.
func (h *harness) seedService(t *testing.T, name string) *db.Service {
	t.Helper()
	spec := fmt.Sprintf(`{"openapi":"3.0.0","info":{"title":%q,"version":"1.0.0"},"paths":{}}`, name)
	service := &db.Service{
		Name:        name,
		WsdlURL:     h.wsdlURL(),
		Description: "fraud scoring",
		OpenAPISpec: datatypes.JSON(spec),
		Operations: []db.Operation{
			{
				Name:        "CheckFraudRisk",
				SOAPAction:  "http://insurance.example.com/fraud/CheckFraudRisk",
				InputSchema: datatypes.JSON(`{"type":"object","properties":{"customerId":{"type":"string"}}}`),
			},
			{
				Name:        "GetServiceStats",
				SOAPAction:  "http://insurance.example.com/fraud/GetServiceStats",
				InputSchema: datatypes.JSON(`{"type":"object","properties":{}}`),
			},
		},
	}
	require.NoError(t, h.store.CreateService(service))
	return service
}

// markRegistered stamps a gateway binding onto a service the way a
// completed registration would.
func (h *harness) markRegistered(t *testing.T, service *db.Service) *db.Service {
	t.Helper()
	endpoint := h.gateway.server.URL + "/servers/" + h.gateway.serverUUID.String() + "/mcp"
	updated, err := h.store.MarkServiceRegistered(service.ID, h.gateway.serverUUID, endpoint)
	require.NoError(t, err)
	require.True(t, updated)
	reloaded, err := h.store.GetServiceByID(service.ID)
	require.NoError(t, err)
	return reloaded
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return data
}

// multipartWSDL builds a multipart body carrying a wsdl_file upload plus any
// extra form fields.
func multipartWSDL(t *testing.T, fields map[string]string, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	part, err := writer.CreateFormFile("wsdl_file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

// deadEndpointURL returns an http URL nothing is listening on.
func deadEndpointURL(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := listener.Addr().String()
	listener.Close()
	return "http://" + address
}

// fakeGateway stands in for the MCP tool gateway, with switchable failure
// statuses per endpoint.
type fakeGateway struct {
	server     *httptest.Server
	serverUUID uuid.UUID

	mu           sync.Mutex
	toolStatus   int
	serverStatus int
	deleteStatus int
	toolsCreated int
	deleted      []string
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	g := &fakeGateway{
		serverUUID:   uuid.New(),
		toolStatus:   http.StatusCreated,
		serverStatus: http.StatusCreated,
		deleteStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/tools", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.toolStatus >= 300 {
			w.WriteHeader(g.toolStatus)
			return
		}
		g.toolsCreated++
		w.WriteHeader(g.toolStatus)
		fmt.Fprintf(w, `{"id":"tool-%d"}`, g.toolsCreated)
	})
	mux.HandleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.serverStatus >= 300 {
			w.WriteHeader(g.serverStatus)
			return
		}
		w.WriteHeader(g.serverStatus)
		fmt.Fprintf(w, `{"id":%q}`, g.serverUUID.String())
	})
	mux.HandleFunc("/servers/", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.deleteStatus >= 300 {
			w.WriteHeader(g.deleteStatus)
			return
		}
		g.deleted = append(g.deleted, strings.TrimPrefix(r.URL.Path, "/servers/"))
		w.WriteHeader(g.deleteStatus)
	})
	g.server = httptest.NewServer(mux)
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGateway) failTools(status int) {
	g.mu.Lock()
	g.toolStatus = status
	g.mu.Unlock()
}

func (g *fakeGateway) failServers(status int) {
	g.mu.Lock()
	g.serverStatus = status
	g.mu.Unlock()
}

func (g *fakeGateway) failDeletes(status int) {
	g.mu.Lock()
	g.deleteStatus = status
	g.mu.Unlock()
}

func (g *fakeGateway) toolCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.toolsCreated
}

func (g *fakeGateway) deletedServers() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.deleted...)
}
