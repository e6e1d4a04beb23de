package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayConfigLifecycle(t *testing.T) {
	h := newHarness(t)

	payload := decodeBody(t, h.get(t, "/api/gateway/config"))
	assert.Equal(t, "", payload["gateway_url"])
	assert.Equal(t, "", payload["gateway_token"])
	assert.Equal(t, false, payload["configured"])
	assert.Equal(t, false, payload["override"])

	resp := h.postJSON(t, "/api/gateway/config",
		`{"gateway_url":"http://gateway.example.com","gateway_token":"secret-token"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload = decodeBody(t, resp)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "Gateway configuration saved successfully", payload["message"])

	payload = decodeBody(t, h.get(t, "/api/gateway/config"))
	assert.Equal(t, "http://gateway.example.com", payload["gateway_url"])
	assert.Equal(t, "****", payload["gateway_token"])
	assert.Equal(t, true, payload["configured"])
	assert.Equal(t, true, payload["override"])

	resp = h.deleteReq(t, "/api/gateway/config")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload = decodeBody(t, h.get(t, "/api/gateway/config"))
	assert.Equal(t, false, payload["configured"])
	assert.Equal(t, false, payload["override"])
}

func TestGatewayConfigFromEnvironment(t *testing.T) {
	h := newHarness(t)
	viper.Set("gateway.url", "http://env-gateway.example.com")
	viper.Set("gateway.token", "env-token")
	t.Cleanup(func() {
		viper.Set("gateway.url", "")
		viper.Set("gateway.token", "")
	})

	payload := decodeBody(t, h.get(t, "/api/gateway/config"))
	assert.Equal(t, "http://env-gateway.example.com", payload["gateway_url"])
	assert.Equal(t, "****", payload["gateway_token"])
	assert.Equal(t, true, payload["configured"])
	assert.Equal(t, false, payload["override"])
}

func TestSaveGatewayConfigValidation(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing token", `{"gateway_url":"http://gateway.example.com"}`},
		{"missing url", `{"gateway_token":"secret"}`},
		{"invalid url", `{"gateway_url":"not-a-url","gateway_token":"secret"}`},
		{"whitespace only", `{"gateway_url":"   ","gateway_token":"  "}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := h.postJSON(t, "/api/gateway/config", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			payload := decodeBody(t, resp)
			assert.Equal(t, "Both gateway_url and gateway_token are required", payload["error"])
		})
	}

	resp := h.postJSON(t, "/api/gateway/config", "{")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	payload := decodeBody(t, resp)
	assert.Equal(t, "Cannot parse JSON", payload["error"])
}

func TestRegisterServiceGateway(t *testing.T) {
	h := newHarness(t)
	h.configureGateway()
	service := h.seedService(t, "alpha-service")

	resp := h.postJSON(t, "/api/services/"+service.ID.String()+"/register-gateway", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, h.gateway.serverUUID.String(), payload["server_uuid"])
	assert.Equal(t, float64(2), payload["tools_registered"])
	expectedEndpoint := h.gateway.server.URL + "/servers/" + h.gateway.serverUUID.String() + "/mcp"
	assert.Equal(t, expectedEndpoint, payload["mcp_endpoint"])
	assert.Equal(t, 2, h.gateway.toolCount())

	reloaded, err := h.store.GetServiceByID(service.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.GatewayRegistered)
	require.NotNil(t, reloaded.GatewayMcpEndpoint)
	assert.Equal(t, expectedEndpoint, *reloaded.GatewayMcpEndpoint)
}

func TestRegisterServiceGatewayUnconfigured(t *testing.T) {
	h := newHarness(t)
	service := h.seedService(t, "alpha-service")

	resp := h.postJSON(t, "/api/services/"+service.ID.String()+"/register-gateway", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.Equal(t,
		"Gateway not configured. Set GATEWAY_URL and GATEWAY_TOKEN or save a gateway configuration.",
		payload["error"])
}

func TestRegisterServiceGatewayTwice(t *testing.T) {
	h := newHarness(t)
	h.configureGateway()
	service := h.seedService(t, "alpha-service")

	resp := h.postJSON(t, "/api/services/"+service.ID.String()+"/register-gateway", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.postJSON(t, "/api/services/"+service.ID.String()+"/register-gateway", "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.Contains(t, payload["error"], "already registered")
}

func TestRegisterServiceGatewayUnknownService(t *testing.T) {
	h := newHarness(t)
	h.configureGateway()

	resp := h.postJSON(t, "/api/services/"+uuid.NewString()+"/register-gateway", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterServiceGatewayPartialFailure(t *testing.T) {
	h := newHarness(t)
	h.configureGateway()
	h.gateway.failServers(http.StatusInternalServerError)
	service := h.seedService(t, "alpha-service")

	resp := h.postJSON(t, "/api/services/"+service.ID.String()+"/register-gateway", "")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// Both tools were created before the server call failed; the error
	// names them so operators can clean up.
	payload := decodeBody(t, resp)
	assert.Contains(t, payload["error"], "after creating 2 tools")

	reloaded, err := h.store.GetServiceByID(service.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.GatewayRegistered)
}

func TestUnregisterServiceGateway(t *testing.T) {
	h := newHarness(t)
	h.configureGateway()
	service := h.markRegistered(t, h.seedService(t, "alpha-service"))

	resp := h.deleteReq(t, "/api/services/"+service.ID.String()+"/unregister-gateway")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodeBody(t, resp)
	assert.Equal(t, true, payload["success"])

	assert.Equal(t, []string{h.gateway.serverUUID.String()}, h.gateway.deletedServers())

	reloaded, err := h.store.GetServiceByID(service.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.GatewayRegistered)
	assert.Nil(t, reloaded.GatewayServerUUID)
	assert.Nil(t, reloaded.GatewayMcpEndpoint)
}

func TestUnregisterServiceGatewayIdempotent(t *testing.T) {
	h := newHarness(t)
	service := h.seedService(t, "alpha-service")

	// No binding and no configured gateway: the call still succeeds.
	for i := 0; i < 2; i++ {
		resp := h.deleteReq(t, "/api/services/"+service.ID.String()+"/unregister-gateway")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		payload := decodeBody(t, resp)
		assert.Equal(t, true, payload["success"])
		assert.Equal(t, "Service is not registered with the gateway", payload["message"])
	}
	assert.Empty(t, h.gateway.deletedServers())
}

func TestUnregisterServiceGatewayDown(t *testing.T) {
	h := newHarness(t)
	h.configureGateway()
	h.gateway.failDeletes(http.StatusBadGateway)
	service := h.markRegistered(t, h.seedService(t, "alpha-service"))

	resp := h.deleteReq(t, "/api/services/"+service.ID.String()+"/unregister-gateway")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	reloaded, err := h.store.GetServiceByID(service.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.GatewayRegistered)
}
