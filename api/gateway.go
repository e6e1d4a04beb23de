package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/soapbridge/soapbridge/db"
	"github.com/soapbridge/soapbridge/pkg/gateway"
)

// GatewaySettings resolves the active gateway endpoint. A saved override
// takes precedence over GATEWAY_URL/GATEWAY_TOKEN from the environment;
// overrides are process-scoped and vanish on restart.
type GatewaySettings struct {
	mu            sync.RWMutex
	overrideURL   string
	overrideToken string
}

func NewGatewaySettings() *GatewaySettings {
	return &GatewaySettings{}
}

// Current returns the effective gateway URL and token, each falling back to
// the configuration when not overridden.
func (g *GatewaySettings) Current() (url, token string) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	url, token = g.overrideURL, g.overrideToken
	if url == "" {
		url = viper.GetString("gateway.url")
	}
	if token == "" {
		token = viper.GetString("gateway.token")
	}
	return url, token
}

func (g *GatewaySettings) Override(url, token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.overrideURL = url
	g.overrideToken = token
}

func (g *GatewaySettings) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.overrideURL = ""
	g.overrideToken = ""
}

func (g *GatewaySettings) Overridden() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.overrideURL != "" || g.overrideToken != ""
}

func (g *GatewaySettings) Configured() bool {
	url, token := g.Current()
	return url != "" && token != ""
}

// Client builds a gateway client for the effective settings.
func (g *GatewaySettings) Client() (*gateway.Client, error) {
	url, token := g.Current()
	client, err := gateway.NewClient(url, token)
	if err != nil {
		return nil, err
	}
	return client.WithTimeout(time.Duration(viper.GetInt("gateway.timeout")) * time.Second), nil
}

// GatewayConfigResponse reports the effective gateway configuration with the
// token masked.
type GatewayConfigResponse struct {
	GatewayURL   string `json:"gateway_url"`
	GatewayToken string `json:"gateway_token"`
	Configured   bool   `json:"configured"`
	Override     bool   `json:"override"`
}

type GatewayConfigInput struct {
	GatewayURL   string `json:"gateway_url" validate:"required,url"`
	GatewayToken string `json:"gateway_token" validate:"required"`
}

// RegisterGatewayResponse is the register-gateway success body.
type RegisterGatewayResponse struct {
	Success bool `json:"success"`
	gateway.RegistrationResult
}

// RegisterServiceGateway registers one catalog service with the MCP gateway:
// a tool per operation plus a virtual server grouping them.
func RegisterServiceGateway(c *fiber.Ctx) error {
	bridge := getBridge(c)

	if !bridge.gateway.Configured() {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Gateway not configured. Set GATEWAY_URL and GATEWAY_TOKEN or save a gateway configuration.",
		})
	}

	service, err := serviceFromParam(c, bridge)
	if err != nil {
		return handleError(c, err)
	}

	registrar, err := newRegistrar(bridge)
	if err != nil {
		return handleError(c, err)
	}

	result, err := registrar.RegisterService(c.Context(), service)
	if err != nil {
		return handleError(c, err)
	}

	log.Info().
		Str("service", service.Name).
		Str("mcp_endpoint", result.MCPEndpoint).
		Msg("Service registered with gateway")

	return c.JSON(RegisterGatewayResponse{Success: true, RegistrationResult: *result})
}

// UnregisterServiceGateway removes a service's gateway binding. Repeating
// the call for an unbound service succeeds without touching the gateway.
func UnregisterServiceGateway(c *fiber.Ctx) error {
	bridge := getBridge(c)

	service, err := serviceFromParam(c, bridge)
	if err != nil {
		return handleError(c, err)
	}

	if !service.GatewayRegistered {
		return c.JSON(SuccessResponse{
			Success: true,
			Message: "Service is not registered with the gateway",
		})
	}

	registrar, err := newRegistrar(bridge)
	if err != nil {
		return handleError(c, err)
	}

	if err := registrar.UnregisterService(c.Context(), service); err != nil {
		return handleError(c, err)
	}

	log.Info().Str("service", service.Name).Msg("Service unregistered from gateway")
	return c.JSON(SuccessResponse{Success: true})
}

// GetGatewayConfig reports the effective gateway settings, masking the token.
func GetGatewayConfig(c *fiber.Ctx) error {
	bridge := getBridge(c)

	url, token := bridge.gateway.Current()
	masked := ""
	if token != "" {
		masked = "****"
	}

	return c.JSON(GatewayConfigResponse{
		GatewayURL:   url,
		GatewayToken: masked,
		Configured:   url != "" && token != "",
		Override:     bridge.gateway.Overridden(),
	})
}

// SaveGatewayConfig stores a process-scoped gateway override.
func SaveGatewayConfig(c *fiber.Ctx) error {
	bridge := getBridge(c)

	input := new(GatewayConfigInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:  "Cannot parse JSON",
			Detail: err.Error(),
		})
	}

	input.GatewayURL = strings.TrimSpace(input.GatewayURL)
	input.GatewayToken = strings.TrimSpace(input.GatewayToken)
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:  "Both gateway_url and gateway_token are required",
			Detail: err.Error(),
		})
	}

	bridge.gateway.Override(input.GatewayURL, input.GatewayToken)
	log.Info().Str("gateway_url", input.GatewayURL).Msg("Gateway configuration saved")

	return c.JSON(SuccessResponse{
		Success: true,
		Message: "Gateway configuration saved successfully",
	})
}

// ResetGatewayConfig drops the override, falling back to the environment.
func ResetGatewayConfig(c *fiber.Ctx) error {
	bridge := getBridge(c)
	bridge.gateway.Reset()
	log.Info().Msg("Gateway configuration override cleared")

	return c.JSON(SuccessResponse{
		Success: true,
		Message: "Gateway configuration override cleared",
	})
}

func newRegistrar(bridge *Bridge) (*gateway.Registrar, error) {
	client, err := bridge.gateway.Client()
	if err != nil {
		return nil, err
	}
	return gateway.NewRegistrar(bridge.store, client, bridge.proxyBase), nil
}

// unregisterForDelete releases the gateway binding ahead of a catalog
// delete so the gateway is never left pointing at a vanished service.
func unregisterForDelete(c *fiber.Ctx, bridge *Bridge, service *db.Service) error {
	registrar, err := newRegistrar(bridge)
	if err != nil {
		return err
	}
	return registrar.UnregisterService(c.Context(), service)
}
