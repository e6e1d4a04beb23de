package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/soapbridge/soapbridge/pkg/translator"
)

type HealthResponse struct {
	Status            string                `json:"status"`
	Database          string                `json:"database"`
	GatewayConfigured bool                  `json:"gateway_configured"`
	CacheStats        translator.CacheStats `json:"cache_stats"`
}

// Health reports database reachability, whether a gateway is configured and
// the WSDL cache counters. It stays outside the API-key guard so probes and
// load balancers can reach it.
func Health(c *fiber.Ctx) error {
	bridge := getBridge(c)

	dbStatus := "healthy"
	if err := bridge.store.Ping(); err != nil {
		dbStatus = fmt.Sprintf("unhealthy: %v", err)
	}

	return c.JSON(HealthResponse{
		Status:            "healthy",
		Database:          dbStatus,
		GatewayConfigured: bridge.gateway.Configured(),
		CacheStats:        bridge.translator.Stats(),
	})
}

// ClearCache drops the in-memory SOAP client cache and the on-disk WSDL
// document cache. The next execution reloads and reparses its WSDL.
func ClearCache(c *fiber.Ctx) error {
	bridge := getBridge(c)

	clients, documents, err := bridge.translator.ClearCache()
	if err != nil {
		return handleError(c, err)
	}

	log.Info().
		Int("clients", clients).
		Int("documents", documents).
		Msg("WSDL caches cleared")

	return c.JSON(SuccessResponse{
		Success: true,
		Message: "All caches cleared. WSDL will be reloaded on next request.",
	})
}
