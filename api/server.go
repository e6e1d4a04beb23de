package api

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/fiberzerolog"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/soapbridge/soapbridge/db"
	"github.com/soapbridge/soapbridge/pkg/translator"
	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

// Bridge bundles the long-lived dependencies the handlers share: the service
// catalog, the runtime translator, the WSDL document cache and the gateway
// settings. It is injected into every request under the "bridge" local.
type Bridge struct {
	store      *db.DatabaseConnection
	translator *translator.Translator
	cache      *wsdl.DocumentCache
	gateway    *GatewaySettings
	proxyBase  string
}

// NewBridge wires the runtime pipeline from the active configuration.
func NewBridge(store *db.DatabaseConnection, cache *wsdl.DocumentCache) *Bridge {
	parser := wsdl.NewParser().
		WithCache(cache).
		WithTimeout(time.Duration(viper.GetInt("wsdl.request.timeout")) * time.Second).
		WithMaxDepth(viper.GetInt("wsdl.import.max_depth"))

	trans := translator.New(store, parser, cache).
		WithCallTimeout(time.Duration(viper.GetInt("soap.call.timeout")) * time.Second)

	return &Bridge{
		store:      store,
		translator: trans,
		cache:      cache,
		gateway:    NewGatewaySettings(),
		proxyBase:  strings.TrimRight(viper.GetString("proxy.base_url"), "/"),
	}
}

func getBridge(c *fiber.Ctx) *Bridge {
	return c.Locals("bridge").(*Bridge)
}

// StartAPI initializes the catalog and the WSDL cache, then serves the REST
// surface until interrupted. SIGINT/SIGTERM drain in-flight requests before
// the process exits.
func StartAPI() {
	apiLogger := log.With().Str("type", "api").Logger()

	apiLogger.Info().Msg("Initializing...")
	store := db.InitDb()

	cache, err := wsdl.NewDocumentCache(
		viper.GetString("wsdl.cache.dir"),
		time.Duration(viper.GetInt("wsdl.cache.ttl"))*time.Second,
	)
	if err != nil {
		apiLogger.Error().Err(err).Msg("Failed to initialize WSDL document cache")
		os.Exit(1)
	}

	bridge := NewBridge(store, cache)
	app := NewApp(bridge, apiLogger)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdown
		apiLogger.Info().Msg("Shutting down, draining in-flight requests")
		if err := app.Shutdown(); err != nil {
			apiLogger.Error().Err(err).Msg("Error during shutdown")
		}
	}()

	listenAddress := fmt.Sprintf("%v:%v", viper.Get("api.listen.host"), viper.Get("api.listen.port"))
	apiLogger.Info().Str("address", listenAddress).Msg("Starting the API...")
	if err := app.Listen(listenAddress); err != nil {
		apiLogger.Error().Err(err).Msg("Error starting server")
	}

	if err := store.Close(); err != nil {
		apiLogger.Warn().Err(err).Msg("Error closing database")
	}
}

// NewApp assembles the fiber application and its routes around a bridge.
// Split from StartAPI so handler tests can drive it with app.Test.
func NewApp(bridge *Bridge, apiLogger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ServerHeader: "soapbridge",
		AppName:      "soapbridge API",
		BodyLimit:    16 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  viper.GetString("api.cors.origins"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-API-Key",
		ExposeHeaders: "Content-Disposition",
	}))

	app.Use(fiberzerolog.New(fiberzerolog.Config{
		Logger: &apiLogger,
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("bridge", bridge)
		return c.Next()
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("soapbridge running")
	})

	// The gateway calls /soap/* without credentials, and /health must stay
	// reachable for probes, so only /api/* and /admin/* sit behind the key.
	app.Get("/health", Health)
	app.Post("/soap/:service/:operation", ExecuteOperation)

	if viper.GetBool("api.metrics.enabled") {
		app.Get("/monitor", monitor.New(monitor.Config{Title: "soapbridge metrics"}))
	}

	protected := APIKeyProtected()

	apiGroup := app.Group("/api", protected)
	apiGroup.Post("/convert", ConvertWSDL)
	apiGroup.Get("/services", FindServices)
	apiGroup.Get("/services/:id", GetServiceDetail)
	apiGroup.Delete("/services/:id", DeleteService)
	apiGroup.Get("/services/:id/openapi.:format", DownloadOpenAPI)
	apiGroup.Post("/services/:id/register-gateway", RegisterServiceGateway)
	apiGroup.Delete("/services/:id/unregister-gateway", UnregisterServiceGateway)
	apiGroup.Get("/gateway/config", GetGatewayConfig)
	apiGroup.Post("/gateway/config", SaveGatewayConfig)
	apiGroup.Delete("/gateway/config", ResetGatewayConfig)

	admin := app.Group("/admin", protected)
	admin.Post("/clear-cache", ClearCache)

	return app
}
