package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/soapbridge/soapbridge/db"
	"github.com/soapbridge/soapbridge/pkg/gateway"
	"github.com/soapbridge/soapbridge/pkg/openapi"
	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

// ConvertResponse reports a completed conversion. The gateway fields are
// only present when auto-registration was requested; a failed registration
// travels in gateway_error without failing the conversion.
type ConvertResponse struct {
	Success           bool   `json:"success"`
	ServiceID         string `json:"service_id"`
	ServiceName       string `json:"service_name"`
	OperationsCount   int    `json:"operations_count"`
	GatewayRegistered bool   `json:"gateway_registered"`
	MCPEndpoint       string `json:"mcp_endpoint,omitempty"`
	GatewayServerUUID string `json:"gateway_server_uuid,omitempty"`
	GatewayError      string `json:"gateway_error,omitempty"`
}

// ConvertWSDL converts a WSDL into an OpenAPI document and records the
// service in the catalog.
//
// Form fields: wsdl_file (multipart upload) or wsdl_url, optional
// service_name override and auto_register_gateway flag. Uploads are
// persisted into the document cache directory so the runtime translator can
// rebuild SOAP clients from them after a restart.
func ConvertWSDL(c *fiber.Ctx) error {
	bridge := getBridge(c)
	log.Info().Msg("Received WSDL conversion request")

	wsdlURL := c.FormValue("wsdl_url")
	serviceName := c.FormValue("service_name")
	autoRegister := strings.EqualFold(c.FormValue("auto_register_gateway"), "true")

	upload, uploadErr := c.FormFile("wsdl_file")
	if uploadErr != nil && wsdlURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Please provide either wsdl_file or wsdl_url",
		})
	}

	source := wsdlURL
	if uploadErr == nil {
		stored, err := storeUpload(bridge.cache, upload)
		if err != nil {
			log.Error().Err(err).Str("filename", upload.Filename).Msg("Could not persist uploaded WSDL")
			return handleError(c, err)
		}
		source = stored
	}

	parser := wsdl.NewParser().
		WithCache(bridge.cache).
		WithTimeout(time.Duration(viper.GetInt("wsdl.request.timeout")) * time.Second).
		WithMaxDepth(viper.GetInt("wsdl.import.max_depth"))

	doc, err := parser.Parse(c.Context(), source)
	if err != nil {
		log.Error().Err(err).Str("source", source).Msg("Failed to load WSDL")
		return handleError(c, err)
	}

	desc, err := wsdl.NewResolver(doc).Describe()
	if err != nil {
		log.Error().Err(err).Str("source", source).Msg("Failed to resolve WSDL service")
		return handleError(c, err)
	}

	result := openapi.Convert(desc, openapi.Options{
		ServiceName:  serviceName,
		ProxyBaseURL: bridge.proxyBase,
		WsdlURL:      source,
	})

	service, err := catalogEntry(result, source)
	if err != nil {
		return handleError(c, err)
	}

	if err := bridge.store.CreateService(service); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
				Error: fmt.Sprintf("Service '%s' already exists", result.ServiceName),
			})
		}
		return handleError(c, err)
	}

	log.Info().
		Str("service", service.Name).
		Int("operations", len(result.Operations)).
		Msg("Service registered")

	response := ConvertResponse{
		Success:         true,
		ServiceID:       service.ID.String(),
		ServiceName:     service.Name,
		OperationsCount: len(result.Operations),
	}

	if autoRegister && bridge.gateway.Configured() {
		if err := autoRegisterService(c, bridge, service, &response); err != nil {
			log.Error().Err(err).Str("service", service.Name).Msg("Gateway auto-registration failed")
			response.GatewayError = err.Error()
		}
	}

	return c.JSON(response)
}

// catalogEntry marshals a conversion result into the rows the catalog
// stores: the document bytes exactly as emitted, plus per-operation schemas.
func catalogEntry(result *openapi.Result, source string) (*db.Service, error) {
	specJSON, err := json.Marshal(result.Document)
	if err != nil {
		return nil, err
	}

	service := &db.Service{
		Name:        result.ServiceName,
		WsdlURL:     source,
		Description: result.Description,
		OpenAPISpec: datatypes.JSON(specJSON),
		Operations:  make([]db.Operation, 0, len(result.Operations)),
	}

	for _, op := range result.Operations {
		inputSchema, err := json.Marshal(op.InputSchema)
		if err != nil {
			return nil, err
		}
		outputSchema, err := json.Marshal(op.OutputSchema)
		if err != nil {
			return nil, err
		}
		service.Operations = append(service.Operations, db.Operation{
			Name:         op.Name,
			SOAPAction:   op.SOAPAction,
			PortName:     result.PortName,
			InputSchema:  datatypes.JSON(inputSchema),
			OutputSchema: datatypes.JSON(outputSchema),
		})
	}

	return service, nil
}

func autoRegisterService(c *fiber.Ctx, bridge *Bridge, service *db.Service, response *ConvertResponse) error {
	client, err := bridge.gateway.Client()
	if err != nil {
		return err
	}

	registrar := gateway.NewRegistrar(bridge.store, client, bridge.proxyBase)
	result, err := registrar.RegisterService(c.Context(), service)
	if err != nil {
		return err
	}

	response.GatewayRegistered = true
	response.MCPEndpoint = result.MCPEndpoint
	response.GatewayServerUUID = result.ServerUUID.String()
	log.Info().Str("mcp_endpoint", result.MCPEndpoint).Msg("Service auto-registered with gateway")
	return nil
}

func storeUpload(cache *wsdl.DocumentCache, upload *multipart.FileHeader) (string, error) {
	file, err := upload.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return cache.StoreUpload(upload.Filename, data)
}
