package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/soapbridge/soapbridge/db"
	"github.com/soapbridge/soapbridge/pkg/openapi"
)

// ServiceSummary is the list projection of a catalog service. The stored
// OpenAPI document is omitted; it is served by the download endpoint.
type ServiceSummary struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	WsdlURL             string     `json:"wsdl_url"`
	Description         string     `json:"description"`
	GatewayRegistered   bool       `json:"gateway_registered"`
	GatewayServerUUID   *uuid.UUID `json:"gateway_server_uuid"`
	GatewayMcpEndpoint  *string    `json:"gateway_mcp_endpoint"`
	GatewayRegisteredAt *time.Time `json:"gateway_registered_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	OperationsCount     int        `json:"operations_count"`
}

type ServiceListResponse struct {
	Services []ServiceSummary `json:"services"`
	Count    int              `json:"count"`
}

func summarize(service *db.Service) ServiceSummary {
	return ServiceSummary{
		ID:                  service.ID,
		Name:                service.Name,
		WsdlURL:             service.WsdlURL,
		Description:         service.Description,
		GatewayRegistered:   service.GatewayRegistered,
		GatewayServerUUID:   service.GatewayServerUUID,
		GatewayMcpEndpoint:  service.GatewayMcpEndpoint,
		GatewayRegisteredAt: service.GatewayRegisteredAt,
		CreatedAt:           service.CreatedAt,
		UpdatedAt:           service.UpdatedAt,
		OperationsCount:     len(service.Operations),
	}
}

// FindServices lists all registered services.
func FindServices(c *fiber.Ctx) error {
	bridge := getBridge(c)

	services, err := bridge.store.ListServices()
	if err != nil {
		return handleError(c, err)
	}

	summaries := make([]ServiceSummary, 0, len(services))
	for _, service := range services {
		summaries = append(summaries, summarize(service))
	}

	return c.JSON(ServiceListResponse{Services: summaries, Count: len(summaries)})
}

// GetServiceDetail returns the full service record, operations and stored
// OpenAPI document included.
func GetServiceDetail(c *fiber.Ctx) error {
	bridge := getBridge(c)

	service, err := serviceFromParam(c, bridge)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(service)
}

// DeleteService removes a service from the catalog. A service still bound to
// the gateway is unregistered first; when that fails the catalog is left
// intact unless the operator passed ?force=true.
func DeleteService(c *fiber.Ctx) error {
	bridge := getBridge(c)
	force := c.QueryBool("force")

	service, err := serviceFromParam(c, bridge)
	if err != nil {
		return handleError(c, err)
	}

	if service.GatewayRegistered {
		if err := unregisterForDelete(c, bridge, service); err != nil {
			if !force {
				return handleError(c, err)
			}
			log.Warn().Err(err).Str("service", service.Name).
				Msg("Forced delete leaves a dangling gateway binding")
		}
	}

	if err := bridge.store.DeleteService(service.ID); err != nil {
		return handleError(c, err)
	}

	log.Info().Str("service", service.Name).Msg("Service deleted")
	return c.JSON(SuccessResponse{Success: true})
}

// DownloadOpenAPI serves the stored OpenAPI document. JSON responses are the
// conversion-time bytes unmodified; YAML is rendered from them with key
// order preserved.
func DownloadOpenAPI(c *fiber.Ctx) error {
	bridge := getBridge(c)

	service, err := serviceFromParam(c, bridge)
	if err != nil {
		return handleError(c, err)
	}

	format := c.Params("format")
	var content []byte
	var contentType string
	switch format {
	case "json":
		content = []byte(service.OpenAPISpec)
		contentType = fiber.MIMEApplicationJSON
	case "yaml":
		content, err = openapi.ToYAML(service.OpenAPISpec)
		if err != nil {
			return handleError(c, err)
		}
		contentType = "application/x-yaml"
	default:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid format. Use yaml or json",
		})
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s-openapi.%s", service.Name, format))
	return c.Send(content)
}

// serviceFromParam loads the service addressed by the :id route parameter.
// Unparseable IDs read as absent rows, mirroring a lookup miss.
func serviceFromParam(c *fiber.Ctx, bridge *Bridge) (*db.Service, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	return bridge.store.GetServiceByID(id)
}
