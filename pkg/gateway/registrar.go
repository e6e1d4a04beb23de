package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"

	"github.com/soapbridge/soapbridge/db"
)

// ErrAlreadyRegistered means the service already holds a gateway binding,
// either at the start of registration or because a concurrent request won
// the conditional catalog update.
var ErrAlreadyRegistered = errors.New("service is already registered with gateway")

// PartialRegistrationError reports a registration that created some tools
// before failing. The gateway only deletes tools through their server, so
// tools created before the failure are orphaned; they are logged and carried
// here for operators.
type PartialRegistrationError struct {
	CreatedToolIDs []string
	Err            error
}

func (e *PartialRegistrationError) Error() string {
	return fmt.Sprintf("gateway registration failed after creating %d tools: %v", len(e.CreatedToolIDs), e.Err)
}

func (e *PartialRegistrationError) Unwrap() error {
	return e.Err
}

// RegistrationResult describes a successful gateway registration.
type RegistrationResult struct {
	ServerUUID      uuid.UUID `json:"server_uuid"`
	MCPEndpoint     string    `json:"mcp_endpoint"`
	ToolsRegistered int       `json:"tools_registered"`
}

// Registrar registers catalog services with the tool gateway. Catalog state
// is only written after the gateway calls succeed, so a failed registration
// never leaves a half-bound service.
type Registrar struct {
	store        *db.DatabaseConnection
	client       *Client
	proxyBaseURL string
}

// NewRegistrar wires a registrar to the catalog and a gateway client. The
// proxy base URL becomes the prefix of every registered tool's callback.
func NewRegistrar(store *db.DatabaseConnection, client *Client, proxyBaseURL string) *Registrar {
	return &Registrar{
		store:        store,
		client:       client,
		proxyBaseURL: strings.TrimRight(proxyBaseURL, "/"),
	}
}

// RegisterService creates one gateway tool per operation, groups them under
// a virtual server, and commits the binding to the catalog.
func (r *Registrar) RegisterService(ctx context.Context, service *db.Service) (*RegistrationResult, error) {
	if service.GatewayRegistered {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, service.Name)
	}

	log.Info().Str("service", service.Name).Int("operations", len(service.Operations)).
		Msg("Registering service with gateway")

	toolIDs := make([]string, 0, len(service.Operations))
	for i := range service.Operations {
		operation := &service.Operations[i]
		toolID, err := r.client.CreateTool(ctx, r.buildTool(service.Name, operation))
		if err != nil {
			return nil, r.partialFailure(service.Name, toolIDs, err)
		}
		toolIDs = append(toolIDs, toolID)
	}

	serverID, err := r.client.CreateServer(ctx, Server{
		Name:            serverName(service.Name),
		Description:     serverDescription(service),
		AssociatedTools: toolIDs,
	})
	if err != nil {
		return nil, r.partialFailure(service.Name, toolIDs, err)
	}

	serverUUID, err := uuid.Parse(serverID)
	if err != nil {
		return nil, r.partialFailure(service.Name, toolIDs,
			fmt.Errorf("%w: server UUID %q is not a UUID", ErrUnavailable, serverID))
	}

	mcpEndpoint := fmt.Sprintf("%s/servers/%s/mcp", r.client.BaseURL(), serverID)

	updated, err := r.store.MarkServiceRegistered(service.ID, serverUUID, mcpEndpoint)
	if err != nil {
		return nil, r.partialFailure(service.Name, toolIDs, err)
	}
	if !updated {
		// A concurrent registration won the conditional update. Our server
		// is unreferenced, so try to remove it before reporting the
		// conflict; its tools cascade with it.
		if err := r.client.DeleteServer(ctx, serverID); err != nil {
			log.Warn().Err(err).Str("server_uuid", serverID).
				Msg("Could not remove gateway server after losing registration race")
		}
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, service.Name)
	}

	for i, toolID := range toolIDs {
		if err := r.store.SetOperationToolID(service.Operations[i].ID, toolID); err != nil {
			log.Warn().Err(err).Str("operation", service.Operations[i].Name).
				Msg("Failed to record gateway tool ID")
		}
	}

	log.Info().Str("service", service.Name).Str("server_uuid", serverID).
		Int("tools", len(toolIDs)).Msg("Service registered with gateway")

	return &RegistrationResult{
		ServerUUID:      serverUUID,
		MCPEndpoint:     mcpEndpoint,
		ToolsRegistered: len(toolIDs),
	}, nil
}

// UnregisterService deletes the service's virtual server and clears its
// binding. Unregistering a service that holds no binding succeeds without
// touching the gateway, so retries converge.
func (r *Registrar) UnregisterService(ctx context.Context, service *db.Service) error {
	if !service.GatewayRegistered {
		log.Debug().Str("service", service.Name).Msg("Service holds no gateway binding")
		return nil
	}

	if service.GatewayServerUUID != nil {
		if err := r.client.DeleteServer(ctx, service.GatewayServerUUID.String()); err != nil {
			return err
		}
	}

	if err := r.store.ClearServiceRegistration(service.ID); err != nil {
		return err
	}

	log.Info().Str("service", service.Name).Msg("Service unregistered from gateway")
	return nil
}

func (r *Registrar) buildTool(serviceName string, operation *db.Operation) Tool {
	schema := json.RawMessage(operation.InputSchema)
	if len(schema) == 0 {
		schema = json.RawMessage(`{"type":"object"}`)
	}
	return Tool{
		Name:            serviceName + "_" + operation.Name,
		URL:             fmt.Sprintf("%s/soap/%s/%s", r.proxyBaseURL, serviceName, operation.Name),
		Description:     "SOAP operation: " + operation.Name,
		IntegrationType: "REST",
		RequestType:     "POST",
		InputSchema:     schema,
	}
}

// partialFailure logs any tools that are now orphaned and wraps the cause.
// Tools cannot be deleted individually through this gateway API, so the leak
// is accepted and surfaced.
func (r *Registrar) partialFailure(serviceName string, toolIDs []string, err error) error {
	if len(toolIDs) == 0 {
		return err
	}
	log.Error().Err(err).Str("service", serviceName).Strs("tool_ids", toolIDs).
		Msg("Gateway registration failed, leaving orphaned tools")
	return &PartialRegistrationError{CreatedToolIDs: toolIDs, Err: err}
}

// serverName derives the gateway server name from a service name.
func serverName(serviceName string) string {
	return slug.Make(serviceName)
}

func serverDescription(service *db.Service) string {
	if service.Description != "" {
		return service.Description
	}
	return "SOAP service: " + service.Name
}
