// Package translator executes REST/JSON calls against SOAP upstreams using
// the service catalog: it looks up the operation, normalizes the JSON body
// into SOAP parameters, dispatches through a cached per-WSDL client, and
// returns the decoded JSON result.
package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/soapbridge/soapbridge/db"
	"github.com/soapbridge/soapbridge/pkg/openapi"
	"github.com/soapbridge/soapbridge/pkg/soap"
	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

const defaultCallTimeout = 30 * time.Second

// Translator is the runtime bridge between the REST surface and SOAP
// upstreams. SOAP clients are cached per WSDL URL; cache misses are
// single-flighted so concurrent callers trigger at most one WSDL fetch.
type Translator struct {
	store       *db.DatabaseConnection
	parser      *wsdl.Parser
	cache       *wsdl.DocumentCache
	callTimeout time.Duration

	mu      sync.RWMutex
	clients map[string]*soap.Client
	group   singleflight.Group
}

// CacheStats describes the in-memory client cache and the on-disk WSDL
// document cache.
type CacheStats struct {
	CachedClients int             `json:"cached_clients"`
	CachedWSDLs   []string        `json:"cached_wsdls"`
	Documents     wsdl.CacheStats `json:"documents"`
}

// New builds a translator on top of the catalog and a WSDL parser. The
// parser should carry the shared document cache so runtime refetches hit
// disk before the network.
func New(store *db.DatabaseConnection, parser *wsdl.Parser, cache *wsdl.DocumentCache) *Translator {
	return &Translator{
		store:       store,
		parser:      parser,
		cache:       cache,
		callTimeout: defaultCallTimeout,
		clients:     make(map[string]*soap.Client),
	}
}

// WithCallTimeout sets the per-call SOAP timeout for clients built by this
// translator.
func (t *Translator) WithCallTimeout(timeout time.Duration) *Translator {
	t.callTimeout = timeout
	return t
}

// Execute runs one SOAP operation with a JSON payload and returns the
// JSON-shaped result.
func (t *Translator) Execute(ctx context.Context, serviceName, operationName string, payload interface{}) (interface{}, error) {
	log.Info().Str("service", serviceName).Str("operation", operationName).Msg("Executing SOAP operation")

	service, err := t.store.GetServiceByName(serviceName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: service %q is not registered", ErrServiceUnknown, serviceName)
		}
		return nil, err
	}

	operation, err := t.store.FindOperation(service.ID, operationName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: operation %q in service %q", ErrOperationUnknown, operationName, serviceName)
		}
		return nil, err
	}

	params, err := normalizeParameters(payload, operation.InputSchema)
	if err != nil {
		return nil, err
	}

	client, err := t.clientFor(ctx, service.WsdlURL)
	if err != nil {
		return nil, err
	}

	result, err := client.Call(ctx, operationName, params)
	if err != nil {
		var fault *soap.Fault
		switch {
		case errors.As(err, &fault):
			return nil, fault
		case errors.Is(err, soap.ErrOperationNotFound):
			return nil, fmt.Errorf("%w: operation %q in service %q", ErrOperationUnknown, operationName, serviceName)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
	}

	// Advisory bookkeeping only. A failed write must not fail the call.
	if err := t.store.TouchWSDLAccess(service.WsdlURL, service.Name); err != nil {
		log.Warn().Err(err).Str("wsdl_url", service.WsdlURL).Msg("Failed to update WSDL access time")
	}

	return result, nil
}

// normalizeParameters turns the decoded JSON request body into SOAP call
// parameters using the operation's stored input schema:
//
//   - an object passes through unchanged
//   - a simple value is wrapped into the schema's only property when there
//     is exactly one
//   - a simple value against a multi-property schema is ambiguous
//   - anything else maps to no parameters
func normalizeParameters(payload interface{}, inputSchema []byte) (map[string]interface{}, error) {
	if params, ok := payload.(map[string]interface{}); ok {
		return params, nil
	}

	var schema openapi.Schema
	if len(inputSchema) > 0 {
		if err := json.Unmarshal(inputSchema, &schema); err != nil {
			return nil, fmt.Errorf("decode stored input schema: %w", err)
		}
	}

	if name, ok := schema.OnlyPropertyName(); ok {
		log.Debug().Str("parameter", name).Msg("Auto-wrapping simple value into single parameter")
		return map[string]interface{}{name: payload}, nil
	}

	if schema.PropertyCount() > 1 {
		return nil, &ParameterShapeError{Properties: schema.PropertyNames()}
	}

	return map[string]interface{}{}, nil
}

// clientFor returns the cached SOAP client for a WSDL URL, building it on
// first use. Concurrent misses for the same URL share one build.
func (t *Translator) clientFor(ctx context.Context, wsdlURL string) (*soap.Client, error) {
	t.mu.RLock()
	client, ok := t.clients[wsdlURL]
	t.mu.RUnlock()
	if ok {
		return client, nil
	}

	value, err, _ := t.group.Do(wsdlURL, func() (interface{}, error) {
		// A previous flight may have landed between the map read and Do.
		t.mu.RLock()
		cached, ok := t.clients[wsdlURL]
		t.mu.RUnlock()
		if ok {
			return cached, nil
		}

		log.Info().Str("wsdl_url", wsdlURL).Msg("Loading WSDL for SOAP client")
		document, err := t.parser.Parse(ctx, wsdlURL)
		if err != nil {
			return nil, err
		}
		description, err := wsdl.NewResolver(document).Describe()
		if err != nil {
			return nil, err
		}

		built := soap.NewClient(description).WithTimeout(t.callTimeout)
		t.mu.Lock()
		t.clients[wsdlURL] = built
		t.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*soap.Client), nil
}

// ClearCache drops every cached SOAP client and the on-disk WSDL documents.
// It returns how many of each were removed.
func (t *Translator) ClearCache() (clients int, documents int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	clients = len(t.clients)
	t.clients = make(map[string]*soap.Client)
	log.Info().Int("clients", clients).Msg("Cleared SOAP client cache")

	if t.cache != nil {
		documents, err = t.cache.Clear()
	}
	return clients, documents, err
}

// Stats reports cache contents for the health endpoint. WSDL URLs are
// sorted so the output is stable.
func (t *Translator) Stats() CacheStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	urls := make([]string, 0, len(t.clients))
	for url := range t.clients {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	stats := CacheStats{
		CachedClients: len(t.clients),
		CachedWSDLs:   urls,
	}
	if t.cache != nil {
		stats.Documents = t.cache.Stats()
	}
	return stats
}
