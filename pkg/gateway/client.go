// Package gateway integrates converted services with an external MCP tool
// gateway: every SOAP operation becomes a REST tool, grouped under one
// virtual server per service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of a gateway error response gets read for
// diagnostics.
const maxErrorBody = 4 << 10

var (
	// ErrNotConfigured means no gateway URL or bearer token is available.
	ErrNotConfigured = errors.New("gateway is not configured")
	// ErrUnavailable wraps transport failures, error statuses, and
	// responses the gateway API contract does not allow.
	ErrUnavailable = errors.New("gateway unavailable")
)

// Client talks to the tool gateway API with bearer authentication.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Tool is the REST tool payload for POST /tools.
type Tool struct {
	Name            string          `json:"name"`
	URL             string          `json:"url"`
	Description     string          `json:"description"`
	IntegrationType string          `json:"integration_type"`
	RequestType     string          `json:"request_type"`
	InputSchema     json.RawMessage `json:"input_schema"`
}

// Server is the virtual server payload for POST /servers.
type Server struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	AssociatedTools []string `json:"associatedTools"`
}

// NewClient validates the gateway coordinates and returns a client. The URL
// is kept without a trailing slash so endpoint paths concatenate cleanly.
func NewClient(gatewayURL, bearerToken string) (*Client, error) {
	if gatewayURL == "" || bearerToken == "" {
		return nil, ErrNotConfigured
	}
	return &Client{
		baseURL: strings.TrimRight(gatewayURL, "/"),
		token:   bearerToken,
		http:    &http.Client{Timeout: defaultTimeout},
	}, nil
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.http.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.http = client
	return c
}

// BaseURL returns the normalized gateway URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateTool registers one REST tool and returns its gateway ID.
func (c *Client) CreateTool(ctx context.Context, tool Tool) (string, error) {
	payload, err := c.post(ctx, "/tools", map[string]interface{}{"tool": tool})
	if err != nil {
		return "", err
	}
	id, ok := extractID(payload, "id", "tool_id")
	if !ok {
		return "", fmt.Errorf("%w: response carries no tool ID", ErrUnavailable)
	}
	return id, nil
}

// CreateServer creates a virtual server grouping tools and returns its UUID.
func (c *Client) CreateServer(ctx context.Context, server Server) (string, error) {
	payload, err := c.post(ctx, "/servers", map[string]interface{}{"server": server})
	if err != nil {
		return "", err
	}
	id, ok := extractID(payload, "id", "uuid")
	if !ok {
		return "", fmt.Errorf("%w: response carries no server UUID", ErrUnavailable)
	}
	return id, nil
}

// DeleteServer removes a virtual server; the gateway cascades the delete to
// its tools. A 404 means the server is already gone and counts as success.
func (c *Client) DeleteServer(ctx context.Context, serverUUID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/servers/"+serverUUID, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Debug().Str("server_uuid", serverUUID).Msg("Gateway server already gone")
		return nil
	}
	if resp.StatusCode >= 300 {
		return c.statusError(resp)
	}
	return nil
}

// CheckHealth reports whether the gateway answers its health endpoint.
func (c *Client) CheckHealth(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (map[string]interface{}, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, c.statusError(resp)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: invalid response JSON: %v", ErrUnavailable, err)
	}
	return payload, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
}

func (c *Client) transportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := strings.TrimSpace(string(body))
	if message == "" {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, message)
}

// extractID pulls a tool or server identifier out of a gateway response,
// accepting either key and both string and numeric representations.
func extractID(payload map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		switch value := payload[key].(type) {
		case string:
			if value != "" {
				return value, true
			}
		case json.Number:
			return value.String(), true
		}
	}
	return "", false
}
