package soap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

// Responses larger than this are truncated; well-formed envelopes fit
// comfortably, anything bigger is hostile or broken.
const maxResponseSize = 10 << 20

// ErrOperationNotFound is returned when the invoked operation is not part
// of the client's service description.
var ErrOperationNotFound = errors.New("operation not found in service description")

// Client invokes operations on a single SOAP endpoint. The endpoint
// address, SOAP version and payload schemas all come from the resolved
// service description.
type Client struct {
	http    *http.Client
	desc    *wsdl.ServiceDescription
	headers map[string]string
	user    string
	pass    string
}

// NewClient builds a client for a resolved service.
func NewClient(desc *wsdl.ServiceDescription) *Client {
	return &Client{
		http: &http.Client{Timeout: 30 * time.Second},
		desc: desc,
	}
}

// WithTimeout sets the per-call timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.http.Timeout = d
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// WithHeaders adds headers to every upstream request.
func (c *Client) WithHeaders(headers map[string]string) *Client {
	c.headers = headers
	return c
}

// WithBasicAuth sends HTTP basic credentials with every upstream request.
func (c *Client) WithBasicAuth(user, pass string) *Client {
	c.user = user
	c.pass = pass
	return c
}

// Service exposes the resolved description the client was built from.
func (c *Client) Service() *wsdl.ServiceDescription {
	return c.desc
}

// Call executes the named operation with JSON-shaped parameters and
// returns the decoded response value. A SOAP fault is returned as a
// *Fault error; transport and protocol failures as plain errors.
func (c *Client) Call(ctx context.Context, operation string, params map[string]any) (any, error) {
	op := c.desc.Operation(operation)
	if op == nil {
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, operation)
	}

	version := c.desc.Port.SOAPVersion
	envelope, err := BuildEnvelope(op, version, params)
	if err != nil {
		return nil, fmt.Errorf("building envelope for %s: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.desc.Port.Address, bytes.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	contentType := wsdl.GetSOAPContentType(version)
	if version == "1.2" {
		if op.SOAPAction != "" {
			contentType += `; action="` + op.SOAPAction + `"`
		}
	} else {
		// SOAP 1.1 requires the header even when the action is empty.
		req.Header.Set("SOAPAction", `"`+op.SOAPAction+`"`)
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	log.Debug().
		Str("operation", operation).
		Str("endpoint", c.desc.Port.Address).
		Str("soap_version", version).
		Msg("Dispatching SOAP request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", c.desc.Port.Address, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	result, err := DecodeResponse(op, data)
	if err != nil {
		var fault *Fault
		if errors.As(err, &fault) {
			return nil, fault
		}
		if resp.StatusCode >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
		}
		return nil, err
	}
	// Faults ride on 500s, but a non-fault body with an error status is a
	// transport-level failure.
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return result, nil
}
