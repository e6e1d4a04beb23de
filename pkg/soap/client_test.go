package soap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const fraudUpstreamResponse = `<?xml version="1.0"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <FraudCheckResponse xmlns="http://insurance.example.com/fraud">
      <riskScore>12</riskScore>
      <requiresManualReview>false</requiresManualReview>
      <assessmentDate>2024-06-01T00:00:00Z</assessmentDate>
    </FraudCheckResponse>
  </soapenv:Body>
</soapenv:Envelope>`

func TestClientCall(t *testing.T) {
	var gotContentType, gotAction atomic.Value
	var gotBody atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType.Store(r.Header.Get("Content-Type"))
		gotAction.Store(r.Header.Get("SOAPAction"))
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(string(body))

		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		_, _ = w.Write([]byte(fraudUpstreamResponse))
	}))
	defer srv.Close()

	desc := fraudService(t)
	desc.Port.Address = srv.URL
	client := NewClient(desc).WithTimeout(5 * time.Second)

	result, err := client.Call(context.Background(), "CheckFraudRisk", map[string]any{
		"customerId": "C-1",
		"policyId":   "P-2",
	})
	require.NoError(t, err)

	assert.Equal(t, "text/xml; charset=utf-8", gotContentType.Load())
	assert.Equal(t, `"http://insurance.example.com/fraud/CheckFraudRisk"`, gotAction.Load())
	assert.Contains(t, gotBody.Load().(string), "<customerId>C-1</customerId>")

	obj := result.(*orderedmap.OrderedMap[string, any])
	score, _ := obj.Get("riskScore")
	assert.Equal(t, int64(12), score)
}

func TestClientCallSOAP12(t *testing.T) {
	var gotContentType, gotAction atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType.Store(r.Header.Get("Content-Type"))
		gotAction.Store(r.Header.Get("SOAPAction"))
		w.Header().Set("Content-Type", "application/soap+xml; charset=utf-8")
		_, _ = w.Write([]byte(fraudUpstreamResponse))
	}))
	defer srv.Close()

	desc := fraudService(t)
	desc.Port.Address = srv.URL
	desc.Port.SOAPVersion = "1.2"
	client := NewClient(desc)

	_, err := client.Call(context.Background(), "CheckFraudRisk", map[string]any{"customerId": "C-1"})
	require.NoError(t, err)

	ct := gotContentType.Load().(string)
	assert.True(t, strings.HasPrefix(ct, "application/soap+xml"), ct)
	assert.Contains(t, ct, `action="http://insurance.example.com/fraud/CheckFraudRisk"`)
	assert.Empty(t, gotAction.Load())
}

func TestClientCallSendsEmptySOAPAction(t *testing.T) {
	var gotAction atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction.Store(r.Header.Get("SOAPAction"))
		_, _ = w.Write([]byte(fraudUpstreamResponse))
	}))
	defer srv.Close()

	desc := fraudService(t)
	desc.Port.Address = srv.URL
	desc.Operations[0].SOAPAction = ""

	_, err := NewClient(desc).Call(context.Background(), "CheckFraudRisk", nil)
	require.NoError(t, err)
	assert.Equal(t, `""`, gotAction.Load())
}

func TestClientCallFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <soapenv:Fault>
      <faultcode>soap:Client</faultcode>
      <faultstring>Unknown customer</faultstring>
    </soapenv:Fault>
  </soapenv:Body>
</soapenv:Envelope>`))
	}))
	defer srv.Close()

	desc := fraudService(t)
	desc.Port.Address = srv.URL

	_, err := NewClient(desc).Call(context.Background(), "CheckFraudRisk", map[string]any{"customerId": "nobody"})
	require.Error(t, err)

	var fault *Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, "soap:Client", fault.Code)
	assert.Equal(t, "Unknown customer", fault.Reason)
}

func TestClientCallTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	desc := fraudService(t)
	desc.Port.Address = srv.URL

	_, err := NewClient(desc).Call(context.Background(), "CheckFraudRisk", nil)
	require.Error(t, err)
	var fault *Fault
	assert.False(t, errors.As(err, &fault))
}

func TestClientCallErrorStatusWithoutFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream proxy error</html>"))
	}))
	defer srv.Close()

	desc := fraudService(t)
	desc.Port.Address = srv.URL

	_, err := NewClient(desc).Call(context.Background(), "CheckFraudRisk", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientCallUnknownOperation(t *testing.T) {
	desc := fraudService(t)
	_, err := NewClient(desc).Call(context.Background(), "NoSuchOp", nil)
	assert.ErrorIs(t, err, ErrOperationNotFound)
}

func TestClientCallCancelledContext(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can observe the client disconnect;
		// otherwise r.Context() is never cancelled and Close deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	desc := fraudService(t)
	desc.Port.Address = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := NewClient(desc).Call(ctx, "CheckFraudRisk", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientCustomHeadersAndAuth(t *testing.T) {
	var gotHeader, gotAuth atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader.Store(r.Header.Get("X-Tenant"))
		user, pass, _ := r.BasicAuth()
		gotAuth.Store(user + ":" + pass)
		_, _ = w.Write([]byte(fraudUpstreamResponse))
	}))
	defer srv.Close()

	desc := fraudService(t)
	desc.Port.Address = srv.URL

	client := NewClient(desc).
		WithHeaders(map[string]string{"X-Tenant": "acme"}).
		WithBasicAuth("svc", "hunter2")

	_, err := client.Call(context.Background(), "CheckFraudRisk", nil)
	require.NoError(t, err)
	assert.Equal(t, "acme", gotHeader.Load())
	assert.Equal(t, "svc:hunter2", gotAuth.Load())
}
