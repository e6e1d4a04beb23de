package gateway

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "token")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient("http://gateway.example.com", "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	client, err := NewClient("http://gateway.example.com/", "token")
	require.NoError(t, err)
	assert.Equal(t, "http://gateway.example.com", client.BaseURL())
}

func TestCreateToolIDVariants(t *testing.T) {
	t.Run("tool_id key", func(t *testing.T) {
		g := newFakeGateway(t)
		g.toolIDKey = "tool_id"

		id, err := g.client(t).CreateTool(context.Background(), Tool{Name: "svc_op"})
		require.NoError(t, err)
		assert.Equal(t, "tool-1", id)
	})

	t.Run("numeric id", func(t *testing.T) {
		g := newFakeGateway(t)
		g.numericIDs = true

		id, err := g.client(t).CreateTool(context.Background(), Tool{Name: "svc_op"})
		require.NoError(t, err)
		assert.Equal(t, "1001", id)
	})
}

func TestCreateToolMissingID(t *testing.T) {
	g := newFakeGateway(t)
	g.toolIDKey = "unexpected_key"

	_, err := g.client(t).CreateTool(context.Background(), Tool{Name: "svc_op"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "no tool ID")
}

func TestCreateServerReturnsUUID(t *testing.T) {
	g := newFakeGateway(t)

	id, err := g.client(t).CreateServer(context.Background(), Server{
		Name:            "fraud-detection",
		AssociatedTools: []string{"tool-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, g.serverUUID, id)
}

func TestDeleteServerTolerates404(t *testing.T) {
	g := newFakeGateway(t)
	g.deleteStatus = http.StatusNotFound

	err := g.client(t).DeleteServer(context.Background(), "11111111-2222-3333-4444-555555555555")
	assert.NoError(t, err)
}

func TestDeleteServerErrorStatus(t *testing.T) {
	g := newFakeGateway(t)
	g.deleteStatus = http.StatusInternalServerError

	err := g.client(t).DeleteServer(context.Background(), "11111111-2222-3333-4444-555555555555")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCheckHealth(t *testing.T) {
	g := newFakeGateway(t)
	client := g.client(t)
	assert.True(t, client.CheckHealth(context.Background()))

	g.healthStatus = http.StatusServiceUnavailable
	assert.False(t, client.CheckHealth(context.Background()))

	g.server.Close()
	assert.False(t, client.CheckHealth(context.Background()))
}

func TestClientTransportError(t *testing.T) {
	g := newFakeGateway(t)
	client := g.client(t)
	g.server.Close()

	_, err := client.CreateTool(context.Background(), Tool{Name: "svc_op"})
	assert.ErrorIs(t, err, ErrUnavailable)
}
