package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTouchWSDLAccessUpsert(t *testing.T) {
	url := "http://files.example.com/touch.wsdl"

	require.Nil(t, Connection.TouchWSDLAccess(url, "first-name"))
	require.Nil(t, Connection.TouchWSDLAccess(url, "second-name"))

	entries, err := Connection.ListWSDLCacheEntries()
	require.Nil(t, err)

	var entry *WSDLCacheEntry
	for _, candidate := range entries {
		if candidate.WsdlURL == url {
			entry = candidate
		}
	}
	require.NotNil(t, entry)
	assert.Equal(t, "second-name", entry.ServiceName)
	assert.False(t, entry.LastAccessed.IsZero())
}

func TestListWSDLCacheEntriesOrder(t *testing.T) {
	require.Nil(t, Connection.TouchWSDLAccess("http://files.example.com/old.wsdl", "old"))
	time.Sleep(5 * time.Millisecond)
	require.Nil(t, Connection.TouchWSDLAccess("http://files.example.com/new.wsdl", "new"))

	entries, err := Connection.ListWSDLCacheEntries()
	require.Nil(t, err)
	require.GreaterOrEqual(t, len(entries), 2)

	var oldIndex, newIndex int
	for i, entry := range entries {
		switch entry.WsdlURL {
		case "http://files.example.com/old.wsdl":
			oldIndex = i
		case "http://files.example.com/new.wsdl":
			newIndex = i
		}
	}
	assert.Less(t, newIndex, oldIndex, "most recently accessed entries come first")
}

func TestClearWSDLCache(t *testing.T) {
	require.Nil(t, Connection.TouchWSDLAccess("http://files.example.com/clear-a.wsdl", "a"))
	require.Nil(t, Connection.TouchWSDLAccess("http://files.example.com/clear-b.wsdl", "b"))

	before, err := Connection.CountWSDLCacheEntries()
	require.Nil(t, err)
	require.GreaterOrEqual(t, before, int64(2))

	dropped, err := Connection.ClearWSDLCache()
	require.Nil(t, err)
	assert.Equal(t, before, dropped)

	after, err := Connection.CountWSDLCacheEntries()
	require.Nil(t, err)
	assert.Equal(t, int64(0), after)
}
