package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-search/internal/config"
	"github.com/rogerio-castellano/inventory-search/internal/endpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(seedFile string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0"},
		Store: config.StoreConfig{
			Backend:          config.BackendMemory,
			Table:            "ProductInventory",
			Timeout:          time.Second,
			SeedFile:         seedFile,
			SeedKeyAttribute: "productId",
		},
		Log:  config.LogConfig{Level: "error", Format: "json"},
		OTLP: config.OTLPConfig{ServiceName: "inventory-search-test"},
	}
}

func TestNewFromConfig_SeedsAndSearches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"productId": "1", "category": "Machinery", "price": 150},
		{"productId": "2", "category": "Tools", "price": 200},
		{"productId": "3", "category": "Machinery", "price": 50}
	]`), 0o600))

	ctx := context.Background()
	a, err := NewFromConfig(ctx, testConfig(path), io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	resp := a.Endpoint.Serve(ctx, endpoint.Request{
		Method: "GET",
		Query:  map[string]string{"category": "Machinery", "minPrice": "100"},
	})
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"count":1,"products":[{"productId":"1","category":"Machinery","price":150}]}`, resp.Body)
}

func TestNewFromConfig_BadSeedFile(t *testing.T) {
	_, err := NewFromConfig(context.Background(), testConfig(filepath.Join(t.TempDir(), "nope.csv")), io.Discard)
	assert.Error(t, err)
}
