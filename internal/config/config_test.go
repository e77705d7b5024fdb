package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "ProductInventory", cfg.Store.Table)
	assert.Equal(t, 10*time.Second, cfg.Store.Timeout)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Store.ElasticsearchAddresses)
	assert.Equal(t, "productId", cfg.Store.SeedKeyAttribute)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "inventory-search", cfg.OTLP.ServiceName)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "DynamoDB")
	t.Setenv("TABLE_NAME", "Inventory")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("ELASTICSEARCH_ADDRESSES", "http://a:9200, http://b:9200")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendDynamoDB, cfg.Store.Backend)
	assert.Equal(t, "Inventory", cfg.Store.Table)
	assert.Equal(t, "eu-west-1", cfg.Store.AWSRegion)
	assert.Equal(t, 2*time.Second, cfg.Store.Timeout)
	assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.Store.ElasticsearchAddresses)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9090\nREDIS_DB=3\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("REDIS_DB")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Store.RedisDB)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STORE_BACKEND": "cassandra"}},
		{"postgres without url", map[string]string{"STORE_BACKEND": "postgres"}},
		{"elasticsearch without addresses", map[string]string{"STORE_BACKEND": "elasticsearch", "ELASTICSEARCH_ADDRESSES": " , "}},
		{"zero timeout", map[string]string{"STORE_TIMEOUT": "0s"}},
		{"negative rate", map[string]string{"RATE_LIMIT_RPS": "-1"}},
		{"zero burst", map[string]string{"RATE_LIMIT_BURST": "0"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Store: StoreConfig{Backend: BackendRedis, RedisAddr: "localhost:6379", Table: "products", Timeout: time.Second},
		Log:   LogConfig{Format: "json"},
	}
	require.NoError(t, valid.Validate())

	noAddr := valid
	noAddr.Store.RedisAddr = ""
	assert.ErrorIs(t, noAddr.Validate(), ErrInvalidConfig)

	noTable := valid
	noTable.Store.Table = ""
	assert.ErrorIs(t, noTable.Validate(), ErrInvalidConfig)
}

func TestValidate_RateLimit(t *testing.T) {
	base := Config{
		Store: StoreConfig{Backend: BackendMemory, Table: "products", Timeout: time.Second},
		Log:   LogConfig{Format: "json"},
	}

	tests := []struct {
		name    string
		rps     float64
		burst   int
		wantErr bool
	}{
		{"disabled", 0, 0, false},
		{"disabled with burst", 0, 10, false},
		{"enabled", 5, 10, false},
		{"zero burst", 5, 0, true},
		{"negative rps", -1, 10, true},
		{"negative burst", 5, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			c.RateLimit = RateLimitConfig{RPS: tt.rps, Burst: tt.burst}
			err := c.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
