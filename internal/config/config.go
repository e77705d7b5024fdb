package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is wrapped by every validation failure from Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// Store backends.
const (
	BackendMemory        = "memory"
	BackendPostgres      = "postgres"
	BackendRedis         = "redis"
	BackendDynamoDB      = "dynamodb"
	BackendElasticsearch = "elasticsearch"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	OTLP      OTLPConfig
}

type ServerConfig struct {
	Host string
	Port string
}

// Addr is the listen address.
func (s ServerConfig) Addr() string { return s.Host + ":" + s.Port }

type StoreConfig struct {
	Backend string
	// Table names the Postgres table, Redis hash, DynamoDB table or
	// Elasticsearch index holding the records.
	Table   string
	Timeout time.Duration

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AWSRegion        string
	DynamoDBEndpoint string

	ElasticsearchAddresses []string
	ElasticsearchMaxHits   int

	SeedFile         string
	SeedKeyAttribute string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LogConfig struct {
	Level  string
	Format string
}

type OTLPConfig struct {
	Endpoint    string
	ServiceName string
	Environment string
}

var defaults = map[string]any{
	"SERVER_HOST": "0.0.0.0",
	"SERVER_PORT": "8080",

	"STORE_BACKEND":           BackendMemory,
	"TABLE_NAME":              "ProductInventory",
	"STORE_TIMEOUT":           "10s",
	"DATABASE_URL":            "",
	"REDIS_ADDR":              "localhost:6379",
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
	"AWS_REGION":              "",
	"DYNAMODB_ENDPOINT":       "",
	"ELASTICSEARCH_ADDRESSES": "http://localhost:9200",
	"ELASTICSEARCH_MAX_HITS":  10000,
	"SEED_FILE":               "",
	"SEED_KEY_ATTRIBUTE":      "productId",

	"RATE_LIMIT_RPS":   5.0,
	"RATE_LIMIT_BURST": 10,

	"LOG_LEVEL":  "info",
	"LOG_FORMAT": "json",

	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"OTEL_SERVICE_NAME":           "inventory-search",
	"OTEL_ENVIRONMENT":            "development",
}

// Load reads configuration from the environment. envFile, when present on
// disk, is loaded into the environment first; CONFIG_FILE may point at a
// yaml/json/toml file whose keys use the same names as the variables.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetString("SERVER_PORT"),
		},
		Store: StoreConfig{
			Backend:                strings.ToLower(v.GetString("STORE_BACKEND")),
			Table:                  v.GetString("TABLE_NAME"),
			Timeout:                v.GetDuration("STORE_TIMEOUT"),
			DatabaseURL:            v.GetString("DATABASE_URL"),
			RedisAddr:              v.GetString("REDIS_ADDR"),
			RedisPassword:          v.GetString("REDIS_PASSWORD"),
			RedisDB:                v.GetInt("REDIS_DB"),
			AWSRegion:              v.GetString("AWS_REGION"),
			DynamoDBEndpoint:       v.GetString("DYNAMODB_ENDPOINT"),
			ElasticsearchAddresses: splitList(v.GetString("ELASTICSEARCH_ADDRESSES")),
			ElasticsearchMaxHits:   v.GetInt("ELASTICSEARCH_MAX_HITS"),
			SeedFile:               v.GetString("SEED_FILE"),
			SeedKeyAttribute:       v.GetString("SEED_KEY_ATTRIBUTE"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		OTLP: OTLPConfig{
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Environment: v.GetString("OTEL_ENVIRONMENT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	s := c.Store
	switch s.Backend {
	case BackendMemory:
	case BackendPostgres:
		if s.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres backend", ErrInvalidConfig)
		}
	case BackendRedis:
		if s.RedisAddr == "" {
			return fmt.Errorf("%w: REDIS_ADDR is required for the redis backend", ErrInvalidConfig)
		}
	case BackendDynamoDB:
	case BackendElasticsearch:
		if len(s.ElasticsearchAddresses) == 0 {
			return fmt.Errorf("%w: ELASTICSEARCH_ADDRESSES is required for the elasticsearch backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalidConfig, s.Backend)
	}

	if s.Table == "" {
		return fmt.Errorf("%w: TABLE_NAME must not be empty", ErrInvalidConfig)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%w: STORE_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("%w: rate limit settings must not be negative", ErrInvalidConfig)
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst == 0 {
		return fmt.Errorf("%w: RATE_LIMIT_BURST must be positive when RATE_LIMIT_RPS is set", ErrInvalidConfig)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be json or text", ErrInvalidConfig)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
