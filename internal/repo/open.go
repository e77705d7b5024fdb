package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rogerio-castellano/inventory-search/internal/config"
	"github.com/rogerio-castellano/inventory-search/internal/db"
	"github.com/rogerio-castellano/inventory-search/internal/models"
	"github.com/rogerio-castellano/inventory-search/internal/redissvc"
)

// Backend is an opened record store. Store and Seeder are the same value.
type Backend struct {
	Name   string
	Store  ProductStore
	Seeder Seeder
	close  func() error
}

// Close releases the backend's client.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// EnsureSchema creates the table or index when the backend needs one.
func (b *Backend) EnsureSchema(ctx context.Context) error {
	if s, ok := b.Store.(interface{ EnsureSchema(context.Context) error }); ok {
		return s.EnsureSchema(ctx)
	}
	return nil
}

type seedableStore interface {
	ProductStore
	Seeder
}

// Open connects to the backend cfg selects. The client is created once and
// shared by every request.
func Open(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	var (
		store   seedableStore
		closeFn func() error
	)

	switch cfg.Backend {
	case config.BackendMemory:
		store = NewInMemoryProductStore()

	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store = NewPostgresProductStore(database, cfg.Table, cfg.Timeout)
		closeFn = database.Close

	case config.BackendRedis:
		rdb, err := redissvc.Connect(ctx, redissvc.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		store = withTimeout(NewRedisProductStore(rdb, cfg.Table), cfg.Timeout)
		closeFn = rdb.Close

	case config.BackendDynamoDB:
		client, err := newDynamoDBClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = withTimeout(NewDynamoDBProductStore(client, cfg.Table), cfg.Timeout)

	case config.BackendElasticsearch:
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: cfg.ElasticsearchAddresses,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating the elasticsearch client: %w", err)
		}
		store = withTimeout(NewElasticsearchProductStore(client, cfg.Table, cfg.ElasticsearchMaxHits), cfg.Timeout)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, cfg.Backend)
	}

	return &Backend{Name: cfg.Backend, Store: store, Seeder: store, close: closeFn}, nil
}

// timeoutStore bounds every call to the wrapped store.
type timeoutStore struct {
	inner   seedableStore
	timeout time.Duration
}

func withTimeout(s seedableStore, d time.Duration) seedableStore {
	if d <= 0 {
		return s
	}
	return &timeoutStore{inner: s, timeout: d}
}

func (t *timeoutStore) FetchAll(ctx context.Context) ([]models.RawRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.FetchAll(ctx)
}

func (t *timeoutStore) FetchFiltered(ctx context.Context, f Filter) ([]models.RawRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.FetchFiltered(ctx, f)
}

func (t *timeoutStore) Put(ctx context.Context, key string, record models.RawRecord) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Put(ctx, key, record)
}

func (t *timeoutStore) EnsureSchema(ctx context.Context) error {
	if s, ok := t.inner.(interface{ EnsureSchema(context.Context) error }); ok {
		return s.EnsureSchema(ctx)
	}
	return nil
}

func newDynamoDBClient(ctx context.Context, cfg config.StoreConfig) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}
