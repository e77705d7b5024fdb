package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rogerio-castellano/inventory-search/internal/models"
	"github.com/rogerio-castellano/inventory-search/internal/repo"
	"github.com/rogerio-castellano/inventory-search/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type countingStore struct {
	repo.ProductStore
	calls int
}

func (c *countingStore) FetchAll(ctx context.Context) ([]models.RawRecord, error) {
	c.calls++
	return c.ProductStore.FetchAll(ctx)
}

func (c *countingStore) FetchFiltered(ctx context.Context, f repo.Filter) ([]models.RawRecord, error) {
	c.calls++
	return c.ProductStore.FetchFiltered(ctx, f)
}

type failingStore struct{ err error }

func (f failingStore) FetchAll(context.Context) ([]models.RawRecord, error) { return nil, f.err }
func (f failingStore) FetchFiltered(context.Context, repo.Filter) ([]models.RawRecord, error) {
	return nil, f.err
}

type panickingSearcher struct{}

func (panickingSearcher) Query(context.Context, map[string]string) (models.SearchResult, error) {
	panic("boom")
}

var discard = slog.New(slog.DiscardHandler)

func newHandler(t *testing.T, store repo.ProductStore) *Handler {
	t.Helper()
	engine, err := search.NewEngine(store, tracenoop.NewTracerProvider().Tracer("test"), metricnoop.NewMeterProvider().Meter("test"), discard)
	require.NoError(t, err)
	return NewHandler(engine, discard)
}

func machineryStore(t *testing.T) *countingStore {
	t.Helper()
	mem := repo.NewInMemoryProductStore()
	ctx := context.Background()
	require.NoError(t, mem.Put(ctx, "1", models.RawRecord{"category": models.S("Machinery"), "price": models.N("150")}))
	require.NoError(t, mem.Put(ctx, "2", models.RawRecord{"category": models.S("Tools"), "price": models.N("200")}))
	require.NoError(t, mem.Put(ctx, "3", models.RawRecord{"category": models.S("Machinery"), "price": models.N("50")}))
	return &countingStore{ProductStore: mem}
}

func assertCORS(t *testing.T, resp Response) {
	t.Helper()
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "Content-Type", resp.Headers["Access-Control-Allow-Headers"])
	assert.Equal(t, "GET, POST, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
}

func TestServe_Preflight(t *testing.T) {
	store := machineryStore(t)
	resp := newHandler(t, store).Serve(context.Background(), Request{Method: http.MethodOptions, Query: map[string]string{"minPrice": "abc"}})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"CORS preflight"}`, resp.Body)
	assertCORS(t, resp)
	assert.Zero(t, store.calls)
}

func TestServe_Success(t *testing.T) {
	store := machineryStore(t)
	resp := newHandler(t, store).Serve(context.Background(), Request{
		Method: http.MethodGet,
		Query:  map[string]string{"category": "Machinery", "minPrice": "100"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"count":1,"products":[{"category":"Machinery","price":150}]}`, resp.Body)
	assertCORS(t, resp)
	assert.Equal(t, 1, store.calls)
}

func TestServe_PostUsesQuery(t *testing.T) {
	store := machineryStore(t)
	resp := newHandler(t, store).Serve(context.Background(), Request{Method: http.MethodPost})

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.SearchResult
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &result))
	assert.Equal(t, 3, result.Count)
}

func TestServe_MalformedInput(t *testing.T) {
	store := machineryStore(t)
	resp := newHandler(t, store).Serve(context.Background(), Request{
		Method: http.MethodGet,
		Query:  map[string]string{"minPrice": "abc"},
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assertCORS(t, resp)
	assert.Zero(t, store.calls)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.NotEmpty(t, body.Error)
	assert.Contains(t, body.Error, "minPrice")
}

func TestServe_StoreFailure(t *testing.T) {
	resp := newHandler(t, failingStore{err: errors.New("AccessDeniedException")}).Serve(context.Background(), Request{Method: http.MethodGet})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"AccessDeniedException"}`, resp.Body)
	assertCORS(t, resp)
}

func TestServe_RecoversPanics(t *testing.T) {
	resp := NewHandler(panickingSearcher{}, discard).Serve(context.Background(), Request{Method: http.MethodGet})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body, "boom")
	assertCORS(t, resp)
}

func TestAPIGatewayConversion(t *testing.T) {
	req := FromAPIGateway(events.APIGatewayProxyRequest{HTTPMethod: "GET"})
	assert.Equal(t, "GET", req.Method)
	assert.NotNil(t, req.Query)
	assert.Empty(t, req.Query)

	req = FromAPIGateway(events.APIGatewayProxyRequest{
		HTTPMethod:            "GET",
		QueryStringParameters: map[string]string{"category": "Tools"},
	})
	assert.Equal(t, map[string]string{"category": "Tools"}, req.Query)

	resp := NewResponse(http.StatusOK, MessageResponse{Message: "CORS preflight"}).APIGateway()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, `{"message":"CORS preflight"}`, resp.Body)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
}

func TestCORSHeaders_ReturnsFreshMap(t *testing.T) {
	h := CORSHeaders()
	h["Access-Control-Allow-Origin"] = "example.com"
	assert.Equal(t, "*", CORSHeaders()["Access-Control-Allow-Origin"])
}
