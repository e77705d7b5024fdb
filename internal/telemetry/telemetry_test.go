package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rogerio-castellano/inventory-search/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_InjectsContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LogConfig{Level: "debug", Format: "json"}, config.OTLPConfig{ServiceName: "svc", Environment: "test"})

	tel, err := NewTelemetry(context.Background(), config.OTLPConfig{ServiceName: "svc"}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	ctx, span := tel.Tracer().Start(context.Background(), "op")
	ctx = WithHTTPRoute(ctx, "/products/search")
	logger.DebugContext(ctx, "hello")
	span.End()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "svc", line["service.name"])
	assert.Equal(t, "/products/search", line["http.route"])
	assert.Equal(t, span.SpanContext().TraceID().String(), line["trace_id"])
	assert.NotEmpty(t, line["span_id"])
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LogConfig{Level: "warn", Format: "text"}, config.OTLPConfig{})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestMetricsHandler_ExposesInstruments(t *testing.T) {
	tel, err := NewTelemetry(context.Background(), config.OTLPConfig{ServiceName: "svc"}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	counter, err := tel.Meter().Int64Counter("products.search.requests")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	tel.MetricsHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.True(t, strings.Contains(string(body), "products_search_requests"), string(body))
}
