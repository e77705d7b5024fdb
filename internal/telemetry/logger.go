package telemetry

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/rogerio-castellano/inventory-search/internal/config"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const httpRouteKey contextKey = "http.route"

// WithHTTPRoute adds the HTTP route to the context
func WithHTTPRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, httpRouteKey, route)
}

// HTTPRouteFromContext extracts the HTTP route from context
func HTTPRouteFromContext(ctx context.Context) string {
	if route, ok := ctx.Value(httpRouteKey).(string); ok {
		return route
	}
	return ""
}

// traceContextHandler injects trace_id, span_id and http.route into every record.
type traceContextHandler struct {
	handler slog.Handler
}

func (h *traceContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *traceContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	if route := HTTPRouteFromContext(ctx); route != "" {
		r.AddAttrs(slog.String("http.route", route))
	}

	return h.handler.Handle(ctx, r)
}

func (h *traceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *traceContextHandler) WithGroup(name string) slog.Handler {
	return &traceContextHandler{handler: h.handler.WithGroup(name)}
}

// NewLogger builds a structured logger writing to w with trace context
// injection. Format is "json" or "text".
func NewLogger(w io.Writer, logCfg config.LogConfig, otlpCfg config.OTLPConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(logCfg.Level)}

	var base slog.Handler
	if logCfg.Format == "text" {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	return slog.New(&traceContextHandler{handler: base}).With(
		slog.String("service.name", otlpCfg.ServiceName),
		slog.String("environment", otlpCfg.Environment),
	)
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
