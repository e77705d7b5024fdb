package http

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/inventory-search/internal/endpoint"
	"github.com/rogerio-castellano/inventory-search/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-search/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-search/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// HTTPRouteContext adds the route pattern to the request context so every
// log line written while serving it carries http.route.
func HTTPRouteContext() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := telemetry.WithHTTPRoute(r.Context(), routePattern(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StructuredLogger logs one line per request, at warn for 4xx and error
// for 5xx.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			attrs := []any{
				slog.String("http.request.method", r.Method),
				slog.String("http.route", routePattern(r)),
				slog.String("url.path", r.URL.Path),
				slog.String("url.query", r.URL.RawQuery),
				slog.Int("http.response.status_code", ww.Status()),
				slog.Int("http.response.body.size", ww.BytesWritten()),
				slog.String("duration", duration.String()),
				slog.Float64("duration_ms", float64(duration.Milliseconds())),
				slog.String("client.address", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			}

			if sc := trace.SpanFromContext(r.Context()).SpanContext(); sc.IsValid() {
				attrs = append(attrs,
					slog.String("trace_id", sc.TraceID().String()),
					slog.String("span_id", sc.SpanID().String()),
				)
			}

			level := slog.LevelInfo
			if ww.Status() >= 500 {
				level = slog.LevelError
			} else if ww.Status() >= 400 {
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "HTTP request completed", attrs...)
		})
	}
}

// RateLimit rejects requests over the per-client budget with 429 and the
// usual CORS headers.
func RateLimit(l *rl.Limiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !l.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				resp := endpoint.NewResponse(http.StatusTooManyRequests, endpoint.ErrorResponse{Error: "rate limit exceeded"})
				_ = handlers.WriteResponse(w, resp)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
