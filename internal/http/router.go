package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/inventory-search/docs"
	"github.com/rogerio-castellano/inventory-search/internal/http/handlers"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const SearchPath = "/products/search"

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(StructuredLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(HTTPRouteContext())

	r.Options(SearchPath, handlers.SearchProductsHandler)
	r.Group(func(r chi.Router) {
		r.Use(RateLimit(limiter))
		r.Get(SearchPath, handlers.SearchProductsHandler)
		r.Post(SearchPath, handlers.SearchProductsHandler)
	})

	r.Get("/health", handlers.HealthHandler)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}

// Instrument wraps h with otelhttp server spans and request metrics.
func Instrument(h http.Handler, tp trace.TracerProvider, mp metric.MeterProvider) http.Handler {
	return otelhttp.NewHandler(h, "http-server",
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithMeterProvider(mp),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("http.route", routePattern(r))}
		}),
	)
}
