package http

import (
	"log/slog"
	"net/http"

	rl "github.com/rogerio-castellano/inventory-search/internal/http/rate_limiter"
)

var (
	logger         = slog.Default()
	metricsHandler http.Handler
	limiter        *rl.Limiter
)

func SetLogger(l *slog.Logger) {
	logger = l
}

// SetMetricsHandler mounts h at /metrics. Without one the route is absent.
func SetMetricsHandler(h http.Handler) {
	metricsHandler = h
}

// SetRateLimiter throttles /products/search per client address. A nil
// limiter disables throttling.
func SetRateLimiter(l *rl.Limiter) {
	limiter = l
}
