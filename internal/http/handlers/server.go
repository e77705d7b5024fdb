package handlers

import (
	"log/slog"

	"github.com/rogerio-castellano/inventory-search/internal/endpoint"
)

var (
	searchEndpoint *endpoint.Handler
	backendName    string
	logger         = slog.Default()
)

func SetSearchEndpoint(h *endpoint.Handler) {
	searchEndpoint = h
}

// SetBackendName records the active store backend for the health report.
func SetBackendName(name string) {
	backendName = name
}

func SetLogger(l *slog.Logger) {
	logger = l
}
