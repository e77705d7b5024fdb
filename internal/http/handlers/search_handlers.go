package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rogerio-castellano/inventory-search/internal/endpoint"
)

var errNoSearchEndpoint = errors.New("search endpoint is not configured")

// SearchProductsHandler godoc
// @Summary Search products
// @Description Returns products matching every supplied filter. With no filters the whole inventory is returned.
// @Tags products
// @Produce json
// @Param category query string false "Exact category match"
// @Param name query string false "Case-sensitive substring of the product name"
// @Param minPrice query number false "Inclusive lower price bound"
// @Param maxPrice query number false "Inclusive upper price bound"
// @Success 200 {object} ProductsSearchResult
// @Success 200 {object} PreflightResult "OPTIONS preflight"
// @Failure 500 {object} ErrorResult
// @Router /products/search [get]
// @Router /products/search [post]
// @Router /products/search [options]
func SearchProductsHandler(w http.ResponseWriter, r *http.Request) {
	var resp endpoint.Response
	if searchEndpoint == nil {
		resp = endpoint.ErrorResult(errNoSearchEndpoint)
	} else {
		resp = searchEndpoint.Serve(r.Context(), endpoint.Request{
			Method: r.Method,
			Query:  QueryParams(r),
		})
	}

	if err := WriteResponse(w, resp); err != nil {
		logger.ErrorContext(r.Context(), "Failed to write search response", slog.String("error", err.Error()))
	}
}

// HealthHandler godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResult
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, HealthResult{Status: "ok", Backend: backendName}); err != nil {
		logger.ErrorContext(r.Context(), "Failed to write health response", slog.String("error", err.Error()))
	}
}
