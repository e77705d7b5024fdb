// Package endpoint adapts the search engine to a request/response shape that
// both the HTTP server and the Lambda runtime translate into.
package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rogerio-castellano/inventory-search/internal/models"
)

// Searcher runs one search from raw query parameters.
type Searcher interface {
	Query(ctx context.Context, params map[string]string) (models.SearchResult, error)
}

// Request is an inbound search invocation. Query holds at most one value
// per parameter name.
type Request struct {
	Method string
	Query  map[string]string
}

// Response carries a status code, headers and an already encoded JSON body.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// MessageResponse is the preflight body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CORSHeaders returns the cross-origin headers every response carries.
func CORSHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
		"Content-Type":                 "application/json",
	}
}

type Handler struct {
	searcher Searcher
	logger   *slog.Logger
}

func NewHandler(searcher Searcher, logger *slog.Logger) *Handler {
	return &Handler{searcher: searcher, logger: logger}
}

// Serve answers a preflight without touching the store, otherwise runs the
// search. Every failure, including a panic below this call, becomes a 500.
func (h *Handler) Serve(ctx context.Context, req Request) (resp Response) {
	if req.Method == http.MethodOptions {
		return NewResponse(http.StatusOK, MessageResponse{Message: "CORS preflight"})
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("unexpected failure: %v", r)
			h.logger.ErrorContext(ctx, "Search panicked", slog.String("error", err.Error()))
			resp = ErrorResult(err)
		}
	}()

	result, err := h.searcher.Query(ctx, req.Query)
	if err != nil {
		return ErrorResult(err)
	}
	return NewResponse(http.StatusOK, result)
}

// ErrorResult renders err as a failure response.
func ErrorResult(err error) Response {
	return NewResponse(statusFor(err), ErrorResponse{Error: err.Error()})
}

// statusFor maps every failure kind, malformed input included, to 500.
func statusFor(error) int {
	return http.StatusInternalServerError
}

// NewResponse encodes body as JSON under the CORS headers.
func NewResponse(status int, body any) Response {
	out, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		out, _ = json.Marshal(ErrorResponse{Error: fmt.Sprintf("failed to encode response: %v", err)})
	}
	return Response{
		StatusCode: status,
		Headers:    CORSHeaders(),
		Body:       string(out),
	}
}
