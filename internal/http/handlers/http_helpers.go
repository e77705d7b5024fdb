package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rogerio-castellano/inventory-search/internal/endpoint"
)

// QueryParams keeps the first value of every query key.
func QueryParams(r *http.Request) map[string]string {
	values := r.URL.Query()
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

// WriteResponse copies an endpoint response onto w.
func WriteResponse(w http.ResponseWriter, resp endpoint.Response) error {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write([]byte(resp.Body)); err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}
	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}
