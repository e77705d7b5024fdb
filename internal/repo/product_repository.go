package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/inventory-search/internal/models"
)

// ProductStore is the read side of a product record store. Filtering happens
// inside the store, never by fetching everything and discarding locally.
type ProductStore interface {
	FetchAll(ctx context.Context) ([]models.RawRecord, error)
	FetchFiltered(ctx context.Context, filter Filter) ([]models.RawRecord, error)
}

// Seeder loads records into a store. It backs the operator seed command only;
// the search API never writes.
type Seeder interface {
	Put(ctx context.Context, key string, record models.RawRecord) error
}

var (
	// ErrStoreFailure wraps every error a backend returns to its caller.
	ErrStoreFailure = errors.New("record store failure")
	// ErrUnsupportedBackend is returned by Open for an unknown backend name.
	ErrUnsupportedBackend = errors.New("unsupported store backend")
	// ErrEmptyFilter is returned by FetchFiltered when given no conditions.
	ErrEmptyFilter = errors.New("filter has no conditions")
)

type storeError struct {
	backend string
	op      string
	err     error
}

func (e *storeError) Error() string {
	return e.backend + " " + e.op + ": " + e.err.Error()
}

func (e *storeError) Unwrap() []error { return []error{ErrStoreFailure, e.err} }

func wrapErr(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &storeError{backend: backend, op: op, err: err}
}
