package repo

import (
	"context"
	"maps"
	"sync"

	"github.com/rogerio-castellano/inventory-search/internal/models"
)

// InMemoryProductStore keeps records in insertion order. It is the store
// itself, so evaluating the filter here is still server-side filtering.
type InMemoryProductStore struct {
	mu      sync.RWMutex
	keys    []string
	records map[string]models.RawRecord
}

// NewInMemoryProductStore creates an empty store.
func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{records: map[string]models.RawRecord{}}
}

// FetchAll returns every record in insertion order.
func (s *InMemoryProductStore) FetchAll(ctx context.Context) ([]models.RawRecord, error) {
	return s.scan(ctx, nil)
}

// FetchFiltered returns the records matching every condition of f.
func (s *InMemoryProductStore) FetchFiltered(ctx context.Context, f Filter) ([]models.RawRecord, error) {
	if f.Empty() {
		return nil, wrapErr("memory", "scan", ErrEmptyFilter)
	}
	return s.scan(ctx, &f)
}

func (s *InMemoryProductStore) scan(ctx context.Context, f *Filter) ([]models.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapErr("memory", "scan", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RawRecord, 0, len(s.keys))
	for _, k := range s.keys {
		rec := s.records[k]
		if f != nil && !f.Match(rec) {
			continue
		}
		out = append(out, maps.Clone(rec))
	}
	return out, nil
}

// Put inserts or replaces the record stored under key.
func (s *InMemoryProductStore) Put(_ context.Context, key string, record models.RawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.records[key] = maps.Clone(record)
	return nil
}

// Len reports how many records are stored.
func (s *InMemoryProductStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

func (s *InMemoryProductStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = nil
	s.records = map[string]models.RawRecord{}
}
