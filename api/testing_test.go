package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/crud"
)

// memStore is an in-memory RecordStore for handler tests.
type memStore[T any] struct {
	mu      sync.Mutex
	records map[string]T
	order   []string
	owners  map[string]uuid.UUID
}

func newMemStore[T any]() *memStore[T] {
	return &memStore[T]{
		records: make(map[string]T),
		owners:  make(map[string]uuid.UUID),
	}
}

func (s *memStore[T]) Create(_ context.Context, tenantID uuid.UUID, id string, record T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = record
	s.owners[id] = tenantID
	s.order = append(s.order, id)
	return record, nil
}

func (s *memStore[T]) Get(_ context.Context, tenantID uuid.UUID, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	record, ok := s.records[id]
	if !ok || s.owners[id] != tenantID {
		return zero, fmt.Errorf("%w: %q", crud.ErrNotFound, id)
	}
	return record, nil
}

func (s *memStore[T]) List(_ context.Context, tenantID uuid.UUID) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []T
	for _, id := range s.order {
		if s.owners[id] == tenantID {
			out = append(out, s.records[id])
		}
	}
	return out, nil
}

func (s *memStore[T]) ListByField(_ context.Context, tenantID uuid.UUID, field, value string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []T
	for _, id := range s.order {
		if s.owners[id] != tenantID {
			continue
		}
		data, err := json.Marshal(s.records[id])
		if err != nil {
			return nil, err
		}
		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		if got, _ := fields[field].(string); got == value {
			out = append(out, s.records[id])
		}
	}
	return out, nil
}

func (s *memStore[T]) Update(_ context.Context, tenantID uuid.UUID, id string, record T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if _, ok := s.records[id]; !ok || s.owners[id] != tenantID {
		return zero, fmt.Errorf("%w: %q", crud.ErrNotFound, id)
	}
	s.records[id] = record
	return record, nil
}

func (s *memStore[T]) Delete(_ context.Context, tenantID uuid.UUID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok || s.owners[id] != tenantID {
		return false, nil
	}
	delete(s.records, id)
	delete(s.owners, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// doRequest serves req through mux with the tenant already resolved, as
// the auth middleware would have done.
func doRequest(t *testing.T, mux *http.ServeMux, req *http.Request, tenantID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req = req.WithContext(context.WithValue(req.Context(), tenantKey, tenantID))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response body: %v (body: %s)", err, w.Body.String())
	}
	return v
}
