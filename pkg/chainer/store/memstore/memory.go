package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/chainer/pkg/chainer/store"
)

// Store is an in-memory implementation of store.Store for tests and
// sessions that do not need persistence.
type Store struct {
	mu      sync.RWMutex
	entries map[string]store.Assertion // keyed by text
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		entries: make(map[string]store.Assertion),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// PutAssertion stores an entry unless one with the same text exists.
func (s *Store) PutAssertion(ctx context.Context, a store.Assertion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.Text == "" {
		return nil
	}
	if _, ok := s.entries[a.Text]; ok {
		return nil
	}
	s.entries[a.Text] = a
	return nil
}

// DeleteAssertion removes an entry by text.
func (s *Store) DeleteAssertion(ctx context.Context, text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[text]; !ok {
		return false, nil
	}
	delete(s.entries, text)
	return true, nil
}

// GetAssertion returns an entry by text.
func (s *Store) GetAssertion(ctx context.Context, text string) (store.Assertion, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.entries[text]
	return a, ok, nil
}

// ListAssertions returns all entries ordered by ID.
func (s *Store) ListAssertions(ctx context.Context) ([]store.Assertion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Assertion, 0, len(s.entries))
	for _, a := range s.entries {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}
