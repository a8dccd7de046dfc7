// Package cache is a keyed read-through cache for client queries. A fetched
// value is reused until its key is invalidated, so navigating back to a view
// does not refetch unchanged data.
package cache

import (
	"context"
	"sync"
)

type Store struct {
	mu      sync.Mutex
	entries map[string]interface{}
}

func New() *Store {
	return &Store{entries: make(map[string]interface{})}
}

// Fetch returns the cached value for key, calling fn to produce it on a
// miss. Errors are not cached; the next Fetch retries.
func (s *Store) Fetch(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	s.mu.Lock()
	if v, ok := s.entries[key]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	v, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[key] = v
	s.mu.Unlock()
	return v, nil
}

// Invalidate drops the cached value for key so the next Fetch refetches.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}
