package cache

import (
	"context"
	"sync"
	"time"

	"github.com/footylabs/fantasy-contest/internal/platform/resilience"
)

type item[T any] struct {
	value     T
	expiresAt time.Time
}

// Store is an in-process TTL cache. Concurrent loads for the same key are
// collapsed into a single loader call.
type Store[T any] struct {
	mu     sync.RWMutex
	items  map[string]item[T]
	ttl    time.Duration
	flight resilience.Group[T]
	now    func() time.Time
}

func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		items: make(map[string]item[T]),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *Store[T]) Get(key string) (T, bool) {
	var zero T
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if s.ttl > 0 && !it.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return zero, false
	}

	return it.value, true
}

func (s *Store[T]) Set(key string, value T) {
	if key == "" {
		return
	}

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.items[key] = item[T]{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *Store[T]) Delete(key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key or invokes loader to fill it.
// Loader errors are not cached.
func (s *Store[T]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (T, error)) (T, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	v, err, _ := s.flight.Do(key, func() (T, error) {
		if v, ok := s.Get(key); ok {
			return v, nil
		}

		v, err := loader(ctx)
		if err != nil {
			var zero T
			return zero, err
		}

		s.Set(key, v)
		return v, nil
	})

	return v, err
}
