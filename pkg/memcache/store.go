// Package mem holds short-lived server-side state in expiring LRU caches.
package mem

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is a size-bounded map whose entries expire ttl after their last write
// or Touch.
type Store[V any] struct {
	cache *expirable.LRU[string, V]
}

// NewStore creates a store holding at most capacity entries; capacity <= 0
// means unbounded.
func NewStore[V any](capacity int, ttl time.Duration) *Store[V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Store[V]{cache: expirable.NewLRU[string, V](capacity, nil, ttl)}
}

func (s *Store[V]) Put(key string, v V) {
	s.cache.Add(key, v)
}

// Get does not extend the entry's lifetime; use Touch for that.
func (s *Store[V]) Get(key string) (V, bool) {
	return s.cache.Get(key)
}

// Touch restarts the entry's ttl. It reports false when the key has expired.
func (s *Store[V]) Touch(key string) bool {
	v, ok := s.cache.Peek(key)
	if ok {
		s.cache.Add(key, v)
	}
	return ok
}

// Take returns and removes the value. Of two concurrent takers only one sees ok.
func (s *Store[V]) Take(key string) (V, bool) {
	v, ok := s.cache.Peek(key)
	if !ok || !s.cache.Remove(key) {
		var zero V
		return zero, false
	}
	return v, true
}

func (s *Store[V]) Delete(key string) {
	s.cache.Remove(key)
}

func (s *Store[V]) Len() int { return s.cache.Len() }
