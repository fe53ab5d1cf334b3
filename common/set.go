package common

import (
	"cmp"
	"sync"
)

// Set is a concurrent set.
type Set[T cmp.Ordered] struct {
	m  map[T]struct{}
	mu sync.RWMutex
}

// NewSet returns a new Set containing initial.
func NewSet[T cmp.Ordered](initial ...T) *Set[T] {
	s := &Set[T]{m: make(map[T]struct{}, len(initial))}
	for _, v := range initial {
		s.m[v] = struct{}{}
	}
	return s
}

// Add adds v, and returns false if it was already present.
func (s *Set[T]) Add(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[v]; ok {
		return false
	}
	s.m[v] = struct{}{}
	return true
}

// Remove removes v, and returns true if it was present.
func (s *Set[T]) Remove(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.m[v]
	delete(s.m, v)
	return ok
}

// Has returns true if v is in the set.
func (s *Set[T]) Has(v T) bool {
	if s == nil {
		return false
	}

	s.mu.RLock()
	_, ok := s.m[v]
	s.mu.RUnlock()
	return ok
}

// Len returns the size of the set.
func (s *Set[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
