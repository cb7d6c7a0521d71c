package http

import (
	"sync"

	"spreadcli/internal/spread"
)

// ResultStore provides the latest analysis result to the handlers.
type ResultStore interface {
	Latest() *spread.Result
}

// MemoryStore is a ResultStore holding the most recent result in memory.
// Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	result *spread.Result
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Set replaces the stored result
func (s *MemoryStore) Set(result *spread.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
}

// Latest returns the stored result, nil when no run has completed yet
func (s *MemoryStore) Latest() *spread.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}
