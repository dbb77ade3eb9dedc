// Package memory provides an in-memory ContentStore.
//
// Content lives in process memory with no persistence across restarts.
// State starts empty and tests reset it via Clear.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ContentStore = (*Store)(nil)

type entry struct {
	content   []byte
	mediaType string
}

// Store is an in-memory implementation of driven.ContentStore.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewStore creates a new in-memory content store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
	}
}

// Put stores content under a fresh opaque reference.
func (s *Store) Put(_ context.Context, content []byte, mediaType string) (string, error) {
	ref := uuid.New().String()

	// Copy so later caller mutations cannot reach stored bytes.
	stored := make([]byte, len(content))
	copy(stored, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[ref] = entry{content: stored, mediaType: mediaType}
	return ref, nil
}

// Get retrieves content by reference.
func (s *Store) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[ref]
	if !ok {
		return nil, domain.ErrNotFound
	}

	content := make([]byte, len(e.content))
	copy(content, e.content)
	return content, nil
}

// Delete removes content by reference. Absent references are ignored.
func (s *Store) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, ref)
	return nil
}

// Clear removes all stored content.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
