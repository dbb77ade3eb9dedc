// Package memory provides an in-memory MetadataStore used by tests and
// ephemeral runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MetadataStore is an in-memory implementation of driven.MetadataStore.
// Publish and reads share one lock, so readers always observe either the
// pre-publish or the fully published chunk set.
type MetadataStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
}

// NewMetadataStore creates a new in-memory metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document record.
func (s *MetadataStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document scoped by owner.
// An ownership mismatch is indistinguishable from absence.
func (s *MetadataStore) GetDocument(_ context.Context, ownerID, documentID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[documentID]
	if !ok || doc.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListByOwner returns documents owned by ownerID ordered by creation time.
func (s *MetadataStore) ListByOwner(_ context.Context, ownerID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []domain.Document
	for id := range s.documents {
		doc := s.documents[id]
		if doc.OwnerID == ownerID {
			docs = append(docs, doc)
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// ListAll returns every document record ordered by creation time.
func (s *MetadataStore) ListAll(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		docs = append(docs, s.documents[id])
	}

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// GetChunks retrieves a document's chunks ordered by position.
func (s *MetadataStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.chunks[documentID]
	chunks := make([]domain.Chunk, len(stored))
	copy(chunks, stored)
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Position < chunks[j].Position
	})
	return chunks, nil
}

// Publish atomically replaces the chunk set and updates the record.
func (s *MetadataStore) Publish(_ context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	stored := make([]domain.Chunk, len(chunks))
	copy(stored, chunks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	s.chunks[doc.ID] = stored
	return nil
}

// DeleteDocument removes the record and its chunks. Idempotent.
func (s *MetadataStore) DeleteDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, documentID)
	delete(s.chunks, documentID)
	return nil
}

// Close releases resources.
func (s *MetadataStore) Close() error {
	return nil
}
