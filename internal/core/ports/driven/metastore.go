package driven

import (
	"context"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
)

// MetadataStore persists document records and chunk rows.
// Backed by SQLite; an in-memory implementation backs tests.
//
// Publish is the pipeline's atomic visibility point: readers observe
// either the chunk set from before the call or the full new set,
// never a mixture.
type MetadataStore interface {
	// SaveDocument stores or updates a document record without touching
	// its chunks.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document scoped by owner.
	// Returns domain.ErrNotFound when the document does not exist or
	// belongs to a different owner.
	GetDocument(ctx context.Context, ownerID, documentID string) (*domain.Document, error)

	// ListByOwner returns all documents owned by ownerID, ordered by
	// creation time.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)

	// ListAll returns every document record regardless of owner,
	// ordered by creation time. Used to rebuild the embedding index
	// at startup.
	ListAll(ctx context.Context) ([]domain.Document, error)

	// GetChunks retrieves a document's chunks ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Publish atomically replaces the document's chunk set and updates
	// its record in a single transaction.
	Publish(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// DeleteDocument removes the record and its chunks. Idempotent.
	DeleteDocument(ctx context.Context, documentID string) error

	// Close releases resources.
	Close() error
}
