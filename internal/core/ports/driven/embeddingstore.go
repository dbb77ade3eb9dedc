package driven

import "context"

// EmbeddingStore maps chunk IDs to fixed-length vectors and supports
// nearest-neighbour lookup. A linear scan is an acceptable implementation.
//
// Every vector belongs to a chunk of exactly one document; the store keeps
// the chunk-to-document association so a whole document's vectors can be
// purged in one call.
type EmbeddingStore interface {
	// Upsert stores or replaces the vector for a chunk.
	Upsert(ctx context.Context, chunkID, documentID string, vector []float32) error

	// Get retrieves the vector for a chunk.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, chunkID string) ([]float32, error)

	// Delete removes a chunk's vector. Idempotent.
	Delete(ctx context.Context, chunkID string) error

	// DeleteDocument removes every vector belonging to the document's
	// chunks. Idempotent; used on document delete and re-processing.
	DeleteDocument(ctx context.Context, documentID string) error

	// Search finds the k nearest neighbours to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Count returns the number of stored vectors.
	Count() int

	// Clear removes all vectors. Used by tests.
	Clear()
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the chunk's parent document.
	DocumentID string

	// Similarity is the cosine similarity score (-1 to 1).
	Similarity float64
}
