package driving

import (
	"context"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
)

// UpdateRequest describes a partial document update.
// Nil fields are left unchanged.
type UpdateRequest struct {
	// Title replaces the document title when non-nil. Title-only
	// updates do not re-run the processing pipeline.
	Title *string

	// Content replaces the document content when non-nil and triggers
	// a full re-process against the new bytes.
	Content []byte

	// MediaType replaces the declared media type. Only honoured when
	// Content is also set.
	MediaType string
}

// PipelineService coordinates the document lifecycle: ingestion, content
// storage, extraction, chunking, embedding, and the consistent read view.
//
// Every operation takes the authenticated owner identity supplied by the
// boundary layer; the service trusts it and performs no credential checks.
type PipelineService interface {
	// Create stores the content, creates the document record, and runs
	// the processing pipeline synchronously. The returned document is
	// ready on success or failed on any stage error; content is retained
	// either way so a retry needs no re-upload.
	Create(ctx context.Context, ownerID, title string, content []byte, mediaType string) (*domain.Document, error)

	// Get retrieves a document. A document owned by someone else is
	// reported as domain.ErrNotFound, same as an absent one.
	Get(ctx context.Context, ownerID, documentID string) (*domain.Document, error)

	// List returns all non-deleted documents owned by ownerID, ordered
	// by creation time.
	List(ctx context.Context, ownerID string) ([]domain.Document, error)

	// Update applies a partial update. Content changes re-run the full
	// pipeline and only replace the prior published state once the whole
	// pipeline succeeds.
	Update(ctx context.Context, ownerID, documentID string, req UpdateRequest) (*domain.Document, error)

	// Delete purges embeddings, chunks, content, and the record, in that
	// order. Safe to retry after a crash mid-delete.
	Delete(ctx context.Context, ownerID, documentID string) error

	// GetChunks returns the ordered chunk sequence. A ready document
	// with empty extracted text yields an empty slice, not an error.
	GetChunks(ctx context.Context, ownerID, documentID string) ([]domain.Chunk, error)
}

// SearchService finds chunks similar to a query across the owner's
// ready documents.
type SearchService interface {
	// Search embeds the query and returns up to limit scored chunks,
	// best first. Results are restricted to documents owned by ownerID.
	Search(ctx context.Context, ownerID, query string, limit int) ([]domain.SearchResult, error)
}
