package domain

import "time"

// DocumentStatus tracks a document through the processing lifecycle.
type DocumentStatus string

const (
	// StatusCreated is the initial state before any processing has run.
	StatusCreated DocumentStatus = "created"

	// StatusProcessing is the transient state while the pipeline runs.
	// It is never persisted past the end of an operation.
	StatusProcessing DocumentStatus = "processing"

	// StatusReady means extraction, chunking, and embedding all succeeded
	// and the chunk set is published.
	StatusReady DocumentStatus = "ready"

	// StatusFailed means a pipeline stage failed. The document's content
	// is retained so the operation can be retried without re-upload.
	StatusFailed DocumentStatus = "failed"

	// StatusDeleted is terminal. All derived state has been purged.
	StatusDeleted DocumentStatus = "deleted"
)

// Document represents a stored document and its metadata record.
// Content bytes live in the ContentStore; the record holds the reference.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// OwnerID identifies the user that owns this document.
	// Only the owner may read or mutate it.
	OwnerID string

	// Title is the human-readable title.
	Title string

	// MediaType is the declared content type (e.g., "text/plain").
	MediaType string

	// ContentRef is the opaque handle into the ContentStore.
	// Once set it is only replaced by a fully successful re-process.
	ContentRef string

	// Status is the lifecycle state.
	Status DocumentStatus

	// FailureReason records the cause of the last failed pipeline run.
	// Empty unless Status is StatusFailed.
	FailureReason string

	// CreatedAt is when the document was first submitted.
	CreatedAt time.Time

	// UpdatedAt is when the record was last modified.
	UpdatedAt time.Time
}

// Chunk represents one contiguous slice of a document's extracted text.
// A ready document's chunks form a gapless sequence 0..N-1.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text payload of this chunk.
	Content string

	// Position is the 0-based ordinal within the document.
	Position int

	// StartOffset is the byte offset of this chunk in the extracted text.
	StartOffset int

	// EndOffset is the byte offset one past the end of this chunk.
	EndOffset int

	// EmbeddingID keys the chunk's vector in the EmbeddingStore.
	// Set when the document is published.
	EmbeddingID string
}

// ChunkSpan is the chunker's output before chunks are given identity.
type ChunkSpan struct {
	// Position is the 0-based ordinal of the span.
	Position int

	// Content is the text covered by the span.
	Content string

	// StartOffset is the byte offset of the span in the source text.
	StartOffset int

	// EndOffset is the byte offset one past the end of the span.
	EndOffset int
}

// DefaultMaxChunkSize is the default chunk size in characters.
const DefaultMaxChunkSize = 500

// DefaultChunkOverlap is the default overlap between adjacent chunks.
const DefaultChunkOverlap = 50

// ChunkPolicy controls how extracted text is split into chunks.
// Identical (text, policy) inputs always produce identical chunk sequences.
type ChunkPolicy struct {
	// MaxChunkSize is the upper bound on characters per chunk.
	MaxChunkSize int

	// Overlap is how many characters adjacent chunks share.
	// Must be smaller than MaxChunkSize.
	Overlap int
}

// DefaultChunkPolicy returns the policy used when none is configured.
func DefaultChunkPolicy() ChunkPolicy {
	return ChunkPolicy{
		MaxChunkSize: DefaultMaxChunkSize,
		Overlap:      DefaultChunkOverlap,
	}
}

// Validate checks the policy bounds.
func (p ChunkPolicy) Validate() error {
	if p.MaxChunkSize <= 0 {
		return ErrInvalidInput
	}
	if p.Overlap < 0 || p.Overlap >= p.MaxChunkSize {
		return ErrInvalidInput
	}
	return nil
}

// SearchResult is a scored chunk returned by similarity search.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// DocumentID links to the owning document.
	DocumentID string

	// DocumentTitle is the owning document's title.
	DocumentTitle string

	// Score is the cosine similarity to the query (higher is closer).
	Score float64
}
