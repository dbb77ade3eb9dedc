package driven

import "github.com/halcyon-labs/corpus-cli/internal/core/domain"

// Chunker splits extracted text into ordered, bounded-size spans.
//
// Splitting must be deterministic: identical (text, policy) inputs always
// produce identical span sequences. The pipeline relies on this for
// idempotent re-processing.
type Chunker interface {
	// Split walks the text left to right producing spans of at most
	// policy.MaxChunkSize characters. Adjacent spans share
	// policy.Overlap characters; span boundaries never cut a multibyte
	// character. A final span shorter than MaxChunkSize is kept.
	// Empty text yields no spans.
	Split(text string, policy domain.ChunkPolicy) ([]domain.ChunkSpan, error)
}
