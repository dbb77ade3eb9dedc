// Package domain defines the core business entities for corpus.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A stored document's metadata record
//   - Chunk: An ordered slice of a document's extracted text
//   - ChunkPolicy: How extracted text is split into chunks
//   - DocumentStatus: The processing lifecycle states
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
