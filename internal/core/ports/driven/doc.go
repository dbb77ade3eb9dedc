// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - ContentStore: Raw document byte persistence
//   - ExtractorRegistry: Media-type keyed text extraction
//   - Chunker: Deterministic text splitting
//   - EmbeddingService: Generates vector embeddings
//   - EmbeddingStore: Vector storage and similarity lookup
//   - MetadataStore: Document and chunk record persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or chunker package
package driven
