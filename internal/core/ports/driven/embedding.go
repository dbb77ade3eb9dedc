package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from EmbeddingStore which stores and searches
// vectors. EmbeddingService generates vectors; EmbeddingStore keeps them.
//
// The contract only requires a stable mapping from text to a
// fixed-dimension vector. Implementations may include:
//   - A deterministic hash-based embedder (default, no external service)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// This must match the EmbeddingStore configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
