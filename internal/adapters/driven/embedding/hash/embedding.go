// Package hash provides a deterministic embedding service that needs no
// external model. The same text always maps to the same vector, which is
// what the pipeline's consistency contract requires; retrieval quality is
// explicitly not a goal of this adapter.
package hash

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the default vector size.
const DefaultDimensions = 384

// EmbeddingService generates deterministic vectors from text hashes.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hash embedder with the given vector size.
// Non-positive dimensions fall back to DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates a vector embedding for the given text.
// Each component is derived from an FNV-1a hash of the text seeded with
// the component index, scaled into [-1, 1]; the vector is L2-normalised.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, s.dimensions)

	var seed [8]byte
	var norm float64
	for i := range vector {
		h := fnv.New64a()
		binary.LittleEndian.PutUint64(seed[:], uint64(i))
		h.Write(seed[:])
		h.Write([]byte(text))

		// Map the hash onto [-1, 1].
		v := float64(h.Sum64())/float64(math.MaxUint64)*2 - 1
		vector[i] = float32(v)
		norm += v * v
	}

	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}

	return vector, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return "fnv1a-hash"
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
