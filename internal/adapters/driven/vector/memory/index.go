// Package memory provides an in-memory EmbeddingStore with brute-force
// cosine similarity search.
//
// Vectors live in process memory with no persistence across restarts.
// State starts empty and tests reset it via Clear.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.EmbeddingStore = (*Index)(nil)

type record struct {
	documentID string
	vector     []float32
}

// Index stores chunk vectors and answers nearest-neighbour queries by
// linear scan. Adequate for local corpora; the port allows swapping in
// an ANN-backed store without touching the core.
type Index struct {
	mu      sync.RWMutex
	records map[string]record
	byDoc   map[string]map[string]struct{}
}

// NewIndex creates an empty in-memory embedding store.
func NewIndex() *Index {
	return &Index{
		records: make(map[string]record),
		byDoc:   make(map[string]map[string]struct{}),
	}
}

// Upsert stores or replaces the vector for a chunk.
func (idx *Index) Upsert(_ context.Context, chunkID, documentID string, vector []float32) error {
	stored := make([]float32, len(vector))
	copy(stored, vector)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	// A chunk id never migrates between documents, but replacing the
	// record must still clean the old association to be safe.
	if old, ok := idx.records[chunkID]; ok && old.documentID != documentID {
		delete(idx.byDoc[old.documentID], chunkID)
	}

	idx.records[chunkID] = record{documentID: documentID, vector: stored}
	if idx.byDoc[documentID] == nil {
		idx.byDoc[documentID] = make(map[string]struct{})
	}
	idx.byDoc[documentID][chunkID] = struct{}{}
	return nil
}

// Get retrieves the vector for a chunk.
func (idx *Index) Get(_ context.Context, chunkID string) ([]float32, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rec, ok := idx.records[chunkID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	vector := make([]float32, len(rec.vector))
	copy(vector, rec.vector)
	return vector, nil
}

// Delete removes a chunk's vector. Absent chunks are ignored.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	rec, ok := idx.records[chunkID]
	if !ok {
		return nil
	}
	delete(idx.records, chunkID)
	delete(idx.byDoc[rec.documentID], chunkID)
	if len(idx.byDoc[rec.documentID]) == 0 {
		delete(idx.byDoc, rec.documentID)
	}
	return nil
}

// DeleteDocument removes every vector belonging to the document's chunks.
func (idx *Index) DeleteDocument(_ context.Context, documentID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for chunkID := range idx.byDoc[documentID] {
		delete(idx.records, chunkID)
	}
	delete(idx.byDoc, documentID)
	return nil
}

// Search finds the k nearest neighbours to the query vector by cosine
// similarity.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(idx.records))
	for chunkID, rec := range idx.records {
		if len(rec.vector) != len(query) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    chunkID,
			DocumentID: rec.documentID,
			Similarity: cosineSimilarity(query, rec.vector),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of stored vectors.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}

// Clear removes all vectors.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.records = make(map[string]record)
	idx.byDoc = make(map[string]map[string]struct{})
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
