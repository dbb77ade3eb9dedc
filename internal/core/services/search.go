package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driving"
	"github.com/halcyon-labs/corpus-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit applies when the caller passes limit <= 0.
const DefaultSearchLimit = 10

// SearchService answers similarity queries over published chunks.
type SearchService struct {
	embedder driven.EmbeddingService
	vectors  driven.EmbeddingStore
	meta     driven.MetadataStore
}

// NewSearchService creates a new search service.
func NewSearchService(
	embedder driven.EmbeddingService,
	vectors driven.EmbeddingStore,
	meta driven.MetadataStore,
) *SearchService {
	return &SearchService{
		embedder: embedder,
		vectors:  vectors,
		meta:     meta,
	}
}

// Search embeds the query and returns up to limit scored chunks, best
// first, restricted to documents owned by ownerID.
func (s *SearchService) Search(
	ctx context.Context, ownerID, query string, limit int,
) ([]domain.SearchResult, error) {
	logger.Stage("Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	// Over-fetch to survive the ownership filter; hits from other
	// owners' documents are discarded below.
	hits, err := s.vectors.Search(ctx, queryVector, limit*4)
	if err != nil {
		return nil, fmt.Errorf("searching vectors: %w", err)
	}
	logger.Debug("Raw hits: %d", len(hits))

	// Hydrate hits with document and chunk metadata, enforcing ownership.
	docs := make(map[string]*domain.Document)
	chunksByDoc := make(map[string]map[string]domain.Chunk)

	results := make([]domain.SearchResult, 0, limit)
	for _, hit := range hits {
		if len(results) >= limit {
			break
		}

		doc, ok := docs[hit.DocumentID]
		if !ok {
			doc, err = s.meta.GetDocument(ctx, ownerID, hit.DocumentID)
			if err != nil {
				// Not this owner's document, or already gone.
				docs[hit.DocumentID] = nil
				continue
			}
			docs[hit.DocumentID] = doc

			chunks, err := s.meta.GetChunks(ctx, hit.DocumentID)
			if err != nil {
				return nil, fmt.Errorf("loading chunks: %w", err)
			}
			byID := make(map[string]domain.Chunk, len(chunks))
			for _, chunk := range chunks {
				byID[chunk.ID] = chunk
			}
			chunksByDoc[hit.DocumentID] = byID
		}
		if doc == nil || doc.Status != domain.StatusReady {
			continue
		}

		chunk, ok := chunksByDoc[hit.DocumentID][hit.ChunkID]
		if !ok {
			// Vector outlived its chunk; skip rather than fail.
			continue
		}

		results = append(results, domain.SearchResult{
			Chunk:         chunk,
			DocumentID:    doc.ID,
			DocumentTitle: doc.Title,
			Score:         hit.Similarity,
		})
	}

	logger.Info("Search returned %d results", len(results))
	return results, nil
}
