package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driving"
	"github.com/halcyon-labs/corpus-cli/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineService coordinates the document processing pipeline.
type PipelineService struct {
	content    driven.ContentStore
	extractors driven.ExtractorRegistry
	chunker    driven.Chunker
	embedder   driven.EmbeddingService
	vectors    driven.EmbeddingStore
	meta       driven.MetadataStore
	policy     domain.ChunkPolicy

	// locks serializes pipeline runs per document ID. Operations on
	// different documents proceed concurrently; two writes to the same
	// document never interleave their side effects.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewPipelineService creates a new pipeline service.
func NewPipelineService(
	content driven.ContentStore,
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	vectors driven.EmbeddingStore,
	meta driven.MetadataStore,
	policy domain.ChunkPolicy,
) *PipelineService {
	return &PipelineService{
		content:    content,
		extractors: extractors,
		chunker:    chunker,
		embedder:   embedder,
		vectors:    vectors,
		meta:       meta,
		policy:     policy,
		locks:      make(map[string]*sync.Mutex),
	}
}

// lockDocument acquires the per-document mutex, creating it on first use.
func (s *PipelineService) lockDocument(documentID string) *sync.Mutex {
	s.locksMu.Lock()
	lock, ok := s.locks[documentID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[documentID] = lock
	}
	s.locksMu.Unlock()

	lock.Lock()
	return lock
}

// Create stores the content, creates the document record, and runs the
// processing pipeline synchronously. The returned document is ready on
// success or failed with a captured reason on any stage error; content is
// retained either way so a retry needs no re-upload.
func (s *PipelineService) Create(
	ctx context.Context, ownerID, title string, content []byte, mediaType string,
) (*domain.Document, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if mediaType == "" {
		return nil, fmt.Errorf("%w: media type is required", domain.ErrInvalidInput)
	}

	documentID := uuid.NewString()
	lock := s.lockDocument(documentID)
	defer lock.Unlock()

	logger.Stage("Create")
	logger.Debug("Document %s (%q, %s, %d bytes)", documentID, title, mediaType, len(content))

	ref, err := s.content.Put(ctx, content, mediaType)
	if err != nil {
		return nil, &domain.StorageError{Store: "content", Err: err}
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:         documentID,
		OwnerID:    ownerID,
		Title:      title,
		MediaType:  mediaType,
		ContentRef: ref,
		Status:     domain.StatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.meta.SaveDocument(ctx, doc); err != nil {
		return nil, &domain.StorageError{Store: "metadata", Err: err}
	}

	if err := s.process(ctx, doc, content, mediaType, nil); err != nil {
		// Pipeline failure is recorded on the document, not returned:
		// the caller gets the document with its failed status.
		logger.Warn("Pipeline failed for %s: %v", documentID, err)
		if saveErr := s.markFailed(ctx, doc, err); saveErr != nil {
			return nil, saveErr
		}
	}

	return doc, nil
}

// Get retrieves a document. Ownership mismatch is indistinguishable
// from absence.
func (s *PipelineService) Get(ctx context.Context, ownerID, documentID string) (*domain.Document, error) {
	doc, err := s.meta.GetDocument(ctx, ownerID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.StatusDeleted {
		// A tombstone from an interrupted delete is not visible.
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// List returns all non-deleted documents owned by ownerID, ordered by
// creation time.
func (s *PipelineService) List(ctx context.Context, ownerID string) ([]domain.Document, error) {
	docs, err := s.meta.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	visible := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Status == domain.StatusDeleted {
			continue
		}
		visible = append(visible, doc)
	}
	return visible, nil
}

// Update applies a partial update. Title-only updates touch metadata and
// skip the pipeline. Content updates re-run the full pipeline and replace
// the prior published state only once the whole pipeline succeeds; on
// failure the prior chunks, embeddings, and content reference stay intact
// and the status becomes failed.
func (s *PipelineService) Update(
	ctx context.Context, ownerID, documentID string, req driving.UpdateRequest,
) (*domain.Document, error) {
	if req.Title == nil && req.Content == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	lock := s.lockDocument(documentID)
	defer lock.Unlock()

	doc, err := s.meta.GetDocument(ctx, ownerID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.StatusDeleted {
		return nil, domain.ErrDocumentDeleted
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
		}
		doc.Title = *req.Title
	}

	if req.Content == nil {
		// Metadata-only update, no reprocessing.
		doc.UpdatedAt = time.Now().UTC()
		if err := s.meta.SaveDocument(ctx, doc); err != nil {
			return nil, &domain.StorageError{Store: "metadata", Err: err}
		}
		return doc, nil
	}

	logger.Stage("Update")
	logger.Debug("Reprocessing %s (%d bytes)", documentID, len(req.Content))

	mediaType := doc.MediaType
	if req.MediaType != "" {
		mediaType = req.MediaType
	}

	newRef, err := s.content.Put(ctx, req.Content, mediaType)
	if err != nil {
		return nil, &domain.StorageError{Store: "content", Err: err}
	}

	oldRef := doc.ContentRef
	oldChunks, err := s.meta.GetChunks(ctx, documentID)
	if err != nil {
		return nil, &domain.StorageError{Store: "metadata", Err: err}
	}

	next := *doc
	next.ContentRef = newRef
	next.MediaType = mediaType

	if err := s.process(ctx, &next, req.Content, mediaType, oldChunks); err != nil {
		// The prior published state stays as-is. Only the status and
		// failure reason change; the new content blob is discarded.
		logger.Warn("Reprocess failed for %s: %v", documentID, err)
		_ = s.content.Delete(ctx, newRef)
		if saveErr := s.markFailed(ctx, doc, err); saveErr != nil {
			return nil, saveErr
		}
		return doc, nil
	}

	// The new state is published; the old content blob is now unreachable.
	if oldRef != "" && oldRef != newRef {
		_ = s.content.Delete(ctx, oldRef)
	}

	*doc = next
	return doc, nil
}

// Delete purges embeddings, chunks, content, and the record, in that
// order. Each purge step is idempotent, so a delete interrupted midway
// is safe to retry.
func (s *PipelineService) Delete(ctx context.Context, ownerID, documentID string) error {
	lock := s.lockDocument(documentID)
	defer lock.Unlock()

	doc, err := s.meta.GetDocument(ctx, ownerID, documentID)
	if err != nil {
		return err
	}

	logger.Stage("Delete")
	logger.Debug("Purging %s", documentID)

	// Tombstone first so a crash mid-purge never leaves a readable
	// document with missing derived state.
	doc.Status = domain.StatusDeleted
	doc.UpdatedAt = time.Now().UTC()
	if err := s.meta.SaveDocument(ctx, doc); err != nil {
		return &domain.StorageError{Store: "metadata", Err: err}
	}

	if err := s.vectors.DeleteDocument(ctx, documentID); err != nil {
		return &domain.StorageError{Store: "embedding", Err: err}
	}
	if doc.ContentRef != "" {
		if err := s.content.Delete(ctx, doc.ContentRef); err != nil {
			return &domain.StorageError{Store: "content", Err: err}
		}
	}
	if err := s.meta.DeleteDocument(ctx, documentID); err != nil {
		return &domain.StorageError{Store: "metadata", Err: err}
	}

	// The lock entry stays in the map: a queued waiter may still hold
	// it, and pruning here would let a later caller mint a second mutex
	// for the same ID. IDs are random, so the map is bounded by the
	// documents touched in this process.
	return nil
}

// GetChunks returns the ordered chunk sequence for a document.
// A ready document with empty extracted text yields an empty slice.
func (s *PipelineService) GetChunks(ctx context.Context, ownerID, documentID string) ([]domain.Chunk, error) {
	if _, err := s.Get(ctx, ownerID, documentID); err != nil {
		return nil, err
	}
	return s.meta.GetChunks(ctx, documentID)
}

// Reindex rebuilds the embedding index from the published chunk sets.
// The embedder's text-to-vector mapping is stable, so re-embedding the
// stored chunk text reproduces the vectors lost when a process exits.
func (s *PipelineService) Reindex(ctx context.Context) error {
	docs, err := s.meta.ListAll(ctx)
	if err != nil {
		return &domain.StorageError{Store: "metadata", Err: err}
	}

	indexed := 0
	for i := range docs {
		doc := &docs[i]
		if doc.Status != domain.StatusReady {
			continue
		}

		chunks, err := s.meta.GetChunks(ctx, doc.ID)
		if err != nil {
			return &domain.StorageError{Store: "metadata", Err: err}
		}
		if len(chunks) == 0 {
			continue
		}

		texts := make([]string, len(chunks))
		for j, chunk := range chunks {
			texts[j] = chunk.Content
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return domain.NewProcessingError(domain.StageEmbed, err)
		}
		for j, chunk := range chunks {
			if err := s.vectors.Upsert(ctx, chunk.ID, doc.ID, vectors[j]); err != nil {
				return &domain.StorageError{Store: "embedding", Err: err}
			}
		}
		indexed += len(chunks)
	}

	logger.Debug("Reindexed %d chunks across %d documents", indexed, len(docs))
	return nil
}

// process runs extract, chunk, and embed against the content, then
// publishes the result atomically. oldChunks lists the previously
// published chunks whose embeddings are superseded; they are removed
// from the embedding store only after the publish succeeds.
func (s *PipelineService) process(
	ctx context.Context, doc *domain.Document, content []byte, mediaType string, oldChunks []domain.Chunk,
) error {
	doc.Status = domain.StatusProcessing
	doc.FailureReason = ""

	logger.Stage("Extract")
	text, err := s.extractors.Extract(ctx, content, mediaType)
	if err != nil {
		return domain.NewProcessingError(domain.StageExtract, err)
	}
	logger.Debug("Extracted %d characters", len(text))

	logger.Stage("Chunk")
	spans, err := s.chunker.Split(text, s.policy)
	if err != nil {
		return domain.NewProcessingError(domain.StageChunk, err)
	}
	logger.Debug("Split into %d chunks", len(spans))

	chunks := make([]domain.Chunk, len(spans))
	texts := make([]string, len(spans))
	for i, span := range spans {
		chunkID := uuid.NewString()
		chunks[i] = domain.Chunk{
			ID:          chunkID,
			DocumentID:  doc.ID,
			Content:     span.Content,
			Position:    span.Position,
			StartOffset: span.StartOffset,
			EndOffset:   span.EndOffset,
			EmbeddingID: chunkID,
		}
		texts[i] = span.Content
	}

	logger.Stage("Embed")
	var vectors [][]float32
	if len(texts) > 0 {
		vectors, err = s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return domain.NewProcessingError(domain.StageEmbed, err)
		}
		if len(vectors) != len(chunks) {
			return domain.NewProcessingError(domain.StageEmbed,
				fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks)))
		}
	}

	for i, chunk := range chunks {
		if err := s.vectors.Upsert(ctx, chunk.ID, doc.ID, vectors[i]); err != nil {
			// Roll back vectors indexed so far; the old set stays valid.
			for _, done := range chunks[:i] {
				_ = s.vectors.Delete(ctx, done.ID)
			}
			return domain.NewProcessingError(domain.StageEmbed, err)
		}
	}
	logger.Debug("Indexed %d embeddings (%s, %d dims)", len(chunks), s.embedder.ModelName(), s.embedder.Dimensions())

	logger.Stage("Publish")
	doc.Status = domain.StatusReady
	doc.UpdatedAt = time.Now().UTC()
	if err := s.meta.Publish(ctx, doc, chunks); err != nil {
		for _, chunk := range chunks {
			_ = s.vectors.Delete(ctx, chunk.ID)
		}
		return domain.NewProcessingError(domain.StagePublish, err)
	}

	// Superseded embeddings are unreachable once the publish commits.
	for _, old := range oldChunks {
		_ = s.vectors.Delete(ctx, old.ID)
	}

	logger.Info("Document %s ready (%d chunks)", doc.ID, len(chunks))
	return nil
}

// markFailed records a pipeline failure on the document.
func (s *PipelineService) markFailed(ctx context.Context, doc *domain.Document, cause error) error {
	doc.Status = domain.StatusFailed
	doc.FailureReason = cause.Error()
	doc.UpdatedAt = time.Now().UTC()
	if err := s.meta.SaveDocument(ctx, doc); err != nil {
		return &domain.StorageError{Store: "metadata", Err: err}
	}
	return nil
}
