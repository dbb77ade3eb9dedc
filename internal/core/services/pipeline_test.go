package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentmem "github.com/halcyon-labs/corpus-cli/internal/adapters/driven/contentstore/memory"
	"github.com/halcyon-labs/corpus-cli/internal/adapters/driven/embedding/hash"
	storagemem "github.com/halcyon-labs/corpus-cli/internal/adapters/driven/storage/memory"
	vectormem "github.com/halcyon-labs/corpus-cli/internal/adapters/driven/vector/memory"
	"github.com/halcyon-labs/corpus-cli/internal/chunker"
	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driving"
	"github.com/halcyon-labs/corpus-cli/internal/extractors"
	"github.com/halcyon-labs/corpus-cli/internal/extractors/plaintext"
)

// pipelineFixture bundles the service with its stores for inspection.
type pipelineFixture struct {
	service *PipelineService
	content *contentmem.Store
	vectors *vectormem.Index
	meta    *storagemem.MetadataStore
}

func newPipelineFixture(t *testing.T, policy domain.ChunkPolicy) *pipelineFixture {
	t.Helper()

	content := contentmem.NewStore()
	vectors := vectormem.NewIndex()
	meta := storagemem.NewMetadataStore()

	service := NewPipelineService(
		content,
		extractors.NewRegistry(plaintext.New()),
		chunker.New(),
		hash.NewEmbeddingService(32),
		vectors,
		meta,
		policy,
	)

	return &pipelineFixture{service: service, content: content, vectors: vectors, meta: meta}
}

func TestPipeline_Create_HelloWorld(t *testing.T) {
	fx := newPipelineFixture(t, domain.ChunkPolicy{MaxChunkSize: 5, Overlap: 0})
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "greeting", []byte("hello world"), "text/plain")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, domain.StatusReady, doc.Status)
	assert.Empty(t, doc.FailureReason)

	chunks, err := fx.service.GetChunks(ctx, "owner-a", doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "hello", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].StartOffset)
	assert.Equal(t, 5, chunks[0].EndOffset)

	assert.Equal(t, " worl", chunks[1].Content)
	assert.Equal(t, 5, chunks[1].StartOffset)
	assert.Equal(t, 10, chunks[1].EndOffset)

	assert.Equal(t, "d", chunks[2].Content)
	assert.Equal(t, 10, chunks[2].StartOffset)
	assert.Equal(t, 11, chunks[2].EndOffset)

	assert.Equal(t, 3, fx.vectors.Count())
	for _, chunk := range chunks {
		assert.Equal(t, chunk.ID, chunk.EmbeddingID)
		_, err := fx.vectors.Get(ctx, chunk.ID)
		assert.NoError(t, err)
	}
}

func TestPipeline_Create_EmptyContentIsReady(t *testing.T) {
	fx := newPipelineFixture(t, domain.DefaultChunkPolicy())
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "empty", nil, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, doc.Status)

	chunks, err := fx.service.GetChunks(ctx, "owner-a", doc.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.Equal(t, 0, fx.vectors.Count())
}

func TestPipeline_Create_UnsupportedMediaTypeFails(t *testing.T) {
	fx := newPipelineFixture(t, domain.DefaultChunkPolicy())
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "binary", []byte{0x01}, "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, doc.Status)
	assert.Contains(t, doc.FailureReason, "extract")

	// Content is retained so a retry needs no re-upload.
	content, err := fx.content.Get(ctx, doc.ContentRef)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, content)
	assert.Equal(t, 0, fx.vectors.Count())
}

func TestPipeline_Create_Validation(t *testing.T) {
	fx := newPipelineFixture(t, domain.DefaultChunkPolicy())
	ctx := context.Background()

	_, err := fx.service.Create(ctx, "", "title", []byte("x"), "text/plain")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fx.service.Create(ctx, "owner-a", "", []byte("x"), "text/plain")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fx.service.Create(ctx, "owner-a", "title", []byte("x"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPipeline_Get_CrossOwnerIsNotFound(t *testing.T) {
	fx := newPipelineFixture(t, domain.DefaultChunkPolicy())
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "mine", []byte("text"), "text/plain")
	require.NoError(t, err)

	_, err = fx.service.Get(ctx, "owner-b", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fx.service.GetChunks(ctx, "owner-b", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPipeline_List_OnlyOwnDocuments(t *testing.T) {
	fx := newPipelineFixture(t, domain.DefaultChunkPolicy())
	ctx := context.Background()

	first, err := fx.service.Create(ctx, "owner-a", "first", []byte("one"), "text/plain")
	require.NoError(t, err)
	second, err := fx.service.Create(ctx, "owner-a", "second", []byte("two"), "text/plain")
	require.NoError(t, err)
	_, err = fx.service.Create(ctx, "owner-b", "other", []byte("three"), "text/plain")
	require.NoError(t, err)

	docs, err := fx.service.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first.ID, docs[0].ID)
	assert.Equal(t, second.ID, docs[1].ID)
}

func TestPipeline_Update_TitleOnlySkipsPipeline(t *testing.T) {
	fx := newPipelineFixture(t, domain.ChunkPolicy{MaxChunkSize: 5, Overlap: 0})
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "old title", []byte("hello world"), "text/plain")
	require.NoError(t, err)

	before, err := fx.service.GetChunks(ctx, "owner-a", doc.ID)
	require.NoError(t, err)

	title := "new title"
	updated, err := fx.service.Update(ctx, "owner-a", doc.ID, driving.UpdateRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, domain.StatusReady, updated.Status)
	assert.Equal(t, doc.ContentRef, updated.ContentRef)

	after, err := fx.service.GetChunks(ctx, "owner-a", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPipeline_Update_ContentReprocesses(t *testing.T) {
	fx := newPipelineFixture(t, domain.ChunkPolicy{MaxChunkSize: 5, Overlap: 0})
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "doc", []byte("hello world"), "text/plain")
	require.NoError(t, err)
	oldChunks, err := fx.service.GetChunks(ctx, "owner-a", doc.ID)
	require.NoError(t, err)
	oldRef := doc.ContentRef

	updated, err := fx.service.Update(ctx, "owner-a", doc.ID, driving.UpdateRequest{Content: []byte("bye")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, updated.Status)
	assert.NotEqual(t, oldRef, updated.ContentRef)

	chunks, err := fx.service.GetChunks(ctx, "owner-a", doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "bye", chunks[0].Content)

	// Old embeddings and old content are gone.
	assert.Equal(t, 1, fx.vectors.Count())
	for _, old := range oldChunks {
		_, err := fx.vectors.Get(ctx, old.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	_, err = fx.content.Get(ctx, oldRef)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPipeline_Update_FailurePreservesPriorState(t *testing.T) {
	fx := newPipelineFixture(t, domain.ChunkPolicy{MaxChunkSize: 5, Overlap: 0})
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "doc", []byte("hello world"), "text/plain")
	require.NoError(t, err)
	oldRef := doc.ContentRef
	oldChunks, err := fx.service.GetChunks(ctx, "owner-a", doc.ID)
	require.NoError(t, err)

	// An unsupported media type makes extraction fail.
	updated, err := fx.service.Update(ctx, "owner-a", doc.ID, driving.UpdateRequest{
		Content:   []byte{0xFF},
		MediaType: "application/octet-stream",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, updated.Status)
	assert.NotEmpty(t, updated.FailureReason)

	// Prior content reference, chunks, and embeddings are untouched.
	assert.Equal(t, oldRef, updated.ContentRef)
	assert.Equal(t, "text/plain", updated.MediaType)

	chunks, err := fx.service.GetChunks(ctx, "owner-a", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, oldChunks, chunks)
	assert.Equal(t, len(oldChunks), fx.vectors.Count())

	// Only the prior blob remains; the rejected new content is removed.
	_, err = fx.content.Get(ctx, oldRef)
	assert.NoError(t, err)
	assert.Equal(t, 1, fx.content.Len())
}

func TestPipeline_Update_Validation(t *testing.T) {
	fx := newPipelineFixture(t, domain.DefaultChunkPolicy())
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "doc", []byte("text"), "text/plain")
	require.NoError(t, err)

	_, err = fx.service.Update(ctx, "owner-a", doc.ID, driving.UpdateRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	empty := ""
	_, err = fx.service.Update(ctx, "owner-a", doc.ID, driving.UpdateRequest{Title: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	title := "x"
	_, err = fx.service.Update(ctx, "owner-b", doc.ID, driving.UpdateRequest{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPipeline_Delete_PurgesEverything(t *testing.T) {
	fx := newPipelineFixture(t, domain.ChunkPolicy{MaxChunkSize: 5, Overlap: 0})
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "doc", []byte("hello world"), "text/plain")
	require.NoError(t, err)
	ref := doc.ContentRef

	require.NoError(t, fx.service.Delete(ctx, "owner-a", doc.ID))

	_, err = fx.service.Get(ctx, "owner-a", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fx.content.Get(ctx, ref)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, fx.vectors.Count())

	chunks, err := fx.meta.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	// A second delete reports absence.
	err = fx.service.Delete(ctx, "owner-a", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPipeline_Delete_CrossOwnerIsNotFound(t *testing.T) {
	fx := newPipelineFixture(t, domain.DefaultChunkPolicy())
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "doc", []byte("text"), "text/plain")
	require.NoError(t, err)

	err = fx.service.Delete(ctx, "owner-b", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The document is still intact for its owner.
	got, err := fx.service.Get(ctx, "owner-a", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, got.Status)
}

func TestPipeline_ConcurrentUpdatesSerialized(t *testing.T) {
	fx := newPipelineFixture(t, domain.ChunkPolicy{MaxChunkSize: 4, Overlap: 0})
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "doc", []byte(strings.Repeat("a", 16)), "text/plain")
	require.NoError(t, err)

	var writers sync.WaitGroup
	for _, letter := range []string{"b", "c", "d", "e", "f"} {
		writers.Add(1)
		go func(letter string) {
			defer writers.Done()
			content := []byte(strings.Repeat(letter, 16))
			_, err := fx.service.Update(ctx, "owner-a", doc.ID, driving.UpdateRequest{Content: content})
			assert.NoError(t, err)
		}(letter)
	}

	// Readers must always observe one complete version: four gapless
	// chunks all carrying the same letter, never a mix of two writes.
	done := make(chan struct{})
	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-done:
					return
				default:
				}

				chunks, err := fx.service.GetChunks(ctx, "owner-a", doc.ID)
				if !assert.NoError(t, err) {
					return
				}
				if !assert.Len(t, chunks, 4) {
					return
				}
				letter := chunks[0].Content[:1]
				for pos, chunk := range chunks {
					assert.Equal(t, pos, chunk.Position)
					assert.Equal(t, strings.Repeat(letter, 4), chunk.Content)
				}
			}
		}()
	}

	writers.Wait()
	close(done)
	readers.Wait()

	// Exactly one version's embeddings survive.
	chunks, err := fx.service.GetChunks(ctx, "owner-a", doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	assert.Equal(t, 4, fx.vectors.Count())
	for _, chunk := range chunks {
		_, err := fx.vectors.Get(ctx, chunk.ID)
		assert.NoError(t, err)
	}
}

func TestPipeline_ConcurrentUpdateAndDelete(t *testing.T) {
	fx := newPipelineFixture(t, domain.ChunkPolicy{MaxChunkSize: 5, Overlap: 0})
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		doc, err := fx.service.Create(ctx, "owner-a", "doc", []byte("first version"), "text/plain")
		require.NoError(t, err)

		var wg sync.WaitGroup
		var updateErr, deleteErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, updateErr = fx.service.Update(ctx, "owner-a", doc.ID, driving.UpdateRequest{
				Content: []byte("second version"),
			})
		}()
		go func() {
			defer wg.Done()
			deleteErr = fx.service.Delete(ctx, "owner-a", doc.ID)
		}()
		wg.Wait()

		// The delete always finds the document; the update either ran
		// first or lost the race and reports absence.
		assert.NoError(t, deleteErr)
		if updateErr != nil {
			assert.ErrorIs(t, updateErr, domain.ErrNotFound)
		}

		// Whatever the interleaving, nothing survives in any store.
		_, err = fx.service.Get(ctx, "owner-a", doc.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 0, fx.vectors.Count())
		assert.Equal(t, 0, fx.content.Len())

		chunks, err := fx.meta.GetChunks(ctx, doc.ID)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}

func TestPipeline_Reindex_RestoresVectors(t *testing.T) {
	fx := newPipelineFixture(t, domain.ChunkPolicy{MaxChunkSize: 5, Overlap: 0})
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "doc", []byte("hello world"), "text/plain")
	require.NoError(t, err)
	require.Equal(t, 3, fx.vectors.Count())

	// Simulate a process restart losing the in-memory index.
	fx.vectors.Clear()
	require.Equal(t, 0, fx.vectors.Count())

	require.NoError(t, fx.service.Reindex(ctx))
	assert.Equal(t, 3, fx.vectors.Count())

	chunks, err := fx.service.GetChunks(ctx, "owner-a", doc.ID)
	require.NoError(t, err)
	for _, chunk := range chunks {
		_, err := fx.vectors.Get(ctx, chunk.ID)
		assert.NoError(t, err)
	}
}

func TestPipeline_FailureReasonNamesStage(t *testing.T) {
	fx := newPipelineFixture(t, domain.DefaultChunkPolicy())
	ctx := context.Background()

	doc, err := fx.service.Create(ctx, "owner-a", "doc", []byte{0x00}, "video/mp4")
	require.NoError(t, err)
	require.Equal(t, domain.StatusFailed, doc.Status)
	assert.Contains(t, doc.FailureReason, domain.StageExtract)
	assert.Contains(t, doc.FailureReason, "unsupported media type")
}
