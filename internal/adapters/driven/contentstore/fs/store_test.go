package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestStore_PutGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.Put(ctx, []byte("file content"), "text/plain")
	require.NoError(t, err)

	content, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("file content"), content)
}

func TestStore_Get_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "1e8cdb01-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Get_RejectsNonUUIDRef(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Delete_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.Put(ctx, []byte("bytes"), "text/plain")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = store.Get(ctx, ref)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Delete(ctx, ref))
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.Put(ctx, []byte("a"), "text/plain")
	require.NoError(t, err)

	store.Clear()

	_, err = store.Get(ctx, ref)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
