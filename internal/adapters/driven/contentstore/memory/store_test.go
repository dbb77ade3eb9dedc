package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	ref, err := store.Put(ctx, []byte("hello world"), "text/plain")
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	content, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), content)
}

func TestStore_Put_UniqueRefs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	ref1, err := store.Put(ctx, []byte("a"), "text/plain")
	require.NoError(t, err)
	ref2, err := store.Put(ctx, []byte("a"), "text/plain")
	require.NoError(t, err)

	assert.NotEqual(t, ref1, ref2)
}

func TestStore_Get_NotFound(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "no-such-ref")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Delete_Idempotent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	ref, err := store.Put(ctx, []byte("bytes"), "text/plain")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = store.Get(ctx, ref)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again is not an error.
	require.NoError(t, store.Delete(ctx, ref))
}

func TestStore_Get_ReturnsCopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	ref, err := store.Put(ctx, []byte("abc"), "text/plain")
	require.NoError(t, err)

	first, err := store.Get(ctx, ref)
	require.NoError(t, err)
	first[0] = 'x'

	second, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), second)
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Put(ctx, []byte("a"), "text/plain")
	require.NoError(t, err)
	_, err = store.Put(ctx, []byte("b"), "text/plain")
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	store.Clear()
	assert.Equal(t, 0, store.Len())
}
