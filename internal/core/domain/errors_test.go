package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedMediaType", ErrUnsupportedMediaType},
		{"ErrDocumentDeleted", ErrDocumentDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrInvalidInput))
}

func TestProcessingError_Wrapping(t *testing.T) {
	cause := errors.New("model exploded")
	err := NewProcessingError(StageEmbed, cause)

	assert.Contains(t, err.Error(), "embed")
	assert.Contains(t, err.Error(), "model exploded")
	assert.True(t, errors.Is(err, cause))

	var procErr *ProcessingError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, StageEmbed, procErr.Stage)
}

func TestProcessingError_WrapsSentinel(t *testing.T) {
	err := NewProcessingError(StageExtract, ErrUnsupportedMediaType)

	assert.True(t, errors.Is(err, ErrUnsupportedMediaType))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestStorageError_Wrapping(t *testing.T) {
	cause := errors.New("disk full")
	err := &StorageError{Store: "metadata", Err: cause}

	assert.Contains(t, err.Error(), "metadata store")
	assert.True(t, errors.Is(err, cause))
}
