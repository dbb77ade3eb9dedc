package driven

import "context"

// ContentStore persists raw document bytes keyed by an opaque reference.
// The reference is the only way to address stored content; callers never
// see where or how the bytes are kept.
type ContentStore interface {
	// Put stores content and returns a new opaque reference.
	Put(ctx context.Context, content []byte, mediaType string) (string, error)

	// Get retrieves content by reference.
	// Returns domain.ErrNotFound for an unknown reference.
	Get(ctx context.Context, ref string) ([]byte, error)

	// Delete removes content by reference.
	// Deleting an absent reference is not an error.
	Delete(ctx context.Context, ref string) error

	// Clear removes all stored content. Used by tests.
	Clear()
}
