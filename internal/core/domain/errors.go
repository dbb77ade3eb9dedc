package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Ownership mismatches are reported as ErrNotFound as well, so a
	// caller cannot distinguish another user's document from an absent one.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedMediaType indicates no extractor handles the declared
	// media type.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrDocumentDeleted indicates the document has been deleted.
	ErrDocumentDeleted = errors.New("document deleted")
)

// Pipeline stage names used in ProcessingError.
const (
	StageExtract = "extract"
	StageChunk   = "chunk"
	StageEmbed   = "embed"
	StagePublish = "publish"
)

// ProcessingError wraps a failure from a pipeline stage.
// The orchestrator records it as the document's failure reason.
type ProcessingError struct {
	// Stage is the pipeline stage that failed.
	Stage string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing failed at %s stage: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError wraps err as a failure of the named stage.
func NewProcessingError(stage string, err error) *ProcessingError {
	return &ProcessingError{Stage: stage, Err: err}
}

// StorageError wraps an infrastructure failure from one of the stores.
type StorageError struct {
	// Store names the failing store (content, metadata, embedding).
	Store string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s store: %v", e.Store, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Err
}
