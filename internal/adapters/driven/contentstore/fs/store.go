// Package fs provides a filesystem-backed ContentStore.
//
// Each piece of content is a file named by its opaque reference under the
// store's directory. References are uuids, so the reference alone reveals
// nothing about the content.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ContentStore = (*Store)(nil)

// Store is a filesystem implementation of driven.ContentStore.
type Store struct {
	dir string
}

// NewStore creates a content store rooted at dir.
// If dir is empty, defaults to ~/.corpus/data/content.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".corpus", "data", "content")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating content directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Put writes content to a fresh uuid-named file and returns the uuid.
func (s *Store) Put(_ context.Context, content []byte, _ string) (string, error) {
	ref := uuid.New().String()
	path := filepath.Join(s.dir, ref)

	// Write to a temp file first so a crash never leaves a readable
	// half-written reference.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0600); err != nil {
		return "", fmt.Errorf("writing content: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("publishing content: %w", err)
	}

	return ref, nil
}

// Get reads content by reference.
func (s *Store) Get(_ context.Context, ref string) ([]byte, error) {
	path, err := s.refPath(ref)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading content: %w", err)
	}
	return content, nil
}

// Delete removes content by reference. Absent references are ignored.
func (s *Store) Delete(_ context.Context, ref string) error {
	path, err := s.refPath(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting content: %w", err)
	}
	return nil
}

// Clear removes all stored content files.
func (s *Store) Clear() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		_ = os.Remove(filepath.Join(s.dir, e.Name()))
	}
}

// refPath validates the reference and maps it to a file path.
// References are uuids; anything else is rejected before it can become
// a path traversal.
func (s *Store) refPath(ref string) (string, error) {
	if _, err := uuid.Parse(ref); err != nil {
		return "", domain.ErrNotFound
	}
	return filepath.Join(s.dir, ref), nil
}
