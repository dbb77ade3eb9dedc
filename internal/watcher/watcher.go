// Package watcher keeps a directory in sync with the document pipeline.
// File creates and writes are ingested or re-processed; removes and
// renames delete the corresponding document. Hidden files and
// directories are skipped.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driving"
	"github.com/halcyon-labs/corpus-cli/internal/extractors"
	"github.com/halcyon-labs/corpus-cli/internal/logger"
)

// Watcher mirrors a directory into the pipeline.
type Watcher struct {
	service driving.PipelineService
	ownerID string

	mu   sync.Mutex
	docs map[string]string // absolute path -> document ID
}

// New creates a watcher that ingests on behalf of ownerID.
func New(service driving.PipelineService, ownerID string) *Watcher {
	return &Watcher{
		service: service,
		ownerID: ownerID,
		docs:    make(map[string]string),
	}
}

// Watch ingests the directory's current files, then follows filesystem
// events until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving directory: %w", err)
	}

	if err := w.scan(ctx, dir); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("Watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if err := w.handleEvent(ctx, event); err != nil {
				logger.Warn("Event %s on %s: %v", event.Op, event.Name, err)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// scan ingests every visible regular file already in the directory.
func (w *Watcher) scan(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := w.ingest(ctx, path); err != nil {
			logger.Warn("Skipping %s: %v", path, err)
		}
	}
	return nil
}

// handleEvent applies one filesystem event to the pipeline.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) error {
	if isHidden(event.Name) {
		return nil
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			// Gone before we could read it; a remove event follows.
			return nil
		}
		if info.IsDir() {
			return nil
		}
		return w.ingest(ctx, event.Name)

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return w.forget(ctx, event.Name)

	default:
		// Chmod and friends carry no content change.
		return nil
	}
}

// ingest creates the document for a new path or re-processes the
// content of a known one.
func (w *Watcher) ingest(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	mediaType := extractors.MediaTypeForPath(path)

	w.mu.Lock()
	documentID, known := w.docs[path]
	w.mu.Unlock()

	if known {
		_, err := w.service.Update(ctx, w.ownerID, documentID, driving.UpdateRequest{
			Content:   content,
			MediaType: mediaType,
		})
		if err != nil {
			return fmt.Errorf("updating document: %w", err)
		}
		logger.Debug("Updated %s (%s)", path, documentID)
		return nil
	}

	doc, err := w.service.Create(ctx, w.ownerID, filepath.Base(path), content, mediaType)
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	w.mu.Lock()
	w.docs[path] = doc.ID
	w.mu.Unlock()

	logger.Debug("Ingested %s (%s, %s)", path, doc.ID, doc.Status)
	return nil
}

// forget deletes the document tracked for a removed path.
func (w *Watcher) forget(ctx context.Context, path string) error {
	w.mu.Lock()
	documentID, known := w.docs[path]
	delete(w.docs, path)
	w.mu.Unlock()

	if !known {
		return nil
	}
	if err := w.service.Delete(ctx, w.ownerID, documentID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	logger.Debug("Deleted %s (%s)", path, documentID)
	return nil
}

// tracked returns the document ID for a path, if any. Used by tests.
func (w *Watcher) tracked(path string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.docs[path]
	return id, ok
}

// isHidden reports whether any element of the path starts with a dot.
// "." and ".." are not considered hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
