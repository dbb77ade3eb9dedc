package extractors

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction to the best extractor for a media type.
type Registry struct {
	mu         sync.RWMutex
	byType     map[string][]driven.Extractor
	extractors []driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{
		byType: make(map[string][]driven.Extractor),
	}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor to the registry.
func (r *Registry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extractors = append(r.extractors, extractor)
	for _, mt := range extractor.SupportedMediaTypes() {
		mt = canonicalMediaType(mt)
		candidates := append(r.byType[mt], extractor)
		// Highest priority wins; keep the slice sorted so lookup is a
		// head read.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Priority() > candidates[j].Priority()
		})
		r.byType[mt] = candidates
	}
}

// Extract converts content using the highest-priority extractor that
// claims the media type. Returns domain.ErrUnsupportedMediaType when
// none does.
func (r *Registry) Extract(ctx context.Context, content []byte, mediaType string) (string, error) {
	r.mu.RLock()
	candidates := r.byType[canonicalMediaType(mediaType)]
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return "", domain.ErrUnsupportedMediaType
	}
	return candidates[0].Extract(ctx, content, mediaType)
}

// SupportedMediaTypes returns all media types with a registered extractor.
func (r *Registry) SupportedMediaTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byType))
	for mt := range r.byType {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}

// canonicalMediaType lowercases the type and strips parameters such as
// "; charset=utf-8".
func canonicalMediaType(mediaType string) string {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return mediaType
}
