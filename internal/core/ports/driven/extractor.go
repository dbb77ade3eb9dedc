package driven

import "context"

// Extractor converts raw document bytes into plain text.
// Each extractor handles specific media types (e.g., Markdown, HTML).
type Extractor interface {
	// SupportedMediaTypes returns the media types this extractor handles.
	SupportedMediaTypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Specialised extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract converts content into plain text.
	// Empty content yields an empty string, not an error.
	Extract(ctx context.Context, content []byte, mediaType string) (string, error)
}

// ExtractorRegistry selects the appropriate extractor for a media type.
// It maintains a priority-ordered set of extractors.
type ExtractorRegistry interface {
	// Extract converts content using the best matching extractor.
	// Returns domain.ErrUnsupportedMediaType when no extractor matches.
	Extract(ctx context.Context, content []byte, mediaType string) (string, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// SupportedMediaTypes returns all media types that can be extracted.
	SupportedMediaTypes() []string
}
