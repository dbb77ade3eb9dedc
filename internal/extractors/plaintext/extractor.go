package plaintext

import (
	"context"
	"strings"

	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMediaTypes returns the media types this extractor handles.
func (e *Extractor) SupportedMediaTypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/yaml",
		"text/toml",
		"text/x-go",
		"text/x-python",
		"text/x-shellscript",
		"application/json",
		"application/xml",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// Extract passes the bytes through as text.
// Windows line endings are normalised so chunk offsets are stable across
// platforms.
func (e *Extractor) Extract(_ context.Context, content []byte, _ string) (string, error) {
	if len(content) == 0 {
		return "", nil
	}
	text := string(content)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return text, nil
}
