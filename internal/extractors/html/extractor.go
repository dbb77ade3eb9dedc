package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMediaTypes returns the media types this extractor handles.
func (e *Extractor) SupportedMediaTypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific extractor, higher than plaintext
}

// Extract converts HTML to plain text with tags stripped.
func (e *Extractor) Extract(_ context.Context, content []byte, _ string) (string, error) {
	if len(content) == 0 {
		return "", nil
	}
	return stripHTML(string(content)), nil
}

// Pre-compiled regular expressions for HTML stripping.
var (
	scriptTags    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTags     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTags  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTags      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockClosers  = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
	spaceRuns     = regexp.MustCompile(`[ \t]+`)
)

// stripHTML removes markup and keeps readable text.
// Block-level closers become newlines so paragraph structure survives.
func stripHTML(content string) string {
	content = htmlComments.ReplaceAllString(content, "")
	content = headTags.ReplaceAllString(content, "")
	content = scriptTags.ReplaceAllString(content, "")
	content = styleTags.ReplaceAllString(content, "")
	content = noscriptTags.ReplaceAllString(content, "")

	content = brTags.ReplaceAllString(content, "\n")
	content = blockClosers.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")

	content = html.UnescapeString(content)

	// Tidy whitespace left behind by removed markup
	content = spaceRuns.ReplaceAllString(content, " ")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
