package extractors

import (
	"mime"
	"path/filepath"
	"strings"
)

// extension overrides for types where mime.TypeByExtension is absent or
// too platform-dependent.
var extMediaTypes = map[string]string{
	".txt":      "text/plain",
	".text":     "text/plain",
	".log":      "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".html":     "text/html",
	".htm":      "text/html",
}

// MediaTypeForPath guesses a media type from the file extension.
// Unknown extensions fall back to text/plain so the plaintext extractor
// gets a chance at the content.
func MediaTypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := extMediaTypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		return canonicalMediaType(mt)
	}
	return "text/plain"
}
