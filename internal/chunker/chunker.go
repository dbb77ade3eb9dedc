// Package chunker provides fixed-size text splitting with overlap.
package chunker

import (
	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
	"github.com/halcyon-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Chunker = (*Splitter)(nil)

// Splitter splits extracted text into bounded-size spans.
//
// Splitting is purely positional: each span covers at most
// policy.MaxChunkSize characters and starts policy.Overlap characters
// before the previous span's end. Boundaries fall on rune starts, so a
// multibyte character is never cut; span offsets are byte offsets into
// the text. The same (text, policy) input always yields the same spans.
type Splitter struct{}

// New creates a new splitter.
func New() *Splitter {
	return &Splitter{}
}

// Split walks the text left to right producing ordered spans.
// The final span may be shorter than MaxChunkSize; it is never dropped.
func (s *Splitter) Split(text string, policy domain.ChunkPolicy) ([]domain.ChunkSpan, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	// Byte offset of each character, with a sentinel at len(text), so
	// character windows map back to valid byte ranges.
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))
	runeCount := len(offsets) - 1

	step := policy.MaxChunkSize - policy.Overlap
	spans := make([]domain.ChunkSpan, 0, runeCount/step+1)

	position := 0
	for start := 0; start < runeCount; start += step {
		end := start + policy.MaxChunkSize
		if end > runeCount {
			end = runeCount
		}

		spans = append(spans, domain.ChunkSpan{
			Position:    position,
			Content:     text[offsets[start]:offsets[end]],
			StartOffset: offsets[start],
			EndOffset:   offsets[end],
		})
		position++
	}

	return spans, nil
}
