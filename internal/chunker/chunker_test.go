package chunker

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/halcyon-labs/corpus-cli/internal/core/domain"
)

func TestSplitter_Split_EmptyText(t *testing.T) {
	s := New()

	spans, err := s.Split("", domain.ChunkPolicy{MaxChunkSize: 5, Overlap: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("expected 0 spans for empty text, got %d", len(spans))
	}
}

func TestSplitter_Split_InvalidPolicy(t *testing.T) {
	s := New()

	tests := []struct {
		name   string
		policy domain.ChunkPolicy
	}{
		{"zero size", domain.ChunkPolicy{MaxChunkSize: 0}},
		{"overlap equals size", domain.ChunkPolicy{MaxChunkSize: 5, Overlap: 5}},
		{"negative overlap", domain.ChunkPolicy{MaxChunkSize: 5, Overlap: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Split("some text", tt.policy)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSplitter_Split_HelloWorld(t *testing.T) {
	s := New()

	spans, err := s.Split("hello world", domain.ChunkPolicy{MaxChunkSize: 5, Overlap: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.ChunkSpan{
		{Position: 0, Content: "hello", StartOffset: 0, EndOffset: 5},
		{Position: 1, Content: " worl", StartOffset: 5, EndOffset: 10},
		{Position: 2, Content: "d", StartOffset: 10, EndOffset: 11},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("unexpected spans: %+v", spans)
	}
}

func TestSplitter_Split_WithOverlap(t *testing.T) {
	s := New()

	spans, err := s.Split("abcdefghij", domain.ChunkPolicy{MaxChunkSize: 5, Overlap: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// step = 3: starts at 0, 3, 6, 9
	want := []domain.ChunkSpan{
		{Position: 0, Content: "abcde", StartOffset: 0, EndOffset: 5},
		{Position: 1, Content: "defgh", StartOffset: 3, EndOffset: 8},
		{Position: 2, Content: "ghij", StartOffset: 6, EndOffset: 10},
		{Position: 3, Content: "j", StartOffset: 9, EndOffset: 10},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("unexpected spans: %+v", spans)
	}
}

func TestSplitter_Split_MultibyteText(t *testing.T) {
	s := New()

	// "héllo": 5 characters, 6 bytes. Size counts characters; offsets
	// stay byte-accurate.
	spans, err := s.Split("héllo", domain.ChunkPolicy{MaxChunkSize: 2, Overlap: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.ChunkSpan{
		{Position: 0, Content: "hé", StartOffset: 0, EndOffset: 3},
		{Position: 1, Content: "ll", StartOffset: 3, EndOffset: 5},
		{Position: 2, Content: "o", StartOffset: 5, EndOffset: 6},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("unexpected spans: %+v", spans)
	}

	for i, span := range spans {
		if !utf8.ValidString(span.Content) {
			t.Errorf("span %d content is not valid UTF-8: %q", i, span.Content)
		}
	}
}

func TestSplitter_Split_MultibyteNeverCut(t *testing.T) {
	s := New()
	text := strings.Repeat("日本語テキスト", 40)

	policies := []domain.ChunkPolicy{
		{MaxChunkSize: 5, Overlap: 0},
		{MaxChunkSize: 7, Overlap: 3},
		{MaxChunkSize: 100, Overlap: 50},
	}
	for _, policy := range policies {
		spans, err := s.Split(text, policy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		next := 0
		for i, span := range spans {
			if !utf8.ValidString(span.Content) {
				t.Fatalf("policy %+v: span %d is not valid UTF-8", policy, i)
			}
			if n := utf8.RuneCountInString(span.Content); n > policy.MaxChunkSize {
				t.Errorf("policy %+v: span %d has %d characters", policy, i, n)
			}
			if policy.Overlap == 0 {
				if span.StartOffset != next {
					t.Errorf("policy %+v: span %d starts at %d, expected %d", policy, i, span.StartOffset, next)
				}
				next = span.EndOffset
			}
			if span.Content != text[span.StartOffset:span.EndOffset] {
				t.Errorf("policy %+v: span %d content does not match its offsets", policy, i)
			}
		}
		if spans[len(spans)-1].EndOffset != len(text) {
			t.Errorf("policy %+v: spans do not cover the full text", policy)
		}
	}
}

func TestSplitter_Split_Coverage(t *testing.T) {
	s := New()
	text := strings.Repeat("x", 1237)
	policy := domain.ChunkPolicy{MaxChunkSize: 100, Overlap: 0}

	spans, err := s.Split(text, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Spans must tile [0, len(text)) without gaps.
	next := 0
	for i, span := range spans {
		if span.Position != i {
			t.Errorf("span %d has position %d", i, span.Position)
		}
		if span.StartOffset != next {
			t.Errorf("span %d starts at %d, expected %d", i, span.StartOffset, next)
		}
		if span.Content != text[span.StartOffset:span.EndOffset] {
			t.Errorf("span %d content does not match its offsets", i)
		}
		next = span.EndOffset
	}
	if next != len(text) {
		t.Errorf("spans cover up to %d, expected %d", next, len(text))
	}
}

func TestSplitter_Split_Deterministic(t *testing.T) {
	s := New()
	text := strings.Repeat("the quick brown fox ", 200)
	policy := domain.ChunkPolicy{MaxChunkSize: 128, Overlap: 32}

	first, err := s.Split(text, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Split(text, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different span sequences")
	}
}

func TestSplitter_Split_FinalPartialChunkKept(t *testing.T) {
	s := New()

	spans, err := s.Split("abcdefg", domain.ChunkPolicy{MaxChunkSize: 3, Overlap: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	last := spans[len(spans)-1]
	if last.Content != "g" {
		t.Errorf("expected final partial span 'g', got %q", last.Content)
	}
}
