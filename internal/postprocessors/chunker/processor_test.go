package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.chunkSize)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap >= p.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	if New().Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", New().Name())
	}
}

func TestSplit_Empty(t *testing.T) {
	p := New()
	if chunks := p.Split("   \n"); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for blank text, got %d", len(chunks))
	}
}

func TestSplit_SmallContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	chunks := p.Split("  This is a small piece of content.  ")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "This is a small piece of content." {
		t.Errorf("unexpected chunk %q", chunks[0])
	}
}

func TestSplit_ExactChunkSize(t *testing.T) {
	p := New(WithChunkSize(50), WithOverlap(0))
	chunks := p.Split(strings.Repeat("a", 100))
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestSplit_Overlap(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(3))

	// Step 7: 0-9, 7-16, 14-19.
	chunks := p.Split("0123456789ABCDEFGHIJ")
	want := []string{"0123456789", "789ABCDEFG", "EFGHIJ"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], chunks[i])
		}
	}
}

func TestSplit_RuneBoundaries(t *testing.T) {
	p := New(WithChunkSize(4), WithOverlap(0))
	for _, chunk := range p.Split("ääääöööö") {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %q is not valid UTF-8", chunk)
		}
		if n := utf8.RuneCountInString(chunk); n != 4 {
			t.Errorf("expected 4 runes, got %d", n)
		}
	}
}
