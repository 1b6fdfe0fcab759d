package rag

import (
	"strconv"
	"strings"
	"testing"

	"github.com/lodestone-ai/lodestone/internal/document"
)

func TestNewChunker(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "valid", size: 512, overlap: 64},
		{name: "zero overlap", size: 10, overlap: 0},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
		{name: "negative overlap", size: 10, overlap: -1, wantErr: true},
		{name: "overlap equals size", size: 10, overlap: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(tt.size, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewChunker(%d, %d) error = %v, wantErr %v", tt.size, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestChunkerSplitEmpty(t *testing.T) {
	c, err := NewChunker(8, 2)
	if err != nil {
		t.Fatal(err)
	}

	if got := c.Split(nil); len(got) != 0 {
		t.Errorf("Split(nil) = %d chunks, want 0", len(got))
	}
	if got := c.Split([]document.Document{{Content: ""}}); len(got) != 0 {
		t.Errorf("Split(empty doc) = %d chunks, want 0", len(got))
	}
}

func TestChunkerSplitCoversInput(t *testing.T) {
	c, err := NewChunker(8, 2)
	if err != nil {
		t.Fatal(err)
	}

	content := "abcdefghijklmnopqrstuvwxyz"
	chunks := c.Split([]document.Document{{Content: content}})
	if len(chunks) == 0 {
		t.Fatal("Split returned no chunks")
	}

	// Every rune must appear in at least one chunk at its recorded offset.
	covered := make([]bool, len(content))
	for _, chunk := range chunks {
		start, err := strconv.Atoi(chunk.Metadata["start_offset"])
		if err != nil {
			t.Fatalf("bad start_offset %q: %v", chunk.Metadata["start_offset"], err)
		}
		if got := content[start : start+len(chunk.Content)]; got != chunk.Content {
			t.Errorf("chunk at offset %d = %q, source has %q", start, chunk.Content, got)
		}
		for i := start; i < start+len(chunk.Content); i++ {
			covered[i] = true
		}
	}
	for i, ok := range covered {
		if !ok {
			t.Errorf("rune %d not covered by any chunk", i)
		}
	}
}

func TestChunkerSplitOverlap(t *testing.T) {
	c, err := NewChunker(10, 4)
	if err != nil {
		t.Fatal(err)
	}

	content := strings.Repeat("x", 25)
	chunks := c.Split([]document.Document{{Content: content}})

	// step = size - overlap = 6, so offsets are 0, 6, 12, 18.
	wantOffsets := []string{"0", "6", "12", "18"}
	if len(chunks) != len(wantOffsets) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(wantOffsets))
	}
	for i, want := range wantOffsets {
		if got := chunks[i].Metadata["start_offset"]; got != want {
			t.Errorf("chunk %d start_offset = %s, want %s", i, got, want)
		}
	}
}

func TestChunkerSplitDeterministic(t *testing.T) {
	c, err := NewChunker(16, 4)
	if err != nil {
		t.Fatal(err)
	}

	docs := []document.Document{
		{Content: "first document with some text", Metadata: map[string]string{"source": "a.txt"}},
		{Content: "second"},
	}

	first := c.Split(docs)
	second := c.Split(docs)
	if len(first) != len(second) {
		t.Fatalf("runs disagree on chunk count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Content != second[i].Content {
			t.Errorf("chunk %d content differs between runs", i)
		}
	}

	// Document metadata is carried onto its chunks.
	if got := first[0].Metadata["source"]; got != "a.txt" {
		t.Errorf("chunk 0 source = %q, want a.txt", got)
	}
	if got := first[0].Metadata["doc_index"]; got != "0" {
		t.Errorf("chunk 0 doc_index = %q, want 0", got)
	}
}

func TestChunkerSplitMultibyte(t *testing.T) {
	c, err := NewChunker(4, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Window is in runes, so multibyte content must not be split mid-rune.
	content := "héllo wörld ünïcode"
	chunks := c.Split([]document.Document{{Content: content}})

	var rebuilt []rune
	for _, chunk := range chunks {
		runes := []rune(chunk.Content)
		start, _ := strconv.Atoi(chunk.Metadata["start_offset"])
		for i, r := range runes {
			pos := start + i
			if pos >= len(rebuilt) {
				rebuilt = append(rebuilt, r)
			} else if rebuilt[pos] != r {
				t.Errorf("rune at %d = %q, earlier chunk had %q", pos, r, rebuilt[pos])
			}
		}
	}
	if string(rebuilt) != content {
		t.Errorf("rebuilt %q, want %q", string(rebuilt), content)
	}
}
