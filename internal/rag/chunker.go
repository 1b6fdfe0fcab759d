package rag

import (
	"fmt"
	"strconv"

	"github.com/lodestone-ai/lodestone/internal/document"
)

// Chunking defaults. The window is measured in runes, which tracks token
// counts closely enough for embedding-size budgeting across the models we
// target. Both values are overridable via configuration.
const (
	// DefaultChunkSize is the target chunk window in runes.
	DefaultChunkSize = 512

	// DefaultChunkOverlap is how many runes consecutive chunks share.
	DefaultChunkOverlap = 64
)

// Chunk is a bounded-size slice of extracted document text, the unit of
// embedding. Transient: produced by the chunker, persisted only as a
// vector row by the adapter.
type Chunk struct {
	Content  string
	Metadata map[string]string
}

// Chunker splits documents into overlapping fixed-window chunks.
// Split is pure and deterministic.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given window size and overlap,
// both in runes. Overlap must be smaller than size.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split chunks each document in order. Every rune of input content appears
// in at least one chunk; an empty input yields an empty output, which the
// indexing service interprets as "no text found". Each chunk carries its
// source document's metadata plus chunk index and rune start offset.
func (c *Chunker) Split(docs []document.Document) []Chunk {
	var chunks []Chunk

	for docIdx, doc := range docs {
		runes := []rune(doc.Content)
		if len(runes) == 0 {
			continue
		}

		step := c.size - c.overlap
		for start := 0; ; start += step {
			end := start + c.size
			if end > len(runes) {
				end = len(runes)
			}

			meta := make(map[string]string, len(doc.Metadata)+3)
			for k, v := range doc.Metadata {
				meta[k] = v
			}
			meta["doc_index"] = strconv.Itoa(docIdx)
			meta["chunk_index"] = strconv.Itoa(len(chunks))
			meta["start_offset"] = strconv.Itoa(start)

			chunks = append(chunks, Chunk{
				Content:  string(runes[start:end]),
				Metadata: meta,
			})

			if end == len(runes) {
				break
			}
		}
	}

	return chunks
}
