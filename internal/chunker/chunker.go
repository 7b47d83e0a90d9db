// Package chunker splits extracted document text into overlapping
// windows sized for embedding and LLM context assembly.
package chunker

import (
	"fmt"
	"strings"

	"github.com/docustack/retriever/internal/types"
)

// Default window parameters, matching the ingestion configuration defaults.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Chunker produces overlapping text chunks. ChunkSize bounds the chunk
// length in runes; consecutive chunks overlap by approximately Overlap
// runes. Overlap must stay strictly below ChunkSize so the window
// always advances.
type Chunker struct {
	ChunkSize int
	Overlap   int
}

// New creates a Chunker after validating the window parameters.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, %d), got %d", chunkSize, overlap)
	}
	return &Chunker{ChunkSize: chunkSize, Overlap: overlap}, nil
}

// Default returns a Chunker with the default window parameters.
func Default() *Chunker {
	return &Chunker{ChunkSize: DefaultChunkSize, Overlap: DefaultOverlap}
}

// Normalize collapses all whitespace runs (line breaks, tabs, repeated
// spaces) into single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split divides text into overlapping chunks. Whitespace is normalized
// first; text no longer than ChunkSize comes back as a single chunk.
// When a window's right edge falls inside a word, the window extends to
// the next space so no chunk ever splits a word. Every chunk except
// possibly the last has at most ChunkSize runes unless a word-boundary
// extension occurred.
func (c *Chunker) Split(text string) []string {
	normalized := Normalize(text)

	runes := []rune(normalized)
	total := len(runes)
	if total <= c.ChunkSize {
		return []string{normalized}
	}

	var chunks []string
	start := 0
	for start < total {
		end := start + c.ChunkSize

		if end < total {
			// Extend to the next space so the chunk does not cut a word.
			if next := nextSpace(runes, end); next >= 0 {
				end = next
			}
		}

		right := end
		if right > total {
			right = total
		}
		chunks = append(chunks, strings.TrimSpace(string(runes[start:right])))

		start = end - c.Overlap
	}

	return chunks
}

// SplitDocument chunks text and wraps each piece in a Chunk with a
// zero-based, monotonic index.
func (c *Chunker) SplitDocument(text, documentID, sourceFilename string) []types.Chunk {
	pieces := c.Split(text)
	chunks := make([]types.Chunk, len(pieces))
	for i, content := range pieces {
		chunks[i] = types.Chunk{
			DocumentID:     documentID,
			Index:          i,
			Content:        content,
			SourceFilename: sourceFilename,
		}
	}
	return chunks
}

// EstimateCount computes ceil(len/(ChunkSize-Overlap)) without
// materializing chunks, for capacity planning. It returns 0 for empty
// input and never less than 1 otherwise.
func (c *Chunker) EstimateCount(text string) int {
	if text == "" {
		return 0
	}

	effective := c.ChunkSize - c.Overlap
	count := (len([]rune(text)) + effective - 1) / effective
	if count < 1 {
		count = 1
	}
	return count
}

// nextSpace returns the index of the first space at or after pos, or -1
// when the rest of the text has none.
func nextSpace(runes []rune, pos int) int {
	for i := pos; i < len(runes); i++ {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
