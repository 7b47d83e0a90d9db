package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is an in-process Index implementation. It backs tests and
// local single-node setups where no external index is configured.
// Distances are cosine distances in [0,2], matching the S3 Vectors
// backend so relevance conversion stays metric-agnostic for callers.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		entries: make(map[string]Entry),
	}
}

// Add inserts or overwrites entries by ID.
func (m *MemoryIndex) Add(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("entry ID cannot be empty")
		}
		if len(e.Embedding) == 0 {
			return fmt.Errorf("entry %s has no embedding", e.ID)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries[e.ID] = e
	}
	return nil
}

// Query returns up to topK entries nearest to the embedding, filtered
// by metadata, ordered by ascending cosine distance.
func (m *MemoryIndex) Query(ctx context.Context, embedding []float64, topK int, filter Filter) (*QueryResponse, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("query embedding cannot be empty")
	}
	if topK <= 0 {
		topK = 10
	}

	type scored struct {
		entry    Entry
		distance float64
	}

	m.mu.RLock()
	candidates := make([]scored, 0, len(m.entries))
	for _, e := range m.entries {
		if !filter.Matches(e.Metadata) {
			continue
		}
		candidates = append(candidates, scored{entry: e, distance: cosineDistance(embedding, e.Embedding)})
	}
	m.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].entry.ID < candidates[j].entry.ID
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	resp := &QueryResponse{
		IDs:       make([]string, len(candidates)),
		Contents:  make([]string, len(candidates)),
		Metadatas: make([]map[string]string, len(candidates)),
		Distances: make([]float64, len(candidates)),
	}
	for i, c := range candidates {
		resp.IDs[i] = c.entry.ID
		resp.Contents[i] = c.entry.Content
		resp.Metadatas[i] = c.entry.Metadata
		resp.Distances[i] = c.distance
	}
	return resp, nil
}

// Get returns all entries whose metadata matches the filter, ordered by
// ID for deterministic output.
func (m *MemoryIndex) Get(ctx context.Context, filter Filter) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []Entry
	for _, e := range m.entries {
		if filter.Matches(e.Metadata) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

// Delete removes entries by ID. Unknown IDs are ignored.
func (m *MemoryIndex) Delete(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.entries, id)
	}
	return nil
}

// Len reports the number of stored entries.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// cosineDistance computes 1 - cosine similarity, bounded by [0,2].
// Zero vectors are treated as maximally distant.
func cosineDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return 2.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 2.0
	}

	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
