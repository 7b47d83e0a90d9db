package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docustack/retriever/internal/types"
)

func seedIndex(t *testing.T) *MemoryIndex {
	t.Helper()

	idx := NewMemoryIndex()
	entries := []Entry{
		EntryFromChunk("a-0", types.Chunk{DocumentID: "doc-a", Index: 0, Content: "vector search fundamentals", SourceFilename: "a.md"}, []float64{1, 0, 0}),
		EntryFromChunk("a-1", types.Chunk{DocumentID: "doc-a", Index: 1, Content: "keyword matching basics", SourceFilename: "a.md"}, []float64{0.9, 0.1, 0}),
		EntryFromChunk("b-0", types.Chunk{DocumentID: "doc-b", Index: 0, Content: "cooking with cast iron", SourceFilename: "b.md"}, []float64{0, 1, 0}),
	}
	require.NoError(t, idx.Add(context.Background(), entries))
	return idx
}

func TestMemoryIndexQueryOrdersByDistance(t *testing.T) {
	idx := seedIndex(t)

	resp, err := idx.Query(context.Background(), []float64{1, 0, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, resp.IDs, 3)

	assert.Equal(t, "a-0", resp.IDs[0], "exact match should rank first")
	assert.InDelta(t, 0.0, resp.Distances[0], 1e-9)
	for i := 1; i < len(resp.Distances); i++ {
		assert.GreaterOrEqual(t, resp.Distances[i], resp.Distances[i-1])
	}
}

func TestMemoryIndexQueryRespectsTopKAndFilter(t *testing.T) {
	idx := seedIndex(t)

	resp, err := idx.Query(context.Background(), []float64{1, 0, 0}, 1, DocumentScope([]string{"doc-a"}))
	require.NoError(t, err)
	require.Len(t, resp.IDs, 1)
	assert.Equal(t, "doc-a", resp.Metadatas[0][MetaDocumentID])
}

func TestMemoryIndexQueryReturnsFewerThanTopK(t *testing.T) {
	idx := seedIndex(t)

	resp, err := idx.Query(context.Background(), []float64{0, 1, 0}, 10, DocumentScope([]string{"doc-b"}))
	require.NoError(t, err)
	assert.Len(t, resp.IDs, 1, "fewer hits than topK is not an error")
}

func TestMemoryIndexGetAndDelete(t *testing.T) {
	idx := seedIndex(t)
	ctx := context.Background()

	entries, err := idx.Get(ctx, DocumentScope([]string{"doc-a"}))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	require.NoError(t, idx.Delete(ctx, ids))

	remaining, err := idx.Get(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "doc-b", remaining[0].Metadata[MetaDocumentID])
}

func TestCosineDistanceBounds(t *testing.T) {
	assert.InDelta(t, 0.0, cosineDistance([]float64{1, 1}, []float64{2, 2}), 1e-9)
	assert.InDelta(t, 2.0, cosineDistance([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	assert.Equal(t, 2.0, cosineDistance([]float64{0, 0}, []float64{1, 0}))
	assert.Equal(t, 2.0, cosineDistance([]float64{1}, []float64{1, 0}), "dimension mismatch treated as maximally distant")
}
