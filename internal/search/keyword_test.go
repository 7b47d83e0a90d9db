package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docustack/retriever/internal/vectorindex"
)

func TestKeywordSearchTermFrequencyScore(t *testing.T) {
	idx := vectorindex.NewMemoryIndex()
	require.NoError(t, idx.Add(context.Background(), []vectorindex.Entry{
		newTestEntry("a-0", "doc-a", 0, strings.Repeat("gopher ", 5), []float64{1, 0}),
		newTestEntry("a-1", "doc-a", 1, strings.Repeat("gopher ", 10), []float64{0, 1}),
		newTestEntry("a-2", "doc-a", 2, strings.Repeat("gopher ", 25), []float64{1, 1}),
		newTestEntry("a-3", "doc-a", 3, "nothing relevant here", []float64{1, 2}),
	}))

	searcher := NewKeywordSearcher(idx)
	hits, err := searcher.Search(context.Background(), "gopher", nil, 10)
	require.NoError(t, err)

	// The zero-match chunk is excluded, not scored zero.
	require.Len(t, hits, 3)

	// 25 occurrences saturate at 1.0, 10 occurrences hit exactly 1.0,
	// 5 occurrences score 0.5.
	assert.InDelta(t, 1.0, hits[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 1.0, hits[1].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.5, hits[2].RelevanceScore, 1e-9)
	assert.Equal(t, 0, hits[2].Metadata.ChunkIndex)

	for _, hit := range hits {
		require.NotNil(t, hit.KeywordScore)
		assert.Nil(t, hit.SemanticScore)
	}
}

func TestKeywordSearchCaseInsensitive(t *testing.T) {
	idx := vectorindex.NewMemoryIndex()
	require.NoError(t, idx.Add(context.Background(), []vectorindex.Entry{
		newTestEntry("a-0", "doc-a", 0, "Neural Networks and NEURAL networks", []float64{1}),
	}))

	searcher := NewKeywordSearcher(idx)
	hits, err := searcher.Search(context.Background(), "neural NETWORKS", nil, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 0.2, hits[0].RelevanceScore, 1e-9)
}

func TestKeywordSearchOrdersAndTruncates(t *testing.T) {
	idx := vectorindex.NewMemoryIndex()
	require.NoError(t, idx.Add(context.Background(), []vectorindex.Entry{
		newTestEntry("a-0", "doc-a", 0, "cache", []float64{1}),
		newTestEntry("a-1", "doc-a", 1, "cache cache cache", []float64{1}),
		newTestEntry("b-0", "doc-b", 0, "cache cache", []float64{1}),
	}))

	searcher := NewKeywordSearcher(idx)
	hits, err := searcher.Search(context.Background(), "cache", nil, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Metadata.ChunkIndex)
	assert.Equal(t, "doc-b", hits[1].Metadata.DocumentID)
}

func TestKeywordSearchRespectsDocumentScope(t *testing.T) {
	idx := vectorindex.NewMemoryIndex()
	require.NoError(t, idx.Add(context.Background(), []vectorindex.Entry{
		newTestEntry("a-0", "doc-a", 0, "shared term", []float64{1}),
		newTestEntry("b-0", "doc-b", 0, "shared term", []float64{1}),
	}))

	searcher := NewKeywordSearcher(idx)
	hits, err := searcher.Search(context.Background(), "shared", []string{"doc-b"}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-b", hits[0].Metadata.DocumentID)
}
