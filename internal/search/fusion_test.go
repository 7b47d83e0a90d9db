package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docustack/retriever/internal/types"
	"github.com/docustack/retriever/internal/vectorindex"
)

func floatPtr(f float64) *float64 { return &f }

func fusionHit(documentID string, chunkIndex int, content string, semantic, keyword *float64) types.SearchHit {
	hit := types.SearchHit{
		Content: content,
		Metadata: types.HitMetadata{
			DocumentID: documentID,
			ChunkIndex: chunkIndex,
		},
		SemanticScore: semantic,
		KeywordScore:  keyword,
	}
	if semantic != nil {
		hit.RelevanceScore = *semantic
	} else if keyword != nil {
		hit.RelevanceScore = *keyword
	}
	return hit
}

func TestFuseWeightsBothSources(t *testing.T) {
	semantic := []types.SearchHit{fusionHit("doc-a", 0, "shared chunk", floatPtr(0.8), nil)}
	keyword := []types.SearchHit{fusionHit("doc-a", 0, "shared chunk", nil, floatPtr(0.5))}

	hits := fuse(semantic, keyword, 10)
	require.Len(t, hits, 1)
	assert.InDelta(t, 0.6*0.8+0.4*0.5, hits[0].RelevanceScore, 1e-9)
	require.NotNil(t, hits[0].SemanticScore)
	require.NotNil(t, hits[0].KeywordScore)
}

func TestFuseSingleSourceScores(t *testing.T) {
	semantic := []types.SearchHit{fusionHit("doc-a", 0, "semantic only", floatPtr(0.9), nil)}
	keyword := []types.SearchHit{fusionHit("doc-b", 0, "keyword only", nil, floatPtr(0.6))}

	hits := fuse(semantic, keyword, 10)
	require.Len(t, hits, 2)

	assert.InDelta(t, 0.9, hits[0].RelevanceScore, 1e-9)
	// keyword-only gets the 0.7 discount
	assert.InDelta(t, 0.6*0.7, hits[1].RelevanceScore, 1e-9)
}

func TestFuseJoinsOnChunkIdentityNotContent(t *testing.T) {
	// Two different chunks with identical text must not be merged into
	// one fused score; the later duplicate is dropped by content, the
	// distinct chunk keeps its own score.
	semantic := []types.SearchHit{
		fusionHit("doc-a", 0, "same text", floatPtr(0.9), nil),
		fusionHit("doc-b", 3, "same text", floatPtr(0.4), nil),
	}
	keyword := []types.SearchHit{fusionHit("doc-b", 3, "same text", nil, floatPtr(1.0))}

	hits := fuse(semantic, keyword, 10)
	require.Len(t, hits, 1)
	// doc-b/3 fuses to 0.6*0.4 + 0.4*1.0 = 0.64, below doc-a/0's 0.9,
	// so the surviving hit is doc-a's.
	assert.Equal(t, "doc-a", hits[0].Metadata.DocumentID)
	assert.InDelta(t, 0.9, hits[0].RelevanceScore, 1e-9)
}

func TestFuseDedupesByContentAndTruncates(t *testing.T) {
	semantic := []types.SearchHit{
		fusionHit("doc-a", 0, "alpha", floatPtr(0.9), nil),
		fusionHit("doc-a", 1, "beta", floatPtr(0.8), nil),
		fusionHit("doc-b", 0, "alpha", floatPtr(0.7), nil),
		fusionHit("doc-b", 1, "gamma", floatPtr(0.6), nil),
	}

	hits := fuse(semantic, nil, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "alpha", hits[0].Content)
	assert.Equal(t, "beta", hits[1].Content)

	seen := map[string]struct{}{}
	for _, hit := range hits {
		_, dup := seen[hit.Content]
		assert.False(t, dup, "duplicate content %q", hit.Content)
		seen[hit.Content] = struct{}{}
	}
}

func TestFusionSearchEndToEnd(t *testing.T) {
	idx := vectorindex.NewMemoryIndex()
	require.NoError(t, idx.Add(context.Background(), []vectorindex.Entry{
		// Exact embedding match and strong keyword match.
		newTestEntry("a-0", "doc-a", 0, strings.Repeat("raft consensus ", 10), []float64{1, 0}),
		// Orthogonal embedding, keyword match only when topK misses it.
		newTestEntry("a-1", "doc-a", 1, "raft snapshots", []float64{0, 1}),
		// No keyword match at all.
		newTestEntry("b-0", "doc-b", 0, "unrelated passage", []float64{0.9, 0.1}),
	}))

	ranker := NewFusionRanker(
		NewSemanticSearcher(idx, &stubEmbedder{vector: []float64{1, 0}}),
		NewKeywordSearcher(idx),
	)

	hits, err := ranker.Search(context.Background(), "raft", nil, 3)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	// The chunk matched by both sources ranks first.
	assert.Equal(t, "doc-a", hits[0].Metadata.DocumentID)
	assert.Equal(t, 0, hits[0].Metadata.ChunkIndex)
	require.NotNil(t, hits[0].SemanticScore)
	require.NotNil(t, hits[0].KeywordScore)

	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].RelevanceScore, hits[i].RelevanceScore)
	}
	assert.LessOrEqual(t, len(hits), 3)
}

func TestFusionSearchPropagatesSubSearchError(t *testing.T) {
	idx := vectorindex.NewMemoryIndex()
	ranker := NewFusionRanker(
		NewSemanticSearcher(idx, &stubEmbedder{err: errors.New("model unavailable")}),
		NewKeywordSearcher(idx),
	)

	_, err := ranker.Search(context.Background(), "q", nil, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}
