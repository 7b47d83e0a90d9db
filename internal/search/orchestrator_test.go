package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docustack/retriever/internal/types"
	"github.com/docustack/retriever/internal/vectorindex"
)

func newTestOrchestrator(t *testing.T, embedder Embedder) (*Orchestrator, *vectorindex.MemoryIndex) {
	t.Helper()
	idx := vectorindex.NewMemoryIndex()
	require.NoError(t, idx.Add(context.Background(), []vectorindex.Entry{
		newTestEntry("a-0", "doc-a", 0, "neural network training basics", []float64{1, 0}),
		newTestEntry("a-1", "doc-a", 1, "deployment checklist", []float64{0, 1}),
	}))
	return NewOrchestrator(idx, embedder, WithTimeout(5*time.Second)), idx
}

func TestSearchRejectsInvalidRequests(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubEmbedder{vector: []float64{1, 0}})

	tests := []struct {
		name string
		req  *types.SearchRequest
	}{
		{"nil request", nil},
		{"empty query", &types.SearchRequest{Query: "   ", Mode: types.SearchModeSemantic, TopK: 5}},
		{"top_k below one", &types.SearchRequest{Query: "q", Mode: types.SearchModeSemantic, TopK: 0}},
		{"unknown mode", &types.SearchRequest{Query: "q", Mode: "fuzzy", TopK: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := o.Search(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, IsInvalidRequest(err))
		})
	}
}

func TestSearchDefaultsToSemanticMode(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubEmbedder{vector: []float64{1, 0}})

	result, err := o.Search(context.Background(), &types.SearchRequest{Query: "training", TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, result.Error)
	assert.Equal(t, len(result.Hits), result.Total)
	require.NotEmpty(t, result.Hits)
	require.NotNil(t, result.Hits[0].SemanticScore)
}

func TestSearchExpandsQueryBeforeSemanticSearch(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubEmbedder{vector: []float64{1, 0}})

	result, err := o.Search(context.Background(), &types.SearchRequest{
		Query:       "nlp models",
		Mode:        types.SearchModeSemantic,
		TopK:        5,
		ExpandQuery: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "nlp models", result.OriginalQuery)
	assert.Equal(t, "nlp natural language processing models", result.ExpandedQuery)
}

func TestSearchKeywordModeSkipsExpansion(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubEmbedder{vector: []float64{1, 0}})

	result, err := o.Search(context.Background(), &types.SearchRequest{
		Query:       "nn",
		Mode:        types.SearchModeKeyword,
		TopK:        5,
		ExpandQuery: true,
	})
	require.NoError(t, err)
	assert.Empty(t, result.ExpandedQuery)
}

func TestSearchDegradesOnAdapterFailure(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubEmbedder{err: errors.New("backend down")})

	result, err := o.Search(context.Background(), &types.SearchRequest{
		Query: "anything",
		Mode:  types.SearchModeSemantic,
		TopK:  5,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Hits)
	assert.Zero(t, result.Total)
	assert.Contains(t, result.Error, "backend down")
	assert.Equal(t, "anything", result.OriginalQuery)
}

func TestSearchHybridModeDegradesWhenEmbedderFails(t *testing.T) {
	// Hybrid needs both sub-searches, so a dead embedding backend
	// degrades the whole search rather than returning keyword-only hits.
	o, _ := newTestOrchestrator(t, &stubEmbedder{err: errors.New("throttled")})

	result, err := o.Search(context.Background(), &types.SearchRequest{
		Query: "deployment",
		Mode:  types.SearchModeHybrid,
		TopK:  5,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
	assert.NotEmpty(t, result.Error)
}

func TestSearchReportsElapsedTime(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubEmbedder{vector: []float64{1, 0}})

	result, err := o.Search(context.Background(), &types.SearchRequest{
		Query: "training",
		Mode:  types.SearchModeHybrid,
		TopK:  5,
	})
	require.NoError(t, err)
	assert.Greater(t, result.SearchTime, 0.0)
}

func TestClassifyAndSelectBackendPassthrough(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubEmbedder{vector: []float64{1, 0}})

	classification := o.Classify("compare these two designs", "")
	assert.Equal(t, types.IntentComparison, classification.Intent)
	assert.Equal(t, types.DomainGeneral, classification.Domain)

	backend := o.SelectBackend(classification.Intent, classification.Domain)
	assert.Equal(t, types.BackendAnalytical, backend)
}
