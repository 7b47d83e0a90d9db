package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/docustack/retriever/internal/types"
	"github.com/docustack/retriever/internal/vectorindex"
)

// Embedder converts text into a vector in the same space the index was
// populated with.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// SemanticSearcher answers queries by nearest-neighbor lookup against a
// vector index. Distances are assumed to be cosine distances in [0, 2],
// which maps onto relevance as 1 - distance/2.
type SemanticSearcher struct {
	index    vectorindex.Index
	embedder Embedder
}

func NewSemanticSearcher(index vectorindex.Index, embedder Embedder) *SemanticSearcher {
	return &SemanticSearcher{index: index, embedder: embedder}
}

// Search embeds the query and returns the topK nearest chunks, scoped
// to documentIDs when non-empty.
func (s *SemanticSearcher) Search(ctx context.Context, query string, documentIDs []string, topK int) ([]types.SearchHit, error) {
	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	resp, err := s.index.Query(ctx, embedding, topK, vectorindex.DocumentScope(documentIDs))
	if err != nil {
		return nil, fmt.Errorf("querying vector index: %w", err)
	}

	hits := make([]types.SearchHit, 0, len(resp.IDs))
	for i := range resp.IDs {
		score := relevanceFromDistance(resp.Distances[i])
		hits = append(hits, types.SearchHit{
			Content:        resp.Contents[i],
			Metadata:       hitMetadata(resp.Metadatas[i]),
			SemanticScore:  &score,
			RelevanceScore: score,
		})
	}
	return hits, nil
}

// relevanceFromDistance converts a cosine distance into a relevance
// score clamped to [0, 1].
func relevanceFromDistance(distance float64) float64 {
	score := 1.0 - distance/2.0
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func hitMetadata(metadata map[string]string) types.HitMetadata {
	chunkIndex, _ := strconv.Atoi(metadata[vectorindex.MetaChunkIndex])
	return types.HitMetadata{
		DocumentID: metadata[vectorindex.MetaDocumentID],
		ChunkIndex: chunkIndex,
		Filename:   metadata[vectorindex.MetaFilename],
	}
}
