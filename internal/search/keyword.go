package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docustack/retriever/internal/types"
	"github.com/docustack/retriever/internal/vectorindex"
)

// tfSaturation is the occurrence count at which a keyword match is
// considered fully relevant.
const tfSaturation = 10.0

// KeywordSearcher scores chunks by case-insensitive substring frequency
// of the whole query. Chunks without a match are excluded entirely.
type KeywordSearcher struct {
	index vectorindex.Index
}

func NewKeywordSearcher(index vectorindex.Index) *KeywordSearcher {
	return &KeywordSearcher{index: index}
}

// Search fetches all candidate chunks for the document scope, scores
// them by term frequency, and returns the topK highest-scoring hits.
func (s *KeywordSearcher) Search(ctx context.Context, query string, documentIDs []string, topK int) ([]types.SearchHit, error) {
	entries, err := s.index.Get(ctx, vectorindex.DocumentScope(documentIDs))
	if err != nil {
		return nil, fmt.Errorf("listing chunks for keyword search: %w", err)
	}

	needle := strings.ToLower(query)
	hits := make([]types.SearchHit, 0, len(entries))
	for _, entry := range entries {
		count := strings.Count(strings.ToLower(entry.Content), needle)
		if count == 0 {
			continue
		}
		score := float64(count) / tfSaturation
		if score > 1.0 {
			score = 1.0
		}
		kw := score
		hits = append(hits, types.SearchHit{
			Content:        entry.Content,
			Metadata:       hitMetadata(entry.Metadata),
			KeywordScore:   &kw,
			RelevanceScore: kw,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].RelevanceScore != hits[j].RelevanceScore {
			return hits[i].RelevanceScore > hits[j].RelevanceScore
		}
		if hits[i].Metadata.DocumentID != hits[j].Metadata.DocumentID {
			return hits[i].Metadata.DocumentID < hits[j].Metadata.DocumentID
		}
		return hits[i].Metadata.ChunkIndex < hits[j].Metadata.ChunkIndex
	})

	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}
