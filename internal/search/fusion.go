package search

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/docustack/retriever/internal/types"
)

const (
	semanticWeight = 0.6
	keywordWeight  = 0.4

	// keywordOnlyPenalty discounts chunks that matched by term
	// frequency alone, since they carry no semantic confirmation.
	keywordOnlyPenalty = 0.7
)

// chunkKey identifies a chunk across both sub-searches. Joining on the
// (document, index) pair keeps fusion correct even when two chunks
// happen to share identical text.
type chunkKey struct {
	documentID string
	chunkIndex int
}

// FusionRanker runs the semantic and keyword searches in parallel and
// merges their results into a single ranked list.
type FusionRanker struct {
	semantic *SemanticSearcher
	keyword  *KeywordSearcher
}

func NewFusionRanker(semantic *SemanticSearcher, keyword *KeywordSearcher) *FusionRanker {
	return &FusionRanker{semantic: semantic, keyword: keyword}
}

// Search executes both sub-searches with the same topK, fuses the
// scored candidates, and returns at most topK hits ordered by fused
// relevance. An error from either sub-search fails the whole call.
func (f *FusionRanker) Search(ctx context.Context, query string, documentIDs []string, topK int) ([]types.SearchHit, error) {
	var semanticHits, keywordHits []types.SearchHit

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hits, err := f.semantic.Search(gctx, query, documentIDs, topK)
		if err != nil {
			return err
		}
		semanticHits = hits
		return nil
	})
	g.Go(func() error {
		hits, err := f.keyword.Search(gctx, query, documentIDs, topK)
		if err != nil {
			return err
		}
		keywordHits = hits
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return fuse(semanticHits, keywordHits, topK), nil
}

// fuse merges the two candidate lists by chunk identity and computes
// the combined relevance score:
//
//	both sources:  0.6*semantic + 0.4*keyword
//	semantic only: semantic score unchanged
//	keyword only:  keyword score * 0.7
func fuse(semanticHits, keywordHits []types.SearchHit, topK int) []types.SearchHit {
	merged := make(map[chunkKey]types.SearchHit, len(semanticHits)+len(keywordHits))
	order := make([]chunkKey, 0, len(semanticHits)+len(keywordHits))

	for _, hit := range semanticHits {
		key := chunkKey{hit.Metadata.DocumentID, hit.Metadata.ChunkIndex}
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] = hit
	}
	for _, hit := range keywordHits {
		key := chunkKey{hit.Metadata.DocumentID, hit.Metadata.ChunkIndex}
		existing, seen := merged[key]
		if !seen {
			order = append(order, key)
			merged[key] = hit
			continue
		}
		existing.KeywordScore = hit.KeywordScore
		merged[key] = existing
	}

	hits := make([]types.SearchHit, 0, len(order))
	for _, key := range order {
		hit := merged[key]
		switch {
		case hit.SemanticScore != nil && hit.KeywordScore != nil:
			hit.RelevanceScore = semanticWeight*(*hit.SemanticScore) + keywordWeight*(*hit.KeywordScore)
		case hit.SemanticScore != nil:
			hit.RelevanceScore = *hit.SemanticScore
		case hit.KeywordScore != nil:
			hit.RelevanceScore = *hit.KeywordScore * keywordOnlyPenalty
		}
		hits = append(hits, hit)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].RelevanceScore > hits[j].RelevanceScore
	})

	hits = dedupeByContent(hits)
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// dedupeByContent keeps only the highest-ranked hit for each distinct
// chunk text. Input must already be sorted by descending relevance.
func dedupeByContent(hits []types.SearchHit) []types.SearchHit {
	seen := make(map[string]struct{}, len(hits))
	out := hits[:0]
	for _, hit := range hits {
		if _, dup := seen[hit.Content]; dup {
			continue
		}
		seen[hit.Content] = struct{}{}
		out = append(out, hit)
	}
	return out
}
