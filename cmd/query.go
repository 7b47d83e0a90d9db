package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docustack/retriever/internal/metrics"
	"github.com/docustack/retriever/internal/search"
	"github.com/docustack/retriever/internal/types"
)

var (
	queryText   string
	queryDocIDs []string
	queryMode   string
	queryTopK   int
	queryExpand bool
	queryJSON   bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search indexed documents",
	Long: `Search indexed documents with semantic, keyword, or hybrid retrieval.

Examples:
  retriever query -q "consensus algorithms"
  retriever query -q "ml pipelines" --mode hybrid --expand -k 10
  retriever query -q "deployment" --doc runbook --doc handbook --json`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "Text query to search for (required)")
	queryCmd.Flags().StringArrayVar(&queryDocIDs, "doc", nil, "Restrict search to these document ids (repeatable)")
	queryCmd.Flags().StringVar(&queryMode, "mode", "hybrid", "Search mode: semantic|keyword|hybrid")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "Number of results to return (default from config)")
	queryCmd.Flags().BoolVar(&queryExpand, "expand", false, "Expand known abbreviations in the query")
	queryCmd.Flags().BoolVarP(&queryJSON, "json", "j", false, "Output results as JSON")
	_ = queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	topK := queryTopK
	if topK <= 0 {
		topK = a.cfg.DefaultTopK
	}

	orch := search.NewOrchestrator(a.index, a.embedder,
		search.WithTimeout(a.cfg.SearchTimeout))
	result, err := orch.Search(ctx, &types.SearchRequest{
		Query:       queryText,
		DocumentIDs: queryDocIDs,
		Mode:        types.SearchMode(queryMode),
		TopK:        topK,
		ExpandQuery: queryExpand,
	})
	if err != nil {
		return err
	}
	a.record(metrics.ModeQuery)

	return printSearchResult(result, queryJSON)
}

func printSearchResult(result *types.SearchResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Error != "" {
		fmt.Printf("search degraded: %s\n", result.Error)
		return nil
	}

	fmt.Printf("%d result(s) for %q (%s mode, %.3fs)\n",
		result.Total, result.OriginalQuery, result.Mode, result.SearchTime)
	if result.ExpandedQuery != "" {
		fmt.Printf("expanded query: %s\n", result.ExpandedQuery)
	}
	for i, hit := range result.Hits {
		fmt.Printf("\n%d. [%.4f] %s (chunk %d, %s)\n",
			i+1, hit.RelevanceScore, hit.Metadata.DocumentID, hit.Metadata.ChunkIndex, hit.Metadata.Filename)
		fmt.Printf("   %s\n", truncate(hit.Content, 300))
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
