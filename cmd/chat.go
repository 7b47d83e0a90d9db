package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/cobra"

	"github.com/docustack/retriever/internal/llm"
	"github.com/docustack/retriever/internal/metrics"
	"github.com/docustack/retriever/internal/search"
	"github.com/docustack/retriever/internal/types"
)

var (
	chatQuery  string
	chatDocIDs []string
	chatTopK   int
	chatNoRAG  bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask a question answered from indexed documents",
	Long: `Retrieve relevant passages for a question, classify the query to pick a
generation backend, and generate an answer grounded in the retrieved
context. Retrieval failures degrade to answering without context.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatQuery, "query", "q", "", "Question to answer (required)")
	chatCmd.Flags().StringArrayVar(&chatDocIDs, "doc", nil, "Restrict retrieval to these document ids (repeatable)")
	chatCmd.Flags().IntVarP(&chatTopK, "top-k", "k", 0, "Number of context passages (default from config)")
	chatCmd.Flags().BoolVar(&chatNoRAG, "no-context", false, "Skip retrieval and answer from model knowledge only")
	_ = chatCmd.MarkFlagRequired("query")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	orch := search.NewOrchestrator(a.index, a.embedder,
		search.WithTimeout(a.cfg.SearchTimeout))

	var contextChunks []string
	if !chatNoRAG {
		topK := chatTopK
		if topK <= 0 {
			topK = a.cfg.DefaultTopK
		}
		result, err := orch.Search(ctx, &types.SearchRequest{
			Query:       chatQuery,
			DocumentIDs: chatDocIDs,
			Mode:        types.SearchModeHybrid,
			TopK:        topK,
			ExpandQuery: true,
		})
		if err != nil {
			return err
		}
		if result.Error != "" {
			fmt.Printf("retrieval degraded, answering without context: %s\n", result.Error)
		}
		for _, hit := range result.Hits {
			contextChunks = append(contextChunks, hit.Content)
		}
	}

	classification := orch.Classify(chatQuery, strings.Join(contextChunks, " "))
	backendID := orch.SelectBackend(classification.Intent, classification.Domain)

	registry, err := newBackendRegistry(a.cfg, a.awsCfg)
	if err != nil {
		return err
	}
	generator, err := registry.Get(backendID)
	if err != nil {
		return err
	}

	prompt := llm.BuildConversationPrompt(chatQuery, contextChunks)

	genCtx, cancel := context.WithTimeout(ctx, a.cfg.GenerationTimeout)
	defer cancel()
	answer, err := generator.Generate(genCtx, prompt, a.cfg.Temperature, a.cfg.MaxTokens)
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}
	a.record(metrics.ModeChat)

	fmt.Printf("intent=%s domain=%s backend=%s context_passages=%d\n\n",
		classification.Intent, classification.Domain, backendID, len(contextChunks))
	fmt.Println(answer)
	return nil
}

// newBackendRegistry builds the three generation backends from the
// configured model ids.
func newBackendRegistry(cfg *types.Config, awsCfg aws.Config) (*llm.Registry, error) {
	backends := make(map[types.BackendID]llm.Generator, 3)
	for id, modelID := range map[types.BackendID]string{
		types.BackendSpecialist:     cfg.SpecialistModel,
		types.BackendAnalytical:     cfg.AnalyticalModel,
		types.BackendConversational: cfg.ConversationalModel,
	} {
		generator, err := llm.NewBedrockGenerator(awsCfg, modelID)
		if err != nil {
			return nil, fmt.Errorf("creating %s backend: %w", id, err)
		}
		backends[id] = generator
	}
	return llm.NewRegistry(backends), nil
}
