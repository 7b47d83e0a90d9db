package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appconfig "github.com/docustack/retriever/internal/config"
	"github.com/docustack/retriever/internal/embedding/bedrock"
	"github.com/docustack/retriever/internal/metrics"
	"github.com/docustack/retriever/internal/observability"
	"github.com/docustack/retriever/internal/types"
	"github.com/docustack/retriever/internal/vectorindex"
)

var rootCmd = &cobra.Command{
	Use:   "retriever",
	Short: "Hybrid document retrieval with Amazon S3 Vectors and Bedrock",
	Long: `Retriever ingests documents into a vector index and answers queries
with semantic, keyword, or hybrid search. Retrieved passages feed a
query-routed generation backend for chat-style answers.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
}

// app bundles the dependencies shared by the subcommands.
type app struct {
	cfg      *types.Config
	awsCfg   aws.Config
	embedder *bedrock.Client
	index    vectorindex.Index
	store    *metrics.Store
	shutdown observability.ShutdownFunc
}

func newApp(ctx context.Context) (*app, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	cfg, err := appconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	shutdown, err := observability.Init(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing observability: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	embedder := bedrock.NewClient(awsCfg, cfg.EmbeddingModel,
		bedrock.WithRateLimit(cfg.EmbeddingRateLimit, cfg.EmbeddingRateBurst))

	var index vectorindex.Index
	if cfg.VectorBucket != "" {
		index, err = vectorindex.NewS3VectorIndex(awsCfg, &vectorindex.S3Config{
			VectorBucketName: cfg.VectorBucket,
			IndexName:        cfg.VectorIndex,
		})
		if err != nil {
			_ = shutdown(ctx)
			return nil, fmt.Errorf("creating vector index client: %w", err)
		}
	} else {
		log.Println("VECTOR_BUCKET not set, using non-persistent in-memory index")
		index = vectorindex.NewMemoryIndex()
	}

	store, err := metrics.NewStore()
	if err != nil {
		log.Printf("metrics store unavailable: %v", err)
		store = nil
	} else if err := metrics.RegisterGauge(store); err != nil {
		log.Printf("metrics gauge registration failed: %v", err)
	}

	return &app{
		cfg:      cfg,
		awsCfg:   awsCfg,
		embedder: embedder,
		index:    index,
		store:    store,
		shutdown: shutdown,
	}, nil
}

func (a *app) Close(ctx context.Context) {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.shutdown != nil {
		_ = a.shutdown(ctx)
	}
}

// record counts one invocation, tolerating a missing metrics store.
func (a *app) record(mode metrics.Mode) {
	if a.store == nil {
		return
	}
	if err := a.store.Increment(mode); err != nil {
		log.Printf("metrics: recording %s invocation: %v", mode, err)
	}
}
