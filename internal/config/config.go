package config

import (
	"fmt"
	"time"

	env "github.com/netflix/go-env"

	"github.com/docustack/retriever/internal/types"
)

// Type alias for Config
type Config = types.Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var config Config

	_, err := env.UnmarshalFromEnviron(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values and adjusts them to safe ranges
func validateConfig(config *Config) error {
	// Chunking: overlap must stay strictly below chunk size
	if config.ChunkSize < 100 {
		config.ChunkSize = 100
	}
	if config.ChunkSize > 10000 {
		config.ChunkSize = 10000
	}
	if config.ChunkOverlap < 0 {
		config.ChunkOverlap = 0
	}
	if config.ChunkOverlap >= config.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)",
			config.ChunkOverlap, config.ChunkSize)
	}

	// Search defaults
	if config.DefaultTopK < 1 {
		config.DefaultTopK = 1
	}
	if config.DefaultTopK > 100 {
		config.DefaultTopK = 100
	}
	if config.SearchTimeout <= 0 {
		config.SearchTimeout = 30 * time.Second
	}
	if config.GenerationTimeout <= 0 {
		config.GenerationTimeout = 60 * time.Second
	}

	// Generation parameters
	if config.Temperature < 0 {
		config.Temperature = 0
	}
	if config.Temperature > 1 {
		config.Temperature = 1
	}
	if config.MaxTokens < 1 {
		config.MaxTokens = 2000
	}

	// Ingestion concurrency limits
	if config.IngestConcurrency < 1 {
		config.IngestConcurrency = 1
	}
	if config.IngestConcurrency > 20 {
		config.IngestConcurrency = 20
	}
	if config.EmbeddingRateLimit <= 0 {
		config.EmbeddingRateLimit = 10.0
	}
	if config.EmbeddingRateBurst < 1 {
		config.EmbeddingRateBurst = 1
	}

	return nil
}
