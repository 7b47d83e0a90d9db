package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 1000, cfg.ChunkSize)
	require.Equal(t, 200, cfg.ChunkOverlap)
	require.Equal(t, 5, cfg.DefaultTopK)
	require.Equal(t, 30*time.Second, cfg.SearchTimeout)
	require.Equal(t, "amazon.titan-embed-text-v2:0", cfg.EmbeddingModel)
}

func TestLoadClampsValues(t *testing.T) {
	t.Run("chunk size clamped to safe range", func(t *testing.T) {
		t.Setenv("CHUNK_SIZE", "50")
		t.Setenv("CHUNK_OVERLAP", "0")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 100, cfg.ChunkSize)
	})

	t.Run("top-k and concurrency normalized", func(t *testing.T) {
		t.Setenv("DEFAULT_TOP_K", "-3")
		t.Setenv("INGEST_CONCURRENCY", "500")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 1, cfg.DefaultTopK)
		require.Equal(t, 20, cfg.IngestConcurrency)
	})

	t.Run("temperature clamped to [0,1]", func(t *testing.T) {
		t.Setenv("TEMPERATURE", "1.8")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 1.0, cfg.Temperature)
	})
}

func TestLoadRejectsOverlapNotBelowChunkSize(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("CHUNK_OVERLAP", "500")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "CHUNK_OVERLAP")
}
