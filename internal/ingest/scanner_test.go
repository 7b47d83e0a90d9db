package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirSourceScanPicksSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "intro.txt", "intro body")
	writeTestFile(t, dir, "guide.md", "guide body")
	writeTestFile(t, dir, "logo.png", "binary")

	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(nested, 0o755))
	writeTestFile(t, nested, "deep.txt", "deep body")

	docs, err := NewDirSource(dir).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)

	byID := map[string]Document{}
	for _, doc := range docs {
		byID[doc.ID] = doc
	}
	require.Contains(t, byID, "intro")
	require.Contains(t, byID, "guide")
	require.Contains(t, byID, "deep")
	assert.Equal(t, "intro body", string(byID["intro"].Data))
	assert.Equal(t, "deep.txt", byID["deep"].Filename)
}

func TestDirSourceScanMissingDirectory(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "absent")).Scan(context.Background())
	require.Error(t, err)
}

func TestDocumentID(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"intro.txt", "intro"},
		{"corpus/Guide.md", "guide"},
		{"My File (1).pdf", "my-file--1-"},
		{"data_set.txt", "data-set"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DocumentID(tt.filename), tt.filename)
	}
}
