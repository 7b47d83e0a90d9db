package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Document is a raw source file picked up by a scanner, not yet
// extracted or chunked.
type Document struct {
	ID       string
	Filename string
	Data     []byte
}

// Source yields the documents an ingestion run should process.
type Source interface {
	Scan(ctx context.Context) ([]Document, error)
}

// DirSource scans a local directory tree for supported files.
type DirSource struct {
	Root string
}

func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

// Scan walks the directory tree and reads every supported file.
func (s *DirSource) Scan(ctx context.Context) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !SupportedFile(d.Name()) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		docs = append(docs, Document{
			ID:       DocumentID(d.Name()),
			Filename: d.Name(),
			Data:     data,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.Root, err)
	}
	return docs, nil
}

// DocumentID derives a stable document id from a filename, so
// re-ingesting the same file replaces its previous chunks instead of
// accumulating duplicates.
func DocumentID(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var b strings.Builder
	for _, r := range strings.ToLower(stem) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	return b.String()
}
