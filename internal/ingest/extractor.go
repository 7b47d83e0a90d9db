// Package ingest turns raw source documents into indexed, embedded
// chunks. Scanners discover documents, the extractor pulls plain text
// out of them, and the service chunks, embeds, and indexes the result.
package ingest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var supportedExtensions = map[string]struct{}{
	".txt": {},
	".md":  {},
	".pdf": {},
}

// SupportedFile reports whether the filename has an extension the
// extractor can handle.
func SupportedFile(filename string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// ExtractText returns the plain text of a document body. The format is
// chosen by file extension: .txt and .md pass through unchanged, .pdf
// goes through the PDF text extractor.
func ExtractText(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".md":
		return string(data), nil
	case ".pdf":
		return extractPDF(data)
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return buf.String(), nil
}
