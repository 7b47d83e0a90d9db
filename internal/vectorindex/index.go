// Package vectorindex defines the external vector index boundary used
// by the retrieval engine, plus the in-memory and S3 Vectors backed
// implementations.
package vectorindex

import (
	"context"
	"strconv"

	"github.com/docustack/retriever/internal/types"
)

// Metadata keys attached to every indexed chunk.
const (
	MetaDocumentID = "document_id"
	MetaChunkIndex = "chunk_index"
	MetaFilename   = "filename"
)

// Entry is one embedded chunk as stored in the index.
type Entry struct {
	ID        string            `json:"id"`
	Embedding []float64         `json:"embedding"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata"`
}

// QueryResponse carries nearest-neighbor results as parallel arrays of
// content, metadata, and distance. Distance is cosine distance in [0,2].
type QueryResponse struct {
	IDs       []string            `json:"ids"`
	Contents  []string            `json:"contents"`
	Metadatas []map[string]string `json:"metadatas"`
	Distances []float64           `json:"distances"`
}

// Index is the vector index the retrieval engine consumes. Query and
// Get accept the filter grammar from the filter helpers: {field: value}
// for equality and {"$or": [...]} for membership. Implementations must
// be safe for concurrent readers; writers are serialized by the
// ingestion layer.
type Index interface {
	Add(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, embedding []float64, topK int, filter Filter) (*QueryResponse, error)
	Get(ctx context.Context, filter Filter) ([]Entry, error)
	Delete(ctx context.Context, ids []string) error
}

// EntryFromChunk builds an index entry for an embedded chunk.
func EntryFromChunk(id string, chunk types.Chunk, embedding []float64) Entry {
	return Entry{
		ID:        id,
		Embedding: embedding,
		Content:   chunk.Content,
		Metadata: map[string]string{
			MetaDocumentID: chunk.DocumentID,
			MetaChunkIndex: strconv.Itoa(chunk.Index),
			MetaFilename:   chunk.SourceFilename,
		},
	}
}
