package ingest

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/docustack/retriever/internal/chunker"
	"github.com/docustack/retriever/internal/types"
	"github.com/docustack/retriever/internal/vectorindex"
)

const defaultConcurrency = 10

// Embedder converts chunk text into vectors for indexing.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Service runs the ingestion pipeline: extract, chunk, embed, index.
// Documents are processed concurrently up to a bound; work on the same
// document id is serialized so re-ingestion and deletion never race.
type Service struct {
	chunker     *chunker.Chunker
	embedder    Embedder
	index       vectorindex.Index
	concurrency int
	logger      *log.Logger
	tracer      trace.Tracer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency bounds how many documents are processed in parallel.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(ch *chunker.Chunker, embedder Embedder, index vectorindex.Index, opts ...Option) *Service {
	s := &Service{
		chunker:     ch,
		embedder:    embedder,
		index:       index,
		concurrency: defaultConcurrency,
		logger:      log.Default(),
		tracer:      otel.Tracer("retriever/ingest"),
		locks:       make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ingests every document the source yields. A failing document is
// recorded in the result and does not stop the others.
func (s *Service) Run(ctx context.Context, source Source) (*types.IngestResult, error) {
	docs, err := source.Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := &types.IngestResult{StartTime: time.Now()}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			indexed, err := s.IngestDocument(ctx, doc)

			mu.Lock()
			defer mu.Unlock()
			result.ProcessedDocuments++
			if err != nil {
				result.FailureCount++
				result.Errors = append(result.Errors, asProcessingError(err, doc.ID))
				s.logger.Printf("ingest failed for document %s: %v", doc.ID, err)
				return nil
			}
			result.SuccessCount++
			result.IndexedChunks += indexed
			return nil
		})
	}
	g.Wait()

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	s.logger.Printf("ingest finished: %d documents, %d chunks, %d failures in %s",
		result.ProcessedDocuments, result.IndexedChunks, result.FailureCount, result.Duration)
	return result, nil
}

// IngestDocument processes one document end to end and returns the
// number of chunks indexed. Previously indexed chunks for the same
// document id are removed first.
func (s *Service) IngestDocument(ctx context.Context, doc Document) (int, error) {
	lock := s.documentLock(doc.ID)
	lock.Lock()
	defer lock.Unlock()

	ctx, span := s.tracer.Start(ctx, "ingest.IngestDocument",
		trace.WithAttributes(attribute.String("ingest.document_id", doc.ID)))
	defer span.End()

	text, err := ExtractText(doc.Filename, doc.Data)
	if err != nil {
		span.RecordError(err)
		return 0, &types.ProcessingError{
			Type:       types.ErrorTypeExtraction,
			Message:    err.Error(),
			DocumentID: doc.ID,
			Timestamp:  time.Now(),
		}
	}

	chunks := s.chunker.SplitDocument(text, doc.ID, doc.Filename)

	if _, err := s.deleteDocumentLocked(ctx, doc.ID); err != nil {
		span.RecordError(err)
		return 0, err
	}

	entries := make([]vectorindex.Entry, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := s.embedder.GenerateEmbedding(ctx, chunk.Content)
		if err != nil {
			span.RecordError(err)
			return 0, &types.ProcessingError{
				Type:       types.ErrorTypeEmbedding,
				Message:    err.Error(),
				DocumentID: doc.ID,
				Timestamp:  time.Now(),
				Retryable:  true,
			}
		}
		entries = append(entries, vectorindex.EntryFromChunk(uuid.NewString(), chunk, embedding))
	}

	if err := s.index.Add(ctx, entries); err != nil {
		span.RecordError(err)
		return 0, &types.ProcessingError{
			Type:       types.ErrorTypeIndexWrite,
			Message:    err.Error(),
			DocumentID: doc.ID,
			Timestamp:  time.Now(),
			Retryable:  true,
		}
	}

	span.SetAttributes(attribute.Int("ingest.chunks", len(entries)))
	return len(entries), nil
}

// DeleteDocument removes every indexed chunk belonging to the document
// and returns how many were deleted.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) (int, error) {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()
	return s.deleteDocumentLocked(ctx, documentID)
}

func (s *Service) deleteDocumentLocked(ctx context.Context, documentID string) (int, error) {
	entries, err := s.index.Get(ctx, vectorindex.Equals(vectorindex.MetaDocumentID, documentID))
	if err != nil {
		return 0, &types.ProcessingError{
			Type:       types.ErrorTypeIndexQuery,
			Message:    err.Error(),
			DocumentID: documentID,
			Timestamp:  time.Now(),
			Retryable:  true,
		}
	}
	if len(entries) == 0 {
		return 0, nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	if err := s.index.Delete(ctx, ids); err != nil {
		return 0, &types.ProcessingError{
			Type:       types.ErrorTypeIndexWrite,
			Message:    err.Error(),
			DocumentID: documentID,
			Timestamp:  time.Now(),
			Retryable:  true,
		}
	}
	return len(ids), nil
}

func (s *Service) documentLock(documentID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[documentID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[documentID] = lock
	}
	return lock
}

func asProcessingError(err error, documentID string) *types.ProcessingError {
	if pe, ok := err.(*types.ProcessingError); ok {
		return pe
	}
	return &types.ProcessingError{
		Type:       types.ErrorTypeUnknown,
		Message:    err.Error(),
		DocumentID: documentID,
		Timestamp:  time.Now(),
	}
}
