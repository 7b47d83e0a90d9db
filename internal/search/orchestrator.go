package search

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/docustack/retriever/internal/expand"
	"github.com/docustack/retriever/internal/routing"
	"github.com/docustack/retriever/internal/types"
	"github.com/docustack/retriever/internal/vectorindex"
)

const defaultSearchTimeout = 30 * time.Second

// Orchestrator is the single entry point for retrieval. It validates
// requests, optionally expands the query, dispatches to the selected
// search mode, and converts adapter failures into empty results so a
// degraded index never takes the caller down with it.
type Orchestrator struct {
	semantic *SemanticSearcher
	keyword  *KeywordSearcher
	fusion   *FusionRanker
	expander *expand.Expander
	timeout  time.Duration
	logger   *log.Logger
	tracer   trace.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout bounds the end-to-end duration of a single search.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithExpander replaces the default abbreviation table.
func WithExpander(expander *expand.Expander) Option {
	return func(o *Orchestrator) {
		if expander != nil {
			o.expander = expander
		}
	}
}

func NewOrchestrator(index vectorindex.Index, embedder Embedder, opts ...Option) *Orchestrator {
	semantic := NewSemanticSearcher(index, embedder)
	keyword := NewKeywordSearcher(index)
	o := &Orchestrator{
		semantic: semantic,
		keyword:  keyword,
		fusion:   NewFusionRanker(semantic, keyword),
		expander: expand.NewExpander(expand.DefaultExpansions),
		timeout:  defaultSearchTimeout,
		logger:   log.Default(),
		tracer:   otel.Tracer("retriever/search"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Search runs one retrieval request. Validation failures are returned
// as errors; adapter failures produce a result with zero hits and the
// Error field set, with a nil error.
func (o *Orchestrator) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "search.Search",
		trace.WithAttributes(
			attribute.String("search.mode", string(req.Mode)),
			attribute.Int("search.top_k", req.TopK),
			attribute.Int("search.document_scope", len(req.DocumentIDs)),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	result := &types.SearchResult{
		OriginalQuery: req.Query,
		Mode:          req.Mode,
	}

	query := req.Query
	if req.ExpandQuery && req.Mode != types.SearchModeKeyword {
		query = o.expander.Expand(query)
		if query != req.Query {
			result.ExpandedQuery = query
			o.logger.Printf("expanded query %q -> %q", req.Query, query)
		}
	}

	hits, err := o.dispatch(ctx, query, req)
	result.SearchTime = time.Since(start).Seconds()
	if err != nil {
		adapterErr := NewAdapterError(adapterErrorType(err), req.Query, err)
		o.logger.Printf("search degraded to empty result (mode=%s): %v", req.Mode, adapterErr)
		span.RecordError(adapterErr)
		result.Hits = []types.SearchHit{}
		result.Error = adapterErr.Error()
		return result, nil
	}

	result.Hits = hits
	result.Total = len(hits)
	span.SetAttributes(attribute.Int("search.hits", len(hits)))
	return result, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, query string, req *types.SearchRequest) ([]types.SearchHit, error) {
	switch req.Mode {
	case types.SearchModeKeyword:
		return o.keyword.Search(ctx, query, req.DocumentIDs, req.TopK)
	case types.SearchModeHybrid:
		return o.fusion.Search(ctx, query, req.DocumentIDs, req.TopK)
	default:
		return o.semantic.Search(ctx, query, req.DocumentIDs, req.TopK)
	}
}

// Classify exposes intent and domain classification for the chat
// layer. Context content comes from the caller's retrieved chunks.
func (o *Orchestrator) Classify(query, contextContent string) types.QueryClassification {
	return routing.Classify(query, contextContent)
}

// SelectBackend picks the generation backend for a classified query.
func (o *Orchestrator) SelectBackend(intent types.Intent, domain types.Domain) types.BackendID {
	return routing.SelectBackend(intent, domain)
}

// adapterErrorType distinguishes deadline expiry from other adapter
// failures for the degraded-result diagnostics.
func adapterErrorType(err error) types.ErrorType {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.ErrorTypeTimeout
	}
	return types.ErrorTypeIndexQuery
}

func validateRequest(req *types.SearchRequest) error {
	if req == nil {
		return NewInvalidRequestError("request must not be nil")
	}
	if strings.TrimSpace(req.Query) == "" {
		return NewInvalidRequestError("query must not be empty")
	}
	if req.TopK < 1 {
		return NewInvalidRequestError("top_k must be at least 1, got %d", req.TopK)
	}
	if req.Mode == "" {
		req.Mode = types.SearchModeSemantic
	}
	if !req.Mode.Valid() {
		return NewInvalidRequestError("unknown search mode %q", req.Mode)
	}
	return nil
}
