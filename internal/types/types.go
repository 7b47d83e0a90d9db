package types

import (
	"fmt"
	"time"
)

// Chunk is the unit of indexing and retrieval: a bounded substring of a
// document's extracted text. Chunks are immutable once created and are
// owned by the document that produced them.
type Chunk struct {
	DocumentID     string `json:"document_id"`
	Index          int    `json:"index"`
	Content        string `json:"content"`
	SourceFilename string `json:"source_filename"`
}

// HitMetadata identifies the chunk behind a search hit.
type HitMetadata struct {
	DocumentID string `json:"document_id"`
	ChunkIndex int    `json:"chunk_index"`
	Filename   string `json:"filename"`
}

// SearchHit is a single retrieved passage. It is constructed per query
// and never persisted. RelevanceScore is the only field downstream
// callers should use for ordering.
type SearchHit struct {
	Content        string      `json:"content"`
	Metadata       HitMetadata `json:"metadata"`
	SemanticScore  *float64    `json:"semantic_score,omitempty"`
	KeywordScore   *float64    `json:"keyword_score,omitempty"`
	RelevanceScore float64     `json:"relevance_score"`
}

// SearchMode selects the retrieval strategy.
type SearchMode string

const (
	SearchModeSemantic SearchMode = "semantic"
	SearchModeKeyword  SearchMode = "keyword"
	SearchModeHybrid   SearchMode = "hybrid"
)

// Valid reports whether the mode is one of the three supported strategies.
func (m SearchMode) Valid() bool {
	switch m {
	case SearchModeSemantic, SearchModeKeyword, SearchModeHybrid:
		return true
	}
	return false
}

// SearchRequest describes one retrieval call. DocumentIDs restricts the
// search scope; nil or empty means all documents.
type SearchRequest struct {
	Query       string     `json:"query"`
	DocumentIDs []string   `json:"document_ids,omitempty"`
	Mode        SearchMode `json:"mode"`
	TopK        int        `json:"top_k"`
	ExpandQuery bool       `json:"expand_query"`
}

// SearchResult is the bundle returned by the retrieval orchestrator.
// Error carries the diagnostic message when an adapter failed and the
// search degraded to an empty hit list.
type SearchResult struct {
	Hits          []SearchHit `json:"hits"`
	OriginalQuery string      `json:"original_query"`
	ExpandedQuery string      `json:"expanded_query,omitempty"`
	Mode          SearchMode  `json:"mode"`
	Total         int         `json:"total"`
	Error         string      `json:"error,omitempty"`
	SearchTime    float64     `json:"search_time,omitempty"`
}

// Intent labels what kind of answer a query is asking for.
type Intent string

const (
	IntentFactual    Intent = "factual"
	IntentCreative   Intent = "creative"
	IntentAnalytical Intent = "analytical"
	IntentComparison Intent = "comparison"
	IntentGeneral    Intent = "general"
)

// Domain labels the subject area of source content.
type Domain string

const (
	DomainMedical    Domain = "medical"
	DomainLegal      Domain = "legal"
	DomainTechnical  Domain = "technical"
	DomainScientific Domain = "scientific"
	DomainGeneral    Domain = "general"
)

// BackendID names a generation backend.
type BackendID string

const (
	BackendSpecialist     BackendID = "specialist"
	BackendAnalytical     BackendID = "analytical"
	BackendConversational BackendID = "conversational"
)

// QueryClassification is the derived routing decision for a query. It
// is recomputed per call and never stored.
type QueryClassification struct {
	Intent Intent `json:"intent"`
	Domain Domain `json:"domain,omitempty"`
}

// ProcessingError represents an error that occurred during ingestion.
type ProcessingError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	DocumentID string    `json:"document_id"`
	Timestamp  time.Time `json:"timestamp"`
	Retryable  bool      `json:"retryable"`
	RetryCount int       `json:"retry_count"`
}

// Error implements the error interface for ProcessingError
func (pe *ProcessingError) Error() string {
	return fmt.Sprintf("[%s] %s (document: %s)", pe.Type, pe.Message, pe.DocumentID)
}

// IsRetryable returns whether this error type should be retried
func (pe *ProcessingError) IsRetryable() bool {
	return pe.Retryable && pe.RetryCount < 3 // Maximum 3 retries
}

// IncrementRetry increments the retry count
func (pe *ProcessingError) IncrementRetry() {
	pe.RetryCount++
}

// ErrorType represents the type of error that occurred
type ErrorType string

const (
	ErrorTypeFileRead       ErrorType = "file_read"
	ErrorTypeExtraction     ErrorType = "text_extraction"
	ErrorTypeEmbedding      ErrorType = "embedding_generation"
	ErrorTypeIndexWrite     ErrorType = "index_write"
	ErrorTypeIndexQuery     ErrorType = "index_query"
	ErrorTypeNetworkTimeout ErrorType = "network_timeout"
	ErrorTypeTimeout        ErrorType = "timeout"
	ErrorTypeRateLimit      ErrorType = "rate_limit"
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeGeneration     ErrorType = "generation"
	ErrorTypeUnknown        ErrorType = "unknown"
)

// IngestResult represents the outcome of an ingestion run.
type IngestResult struct {
	ProcessedDocuments int                `json:"processed_documents"`
	IndexedChunks      int                `json:"indexed_chunks"`
	SuccessCount       int                `json:"success_count"`
	FailureCount       int                `json:"failure_count"`
	Errors             []*ProcessingError `json:"errors"`
	StartTime          time.Time          `json:"start_time"`
	EndTime            time.Time          `json:"end_time"`
	Duration           time.Duration      `json:"duration"`
}

// Config represents the retriever configuration loaded from environment
// variables. See internal/config for loading and validation.
type Config struct {
	// AWS / Bedrock configuration
	AWSRegion      string `json:"aws_region" env:"AWS_REGION,default=us-east-1"`
	EmbeddingModel string `json:"embedding_model" env:"EMBEDDING_MODEL,default=amazon.titan-embed-text-v2:0"`

	// Generation backend model IDs, one per routing target
	SpecialistModel     string `json:"specialist_model" env:"SPECIALIST_MODEL,default=anthropic.claude-3-5-sonnet-20240620-v1:0"`
	AnalyticalModel     string `json:"analytical_model" env:"ANALYTICAL_MODEL,default=anthropic.claude-3-5-sonnet-20240620-v1:0"`
	ConversationalModel string `json:"conversational_model" env:"CONVERSATIONAL_MODEL,default=anthropic.claude-3-5-haiku-20241022-v1:0"`

	// S3 Vectors index configuration
	VectorBucket string `json:"vector_bucket" env:"VECTOR_BUCKET"`
	VectorIndex  string `json:"vector_index" env:"VECTOR_INDEX"`

	// Chunking configuration
	ChunkSize    int `json:"chunk_size" env:"CHUNK_SIZE,default=1000"`
	ChunkOverlap int `json:"chunk_overlap" env:"CHUNK_OVERLAP,default=200"`

	// Search configuration
	DefaultTopK       int           `json:"default_top_k" env:"DEFAULT_TOP_K,default=5"`
	SearchTimeout     time.Duration `json:"search_timeout" env:"SEARCH_TIMEOUT,default=30s"`
	GenerationTimeout time.Duration `json:"generation_timeout" env:"GENERATION_TIMEOUT,default=60s"`
	Temperature       float64       `json:"temperature" env:"TEMPERATURE,default=0.7"`
	MaxTokens         int           `json:"max_tokens" env:"MAX_TOKENS,default=2000"`

	// Ingestion configuration
	IngestConcurrency  int     `json:"ingest_concurrency" env:"INGEST_CONCURRENCY,default=10"`
	EmbeddingRateLimit float64 `json:"embedding_rate_limit" env:"EMBEDDING_RATE_LIMIT,default=10.0"`
	EmbeddingRateBurst int     `json:"embedding_rate_burst" env:"EMBEDDING_RATE_BURST,default=20"`

	// Optional S3 document source
	SourceBucket string `json:"source_bucket" env:"SOURCE_BUCKET"`
	SourcePrefix string `json:"source_prefix" env:"SOURCE_PREFIX"`

	// OpenTelemetry export configuration
	OTelEnabled              bool          `json:"otel_enabled" env:"OTEL_ENABLED,default=false"`
	OTelServiceName          string        `json:"otel_service_name" env:"OTEL_SERVICE_NAME,default=retriever"`
	OTelExporterEndpoint     string        `json:"otel_exporter_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelExporterProtocol     string        `json:"otel_exporter_protocol" env:"OTEL_EXPORTER_OTLP_PROTOCOL,default=http/protobuf"`
	OTelResourceAttributes   string        `json:"otel_resource_attributes" env:"OTEL_RESOURCE_ATTRIBUTES"`
	OTelTracesSampler        string        `json:"otel_traces_sampler" env:"OTEL_TRACES_SAMPLER,default=always_on"`
	OTelTracesSamplerArg     float64       `json:"otel_traces_sampler_arg" env:"OTEL_TRACES_SAMPLER_ARG,default=1.0"`
	OTelMetricExportInterval time.Duration `json:"otel_metric_export_interval" env:"OTEL_METRIC_EXPORT_INTERVAL,default=60s"`
}
