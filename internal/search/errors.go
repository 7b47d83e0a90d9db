package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/docustack/retriever/internal/types"
)

// SearchError carries the error category alongside the message so the
// orchestrator can decide between rejecting a request and degrading to
// an empty result.
type SearchError struct {
	Type       types.ErrorType `json:"type"`
	Message    string          `json:"message"`
	Retryable  bool            `json:"retryable"`
	Query      string          `json:"query,omitempty"`
	Suggestion string          `json:"suggestion,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// IsRetryable reports whether the caller may retry the operation.
func (e *SearchError) IsRetryable() bool {
	return e.Retryable
}

// NewInvalidRequestError builds the error returned for requests that
// fail validation before any I/O happens.
func NewInvalidRequestError(format string, args ...interface{}) *SearchError {
	return &SearchError{
		Type:      types.ErrorTypeValidation,
		Message:   fmt.Sprintf(format, args...),
		Retryable: false,
		Timestamp: time.Now(),
	}
}

// NewAdapterError wraps a failure from the vector index or embedding
// backend. These are caught at the orchestrator boundary and converted
// into empty results.
func NewAdapterError(errType types.ErrorType, query string, err error) *SearchError {
	return &SearchError{
		Type:       errType,
		Message:    err.Error(),
		Retryable:  true,
		Query:      query,
		Suggestion: "check that the vector index and embedding backend are reachable",
		Timestamp:  time.Now(),
	}
}

// IsInvalidRequest reports whether err is a validation error that the
// caller should fix rather than retry.
func IsInvalidRequest(err error) bool {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Type == types.ErrorTypeValidation
	}
	return false
}
