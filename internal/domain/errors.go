package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery signals a query that is empty after normalization.
	ErrEmptyQuery = errors.New("empty query")
	// ErrRetrieval signals that the record store was unreachable, rejected the request, or timed out.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrProfileNotFound signals a missing profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrEnrichmentAbsent signals that a profile has no enrichment text yet.
	ErrEnrichmentAbsent = errors.New("enrichment text absent")
	// ErrInvalidRequest signals malformed caller input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEnrichmentProviderError signals a biography provider failure.
	ErrEnrichmentProviderError = errors.New("enrichment provider error")
	// ErrSuperseded signals a search response discarded because a newer search started.
	ErrSuperseded = errors.New("superseded by a newer search")
)

// RetrievalError wraps a record store failure with the store operation name.
// It matches both ErrRetrieval and the underlying cause via errors.Is.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRetrieval.Error(), e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() []error { return []error{ErrRetrieval, e.Err} }

// NewRetrievalError creates a retrieval error for the given operation.
func NewRetrievalError(op string, err error) error {
	return &RetrievalError{Op: op, Err: err}
}
