package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound signals a missing ticket.
	ErrNotFound = errors.New("ticket not found")
	// ErrInvalidTicket signals a ticket that failed validation.
	ErrInvalidTicket = errors.New("invalid ticket")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorStoreUnavailable signals a vector store connection or
	// collection-creation failure. Fatal to the request, not the process:
	// the next request retries initialization.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
	// ErrLLMUnavailable signals an explanation LLM failure. Swallowed by the
	// explain service, never surfaced to search callers.
	ErrLLMUnavailable = errors.New("llm unavailable")
)

// ValidationError carries the complete list of field violations found in a
// query or ingested ticket. Every violation is collected before failing,
// not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidTicket.Error() + ": " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidTicket }

// NewValidationError creates a validation error from a violation list.
func NewValidationError(violations []string) error {
	return &ValidationError{Violations: violations}
}
