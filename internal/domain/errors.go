package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidRequest signals a request that failed field validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrCatalogNotLoaded signals that the catalog is unavailable.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// FieldError describes a single failed validation on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries all field-level validation failures of a request.
// This is the only error class surfaced to clients as a 4xx response.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "invalid request: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

// NewValidationError creates a ValidationError from field errors.
func NewValidationError(fields []FieldError) error {
	return &ValidationError{Fields: fields}
}
