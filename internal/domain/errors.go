package domain

import "errors"

var (
	// ErrInvalidConfig signals an invalid pipeline configuration.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidDocument signals a document that fails validation.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrEmptyQuery signals a query request with no question text.
	ErrEmptyQuery = errors.New("empty query")
	// ErrProviderError signals an embedding or completion provider failure.
	ErrProviderError = errors.New("provider error")
	// ErrTimeout signals a provider call that exceeded its deadline.
	ErrTimeout = errors.New("provider timeout")
)
