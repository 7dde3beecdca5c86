package domain

import "errors"

var (
	// ErrNotFound signals that a query matched no records where the caller required some.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput signals caller input rejected before reaching the query engine.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorageUnavailable signals that a record kind's storage location cannot be read.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
