package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a dish repository is not provided.
	ErrRepositoryRequired = errors.New("dish repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidBatchSize is returned for a batch size below one.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")

	// ErrInvalidRow is returned when a catalog row cannot be decoded.
	ErrInvalidRow = errors.New("invalid catalog row")

	// ErrEmbeddingFailed is returned when a batch could not be embedded.
	ErrEmbeddingFailed = errors.New("embedding failed")
)
