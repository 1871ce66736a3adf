package reembed

import "errors"

var (
	// ErrRepositoryRequired is returned when a dish repository is not provided.
	ErrRepositoryRequired = errors.New("dish repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrBatchesFailed is returned when ContinueOnError let a run finish
	// with failed batches.
	ErrBatchesFailed = errors.New("some batches failed")
)
