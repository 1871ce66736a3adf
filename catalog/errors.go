package catalog

import "errors"

var (
	// ErrRepositoryRequired indicates that a dish repository was not provided.
	ErrRepositoryRequired = errors.New("dish repository is required")

	// ErrEmbedderRequired indicates that an embedder was not provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidLimit indicates a non-positive pool size.
	ErrInvalidLimit = errors.New("pool limit must be positive")
)
