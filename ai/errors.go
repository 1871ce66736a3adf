package ai

import "errors"

var (
	// ErrMalformedResponse indicates model output that could not be decoded.
	// Malformed output is never retried.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrEmptyResponse indicates the model returned no choices or no text.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrInvalidMaxAttempts indicates a retry policy with fewer than one attempt.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrInvalidConfig indicates an incomplete or inconsistent Config.
	ErrInvalidConfig = errors.New("invalid ai config")
)
