package assistant

import "errors"

var (
	// ErrFilterExtraction indicates the question's filters could not be obtained.
	// Ask reports it through the ExtractionFailed state, not as a returned error.
	ErrFilterExtraction = errors.New("filter extraction failed")

	// ErrGeneration indicates the answer generator failed.
	ErrGeneration = errors.New("answer generation failed")

	// ErrPoolRequired is returned when a candidate pool is not provided.
	ErrPoolRequired = errors.New("candidate pool required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidThreshold indicates a negative or inverted fallback threshold.
	ErrInvalidThreshold = errors.New("invalid fallback threshold")
)

// Fixed user-facing messages.
const (
	ExtractionFailedMessage = "❌ No se pudieron interpretar los filtros de la pregunta."
	NoMatchesMessage        = "No encontré platos del catálogo que encajen con tu petición."
	GenerationFailedMessage = "Ocurrió un error al generar la respuesta."
)
