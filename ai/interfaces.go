package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// FilterExtractor turns a free-text dietary question into raw structured filters.
// Implementations must be thread-safe for concurrent use.
type FilterExtractor interface {
	// ExtractFilters returns the single JSON object the model produced for the
	// question, decoded into a generic map. Keys are tag wire names or "kcal".
	// Values are returned as decoded; interpreting them is the caller's job.
	// Returns an error wrapping ErrMalformedResponse when the output is not
	// exactly one JSON object.
	ExtractFilters(ctx context.Context, question string) (map[string]any, error)
}

// AnswerGenerator produces the final recommendation text.
// Implementations must be thread-safe for concurrent use.
type AnswerGenerator interface {
	// GenerateAnswer answers the question using only the dishes rendered in
	// contextText. The question is passed verbatim.
	GenerateAnswer(ctx context.Context, question, contextText string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages the services, ensuring they share configuration
// and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// FilterExtractor returns the structured filter extraction service.
	FilterExtractor() FilterExtractor

	// AnswerGenerator returns the recommendation generation service.
	AnswerGenerator() AnswerGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
