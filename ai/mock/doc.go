// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.FilterExtractor,
// ai.AnswerGenerator and ai.AIProvider for use in unit tests. The mocks are
// safe for concurrent use and allow tests to run without external services.
//
// # Usage in Tests
//
//	provider := mock.NewMockProvider()
//	provider.GetMockExtractor().Returns(map[string]any{"is_vegano": true}, nil)
//
//	// Custom behavior injection
//	provider.GetMockGenerator().GenerateAnswerFunc = func(ctx context.Context, q, c string) (string, error) {
//	    return "", errors.New("boom")
//	}
//
//	// Check call counts
//	count := provider.GetMockGenerator().CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockFilterExtractor: Sets a tag to true for each keyword in the question
//   - MockAnswerGenerator: Echoes the rendered context
//   - MockProvider: Aggregates the three mocks
package mock
