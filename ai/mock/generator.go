package mock

import (
	"context"
	"sync"
)

// MockAnswerGenerator is a test double for ai.AnswerGenerator.
type MockAnswerGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, echoes the context back.
	GenerateAnswerFunc func(ctx context.Context, question, contextText string) (string, error)

	mu          sync.Mutex
	callCount   int
	lastContext string
}

// NewMockAnswerGenerator creates a mock answer generator with default behavior.
func NewMockAnswerGenerator() *MockAnswerGenerator {
	return &MockAnswerGenerator{}
}

// GenerateAnswer records the context and returns the injected or echoed answer.
func (m *MockAnswerGenerator) GenerateAnswer(ctx context.Context, question, contextText string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastContext = contextText
	m.mu.Unlock()

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, question, contextText)
	}
	return "Platos recomendados:\n\n" + contextText, nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockAnswerGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastContext returns the context text of the most recent call.
func (m *MockAnswerGenerator) LastContext() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastContext
}

// Reset clears recorded calls and custom functions.
func (m *MockAnswerGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastContext = ""
	m.GenerateAnswerFunc = nil
}
