package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/tupper/core"
)

// keywordTags maps question words to the tag the default extractor sets.
var keywordTags = []struct {
	keyword string
	tag     core.Tag
}{
	{"vegetarian", core.TagVegetarian},
	{"vegan", core.TagVegan},
	{"keto", core.TagKeto},
	{"postre", core.TagDessert},
	{"cuchara", core.TagSpoon},
	{"proteína", core.TagHighProtein},
	{"proteina", core.TagHighProtein},
	{"sin lactosa", core.TagLactoseFree},
	{"gourmet", core.TagGourmet},
	{"diabétic", core.TagDiabetic},
	{"sin gluten", core.TagGlutenFree},
	{"congelar", core.TagFreezable},
}

// MockFilterExtractor is a test double for ai.FilterExtractor.
type MockFilterExtractor struct {
	// ExtractFiltersFunc is called by ExtractFilters if set.
	// If nil, sets a tag to true for each keyword found in the question.
	ExtractFiltersFunc func(ctx context.Context, question string) (map[string]any, error)

	mu        sync.Mutex
	callCount int
}

// NewMockFilterExtractor creates a mock filter extractor with default behavior.
func NewMockFilterExtractor() *MockFilterExtractor {
	return &MockFilterExtractor{}
}

// ExtractFilters returns the injected result or keyword-derived filters.
func (m *MockFilterExtractor) ExtractFilters(ctx context.Context, question string) (map[string]any, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ExtractFiltersFunc != nil {
		return m.ExtractFiltersFunc(ctx, question)
	}

	q := strings.ToLower(question)
	filters := map[string]any{}
	for _, kt := range keywordTags {
		if strings.Contains(q, kt.keyword) {
			filters[string(kt.tag)] = true
		}
	}
	return filters, nil
}

// Returns sets a fixed result for every call.
func (m *MockFilterExtractor) Returns(filters map[string]any, err error) *MockFilterExtractor {
	m.ExtractFiltersFunc = func(ctx context.Context, question string) (map[string]any, error) {
		return filters, err
	}
	return m
}

// CallCount returns the number of times ExtractFilters was called.
func (m *MockFilterExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockFilterExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ExtractFiltersFunc = nil
}
