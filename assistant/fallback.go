package assistant

import (
	"fmt"
	"strings"
)

const (
	// DefaultBaseThreshold is how many strict matches a plain question needs.
	DefaultBaseThreshold = 3

	// DefaultExtendedThreshold is how many a question asking for variety needs.
	DefaultExtendedThreshold = 5
)

// DefaultVarietyKeywords mark questions that ask for a spread of dishes.
var DefaultVarietyKeywords = []string{
	"semana", "semanas", "plan", "planificar", "almuerzos", "platos",
	"comidas", "días", "repetir", "menú", "distintos", "opciones", "tuppers",
}

// FallbackRule decides when strict filtering left too few dishes.
type FallbackRule struct {
	Keywords []string
	Base     int
	Extended int
}

// DefaultFallbackRule returns the rule with the default keywords and thresholds.
func DefaultFallbackRule() FallbackRule {
	return FallbackRule{
		Keywords: DefaultVarietyKeywords,
		Base:     DefaultBaseThreshold,
		Extended: DefaultExtendedThreshold,
	}
}

// Validate checks the thresholds.
func (r FallbackRule) Validate() error {
	if r.Base < 0 || r.Extended < 0 {
		return fmt.Errorf("%w: thresholds cannot be negative", ErrInvalidThreshold)
	}
	if r.Extended < r.Base {
		return fmt.Errorf("%w: extended %d is below base %d", ErrInvalidThreshold, r.Extended, r.Base)
	}
	return nil
}

// WantsVariety reports whether the lowercased question contains a keyword.
func (r FallbackRule) WantsVariety(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range r.Keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// Needed returns the minimum strict count for the question.
func (r FallbackRule) Needed(question string) int {
	if r.WantsVariety(question) {
		return r.Extended
	}
	return r.Base
}

// Triggered reports whether strictCount falls short of what the question needs.
func (r FallbackRule) Triggered(question string, strictCount int) bool {
	return strictCount < r.Needed(question)
}

// ShouldUseFallback applies the default rule.
func ShouldUseFallback(question string, strictCount int) bool {
	return DefaultFallbackRule().Triggered(question, strictCount)
}
