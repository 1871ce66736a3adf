package filter

import (
	"slices"

	"github.com/poiesic/tupper/core"
)

const (
	// MaxFallback bounds how many approximate matches Rank returns.
	MaxFallback = 10

	// VetoScore is the score of a dish that contradicts a requested
	// vegetarian or vegan constraint.
	VetoScore = -1.0

	proteinDivisor = 5.0
	maxProteinTerm = 2.5
)

// ScoredDish is a fallback candidate with its score and pool position.
type ScoredDish struct {
	Dish     *core.Dish
	Score    float64
	Position int
}

// Score rates how closely d approaches the constraints:
//   - a satisfied calorie comparison adds 1 (a missing count adds nothing)
//   - alto_proteina=true adds min(protein/5, 2.5), a missing protein adds nothing
//   - any other tag constraint adds 1 when the dish holds the wanted value
//
// A dish known to be non-vegetarian or non-vegan when that was requested
// scores VetoScore no matter what else it matches.
func Score(d *core.Dish, set ConstraintSet) float64 {
	score := 0.0
	for _, c := range set.items {
		switch c := c.(type) {
		case KcalConstraint:
			if c.Evaluate(d.Kcal) == Matches {
				score += 1
			}
		case TagConstraint:
			if c.Tag == core.TagHighProtein && c.Want {
				if d.Protein.Valid {
					score += min(d.Protein.Value/proteinDivisor, maxProteinTerm)
				}
				continue
			}
			v, known := d.Tag(c.Tag)
			if !known {
				continue
			}
			if v == c.Want {
				score += 1
			} else if c.Want && isVetoTag(c.Tag) {
				return VetoScore
			}
		}
	}
	return score
}

func isVetoTag(t core.Tag) bool {
	return t == core.TagVegetarian || t == core.TagVegan
}

// Rank scores the excluded dishes, keeps those scoring above zero, and
// returns at most MaxFallback of them by descending score. Equal scores
// keep their pool order.
func Rank(excluded []*core.Dish, set ConstraintSet) []*core.Dish {
	scored := RankScored(excluded, set)
	out := make([]*core.Dish, len(scored))
	for i, s := range scored {
		out[i] = s.Dish
	}
	return out
}

// RankScored is Rank with the scores attached.
func RankScored(excluded []*core.Dish, set ConstraintSet) []ScoredDish {
	scored := make([]ScoredDish, 0, len(excluded))
	for i, d := range excluded {
		if s := Score(d, set); s > 0 {
			scored = append(scored, ScoredDish{Dish: d, Score: s, Position: i})
		}
	}

	slices.SortStableFunc(scored, func(a, b ScoredDish) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return a.Position - b.Position
		}
	})

	if len(scored) > MaxFallback {
		scored = scored[:MaxFallback]
	}
	return scored
}
