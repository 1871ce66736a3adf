package filter

import "github.com/poiesic/tupper/core"

// Apply keeps the dishes that satisfy every constraint, in pool order.
// An unknown tag never satisfies a tag constraint, and a missing calorie
// count never satisfies a calorie comparison.
func Apply(pool []*core.Dish, set ConstraintSet) []*core.Dish {
	kept := make([]*core.Dish, 0, len(pool))
	for _, d := range pool {
		if Admits(d, set) {
			kept = append(kept, d)
		}
	}
	return kept
}

// Admits reports whether d satisfies every constraint in set.
func Admits(d *core.Dish, set ConstraintSet) bool {
	for _, c := range set.items {
		switch c := c.(type) {
		case TagConstraint:
			v, known := d.Tag(c.Tag)
			if !known || v != c.Want {
				return false
			}
		case KcalConstraint:
			if !c.Evaluate(d.Kcal).Resolve(false) {
				return false
			}
		}
	}
	return true
}

// Excluded returns the pool dishes not present in kept, compared by ID,
// preserving pool order.
func Excluded(pool, kept []*core.Dish) []*core.Dish {
	ids := make(map[core.ID]struct{}, len(kept))
	for _, d := range kept {
		ids[d.Id] = struct{}{}
	}

	out := make([]*core.Dish, 0, max(len(pool)-len(kept), 0))
	for _, d := range pool {
		if _, ok := ids[d.Id]; !ok {
			out = append(out, d)
		}
	}
	return out
}
