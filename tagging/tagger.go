package tagging

import (
	"slices"

	"github.com/poiesic/tupper/core"
)

// Tagger applies a fixed set of rules.
type Tagger struct {
	rules []Rule
}

// New creates a tagger. With no rules it uses DefaultRules.
func New(rules ...Rule) *Tagger {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Tagger{rules: slices.Clone(rules)}
}

// Apply fills every unknown tag a rule can infer and returns how many tags
// it set. Known tags are left untouched.
func (t *Tagger) Apply(d *core.Dish) int {
	if d == nil {
		return 0
	}
	set := 0
	for _, r := range t.rules {
		if _, known := d.Tag(r.Tag); known {
			continue
		}
		v, ok := r.Infer(d)
		if !ok {
			continue
		}
		if d.Tags == nil {
			d.Tags = make(map[core.Tag]bool, len(t.rules))
		}
		d.Tags[r.Tag] = v
		set++
	}
	return set
}

var defaultTagger = New()

// Apply runs DefaultRules on d.
func Apply(d *core.Dish) int {
	return defaultTagger.Apply(d)
}
