package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/tupper/core"
)

// KcalKey is the raw filter key of the calorie constraint.
const KcalKey = "kcal"

// Op is a comparison operator.
type Op int

const (
	Less Op = iota
	Greater
)

func (o Op) String() string {
	if o == Greater {
		return ">"
	}
	return "<"
}

// Match is the result of evaluating a comparison against a possibly missing value.
type Match int

const (
	NoMatch Match = iota
	Matches
	Unknown
)

// Resolve collapses the three-valued result. unknownAs decides what a
// missing value counts as.
func (m Match) Resolve(unknownAs bool) bool {
	switch m {
	case Matches:
		return true
	case Unknown:
		return unknownAs
	default:
		return false
	}
}

func (m Match) String() string {
	switch m {
	case Matches:
		return "matches"
	case Unknown:
		return "unknown"
	default:
		return "no-match"
	}
}

// Comparison is a strict threshold test such as "<400".
type Comparison struct {
	Op        Op
	Threshold float64
}

// Evaluate compares q against the threshold. A missing q is Unknown.
func (c Comparison) Evaluate(q core.Quantity) Match {
	if !q.Valid {
		return Unknown
	}
	var ok bool
	if c.Op == Less {
		ok = q.Value < c.Threshold
	} else {
		ok = q.Value > c.Threshold
	}
	if ok {
		return Matches
	}
	return NoMatch
}

// String renders the comparison in its literal form.
func (c Comparison) String() string {
	return c.Op.String() + strconv.FormatFloat(c.Threshold, 'f', -1, 64)
}

// Constraint is one requirement on a dish. The set of implementations is
// closed: TagConstraint and KcalConstraint.
type Constraint interface {
	// Key is the raw filter key: a tag wire name or KcalKey.
	Key() string
	constraint()
}

// TagConstraint requires a tag to hold an exact value.
type TagConstraint struct {
	Tag  core.Tag
	Want bool
}

func (c TagConstraint) Key() string { return string(c.Tag) }
func (TagConstraint) constraint()   {}

// KcalConstraint requires the calorie count to satisfy a comparison.
type KcalConstraint struct {
	Comparison
}

func (KcalConstraint) Key() string { return KcalKey }
func (KcalConstraint) constraint() {}

// ConstraintSet holds at most one constraint per key, in canonical key
// order (tags in core.Tags order, then kcal). The zero value is empty.
type ConstraintSet struct {
	items []Constraint
}

// NewConstraintSet builds a set; a later constraint replaces an earlier one
// with the same key.
func NewConstraintSet(cs ...Constraint) ConstraintSet {
	var s ConstraintSet
	for _, c := range cs {
		s = s.With(c)
	}
	return s
}

// With returns a copy of s with c added or replacing the constraint on the same key.
func (s ConstraintSet) With(c Constraint) ConstraintSet {
	items := make([]Constraint, 0, len(s.items)+1)
	for _, existing := range s.items {
		if existing.Key() != c.Key() {
			items = append(items, existing)
		}
	}
	items = append(items, c)
	slices.SortStableFunc(items, func(a, b Constraint) int {
		return keyRank(a.Key()) - keyRank(b.Key())
	})
	return ConstraintSet{items: items}
}

func keyRank(key string) int {
	for i, t := range core.Tags {
		if string(t) == key {
			return i
		}
	}
	return len(core.Tags)
}

// Len returns the number of constraints.
func (s ConstraintSet) Len() int { return len(s.items) }

// IsEmpty reports whether the set has no constraints.
func (s ConstraintSet) IsEmpty() bool { return len(s.items) == 0 }

// Constraints returns the constraints in canonical order.
func (s ConstraintSet) Constraints() []Constraint {
	return slices.Clone(s.items)
}

// Tag returns the wanted value for t, if constrained.
func (s ConstraintSet) Tag(t core.Tag) (want bool, ok bool) {
	for _, c := range s.items {
		if tc, isTag := c.(TagConstraint); isTag && tc.Tag == t {
			return tc.Want, true
		}
	}
	return false, false
}

// Kcal returns the calorie comparison, if constrained.
func (s ConstraintSet) Kcal() (Comparison, bool) {
	for _, c := range s.items {
		if kc, ok := c.(KcalConstraint); ok {
			return kc.Comparison, true
		}
	}
	return Comparison{}, false
}

// String renders the set as key=value pairs.
func (s ConstraintSet) String() string {
	parts := make([]string, 0, len(s.items))
	for _, c := range s.items {
		parts = append(parts, c.Key()+"="+rawValue(c))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func rawValue(c Constraint) string {
	switch c := c.(type) {
	case TagConstraint:
		return strconv.FormatBool(c.Want)
	case KcalConstraint:
		return c.Comparison.String()
	}
	return ""
}

// MarshalJSON encodes the set in the raw filter form, keys in canonical order.
func (s ConstraintSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(c.Key())
		buf.Write(key)
		buf.WriteByte(':')

		var value []byte
		var err error
		switch c := c.(type) {
		case TagConstraint:
			value, err = json.Marshal(c.Want)
		case KcalConstraint:
			value, err = json.Marshal(c.Comparison.String())
		default:
			err = fmt.Errorf("unsupported constraint %T", c)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
