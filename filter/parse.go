package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/poiesic/tupper/core"
)

var (
	// ErrInvalidComparison indicates a kcal value that is not "<N" or ">N" with N >= 0.
	ErrInvalidComparison = errors.New("invalid comparison")

	// ErrInvalidValue indicates a tag value that is not a boolean.
	ErrInvalidValue = errors.New("invalid filter value")

	// ErrUnknownKey indicates a key that names no tag and is not kcal.
	ErrUnknownKey = errors.New("unknown filter key")
)

// Rejection describes a raw entry that ParseConstraints dropped.
type Rejection struct {
	Key   string
	Value any
	Err   error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("%s=%v: %v", r.Key, r.Value, r.Err)
}

// ParseConstraints leniently converts raw extracted filters into a set.
// Unknown keys and malformed values are dropped and reported, never fatal.
// Tag values must be booleans; the strings "true" and "false" are coerced.
func ParseConstraints(raw map[string]any) (ConstraintSet, []Rejection) {
	var set ConstraintSet
	var rejected []Rejection

	for key, value := range raw {
		if key == KcalKey {
			s, ok := value.(string)
			if !ok {
				rejected = append(rejected, Rejection{key, value, ErrInvalidComparison})
				continue
			}
			cmp, err := ParseComparison(s)
			if err != nil {
				rejected = append(rejected, Rejection{key, value, err})
				continue
			}
			set = set.With(KcalConstraint{cmp})
			continue
		}

		tag, ok := core.ParseTag(key)
		if !ok {
			rejected = append(rejected, Rejection{key, value, ErrUnknownKey})
			continue
		}
		want, ok := asBool(value)
		if !ok {
			rejected = append(rejected, Rejection{key, value, ErrInvalidValue})
			continue
		}
		set = set.With(TagConstraint{Tag: tag, Want: want})
	}

	return set, rejected
}

func asBool(v any) (bool, bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// ParseComparison parses "<N" or ">N". Whitespace anywhere is ignored.
func ParseComparison(s string) (Comparison, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if len(compact) < 2 {
		return Comparison{}, fmt.Errorf("%w: %q", ErrInvalidComparison, s)
	}

	var op Op
	switch compact[0] {
	case '<':
		op = Less
	case '>':
		op = Greater
	default:
		return Comparison{}, fmt.Errorf("%w: %q must start with < or >", ErrInvalidComparison, s)
	}

	n, err := strconv.ParseFloat(compact[1:], 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return Comparison{}, fmt.Errorf("%w: %q has no numeric threshold", ErrInvalidComparison, s)
	}
	if n < 0 {
		return Comparison{}, fmt.Errorf("%w: %q has a negative threshold", ErrInvalidComparison, s)
	}

	return Comparison{Op: op, Threshold: n}, nil
}
