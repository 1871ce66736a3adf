// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"math"
)

// ValidateDish validates a Dish according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Description must not be empty
//   - Known quantities must be finite and not negative
//   - Every tag must be a recognized tag
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the embedding step runs)
//   - ID (derived from the name when zero)
func ValidateDish(dish *Dish) error {
	if dish == nil {
		return fmt.Errorf("%w: dish is nil", ErrInvalidDish)
	}

	if dish.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDish, ErrEmptyName)
	}

	if dish.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDish, ErrEmptyDescription)
	}

	quantities := []struct {
		field string
		q     Quantity
	}{
		{"kcal", dish.Kcal},
		{"proteinas", dish.Protein},
		{"hidratos", dish.Carbs},
		{"grasas", dish.Fat},
		{"peso", dish.Weight},
		{"precio", dish.Price},
	}
	for _, f := range quantities {
		if err := ValidateQuantity(f.q); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidDish, f.field, err)
		}
	}

	for t := range dish.Tags {
		if _, ok := ParseTag(string(t)); !ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidDish, ErrUnknownTag, t)
		}
	}

	return nil
}

// ValidateQuantity checks that a known quantity is a finite, non-negative number.
// Missing quantities are always valid.
func ValidateQuantity(q Quantity) error {
	if !q.Valid {
		return nil
	}
	if math.IsNaN(q.Value) || math.IsInf(q.Value, 0) || q.Value < 0 {
		return fmt.Errorf("%w: value %v", ErrNegativeQuantity, q.Value)
	}
	return nil
}
