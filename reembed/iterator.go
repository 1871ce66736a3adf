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

package reembed

import (
	"context"

	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/storage"
)

const (
	// DefaultBatchSize is the default number of dishes to fetch in each page
	DefaultBatchSize = 100
)

// DishIterator pages over all dishes in ID order.
type DishIterator struct {
	repo      storage.DishRepository
	batchSize int
}

// NewDishIterator creates a new dish iterator.
// batchSize: number of dishes to fetch per page (defaults when <= 0)
func NewDishIterator(repo storage.DishRepository, batchSize int) *DishIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &DishIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn with each page of dishes.
// Iteration stops on the first error from fn or when all dishes are seen.
// Context cancellation is checked between pages.
func (it *DishIterator) ForEach(ctx context.Context, fn func([]*core.Dish) error) error {
	var after core.ID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := it.repo.ListDishes(ctx, after, it.batchSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		after = page[len(page)-1].Id
		if err := fn(page); err != nil {
			return err
		}

		if len(page) < it.batchSize {
			return nil
		}
	}
}
