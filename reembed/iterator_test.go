package reembed

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/tupper/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDishIterator_ForEach(t *testing.T) {
	tests := []struct {
		name      string
		dishes    int
		batchSize int
		pages     int
	}{
		{"empty", 0, 10, 0},
		{"single page", 5, 10, 1},
		{"exact pages", 6, 3, 2},
		{"partial page", 7, 3, 3},
		{"default size", 4, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupTestDB(t)
			addTestDishes(t, repo, tt.dishes)

			seen := map[core.ID]bool{}
			pages := 0
			var last core.ID
			err := NewDishIterator(repo, tt.batchSize).ForEach(context.Background(), func(dishes []*core.Dish) error {
				pages++
				for _, d := range dishes {
					assert.False(t, seen[d.Id], "dish %d seen twice", d.Id)
					assert.Greater(t, d.Id, last, "dishes should be in ID order")
					seen[d.Id] = true
					last = d.Id
				}
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.pages, pages)
			assert.Len(t, seen, tt.dishes)
		})
	}
}

func TestDishIterator_StopsOnError(t *testing.T) {
	repo := setupTestDB(t)
	addTestDishes(t, repo, 9)

	failure := errors.New("stop")
	calls := 0
	err := NewDishIterator(repo, 3).ForEach(context.Background(), func([]*core.Dish) error {
		calls++
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1, calls)
}

func TestDishIterator_Cancelled(t *testing.T) {
	repo := setupTestDB(t)
	addTestDishes(t, repo, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewDishIterator(repo, 1).ForEach(ctx, func([]*core.Dish) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
