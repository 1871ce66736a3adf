package storage

import (
	"context"

	"github.com/poiesic/tupper/core"
)

// DishRepository provides operations for managing catalog dishes.
// Implementations must be thread-safe and support concurrent access.
type DishRepository interface {
	// AddDishes adds or replaces one or more dishes.
	// For dishes with ID=0, derives the ID from the dish name.
	// Sets InsertedAt (and UpdatedAt) timestamps.
	// Returns the dishes with IDs and timestamps populated.
	AddDishes(ctx context.Context, dishes ...*core.Dish) ([]*core.Dish, error)

	// UpdateDishes updates existing dishes.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any dish doesn't exist.
	UpdateDishes(ctx context.Context, dishes ...*core.Dish) ([]*core.Dish, error)

	// DeleteDishes removes dishes by their IDs, including their name index entries.
	// Returns ErrNotFound if any dish doesn't exist.
	DeleteDishes(ctx context.Context, ids ...core.ID) error

	// GetDish retrieves a single dish by ID.
	// Returns ErrNotFound if the dish doesn't exist.
	GetDish(ctx context.Context, id core.ID) (*core.Dish, error)

	// GetDishes retrieves multiple dishes by their IDs.
	// Returns only the dishes that exist (no error for missing dishes).
	GetDishes(ctx context.Context, ids ...core.ID) ([]*core.Dish, error)

	// FindDishByName looks a dish up through the name index.
	// Returns ErrNotFound if no dish has that name.
	FindDishByName(ctx context.Context, name string) (*core.Dish, error)

	// ListDishes returns up to limit dishes ordered by ID, starting after
	// the given ID. Pass 0 to start from the beginning.
	ListDishes(ctx context.Context, after core.ID, limit int) ([]*core.Dish, error)

	// CountDishes returns the number of stored dishes.
	CountDishes(ctx context.Context) (int, error)

	// FindSimilar finds dishes similar to the given vector.
	// Returns dishes with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// Close releases repository resources.
	Close() error
}
