package reembed

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/storage"
	"github.com/poiesic/tupper/storage/badger"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) storage.DishRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func addTestDishes(t *testing.T, repo storage.DishRepository, n int) []*core.Dish {
	t.Helper()
	dishes := make([]*core.Dish, n)
	for i := range dishes {
		dishes[i] = &core.Dish{
			Name:        fmt.Sprintf("Plato %d", i),
			Description: fmt.Sprintf("Descripción del plato %d", i),
			Vector:      []float32{1, 0},
		}
	}
	added, err := repo.AddDishes(context.Background(), dishes...)
	require.NoError(t, err)
	require.Len(t, added, n)
	return added
}

func magnitude(v []float32) float32 {
	var m float32
	for _, x := range v {
		m += x * x
	}
	return m
}
