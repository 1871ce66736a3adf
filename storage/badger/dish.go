package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/storage"
)

// DishRepository implements storage.DishRepository for BadgerDB.
type DishRepository struct {
	backend *Backend
}

var _ storage.DishRepository = (*DishRepository)(nil)

// NewDishRepository creates a new DishRepository.
func NewDishRepository(backend *Backend) (*DishRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &DishRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *DishRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *DishRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// storedNow is the current time at the microsecond precision the dish codec keeps.
func storedNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// AddDishes adds or replaces one or more dishes.
func (r *DishRepository) AddDishes(ctx context.Context, dishes ...*core.Dish) ([]*core.Dish, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := storedNow()
		for _, dish := range dishes {
			if dish.Id == 0 {
				dish.Id = core.DishID(dish.Name)
			}

			key := makeDishKey(dish.Id)
			old, err := readDish(tx, key)
			if err != nil {
				return err
			}

			if old != nil {
				// Replacing keeps the original insertion time
				dish.InsertedAt = old.InsertedAt
				if core.NormalizeName(old.Name) != core.NormalizeName(dish.Name) {
					if err := tx.Delete(makeDishNameKey(old.Name)); err != nil {
						return err
					}
				}
			} else {
				dish.InsertedAt = now
			}
			dish.UpdatedAt = now

			if err := writeDish(tx, dish); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return dishes, err
}

// UpdateDishes updates existing dishes.
func (r *DishRepository) UpdateDishes(ctx context.Context, dishes ...*core.Dish) ([]*core.Dish, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, dish := range dishes {
			old, err := readDish(tx, makeDishKey(dish.Id))
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if core.NormalizeName(old.Name) != core.NormalizeName(dish.Name) {
				if err := tx.Delete(makeDishNameKey(old.Name)); err != nil {
					return err
				}
			}

			dish.InsertedAt = old.InsertedAt
			dish.UpdatedAt = storedNow()
			if err := writeDish(tx, dish); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return dishes, err
}

// DeleteDishes removes dishes by their IDs.
func (r *DishRepository) DeleteDishes(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDishKey(id)
			dish, err := readDish(tx, key)
			if err != nil {
				return err
			}
			if dish == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeDishNameKey(dish.Name)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDish retrieves a single dish by ID.
func (r *DishRepository) GetDish(ctx context.Context, id core.ID) (*core.Dish, error) {
	var result *core.Dish
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDish(tx, makeDishKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetDishes retrieves multiple dishes by their IDs.
func (r *DishRepository) GetDishes(ctx context.Context, ids ...core.ID) ([]*core.Dish, error) {
	var result []*core.Dish
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			dish, err := readDish(tx, makeDishKey(id))
			if err != nil {
				return err
			}
			if dish != nil {
				result = append(result, dish)
			}
		}
		return nil
	}, false)
	return result, err
}

// FindDishByName looks a dish up through the name index.
func (r *DishRepository) FindDishByName(ctx context.Context, name string) (*core.Dish, error) {
	var result *core.Dish
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDishNameKey(name))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = readDish(tx, makeDishKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListDishes returns up to limit dishes ordered by ID, starting after the given ID.
func (r *DishRepository) ListDishes(ctx context.Context, after core.ID, limit int) ([]*core.Dish, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Dish
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(dishPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		start := makeDishKey(after)
		for iter.Seek(start); iter.Valid() && len(results) < limit; iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			id, ok := dishIDFromKey(item.Key())
			if !ok || (after != 0 && id == after) {
				continue
			}

			var dish *core.Dish
			if err := item.Value(func(val []byte) error {
				var err error
				dish, err = storage.UnmarshalDish(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, dish)
		}
		return nil
	}, false)

	return results, err
}

// CountDishes returns the number of stored dishes.
func (r *DishRepository) CountDishes(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(dishPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if _, ok := dishIDFromKey(iter.Item().Key()); ok {
				count++
			}
		}
		return nil
	}, false)
	return count, err
}

// Helper methods

// readDish reads a dish from the transaction. Returns nil, nil when absent.
func readDish(tx *badger.Txn, key []byte) (*core.Dish, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var dish *core.Dish
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		dish, unmarshalErr = storage.UnmarshalDish(val)
		return unmarshalErr
	})
	return dish, err
}

// writeDish stores the primary record and its name index entry.
func writeDish(tx *badger.Txn, dish *core.Dish) error {
	if err := tx.Set(makeDishKey(dish.Id), storage.MarshalDish(dish)); err != nil {
		return err
	}
	return tx.Set(makeDishNameKey(dish.Name), storage.MarshalID(dish.Id))
}
