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

// Package storage provides the storage abstraction layer for the dish catalog.
//
// This package defines the DishRepository interface that decouples the
// catalog's storage from the recommendation logic, and the binary encoding
// used to persist dishes.
//
// # Architecture
//
//   - DishRepository: CRUD, name lookup, paging and vector similarity search
//   - MarshalDish / UnmarshalDish: mus-format encoding of core.Dish values
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo, err := badger.NewDishRepository(backend)
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//
// # Missing Values
//
// Numeric attributes are stored with an explicit presence flag, and tags are
// stored only when known, so a missing value survives a round trip as
// missing rather than turning into zero or false.
package storage
