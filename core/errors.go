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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDish indicates a Dish failed validation.
	ErrInvalidDish = errors.New("invalid dish")

	// ErrEmptyName indicates the dish Name field is empty.
	ErrEmptyName = errors.New("dish name cannot be empty")

	// ErrEmptyDescription indicates the dish Description field is empty.
	ErrEmptyDescription = errors.New("dish description cannot be empty")

	// ErrNegativeQuantity indicates a numeric attribute is below zero.
	ErrNegativeQuantity = errors.New("quantity cannot be negative")

	// ErrUnknownTag indicates a tag name outside the recognized set.
	ErrUnknownTag = errors.New("unknown tag")
)
