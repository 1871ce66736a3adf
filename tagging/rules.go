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

package tagging

import (
	"strings"

	"github.com/poiesic/tupper/core"
)

const (
	// KetoMaxCarbs is the carbohydrate grams below which a dish can be keto.
	KetoMaxCarbs = 5.0

	// KetoMinKcal is the calorie count above which a low-carb dish is keto.
	KetoMinKcal = 100.0

	// LowCalorieMaxKcal is the calorie count below which a dish is low in calories.
	LowCalorieMaxKcal = 80.0

	// HighProteinMinGrams is the protein grams above which a dish is high in protein.
	HighProteinMinGrams = 12.0
)

var (
	meatAndFish = []string{"pollo", "carne", "cerdo", "jamón", "pescado", "marisco", "gamba", "atún"}
	animalOther = []string{"leche", "queso", "mantequilla", "huevo", "nata", "miel", "yogur"}
	dairy       = []string{"leche", "nata", "queso", "mantequilla", "yogur"}
	sweet       = []string{"azúcar", "chocolate", "vainilla", "canela", "nata", "galleta", "dulce", "bizcocho"}
	spoon       = []string{"sopa", "crema", "guiso", "estofado", "potaje"}
	gluten      = []string{"trigo", "cebada", "centeno", "espelta", "kamut", "galleta", "harina"}
	noFreeze    = []string{"patata", "pasta", "leche", "nata", "yogur", "mayonesa", "huevo", "queso"}
)

// Rule infers one tag. Infer reports ok=false when the dish lacks the data
// the rule needs.
type Rule struct {
	Tag   core.Tag
	Infer func(d *core.Dish) (value bool, ok bool)
}

// DefaultRules are the built-in heuristics. is_gourmet and para_diabeticos
// have no heuristic and stay as the catalog row gives them.
var DefaultRules = []Rule{
	{core.TagVegetarian, func(d *core.Dish) (bool, bool) {
		return !containsAny(d.Ingredients, meatAndFish), true
	}},
	{core.TagVegan, func(d *core.Dish) (bool, bool) {
		return !containsAny(d.Ingredients, meatAndFish) && !containsAny(d.Ingredients, animalOther), true
	}},
	{core.TagKeto, func(d *core.Dish) (bool, bool) {
		if !d.Kcal.Valid || !d.Carbs.Valid {
			return false, false
		}
		return d.Carbs.Value < KetoMaxCarbs && d.Kcal.Value > KetoMinKcal, true
	}},
	{core.TagLowCalorie, func(d *core.Dish) (bool, bool) {
		if !d.Kcal.Valid {
			return false, false
		}
		return d.Kcal.Value < LowCalorieMaxKcal, true
	}},
	{core.TagDessert, func(d *core.Dish) (bool, bool) {
		return containsAny(d.Ingredients, sweet) || containsAny(d.Name, sweet), true
	}},
	{core.TagSpoon, func(d *core.Dish) (bool, bool) {
		return containsAny(d.Name, spoon), true
	}},
	{core.TagHighProtein, func(d *core.Dish) (bool, bool) {
		if !d.Protein.Valid {
			return false, false
		}
		return d.Protein.Value > HighProteinMinGrams, true
	}},
	{core.TagLactoseFree, func(d *core.Dish) (bool, bool) {
		return !containsAny(d.Ingredients, dairy), true
	}},
	{core.TagGlutenFree, func(d *core.Dish) (bool, bool) {
		return !containsAny(d.Ingredients, gluten), true
	}},
	{core.TagFreezable, func(d *core.Dish) (bool, bool) {
		return !containsAny(d.Ingredients+" "+d.Name, noFreeze), true
	}},
}

func containsAny(text string, words []string) bool {
	text = strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
