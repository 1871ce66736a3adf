package tagging

import (
	"testing"

	"github.com/poiesic/tupper/core"
	"github.com/stretchr/testify/assert"
)

func TestApply_Heuristics(t *testing.T) {
	tests := []struct {
		name     string
		dish     core.Dish
		expected map[core.Tag]bool
	}{
		{
			name: "chicken stew",
			dish: core.Dish{
				Name:        "Guiso de pollo",
				Ingredients: "Pollo, patata, zanahoria, harina de trigo",
				Kcal:        core.Known(150),
				Carbs:       core.Known(12),
				Protein:     core.Known(18),
			},
			expected: map[core.Tag]bool{
				core.TagVegetarian:  false,
				core.TagVegan:       false,
				core.TagKeto:        false,
				core.TagLowCalorie:  false,
				core.TagDessert:     false,
				core.TagSpoon:       true,
				core.TagHighProtein: true,
				core.TagLactoseFree: true,
				core.TagGlutenFree:  false,
				core.TagFreezable:   false,
			},
		},
		{
			name: "vegetable cream",
			dish: core.Dish{
				Name:        "Crema de calabacín",
				Ingredients: "calabacín, cebolla, aceite de oliva",
				Kcal:        core.Known(60),
				Carbs:       core.Known(4),
				Protein:     core.Known(2),
			},
			expected: map[core.Tag]bool{
				core.TagVegetarian:  true,
				core.TagVegan:       true,
				core.TagKeto:        false,
				core.TagLowCalorie:  true,
				core.TagDessert:     false,
				core.TagSpoon:       true,
				core.TagHighProtein: false,
				core.TagLactoseFree: true,
				core.TagGlutenFree:  true,
				core.TagFreezable:   true,
			},
		},
		{
			name: "cheese omelette",
			dish: core.Dish{
				Name:        "Tortilla con queso",
				Ingredients: "Huevo, QUESO curado",
				Kcal:        core.Known(210),
				Carbs:       core.Known(1),
				Protein:     core.Known(14),
			},
			expected: map[core.Tag]bool{
				core.TagVegetarian:  true,
				core.TagVegan:       false,
				core.TagKeto:        true,
				core.TagLowCalorie:  false,
				core.TagDessert:     false,
				core.TagSpoon:       false,
				core.TagHighProtein: true,
				core.TagLactoseFree: false,
				core.TagGlutenFree:  true,
				core.TagFreezable:   false,
			},
		},
		{
			name: "dessert by name",
			dish: core.Dish{
				Name:        "Bizcocho de limón",
				Ingredients: "limón, aceite",
			},
			expected: map[core.Tag]bool{
				core.TagVegetarian:  true,
				core.TagVegan:       true,
				core.TagDessert:     true,
				core.TagSpoon:       false,
				core.TagLactoseFree: true,
				core.TagGlutenFree:  true,
				core.TagFreezable:   true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.dish
			n := Apply(&d)
			assert.Equal(t, tt.expected, d.Tags)
			assert.Equal(t, len(tt.expected), n)
		})
	}
}

func TestApply_MissingQuantitiesStayUnknown(t *testing.T) {
	d := &core.Dish{Name: "Ensalada", Ingredients: "lechuga"}
	Apply(d)

	for _, tag := range []core.Tag{core.TagKeto, core.TagLowCalorie, core.TagHighProtein, core.TagGourmet, core.TagDiabetic} {
		_, known := d.Tag(tag)
		assert.False(t, known, "tag %s", tag)
	}
}

func TestApply_NeverOverwrites(t *testing.T) {
	d := &core.Dish{
		Name:        "Lasaña de carne",
		Ingredients: "carne picada, pasta, queso",
		Protein:     core.Known(20),
		Tags: map[core.Tag]bool{
			core.TagVegetarian:  true,
			core.TagHighProtein: false,
		},
	}

	Apply(d)
	assert.True(t, d.Tags[core.TagVegetarian])
	assert.False(t, d.Tags[core.TagHighProtein])
	assert.False(t, d.Tags[core.TagVegan])
}

func TestApply_Idempotent(t *testing.T) {
	d := &core.Dish{Name: "Sopa", Ingredients: "fideos", Kcal: core.Known(90)}
	first := Apply(d)
	assert.Positive(t, first)
	assert.Zero(t, Apply(d))
}

func TestNew_CustomRules(t *testing.T) {
	gourmet := Rule{Tag: core.TagGourmet, Infer: func(d *core.Dish) (bool, bool) {
		return d.Price.Valid && d.Price.Value > 10, d.Price.Valid
	}}
	tagger := New(gourmet)

	d := &core.Dish{Name: "Carrillera", Price: core.Known(12.5)}
	assert.Equal(t, 1, tagger.Apply(d))
	assert.Equal(t, map[core.Tag]bool{core.TagGourmet: true}, d.Tags)

	assert.Zero(t, tagger.Apply(nil))
}
