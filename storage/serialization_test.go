package storage

import (
	"math"
	"testing"
	"time"

	"github.com/poiesic/tupper/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(math.MaxUint64)},
		{"content-based ID", core.IDFromContent("Lentejas estofadas")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalDish(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		dish *core.Dish
	}{
		{
			name: "minimal dish",
			dish: &core.Dish{
				Id:          1,
				Name:        "Crema de calabaza",
				Description: "Crema suave de calabaza asada",
			},
		},
		{
			name: "full dish",
			dish: &core.Dish{
				Id:          core.IDFromContent("Pollo al curry"),
				Name:        "Pollo al curry",
				Description: "Pollo en salsa de curry suave con arroz basmati",
				Ingredients: "pollo, arroz, leche de coco, curry",
				Allergens:   "mostaza",
				Kcal:        core.Known(520),
				Protein:     core.Known(34.5),
				Carbs:       core.Known(48),
				Fat:         core.Known(18.25),
				Weight:      core.Known(400),
				Price:       core.Known(6.9),
				Tags: map[core.Tag]bool{
					core.TagHighProtein: true,
					core.TagVegetarian:  false,
					core.TagFreezable:   true,
				},
				Vector:     []float32{0.1, -0.2, 0.3, 0.4},
				InsertedAt: now,
				UpdatedAt:  now.Add(time.Hour),
			},
		},
		{
			name: "zero values are not missing",
			dish: &core.Dish{
				Id:          7,
				Name:        "Agua con limón",
				Description: "Bebida",
				Kcal:        core.Known(0),
				Price:       core.Known(0),
				Tags:        map[core.Tag]bool{core.TagDessert: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalDish(tt.dish)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalDish(data)
			require.NoError(t, err)
			assert.Equal(t, tt.dish, decoded)
		})
	}
}

func TestUnmarshalDish_MissingStaysMissing(t *testing.T) {
	dish := &core.Dish{Id: 3, Name: "Ensalada", Description: "Verde"}

	decoded, err := UnmarshalDish(MarshalDish(dish))
	require.NoError(t, err)

	assert.False(t, decoded.Kcal.Valid)
	assert.False(t, decoded.Protein.Valid)
	_, known := decoded.Tag(core.TagVegan)
	assert.False(t, known)
}

func TestUnmarshalDish_Invalid(t *testing.T) {
	valid := MarshalDish(&core.Dish{
		Id:          9,
		Name:        "Gazpacho",
		Description: "Sopa fría de tomate",
		Vector:      []float32{1, 2, 3},
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", valid[:len(valid)/2]},
		{"unknown version", append([]byte{99}, valid[1:]...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalDish(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}
