package core

import (
	"errors"
	"math"
	"testing"
)

func TestValidateDish(t *testing.T) {
	tests := []struct {
		name    string
		dish    *Dish
		wantErr error
	}{
		{
			name: "valid dish",
			dish: &Dish{
				Id:          1,
				Name:        "Lentejas",
				Description: "Lentejas estofadas con verduras",
				Kcal:        Known(120),
				Tags:        map[Tag]bool{TagVegan: true},
			},
			wantErr: nil,
		},
		{
			name: "valid dish with every attribute missing",
			dish: &Dish{
				Name:        "Misterio",
				Description: "Plato sin datos",
			},
			wantErr: nil,
		},
		{
			name: "valid dish with zero quantities",
			dish: &Dish{
				Name:        "Agua",
				Description: "Agua mineral",
				Kcal:        Known(0),
				Price:       Known(0),
			},
			wantErr: nil,
		},
		{
			name:    "nil dish",
			dish:    nil,
			wantErr: ErrInvalidDish,
		},
		{
			name: "empty name",
			dish: &Dish{
				Description: "Sin nombre",
			},
			wantErr: ErrEmptyName,
		},
		{
			name: "empty description",
			dish: &Dish{
				Name: "Gazpacho",
			},
			wantErr: ErrEmptyDescription,
		},
		{
			name: "negative kcal",
			dish: &Dish{
				Name:        "Raro",
				Description: "Plato raro",
				Kcal:        Known(-5),
			},
			wantErr: ErrNegativeQuantity,
		},
		{
			name: "NaN price",
			dish: &Dish{
				Name:        "Raro",
				Description: "Plato raro",
				Price:       Known(math.NaN()),
			},
			wantErr: ErrNegativeQuantity,
		},
		{
			name: "unknown tag",
			dish: &Dish{
				Name:        "Raro",
				Description: "Plato raro",
				Tags:        map[Tag]bool{Tag("is_paleo"): true},
			},
			wantErr: ErrUnknownTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDish(tt.dish)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDish() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateDish() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDish() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidDish) {
				t.Errorf("ValidateDish() error = %v should wrap ErrInvalidDish", err)
			}
		})
	}
}

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name    string
		q       Quantity
		wantErr bool
	}{
		{"missing", Missing, false},
		{"zero", Known(0), false},
		{"positive", Known(450.5), false},
		{"negative", Known(-0.1), true},
		{"infinite", Known(math.Inf(1)), true},
		{"invalid negative ignored", Quantity{Value: -3, Valid: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuantity(tt.q)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuantity(%+v) error = %v, wantErr %v", tt.q, err, tt.wantErr)
			}
		})
	}
}
