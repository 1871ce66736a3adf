package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/tupper/core"
)

var numberPattern = regexp.MustCompile(`[-+]?\d*\.\d+|[-+]?\d+`)

// Number is a leniently decoded catalog quantity. It accepts JSON numbers,
// null, and strings holding a number with an optional decimal comma and
// surrounding text such as units ("450 g", "6,90 €").
type Number core.Quantity

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number(core.Missing)
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		match := numberPattern.FindString(strings.ReplaceAll(s, ",", "."))
		if match == "" {
			*n = Number(core.Missing)
			return nil
		}
		data = []byte(match)
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("%w: quantity %s", ErrInvalidRow, data)
	}
	*n = Number(core.Known(v))
	return nil
}

// Row is one cleaned catalog entry.
type Row struct {
	Name        string  `json:"nombre_plato"`
	Description string  `json:"descripcion,omitempty"`
	Ingredients string  `json:"ingredientes"`
	Allergens   *string `json:"alergenos"`
	Price       Number  `json:"precio"`
	Kcal        Number  `json:"kcal"`
	Protein     Number  `json:"proteinas"`
	Carbs       Number  `json:"hidratos"`
	Fat         Number  `json:"grasas"`
	Weight      Number  `json:"peso"`

	// Tags holds the tag fields present in the row. Unknown keys and null
	// values are ignored.
	Tags map[core.Tag]bool `json:"-"`
}

type rowFields Row

// UnmarshalJSON decodes the fixed fields and any recognized boolean tag.
func (r *Row) UnmarshalJSON(data []byte) error {
	var fields rowFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Row(fields)
	for key, value := range raw {
		tag, ok := core.ParseTag(key)
		if !ok {
			continue
		}
		var b *bool
		if err := json.Unmarshal(value, &b); err != nil {
			return fmt.Errorf("%w: tag %s: %w", ErrInvalidRow, key, err)
		}
		if b == nil {
			continue
		}
		if r.Tags == nil {
			r.Tags = make(map[core.Tag]bool)
		}
		r.Tags[tag] = *b
	}
	return nil
}

// Dish converts the row. Without a description one is composed from the
// name and ingredients, since the description is the embedded text.
func (r Row) Dish() *core.Dish {
	name := strings.TrimSpace(r.Name)
	ingredients := strings.TrimSpace(r.Ingredients)

	description := strings.TrimSpace(r.Description)
	if description == "" && name != "" {
		description = name
		if ingredients != "" {
			description = name + ". Ingredientes: " + ingredients
		}
	}

	d := &core.Dish{
		Name:        name,
		Description: description,
		Ingredients: ingredients,
		Kcal:        core.Quantity(r.Kcal),
		Protein:     core.Quantity(r.Protein),
		Carbs:       core.Quantity(r.Carbs),
		Fat:         core.Quantity(r.Fat),
		Weight:      core.Quantity(r.Weight),
		Price:       core.Quantity(r.Price),
	}
	if r.Allergens != nil {
		d.Allergens = strings.TrimSpace(*r.Allergens)
	}
	if len(r.Tags) > 0 {
		d.Tags = make(map[core.Tag]bool, len(r.Tags))
		for t, v := range r.Tags {
			d.Tags[t] = v
		}
	}
	return d
}

// ReadRows decodes a JSON array of rows.
func ReadRows(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}
	return rows, nil
}
