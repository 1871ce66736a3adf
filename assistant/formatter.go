package assistant

import (
	"strings"

	"github.com/poiesic/tupper/core"
)

// MissingPlaceholder stands in for any unknown attribute.
const MissingPlaceholder = "Desconocido"

// FormattedItem is a dish rendered for the generation context.
type FormattedItem struct {
	Dish *core.Dish
	Text string
}

type quantityBullet struct {
	label string
	value func(d *core.Dish) core.Quantity
	unit  string
}

type tagBullet struct {
	label string
	tag   core.Tag
}

var quantityBullets = []quantityBullet{
	{"Kcal", func(d *core.Dish) core.Quantity { return d.Kcal }, ""},
	{"Proteínas", func(d *core.Dish) core.Quantity { return d.Protein }, ""},
	{"Hidratos", func(d *core.Dish) core.Quantity { return d.Carbs }, ""},
	{"Grasas", func(d *core.Dish) core.Quantity { return d.Fat }, ""},
	{"Peso", func(d *core.Dish) core.Quantity { return d.Weight }, "g"},
	{"Precio", func(d *core.Dish) core.Quantity { return d.Price }, " euros"},
}

var tagBullets = []tagBullet{
	{"Sin gluten", core.TagGlutenFree},
	{"Sin lactosa", core.TagLactoseFree},
	{"Es postre", core.TagDessert},
	{"De cuchara", core.TagSpoon},
	{"Bajo en calorías", core.TagLowCalorie},
	{"Alto en proteína", core.TagHighProtein},
	{"Vegetariano", core.TagVegetarian},
	{"Vegano", core.TagVegan},
	{"Keto", core.TagKeto},
	{"Gourmet", core.TagGourmet},
	{"Para diabéticos", core.TagDiabetic},
	{"Apto para congelar", core.TagFreezable},
}

// BulletCount is the number of attribute lines in every formatted dish.
var BulletCount = 1 + len(quantityBullets) + len(tagBullets)

// FormatDish renders the description followed by one bullet per attribute,
// always in the same order. Nothing is ever omitted: unknown values print
// MissingPlaceholder without a unit.
func FormatDish(d *core.Dish) FormattedItem {
	var b strings.Builder
	b.WriteString(d.Description)
	b.WriteString("\n\n")

	allergens := strings.TrimSpace(d.Allergens)
	if allergens == "" {
		allergens = MissingPlaceholder
	}
	b.WriteString("- Alergenos: ")
	b.WriteString(allergens)

	for _, qb := range quantityBullets {
		b.WriteString("\n- ")
		b.WriteString(qb.label)
		b.WriteString(": ")
		if q := qb.value(d); q.Valid {
			b.WriteString(q.String())
			b.WriteString(qb.unit)
		} else {
			b.WriteString(MissingPlaceholder)
		}
	}

	for _, tb := range tagBullets {
		b.WriteString("\n- ")
		b.WriteString(tb.label)
		b.WriteString(": ")
		b.WriteString(yesNo(d.Tag(tb.tag)))
	}

	return FormattedItem{Dish: d, Text: b.String()}
}

func yesNo(value, known bool) string {
	switch {
	case !known:
		return MissingPlaceholder
	case value:
		return "sí"
	default:
		return "no"
	}
}

// FormatDishes formats each dish in order.
func FormatDishes(dishes []*core.Dish) []FormattedItem {
	items := make([]FormattedItem, len(dishes))
	for i, d := range dishes {
		items[i] = FormatDish(d)
	}
	return items
}

// RenderContext joins the formatted items with a blank line between them.
func RenderContext(items []FormattedItem) string {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	return strings.Join(texts, "\n\n")
}
