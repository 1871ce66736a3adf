package core

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Dish IDs are derived from the dish name so re-seeding a catalog is idempotent.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NormalizeName lowercases and trims a dish name for matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DishID derives the ID of the dish with the given name.
func DishID(name string) ID {
	return IDFromContent(NormalizeName(name))
}

// Tag is a boolean dietary or culinary attribute of a dish.
// The string value is the wire name used by extraction and catalog rows.
type Tag string

const (
	TagVegetarian  Tag = "is_vegetariano"
	TagVegan       Tag = "is_vegano"
	TagKeto        Tag = "is_keto"
	TagLowCalorie  Tag = "bajo_en_calorias"
	TagDessert     Tag = "es_postre"
	TagSpoon       Tag = "de_cuchara"
	TagHighProtein Tag = "alto_proteina"
	TagLactoseFree Tag = "sin_lactosa"
	TagGourmet     Tag = "is_gourmet"
	TagDiabetic    Tag = "para_diabeticos"
	TagGlutenFree  Tag = "sin_gluten"
	TagFreezable   Tag = "congelar"
)

// Tags lists every recognized tag in canonical order.
var Tags = []Tag{
	TagVegetarian,
	TagVegan,
	TagKeto,
	TagLowCalorie,
	TagDessert,
	TagSpoon,
	TagHighProtein,
	TagLactoseFree,
	TagGourmet,
	TagDiabetic,
	TagGlutenFree,
	TagFreezable,
}

// ParseTag returns the tag with the given wire name.
func ParseTag(name string) (Tag, bool) {
	for _, t := range Tags {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// Quantity is a nullable numeric attribute. An invalid quantity is missing,
// which is never the same thing as zero.
type Quantity struct {
	Value float64
	Valid bool
}

// Known returns a valid quantity holding v.
func Known(v float64) Quantity {
	return Quantity{Value: v, Valid: true}
}

// Missing is the zero Quantity.
var Missing = Quantity{}

// OrZero returns the value, or 0 when the quantity is missing.
func (q Quantity) OrZero() float64 {
	if !q.Valid {
		return 0
	}
	return q.Value
}

// String formats the value without trailing zeros, or "" when missing.
func (q Quantity) String() string {
	if !q.Valid {
		return ""
	}
	return strconv.FormatFloat(q.Value, 'f', -1, 64)
}

// Dish is one catalog item with its nutritional and descriptive metadata.
// Dishes loaded into a candidate pool are treated as immutable.
type Dish struct {
	Id          ID
	Name        string
	Description string // Text that is embedded and shown to the answer generator
	Ingredients string
	Allergens   string // Free text; empty means unknown
	Kcal        Quantity
	Protein     Quantity     // grams
	Carbs       Quantity     // grams
	Fat         Quantity     // grams
	Weight      Quantity     // grams
	Price       Quantity     // euros
	Tags        map[Tag]bool // Absent key means the tag is unknown
	Vector      []float32
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// Tag reports the value of t and whether it is known.
func (d *Dish) Tag(t Tag) (value bool, known bool) {
	if d.Tags == nil {
		return false, false
	}
	value, known = d.Tags[t]
	return value, known
}

// SearchResult represents a dish match from vector similarity search.
type SearchResult struct {
	Dish  *Dish
	Score float32
}
