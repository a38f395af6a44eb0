package deck

import "fmt"

// Category is one of the fixed buckets a decklist entry lives in.
type Category string

const (
	Lands         Category = "lands"
	Creatures     Category = "creatures"
	Spells        Category = "spells"
	Artifacts     Category = "artifacts"
	Enchantments  Category = "enchantments"
	Planeswalkers Category = "planeswalkers"
	Other         Category = "other"
	Sideboard     Category = "sideboard"
)

// Categories is the canonical render order. Lands come first.
var Categories = []Category{
	Lands,
	Creatures,
	Spells,
	Artifacts,
	Enchantments,
	Planeswalkers,
	Other,
	Sideboard,
}

var labels = map[Category]string{
	Lands:         "Lands",
	Creatures:     "Creatures",
	Spells:        "Instants & Sorceries",
	Artifacts:     "Artifacts",
	Enchantments:  "Enchantments",
	Planeswalkers: "Planeswalkers",
	Other:         "Other",
	Sideboard:     "Sideboard",
}

// Label returns the display label for c, or the raw key for unknown categories.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is one of the eight known categories.
func (c Category) Valid() bool {
	_, ok := labels[c]
	return ok
}

// ParseCategory converts a payload key into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}
