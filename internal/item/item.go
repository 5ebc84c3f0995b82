package item

import (
	"fmt"
	"strings"
)

// Names of the specially handled items.
const (
	NameLegendary       = "Sulfuras, Hand of Ragnaros"
	NameAgedBrie        = "Aged Brie"
	NameBackstagePasses = "Backstage passes"
	ConjuredMarker      = "Conjured"
)

// Quality bounds enforced on every non-legendary item after a tick.
const (
	MinQuality = 0
	MaxQuality = 50
)

// Category is the closed set of update policies.
// The zero value is Unclassified, so an Item written as a struct literal
// is never mistaken for a Regular one.
type Category int

const (
	Unclassified Category = iota
	Regular
	Legendary
	AgedBrie
	BackstagePasses
	Conjured
)

var categoryNames = [...]string{
	Unclassified:    "unclassified",
	Regular:         "regular",
	Legendary:       "legendary",
	AgedBrie:        "aged_brie",
	BackstagePasses: "backstage_passes",
	Conjured:        "conjured",
}

// String returns the snake_case category name used in logs and the ledger.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory is the inverse of Category.String. It only accepts the
// five update policies.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s && Category(i) != Unclassified {
			return Category(i), nil
		}
	}
	return Unclassified, fmt.Errorf("unknown category %q", s)
}

// Classify maps an item name to its category.
// The three named items match exactly and case-sensitively; any name that
// contains ConjuredMarker is Conjured. Everything else, "" included, is Regular.
func Classify(name string) Category {
	switch name {
	case NameLegendary:
		return Legendary
	case NameAgedBrie:
		return AgedBrie
	case NameBackstagePasses:
		return BackstagePasses
	}
	if strings.Contains(name, ConjuredMarker) {
		return Conjured
	}
	return Regular
}

// Item is a single stock line.
//
// Quality is not validated here: an out-of-range value is kept as given until
// the next tick clamps it.
type Item struct {
	Name     string
	SellIn   int
	Quality  int
	Category Category
}

// New builds an item and classifies it by name.
func New(name string, sellIn, quality int) Item {
	return Item{
		Name:     name,
		SellIn:   sellIn,
		Quality:  quality,
		Category: Classify(name),
	}
}

// Classified returns i with its Category filled in from the name when the
// item was built without one. An explicit Category is left alone.
func (i Item) Classified() Item {
	if i.Category == Unclassified {
		i.Category = Classify(i.Name)
	}
	return i
}

// String renders the item the way the day report prints it.
func (i Item) String() string {
	return fmt.Sprintf("%s, %d, %d", i.Name, i.SellIn, i.Quality)
}
