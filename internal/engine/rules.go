package engine

import (
	"math"

	"github.com/roach88/gildedrose/internal/item"
)

// baseRate is the per-day quality change before the sell-by date passes.
// Categories missing from the table (Legendary, BackstagePasses) have their
// own rules in Next.
var baseRate = map[item.Category]int{
	item.Regular:  -1,
	item.AgedBrie: +1,
	item.Conjured: -2,
}

// Backstage pass thresholds on the pre-decrement SellIn.
const (
	passesDoubleAt = 10
	passesTripleAt = 5
)

// Next returns the item as it stands after one more day.
// An unclassified item is classified by name first.
func Next(it item.Item) item.Item {
	it = it.Classified()
	switch it.Category {
	case item.Legendary:
		return it
	case item.BackstagePasses:
		it.Quality = passesQuality(it.SellIn, it.Quality)
	default:
		rate, ok := baseRate[it.Category]
		if !ok {
			rate = baseRate[item.Regular]
		}
		it.Quality = clamp(clamp(it.Quality) + drift(rate, it.SellIn))
	}
	if it.SellIn > math.MinInt {
		it.SellIn--
	}
	return it
}

// Tick advances every item by one day in place.
func Tick(items []item.Item) {
	for i := range items {
		items[i] = Next(items[i])
	}
}

// drift doubles rate once the sell-by date has been reached.
func drift(rate, sellIn int) int {
	if sellIn <= 0 {
		return 2 * rate
	}
	return rate
}

// passesQuality climbs faster as the concert nears and collapses to zero
// once it has passed.
func passesQuality(sellIn, quality int) int {
	quality = clamp(quality)
	switch {
	case sellIn <= 0:
		return 0
	case sellIn <= passesTripleAt:
		return clamp(quality + 3)
	case sellIn <= passesDoubleAt:
		return clamp(quality + 2)
	default:
		return clamp(quality + 1)
	}
}

// clamp is applied to the incoming quality as well as the result, so the
// addition in between never overflows.
func clamp(quality int) int {
	return min(max(quality, item.MinQuality), item.MaxQuality)
}
