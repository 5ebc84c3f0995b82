package store

import (
	"log/slog"

	"github.com/roach88/gildedrose/internal/engine"
	"github.com/roach88/gildedrose/internal/item"
)

// Entry is one stock line as held by the warehouse.
type Entry struct {
	ID   string
	Item item.Item
}

// Warehouse is the in-memory collection of stock lines.
type Warehouse struct {
	entries []Entry
	index   map[string]int
	clock   *engine.Clock
	ids     engine.IDGenerator
}

var shared = newWarehouse(engine.UUIDv7Generator{})

// Shared returns the process-wide warehouse.
func Shared() *Warehouse {
	return shared
}

func newWarehouse(ids engine.IDGenerator) *Warehouse {
	return &Warehouse{
		index: make(map[string]int),
		clock: engine.NewClock(),
		ids:   ids,
	}
}

// SetIDGenerator replaces the generator used for new entries.
// A nil generator restores UUIDv7 IDs.
func (w *Warehouse) SetIDGenerator(ids engine.IDGenerator) {
	if ids == nil {
		ids = engine.UUIDv7Generator{}
	}
	w.ids = ids
}

// Add appends an item and returns its entry ID.
// Items are accepted as-is: no dedup and no validation. An item without a
// category is classified by name.
func (w *Warehouse) Add(it item.Item) string {
	it = it.Classified()
	id := w.ids.Generate()
	w.index[id] = len(w.entries)
	w.entries = append(w.entries, Entry{ID: id, Item: it})

	slog.Debug("item added",
		"id", id,
		"name", it.Name,
		"category", it.Category.String(),
		"sell_in", it.SellIn,
		"quality", it.Quality,
	)
	return id
}

// Count returns the number of items currently held.
func (w *Warehouse) Count() int {
	return len(w.entries)
}

// Clear removes every item and rewinds the day counter.
func (w *Warehouse) Clear() {
	w.entries = nil
	w.index = make(map[string]int)
	w.clock.Reset()
}

// StartAt positions the day counter so the next tick reaches day+1.
// Clear still rewinds to day 0.
func (w *Warehouse) StartAt(day int64) {
	w.clock = engine.NewClockAt(day)
}

// TickAll advances every held item by one day.
// Results replace the held entries in place; order is unchanged.
func (w *Warehouse) TickAll() {
	items := make([]item.Item, len(w.entries))
	for i, e := range w.entries {
		items[i] = e.Item
	}

	engine.Tick(items)

	for i := range w.entries {
		w.entries[i].Item = items[i]
	}
	day := w.clock.Advance()

	slog.Debug("day advanced", "day", day, "items", len(w.entries))
}

// Day returns the number of ticks since the warehouse was last cleared.
func (w *Warehouse) Day() int64 {
	return w.clock.Current()
}

// Items returns a copy of the held entries in insertion order.
func (w *Warehouse) Items() []Entry {
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Get returns the entry with the given ID.
func (w *Warehouse) Get(id string) (Entry, bool) {
	i, ok := w.index[id]
	if !ok {
		return Entry{}, false
	}
	return w.entries[i], true
}
