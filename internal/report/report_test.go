package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gildedrose/internal/item"
	"github.com/roach88/gildedrose/internal/store"
)

var fixture = []item.Item{
	item.New("+5 Dexterity Vest", 10, 20),
	item.New("Aged Brie", 2, 0),
	item.New("Elixir of the Mongoose", 5, 7),
	item.New("Sulfuras, Hand of Ragnaros", 0, 80),
	item.New("Sulfuras, Hand of Ragnaros", -1, 80),
	item.New("Backstage passes", 15, 20),
	item.New("Backstage passes", 10, 49),
	item.New("Backstage passes", 5, 49),
	item.New("Conjured Mana Cake", 3, 6),
}

// stocked clears the shared warehouse and fills it with items.
func stocked(t *testing.T, items ...item.Item) *store.Warehouse {
	t.Helper()
	wh := store.Shared()
	wh.Clear()
	t.Cleanup(wh.Clear)
	for _, it := range items {
		wh.Add(it)
	}
	return wh
}

func TestSimulate_TextTestFixture(t *testing.T) {
	wh := stocked(t, fixture...)

	var buf bytes.Buffer
	require.NoError(t, Simulate(context.Background(), &buf, wh, 30))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "texttest_fixture", buf.Bytes())
}

func TestWriteDay(t *testing.T) {
	var buf bytes.Buffer
	entries := []store.Entry{
		{ID: "a", Item: item.New("Aged Brie", 2, 0)},
		{ID: "b", Item: item.New("Conjured Mana Cake", -1, 0)},
	}

	require.NoError(t, WriteDay(&buf, 4, entries))

	want := "-------- day 4 --------\n" +
		"name, sellIn, quality\n" +
		"Aged Brie, 2, 0\n" +
		"Conjured Mana Cake, -1, 0\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteDay_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteDay(&buf, 0, nil))
	assert.Equal(t, "-------- day 0 --------\nname, sellIn, quality\n\n", buf.String())
}

func TestSimulate_ObserversSeeEveryDay(t *testing.T) {
	wh := stocked(t, item.New("apple", 2, 5))

	var days []int64
	var qualities []int
	observe := func(_ context.Context, day int64, entries []store.Entry) error {
		days = append(days, day)
		qualities = append(qualities, entries[0].Item.Quality)
		return nil
	}

	var buf bytes.Buffer
	require.NoError(t, Simulate(context.Background(), &buf, wh, 3, observe))

	assert.Equal(t, []int64{0, 1, 2, 3}, days)
	assert.Equal(t, []int{5, 4, 3, 1}, qualities)
}

func TestSimulate_ZeroDays(t *testing.T) {
	wh := stocked(t, item.New("apple", 2, 5))

	var buf bytes.Buffer
	require.NoError(t, Simulate(context.Background(), &buf, wh, 0))

	assert.Equal(t, int64(0), wh.Day())
	assert.Contains(t, buf.String(), "apple, 2, 5")
}

func TestSimulate_NegativeDays(t *testing.T) {
	wh := stocked(t)

	err := Simulate(context.Background(), &bytes.Buffer{}, wh, -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestSimulate_ObserverErrorStops(t *testing.T) {
	wh := stocked(t, item.New("apple", 2, 5))
	boom := errors.New("boom")

	err := Simulate(context.Background(), &bytes.Buffer{}, wh, 5, func(_ context.Context, day int64, _ []store.Entry) error {
		if day == 2 {
			return boom
		}
		return nil
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, int64(2), wh.Day())
}

func TestSimulate_Cancelled(t *testing.T) {
	wh := stocked(t, item.New("apple", 2, 5))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Simulate(ctx, &bytes.Buffer{}, wh, 5)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), wh.Day())
}
