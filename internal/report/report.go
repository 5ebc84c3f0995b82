// Package report renders the warehouse as a plain-text day-by-day table.
//
// The layout is stable so runs can be compared byte for byte:
//
//	-------- day 0 --------
//	name, sellIn, quality
//	Aged Brie, 2, 0
//
// Each day block ends with a blank line.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/gildedrose/internal/store"
)

// DayFunc observes the warehouse at the end of a day.
// Day 0 is observed before the first tick.
type DayFunc func(ctx context.Context, day int64, entries []store.Entry) error

// WriteDay renders one day block.
func WriteDay(w io.Writer, day int64, entries []store.Entry) error {
	if _, err := fmt.Fprintf(w, "-------- day %d --------\n", day); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "name, sellIn, quality"); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.Item.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// Simulate writes the current day, then ticks the warehouse days times,
// writing a block after each tick. Every observer sees each day, including
// the starting one, before the next tick happens.
func Simulate(ctx context.Context, w io.Writer, wh *store.Warehouse, days int, observers ...DayFunc) error {
	if days < 0 {
		return fmt.Errorf("days must be non-negative, got %d", days)
	}

	emit := func() error {
		day, entries := wh.Day(), wh.Items()
		if err := WriteDay(w, day, entries); err != nil {
			return fmt.Errorf("write day %d: %w", day, err)
		}
		for _, observe := range observers {
			if err := observe(ctx, day, entries); err != nil {
				return fmt.Errorf("observe day %d: %w", day, err)
			}
		}
		return nil
	}

	if err := emit(); err != nil {
		return err
	}
	for i := 0; i < days; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		wh.TickAll()
		if err := emit(); err != nil {
			return err
		}
	}

	slog.Debug("simulation finished", "days", days, "items", wh.Count())
	return nil
}
