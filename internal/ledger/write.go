package ledger

import (
	"context"
	"fmt"

	"github.com/roach88/gildedrose/internal/store"
)

// RecordDay writes one row per entry for the given day.
// Returns how many rows were newly inserted; rows already present for
// (day, item_id) are left as they were.
func (l *Ledger) RecordDay(ctx context.Context, day int64, entries []store.Entry) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("record day %d: begin tx: %w", day, err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO days
		(day, position, item_id, name, category, sell_in, quality)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(day, item_id) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("record day %d: prepare: %w", day, err)
	}
	defer stmt.Close()

	var inserted int64
	for pos, e := range entries {
		res, err := stmt.ExecContext(ctx,
			day,
			pos,
			e.ID,
			e.Item.Name,
			e.Item.Classified().Category.String(),
			e.Item.SellIn,
			e.Item.Quality,
		)
		if err != nil {
			return 0, fmt.Errorf("record day %d: item %s: %w", day, e.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("record day %d: rows affected: %w", day, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("record day %d: commit: %w", day, err)
	}
	return inserted, nil
}
