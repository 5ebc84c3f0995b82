package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/gildedrose/internal/item"
)

// Row is one item as it stood at the end of one day.
type Row struct {
	Day      int64
	Position int
	ItemID   string
	Item     item.Item
}

const selectRows = `
	SELECT day, position, item_id, name, category, sell_in, quality
	FROM days
`

// History returns every recorded day for one item, oldest first.
// Returns an empty slice (not nil) if the item was never recorded.
func (l *Ledger) History(ctx context.Context, itemID string) ([]Row, error) {
	return l.queryRows(ctx, "history",
		selectRows+` WHERE item_id = ? ORDER BY day ASC, position ASC`, itemID)
}

// Snapshot returns every item recorded for one day in warehouse order.
func (l *Ledger) Snapshot(ctx context.Context, day int64) ([]Row, error) {
	return l.queryRows(ctx, "snapshot",
		selectRows+` WHERE day = ? ORDER BY position ASC`, day)
}

// All returns every recorded row ordered by day, then position.
func (l *Ledger) All(ctx context.Context) ([]Row, error) {
	return l.queryRows(ctx, "all rows",
		selectRows+` ORDER BY day ASC, position ASC`)
}

// At returns one item on one day.
// Returns sql.ErrNoRows if it was not recorded.
func (l *Ledger) At(ctx context.Context, itemID string, day int64) (Row, error) {
	row := l.db.QueryRowContext(ctx,
		selectRows+` WHERE item_id = ? AND day = ?`, itemID, day)
	return scanRow(row)
}

// LastDay returns the highest recorded day.
// ok is false when the ledger is empty.
func (l *Ledger) LastDay(ctx context.Context) (day int64, ok bool, err error) {
	var last sql.NullInt64
	if err := l.db.QueryRowContext(ctx, `SELECT MAX(day) FROM days`).Scan(&last); err != nil {
		return 0, false, fmt.Errorf("last day: %w", err)
	}
	return last.Int64, last.Valid, nil
}

func (l *Ledger) queryRows(ctx context.Context, what, query string, args ...any) ([]Row, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return out, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (Row, error) {
	var (
		r        Row
		category string
	)
	err := s.Scan(&r.Day, &r.Position, &r.ItemID, &r.Item.Name, &category, &r.Item.SellIn, &r.Item.Quality)
	if err == sql.ErrNoRows {
		return Row{}, err
	}
	if err != nil {
		return Row{}, fmt.Errorf("scan row: %w", err)
	}

	r.Item.Category, err = item.ParseCategory(category)
	if err != nil {
		return Row{}, fmt.Errorf("scan row %s day %d: %w", r.ItemID, r.Day, err)
	}
	return r, nil
}
