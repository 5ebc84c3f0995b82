package harness

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/gildedrose/internal/item"
	"github.com/roach88/gildedrose/internal/ledger"
	"github.com/roach88/gildedrose/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes the item's recorded history to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	History  []ledger.Row // Recorded rows for the item, if any
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.History) > 0 {
		fmt.Fprintf(&buf, "\nHistory:\n")
		for _, row := range e.History {
			fmt.Fprintf(&buf, "  [day %d] %s\n", row.Day, row.Item)
		}
	}

	return buf.String()
}

// AssertionContext provides what assertions need to inspect a finished run.
type AssertionContext struct {
	Ledger    *ledger.Ledger
	Warehouse *store.Warehouse
	Ctx       context.Context
	Days      int64
	Report    string
}

// EvaluateAssertions checks all assertions and returns error messages.
// Returns an empty slice if all assertions pass.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertFinalState:
			err = assertStateAt(actx, assertion, actx.Days)
		case AssertStateAt:
			if assertion.Day == nil {
				err = fmt.Errorf("state_at requires day")
				break
			}
			err = assertStateAt(actx, assertion, *assertion.Day)
		case AssertQualityBounds:
			err = assertQualityBounds(actx, assertion)
		case AssertItemCount:
			err = assertItemCount(actx, assertion)
		case AssertUnchanged:
			err = assertUnchanged(actx, assertion)
		default:
			err = fmt.Errorf("unknown assertion type: %s", assertion.Type)
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %s", i, assertion.Type, err.Error()))
		}
	}

	return errs
}

// assertStateAt compares an item's recorded state on day with the expected
// fields. Only fields present in expect are compared.
func assertStateAt(actx *AssertionContext, a Assertion, day int64) error {
	row, err := actx.Ledger.At(actx.Ctx, a.Item, day)
	if errors.Is(err, sql.ErrNoRows) {
		history, _ := actx.Ledger.History(actx.Ctx, a.Item)
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("item %s recorded on day %d", a.Item, day),
			Actual:   "no record",
			History:  history,
		}
	}
	if err != nil {
		return fmt.Errorf("failed to read item %s on day %d: %w", a.Item, day, err)
	}

	if a.Expect == nil {
		return nil
	}

	var mismatches []string
	if a.Expect.SellIn != nil && *a.Expect.SellIn != row.Item.SellIn {
		mismatches = append(mismatches, fmt.Sprintf("sell_in=%d (want %d)", row.Item.SellIn, *a.Expect.SellIn))
	}
	if a.Expect.Quality != nil && *a.Expect.Quality != row.Item.Quality {
		mismatches = append(mismatches, fmt.Sprintf("quality=%d (want %d)", row.Item.Quality, *a.Expect.Quality))
	}
	if len(mismatches) == 0 {
		return nil
	}

	history, _ := actx.Ledger.History(actx.Ctx, a.Item)
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("item %s on day %d: %s", a.Item, day, a.Expect),
		Actual:   strings.Join(mismatches, ", "),
		History:  history,
	}
}

// assertQualityBounds checks that every non-legendary quality recorded
// after day 0 lies in [MinQuality, MaxQuality]. Day 0 is the stock as
// added, which is not validated. With item set, only that item is checked.
func assertQualityBounds(actx *AssertionContext, a Assertion) error {
	var (
		rows []ledger.Row
		err  error
	)
	if a.Item != "" {
		rows, err = actx.Ledger.History(actx.Ctx, a.Item)
	} else {
		rows, err = actx.Ledger.All(actx.Ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	for _, row := range rows {
		if row.Day == 0 || row.Item.Category == item.Legendary {
			continue
		}
		if row.Item.Quality < item.MinQuality || row.Item.Quality > item.MaxQuality {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("quality within [%d, %d]", item.MinQuality, item.MaxQuality),
				Actual:   fmt.Sprintf("item %s on day %d has quality %d", row.ItemID, row.Day, row.Item.Quality),
			}
		}
	}
	return nil
}

// assertItemCount checks the number of items held by the warehouse.
func assertItemCount(actx *AssertionContext, a Assertion) error {
	if a.Count == nil {
		return fmt.Errorf("item_count requires count")
	}
	got := actx.Warehouse.Count()
	if got != *a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d items", *a.Count),
			Actual:   fmt.Sprintf("%d items", got),
		}
	}
	return nil
}

// assertUnchanged checks that an item was recorded identically every day.
func assertUnchanged(actx *AssertionContext, a Assertion) error {
	history, err := actx.Ledger.History(actx.Ctx, a.Item)
	if err != nil {
		return fmt.Errorf("failed to read item %s: %w", a.Item, err)
	}
	if len(history) == 0 {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("item %s recorded", a.Item),
			Actual:   "no record",
		}
	}

	first := history[0].Item
	for _, row := range history[1:] {
		if row.Item.SellIn != first.SellIn || row.Item.Quality != first.Quality {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("item %s stays at %s", a.Item, first),
				Actual:   fmt.Sprintf("day %d shows %s", row.Day, row.Item),
				History:  history,
			}
		}
	}
	return nil
}

// String renders the expected fields, e.g. "sell_in=9 quality=9".
func (s *State) String() string {
	if s == nil {
		return "(any)"
	}
	var parts []string
	if s.SellIn != nil {
		parts = append(parts, fmt.Sprintf("sell_in=%d", *s.SellIn))
	}
	if s.Quality != nil {
		parts = append(parts, fmt.Sprintf("quality=%d", *s.Quality))
	}
	if len(parts) == 0 {
		return "(any)"
	}
	return strings.Join(parts, " ")
}
