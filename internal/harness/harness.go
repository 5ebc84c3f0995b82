package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/gildedrose/internal/catalog"
	"github.com/roach88/gildedrose/internal/item"
	"github.com/roach88/gildedrose/internal/ledger"
	"github.com/roach88/gildedrose/internal/report"
	"github.com/roach88/gildedrose/internal/store"
	"github.com/roach88/gildedrose/internal/testutil"
)

// Harness runs one scenario against the shared warehouse.
type Harness struct {
	warehouse *store.Warehouse
	ledger    *ledger.Ledger
	logger    *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario records into a fresh in-memory ledger. The shared
// warehouse is cleared before and after the run.
//
// Execution flow:
// 1. Clear the warehouse and install scripted IDs
// 2. Stock the catalog items, then the inline items
// 3. Simulate scenario.Days days, recording every day
// 4. Evaluate assertions against the ledger
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	stock, ids, err := stockFor(scenario)
	if err != nil {
		return nil, err
	}

	lg, err := ledger.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory ledger: %w", err)
	}
	defer lg.Close()

	wh := store.Shared()
	wh.Clear()
	wh.SetIDGenerator(testutil.NewScriptedIDs(ids...))
	defer func() {
		wh.Clear()
		wh.SetIDGenerator(nil)
	}()

	h := &Harness{
		warehouse: wh,
		ledger:    lg,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	for _, it := range stock {
		result.IDs = append(result.IDs, h.warehouse.Add(it))
	}

	var buf bytes.Buffer
	if err := report.Simulate(ctx, &buf, h.warehouse, scenario.Days, h.record); err != nil {
		return nil, fmt.Errorf("failed to simulate: %w", err)
	}
	result.Days = scenario.Days
	result.Report = buf.String()

	actx := &AssertionContext{
		Ledger:    lg,
		Warehouse: h.warehouse,
		Ctx:       ctx,
		Days:      int64(scenario.Days),
		Report:    result.Report,
	}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished",
		"name", scenario.Name,
		"days", scenario.Days,
		"pass", result.Pass,
	)
	return result, nil
}

// record is the report observer that writes each day to the ledger.
func (h *Harness) record(ctx context.Context, day int64, entries []store.Entry) error {
	n, err := h.ledger.RecordDay(ctx, day, entries)
	if err != nil {
		return err
	}
	h.logger.Debug("day recorded", "day", day, "rows", n)
	return nil
}

// stockFor returns the scenario's items in stock order and the scripted
// IDs for them. Catalog items get "" so they fall back to item-<position>.
func stockFor(scenario *Scenario) ([]item.Item, []string, error) {
	var (
		stock []item.Item
		ids   []string
	)

	if scenario.Catalog != "" {
		items, err := catalog.Load(scenario.Catalog)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		stock = append(stock, items...)
		ids = append(ids, make([]string, len(items))...)
	}

	for _, line := range scenario.Items {
		stock = append(stock, line.Item())
		ids = append(ids, line.ID)
	}

	return stock, ids, nil
}
