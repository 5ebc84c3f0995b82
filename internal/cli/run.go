package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/roach88/gildedrose/internal/catalog"
	"github.com/roach88/gildedrose/internal/engine"
	"github.com/roach88/gildedrose/internal/item"
	"github.com/roach88/gildedrose/internal/ledger"
	"github.com/roach88/gildedrose/internal/report"
	"github.com/roach88/gildedrose/internal/store"
)

// DefaultDays is how many days run simulates when neither --days nor the
// config sets it.
const DefaultDays = 2

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Days     int
	Database string
	Progress bool // show a progress bar on stderr

	// IDGenerator allows overriding the item ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator engine.IDGenerator
}

// DayResult is one simulated day in JSON output.
type DayResult struct {
	Day   int64        `json:"day"`
	Items []ItemResult `json:"items"`
}

// ItemResult is one stock line in JSON output.
type ItemResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	SellIn   int    `json:"sell_in"`
	Quality  int    `json:"quality"`
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	Catalog  string      `json:"catalog"`
	Ledger   string      `json:"ledger,omitempty"`
	StartDay int64       `json:"start_day"`
	Days     []DayResult `json:"days"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <catalog>",
		Short: "Simulate a catalog day by day",
		Long: `Stock the shop from a CUE catalog and simulate it.

Prints the stock at day 0 and after every simulated day. With --db each
day is also recorded to a SQLite ledger (created if it doesn't exist),
which the history command reads back. A ledger that already holds days
is appended to: the new stock is recorded as the day after the last one.

Example:
  gildedrose run ./catalogs/shop.cue --days 30
  gildedrose run ./catalogs --days 10 --db ./shop.db --format json
  gildedrose run ./catalogs/shop.cue --days 100000 --progress > /dev/null`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bindFlag(opts.RootOptions, cmd, KeyRunDays, "days")
			bindFlag(opts.RootOptions, cmd, KeyLedgerPath, "db")
			opts.Days = opts.config().GetInt(KeyRunDays)
			opts.Database = opts.config().GetString(KeyLedgerPath)
			return runSimulation(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Days, "days", "d", DefaultDays, "number of days to simulate")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (optional)")
	cmd.Flags().BoolVar(&opts.Progress, "progress", false, "show a progress bar on stderr")

	return cmd
}

func runSimulation(opts *RunOptions, catalogPath string, cmd *cobra.Command) error {
	if opts.Days < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("days must be non-negative, got %d", opts.Days))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	slog.Info("loading catalog", "path", catalogPath)
	items, err := catalog.Load(catalogPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	slog.Info("catalog loaded", "items", len(items))

	wh := store.Shared()
	wh.Clear()
	wh.SetIDGenerator(opts.IDGenerator)
	defer wh.SetIDGenerator(nil)

	var observers []report.DayFunc

	if opts.Database != "" {
		slog.Info("opening ledger", "path", opts.Database)
		lg, err := ledger.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open ledger", err)
		}
		defer func() {
			if closeErr := lg.Close(); closeErr != nil {
				slog.Error("error closing ledger", "error", closeErr)
			}
		}()

		last, ok, err := lg.LastDay(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read ledger", err)
		}
		if ok {
			// Append after the previous run instead of overwriting its days.
			slog.Info("resuming ledger", "last_day", last, "start_day", last+1)
			wh.StartAt(last + 1)
		}
		observers = append(observers, func(ctx context.Context, day int64, entries []store.Entry) error {
			_, err := lg.RecordDay(ctx, day, entries)
			return err
		})
	}

	for _, it := range items {
		wh.Add(it)
	}
	start := wh.Day()

	result := RunResult{Catalog: catalogPath, Ledger: opts.Database, StartDay: start}
	var out io.Writer = cmd.OutOrStdout()
	if opts.Format == "json" {
		out = &bytes.Buffer{} // text report is replaced by the JSON payload
		observers = append(observers, func(_ context.Context, day int64, entries []store.Entry) error {
			result.Days = append(result.Days, toDayResult(day, entries))
			return nil
		})
	}

	if opts.Progress {
		observers = append(observers, progressObserver(cmd.ErrOrStderr(), opts.Days, start))
	}

	if err := report.Simulate(ctx, out, wh, opts.Days, observers...); err != nil {
		return WrapExitError(ExitFailure, "simulation failed", err)
	}
	slog.Info("simulation finished", "days", opts.Days, "last_day", wh.Day(), "items", wh.Count())

	if opts.Format == "json" {
		return newPrinter(opts.RootOptions, cmd).ok(result, nil)
	}
	return nil
}

func toDayResult(day int64, entries []store.Entry) DayResult {
	items := make([]ItemResult, len(entries))
	for i, e := range entries {
		items[i] = toItemResult(e.ID, e.Item)
	}
	return DayResult{Day: day, Items: items}
}

func toItemResult(id string, it item.Item) ItemResult {
	return ItemResult{
		ID:       id,
		Name:     it.Name,
		Category: it.Category.String(),
		SellIn:   it.SellIn,
		Quality:  it.Quality,
	}
}

// progressObserver advances a progress bar once per simulated day.
// The start day is the starting stock and does not count.
func progressObserver(w io.Writer, days int, start int64) report.DayFunc {
	bar := progressbar.NewOptions(days,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Simulating days..."),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
	return func(_ context.Context, day int64, _ []store.Entry) error {
		if day == start {
			return nil
		}
		if err := bar.Add(1); err != nil {
			slog.Warn("failed to update progress bar", "error", err)
		}
		return nil
	}
}
