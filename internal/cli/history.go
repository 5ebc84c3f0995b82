package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/gildedrose/internal/ledger"
	"github.com/roach88/gildedrose/internal/report"
	"github.com/roach88/gildedrose/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Day      int64
	AtDay    bool // --day was given
}

// HistoryRow is one recorded day of an item.
type HistoryRow struct {
	Day int64 `json:"day"`
	ItemResult
}

// HistoryResult is the JSON payload of the history command for one item.
type HistoryResult struct {
	ItemID string       `json:"item_id"`
	Rows   []HistoryRow `json:"rows"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [item-id]",
		Short: "Show recorded days from a ledger",
		Long: `Read back a ledger written by run --db.

With an item ID, show every day recorded for that item. With --day, show
the whole stock as it stood on that day. With both, show the one item on
that day.

Examples:
  gildedrose history --db ./shop.db 0192f1c4-7a8e-7b3c-9d2e-5f6a7b8c9d0e
  gildedrose history --db ./shop.db item-2 --format json
  gildedrose history --db ./shop.db --day 3`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bindFlag(opts.RootOptions, cmd, KeyLedgerPath, "db")
			opts.Database = opts.config().GetString(KeyLedgerPath)
			opts.AtDay = cmd.Flags().Changed("day")
			itemID := ""
			if len(args) == 1 {
				itemID = args[0]
			}
			return runHistory(opts, itemID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	cmd.Flags().Int64Var(&opts.Day, "day", 0, "show the stock recorded on this day")

	return cmd
}

func runHistory(opts *HistoryOptions, itemID string, cmd *cobra.Command) error {
	if itemID == "" && !opts.AtDay {
		return NewExitError(ExitCommandError, "an item id or --day is required")
	}
	if opts.AtDay && opts.Day < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("day must be non-negative, got %d", opts.Day))
	}
	if opts.Database == "" {
		return NewExitError(ExitCommandError, "ledger path is required (--db or ledger.path)")
	}
	// Don't let Open create an empty ledger
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("ledger not found: %s", opts.Database))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	lg, err := ledger.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer lg.Close()

	pr := newPrinter(opts.RootOptions, cmd)
	switch {
	case itemID == "":
		return showDay(ctx, pr, lg, opts.Day)
	case opts.AtDay:
		return showItemAt(ctx, pr, lg, itemID, opts.Day)
	default:
		return showItem(ctx, pr, lg, itemID)
	}
}

func showItem(ctx context.Context, pr *printer, lg *ledger.Ledger, itemID string) error {
	rows, err := lg.History(ctx, itemID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}
	if len(rows) == 0 {
		return pr.fail(&Problem{Code: CodeNotRecorded, Message: fmt.Sprintf("no history for item %s", itemID)}, "")
	}
	return printHistory(pr, itemID, rows)
}

func showItemAt(ctx context.Context, pr *printer, lg *ledger.Ledger, itemID string, day int64) error {
	row, err := lg.At(ctx, itemID, day)
	if errors.Is(err, sql.ErrNoRows) {
		return pr.fail(&Problem{Code: CodeNotRecorded, Message: fmt.Sprintf("item %s not recorded on day %d", itemID, day)}, "")
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}
	return printHistory(pr, itemID, []ledger.Row{row})
}

func printHistory(pr *printer, itemID string, rows []ledger.Row) error {
	result := HistoryResult{ItemID: itemID, Rows: make([]HistoryRow, len(rows))}
	for i, row := range rows {
		result.Rows[i] = HistoryRow{Day: row.Day, ItemResult: toItemResult(row.ItemID, row.Item)}
	}

	return pr.ok(result, func(w io.Writer) {
		fmt.Fprintf(w, "History for %s (%s, %s)\n", itemID, rows[0].Item.Name, rows[0].Item.Category)
		fmt.Fprintln(w, "day, sellIn, quality")
		for _, row := range rows {
			fmt.Fprintf(w, "%d, %d, %d\n", row.Day, row.Item.SellIn, row.Item.Quality)
		}
	})
}

// showDay prints the whole stock on one day, in the run report's layout.
func showDay(ctx context.Context, pr *printer, lg *ledger.Ledger, day int64) error {
	rows, err := lg.Snapshot(ctx, day)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read day", err)
	}
	if len(rows) == 0 {
		return pr.fail(&Problem{Code: CodeNotRecorded, Message: fmt.Sprintf("nothing recorded on day %d", day)}, "")
	}

	entries := make([]store.Entry, len(rows))
	for i, row := range rows {
		entries[i] = store.Entry{ID: row.ItemID, Item: row.Item}
	}

	var werr error
	err = pr.ok(toDayResult(day, entries), func(w io.Writer) {
		werr = report.WriteDay(w, day, entries)
	})
	if err != nil {
		return err
	}
	return werr
}
