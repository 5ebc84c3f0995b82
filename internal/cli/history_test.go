package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gildedrose/internal/item"
	"github.com/roach88/gildedrose/internal/ledger"
	"github.com/roach88/gildedrose/internal/store"
)

// seedLedger records three days of one backstage pass under id "pass".
func seedLedger(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "shop.db")

	lg, err := ledger.Open(dbPath)
	require.NoError(t, err)
	defer lg.Close()

	ctx := context.Background()
	for day, q := range []int{20, 22, 24} {
		_, err := lg.RecordDay(ctx, int64(day), []store.Entry{
			{ID: "pass", Item: item.New(item.NameBackstagePasses, 10-day, q)},
		})
		require.NoError(t, err)
	}
	return dbPath
}

func TestHistoryText(t *testing.T) {
	dbPath := seedLedger(t)

	out, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath, "pass")
	require.NoError(t, err)
	assert.Equal(t,
		"History for pass (Backstage passes, backstage_passes)\n"+
			"day, sellIn, quality\n"+
			"0, 10, 20\n"+
			"1, 9, 22\n"+
			"2, 8, 24\n",
		out)
}

func TestHistoryJSON(t *testing.T) {
	dbPath := seedLedger(t)

	out, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "json"}), "--db", dbPath, "pass")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "pass", resp.Data.ItemID)
	require.Len(t, resp.Data.Rows, 3)
	assert.Equal(t, int64(2), resp.Data.Rows[2].Day)
	assert.Equal(t, 24, resp.Data.Rows[2].Quality)
	assert.Equal(t, "backstage_passes", resp.Data.Rows[2].Category)
}

func TestHistoryUnknownItem(t *testing.T) {
	dbPath := seedLedger(t)

	out, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath, "ghost")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "  E301: no history for item ghost\n", out)
}

func TestHistoryMissingDatabase(t *testing.T) {
	_, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}),
		"--db", filepath.Join(t.TempDir(), "missing.db"), "pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistoryDayText(t *testing.T) {
	dbPath := seedLedger(t)

	out, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--day", "1")
	require.NoError(t, err)
	assert.Equal(t, "-------- day 1 --------\nname, sellIn, quality\nBackstage passes, 9, 22\n\n", out)
}

func TestHistoryDayJSON(t *testing.T) {
	dbPath := seedLedger(t)

	out, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "json"}), "--db", dbPath, "--day", "2")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   DayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, int64(2), resp.Data.Day)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "pass", resp.Data.Items[0].ID)
	assert.Equal(t, 24, resp.Data.Items[0].Quality)
}

func TestHistoryItemOnDay(t *testing.T) {
	dbPath := seedLedger(t)

	out, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--day", "0", "pass")
	require.NoError(t, err)
	assert.Equal(t,
		"History for pass (Backstage passes, backstage_passes)\n"+
			"day, sellIn, quality\n"+
			"0, 10, 20\n",
		out)
}

func TestHistoryDayNotRecorded(t *testing.T) {
	dbPath := seedLedger(t)

	out, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "json"}), "--db", dbPath, "--day", "9")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotRecorded, resp.Error.Code)
	assert.Equal(t, "nothing recorded on day 9", resp.Error.Message)

	_, _, err = execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--day", "9", "pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item pass not recorded on day 9")
}

func TestHistoryNeedsItemOrDay(t *testing.T) {
	dbPath := seedLedger(t)

	_, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "an item id or --day is required")
}

func TestHistoryNoDatabaseFlag(t *testing.T) {
	_, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger path is required")
}

func TestHistoryAfterRun(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "shop.cue", shopCatalog)
	dbPath := filepath.Join(dir, "shop.db")

	_, _, err := execute(t, NewRunCommand(&RootOptions{Format: "text"}), "--days", "2", "--db", dbPath, catalogPath)
	require.NoError(t, err)

	lg, err := ledger.Open(dbPath)
	require.NoError(t, err)
	day0, err := lg.Snapshot(context.Background(), 0)
	require.NoError(t, err)
	require.NoError(t, lg.Close())
	require.Len(t, day0, 2)

	out, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath, day0[0].ItemID)
	require.NoError(t, err)
	assert.Contains(t, out, "(Aged Brie, aged_brie)")
	assert.Contains(t, out, "2, 0, 2\n")
}
