package ledger

import (
	"path/filepath"
	"testing"

	"github.com/roach88/gildedrose/internal/item"
	"github.com/roach88/gildedrose/internal/store"
)

// createTestLedger creates a new file-backed ledger for testing.
func createTestLedger(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

// entry builds a warehouse entry with a classified item.
func entry(id, name string, sellIn, quality int) store.Entry {
	return store.Entry{ID: id, Item: item.New(name, sellIn, quality)}
}
