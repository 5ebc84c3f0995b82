package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gildedrose/internal/catalog"
)

func TestValidateValidCatalog(t *testing.T) {
	catalogPath := writeFile(t, t.TempDir(), "shop.cue", shopCatalog)

	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), catalogPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Catalog valid: 2 item(s)")
}

func TestValidateValidCatalogJSON(t *testing.T) {
	catalogPath := writeFile(t, t.TempDir(), "shop.cue", shopCatalog)

	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), catalogPath)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Items)
	assert.Equal(t, map[string]int{"aged_brie": 1, "regular": 1}, resp.Data.Categories)
}

func TestValidateVerboseGoesToStderr(t *testing.T) {
	catalogPath := writeFile(t, t.TempDir(), "shop.cue", shopCatalog)

	out, errOut, err := execute(t, NewValidateCommand(&RootOptions{Format: "json", Verbose: true}), catalogPath)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Aged Brie -> aged_brie")
	assert.NotContains(t, out, "->")
}

func TestValidateNonExistentPath(t *testing.T) {
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/catalog.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), catalog.ErrCodeNotFound)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), catalog.ErrCodeNoFiles)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateSchemaError(t *testing.T) {
	catalogPath := writeFile(t, t.TempDir(), "bad.cue", `
items: [
	{name: "Aged Brie", sell_in: "soon", quality: 0},
]
`)

	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), catalogPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), catalog.ErrCodeSchema)
	assert.Contains(t, out, "✗ Validation failed\n")
	assert.Contains(t, out, catalog.ErrCodeSchema+": ")
}

func TestValidateSchemaErrorJSON(t *testing.T) {
	catalogPath := writeFile(t, t.TempDir(), "bad.cue", `
items: [
	{name: "Aged Brie", sell_in: 2},
]
`)

	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), catalogPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, catalog.ErrCodeSchema, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestValidateNoItems(t *testing.T) {
	catalogPath := writeFile(t, t.TempDir(), "empty.cue", `shop: "closed"`)

	_, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), catalogPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), catalog.ErrCodeNoItems)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shop.cue", shopCatalog)

	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), filepath.Clean(dir))
	require.NoError(t, err)
	assert.Contains(t, out, "2 item(s)")
}
