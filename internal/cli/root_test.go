package cli

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "gildedrose", cmd.Use)
	assert.Contains(t, cmd.Long, "Sulfuras")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"run", "history", "validate", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "log-level", "log-format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	daysFlag := runCmd.Flags().Lookup("days")
	require.NotNil(t, daysFlag)
	assert.Equal(t, "d", daysFlag.Shorthand)
	assert.Equal(t, "2", daysFlag.DefValue)

	assert.NotNil(t, runCmd.Flags().Lookup("db"))
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	assert.NotNil(t, testCmd.Flags().Lookup("update"))
	assert.NotNil(t, testCmd.Flags().Lookup("filter"))
}

func TestRootInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "shop.cue", shopCatalog)

	_, _, err := execute(t, NewRootCommand(), "--format", "xml", "validate", catalogPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootInvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "shop.cue", shopCatalog)

	_, _, err := execute(t, NewRootCommand(), "--log-level", "loud", "validate", catalogPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level: loud")
}

func TestRootConfigFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "shop.cue", shopCatalog)
	configPath := writeFile(t, dir, "gildedrose.yaml", `
log:
  level: debug
  format: json
run:
  days: 1
`)

	out, errOut, err := execute(t, NewRootCommand(), "--config", configPath, "run", catalogPath)
	require.NoError(t, err)

	assert.Contains(t, out, "-------- day 1 --------")
	assert.NotContains(t, out, "-------- day 2 --------")
	assert.Contains(t, errOut, `"msg":"catalog loaded"`)
}

func TestRootConfigFile_FlagWins(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "shop.cue", shopCatalog)
	configPath := writeFile(t, dir, "gildedrose.yaml", "run:\n  days: 1\n")

	out, _, err := execute(t, NewRootCommand(), "--config", configPath, "run", "--days", "3", catalogPath)
	require.NoError(t, err)
	assert.Contains(t, out, "-------- day 3 --------")
}

func TestRootConfigFile_Missing(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "shop.cue", shopCatalog)

	_, _, err := execute(t, NewRootCommand(), "--config", filepath.Join(dir, "nope.yaml"), "validate", catalogPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRootEnvironment(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	dir := t.TempDir()
	catalogPath := writeFile(t, dir, "shop.cue", shopCatalog)
	t.Setenv("GILDEDROSE_RUN_DAYS", "0")
	t.Chdir(dir)

	out, _, err := execute(t, NewRootCommand(), "run", catalogPath)
	require.NoError(t, err)
	assert.Contains(t, out, "-------- day 0 --------")
	assert.NotContains(t, out, "-------- day 1 --------")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseLevel("trace")
	assert.Error(t, err)
}
