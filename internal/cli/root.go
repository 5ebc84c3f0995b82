package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// Config holds flag, environment and config-file values.
	// Each root command gets its own instance.
	Config *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Configuration keys.
const (
	KeyLogLevel   = "log.level"
	KeyLogFormat  = "log.format"
	KeyRunDays    = "run.days"
	KeyLedgerPath = "ledger.path"
)

// EnvPrefix prefixes environment overrides, e.g. GILDEDROSE_LOG_LEVEL.
const EnvPrefix = "GILDEDROSE"

// NewRootCommand creates the root command for the gildedrose CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: viper.New()}

	cmd := &cobra.Command{
		Use:   "gildedrose",
		Short: "Gilded Rose - shop inventory day simulator",
		Long: `Simulate a shop's inventory one day at a time.

Items lose or gain quality daily according to their category: regular
goods, Aged Brie, backstage passes, conjured goods and the legendary
Sulfuras. Stock is read from CUE catalogs; every simulated day can be
recorded to a SQLite ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if err := initConfig(opts); err != nil {
				return WrapExitError(ExitCommandError, "failed to load configuration", err)
			}
			return setupLogging(opts, cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: ./gildedrose.yaml)")
	cmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	_ = opts.Config.BindPFlag(KeyLogLevel, cmd.PersistentFlags().Lookup("log-level"))
	_ = opts.Config.BindPFlag(KeyLogFormat, cmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// initConfig reads the optional config file and environment overrides.
func initConfig(opts *RootOptions) error {
	v := opts.config()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/gildedrose")
		}
		v.SetConfigName("gildedrose")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, defaults apply
	}
	return nil
}

// setupLogging installs the default slog logger on the command's stderr.
// --verbose forces debug level.
func setupLogging(opts *RootOptions, cmd *cobra.Command) error {
	v := opts.config()

	level, err := parseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format := v.GetString(KeyLogFormat); format {
	case "text", "console":
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), handlerOpts)
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid log format: %s", format))
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// config returns opts.Config, creating it for options built without
// NewRootCommand (as subcommand tests do).
func (o *RootOptions) config() *viper.Viper {
	if o.Config == nil {
		o.Config = viper.New()
	}
	return o.Config
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
