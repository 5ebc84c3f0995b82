package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// envKeyReplacer maps "log.level" to GILDEDROSE_LOG_LEVEL.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// bindFlag binds a subcommand flag to a config key.
// An explicitly set flag wins over the environment and the config file.
func bindFlag(opts *RootOptions, cmd *cobra.Command, key, flag string) {
	_ = opts.config().BindPFlag(key, cmd.Flags().Lookup(flag))
}
