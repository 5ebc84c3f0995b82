package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gildedrose/internal/catalog"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool           `json:"valid"`
	Items      int            `json:"items"`
	Categories map[string]int `json:"categories,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog>",
		Short: "Check a catalog without simulating it",
		Long: `Load a CUE catalog, check it against the item schema and classify
every item, without simulating any days.

Faster than run for catalog development feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, catalogPath string, cmd *cobra.Command) error {
	pr := newPrinter(opts, cmd)

	items, err := catalog.Load(catalogPath)
	if err != nil {
		return pr.fail(problemFrom(err), "✗ Validation failed")
	}

	result := ValidationResult{Valid: true, Items: len(items), Categories: map[string]int{}}
	for _, it := range items {
		pr.debugf("%s -> %s", it.Name, it.Category)
		result.Categories[it.Category.String()]++
	}

	return pr.ok(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Catalog valid: %d item(s)\n", result.Items)
	})
}
