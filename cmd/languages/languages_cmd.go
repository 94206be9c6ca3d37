package languages

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

// NewCommand returns a new languages command instance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported stylesheet languages and file suffixes",
		Long: `List the stylesheet languages whose @import chains are followed, with the
suffix appended to imports written without one.

Examples:
  cssvars languages`,
		RunE: runLanguages,
	}

	return cmd
}

func runLanguages(cmd *cobra.Command, _ []string) error {
	for _, lang := range stylegraph.Languages() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", lang, lang.Suffix()); err != nil {
			return err
		}
	}
	return nil
}
