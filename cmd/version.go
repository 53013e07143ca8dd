package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/reqcheck/internal/version"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// The configuration file is not needed.
	PersistentPreRun: func(*cobra.Command, []string) {},
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reqcheck "+version.Full())
	},
}
