package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lilykang127/connect-ltv/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "connectctl %s\n", version.String())
	},
}
