package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	searchuc "github.com/lilykang127/connect-ltv/internal/usecase/search"
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Print sample search queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ex := searchuc.Examples()
		out := cmd.OutOrStdout()
		if jsonOutput {
			return json.NewEncoder(out).Encode(ex)
		}
		for _, e := range ex {
			fmt.Fprintf(out, "%s\n  %s\n\n", e.Category, e.Query)
		}
		return nil
	},
}
