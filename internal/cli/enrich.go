package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var enrichLimit int

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fill in biography text for profiles that have none",
	Args:  cobra.NoArgs,
	RunE:  runEnrich,
}

func init() {
	enrichCmd.Flags().IntVarP(&enrichLimit, "limit", "n", 0, "profiles to process (default: enrichment.batch_limit)")
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	if enrichLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	ctx, a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.Enrichment.Run(ctx, enrichLimit)
	if err != nil {
		return fmt.Errorf("enrich: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return json.NewEncoder(out).Encode(map[string]any{
			"message":   rep.Message,
			"completed": rep.Completed,
			"failed":    rep.Failed,
			"total":     rep.Total,
		})
	}
	fmt.Fprintf(out, "%s: %d of %d profiles enriched", rep.Message, rep.Completed, rep.Total)
	if rep.Failed > 0 {
		fmt.Fprintf(out, ", %d failed", rep.Failed)
	}
	fmt.Fprintln(out)
	return nil
}
