package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lilykang127/connect-ltv/internal/db"
	logpkg "github.com/lilykang127/connect-ltv/internal/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.csv>",
	Short: "Load profiles from a CSV export into the configured store",
	Long: `Load profiles from a CSV export of the alumni table.

The header row names the columns ("Index", "First Name", "Title", ...).
Rows are upserted by "Index"; rows without one are skipped.
Supported by the sqlite and redis drivers.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(filepath.Clean(args[0]))
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	rows, err := db.ReadCSV(f)
	if err != nil {
		return err
	}

	valid, skipped := db.Identified(rows)

	ctx, a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	seeder, err := a.Seeder()
	if err != nil {
		return err
	}
	if err := seeder.Upsert(ctx, valid); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	if skipped > 0 {
		logpkg.FromContext(ctx).Warn("skipped rows without an id", zap.Int("count", skipped))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d profiles\n", len(valid))
	return nil
}
