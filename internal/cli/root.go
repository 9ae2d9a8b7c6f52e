// Package cli implements the connectctl command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lilykang127/connect-ltv/internal/app"
	"github.com/lilykang127/connect-ltv/internal/config"
	logpkg "github.com/lilykang127/connect-ltv/internal/logger"
)

var (
	configPath string
	envName    string
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "connectctl",
	Short: "Search and maintain the alumni directory",
	Long: `connectctl - alumni directory from the command line
  - search the directory with a free-text description of who you need
  - show a profile with a ready-to-send email link
  - enrich profiles with biography text, seed a local store from CSV`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: config/$ENV.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment name used to locate the config (default: $ENV or local)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(examplesCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	env := envName
	if env == "" {
		env = config.GetEnv()
	}
	return config.Load(env)
}

// openApp loads config, builds the stderr logger and wires the services.
// The returned context carries the logger.
func openApp(cmd *cobra.Command) (context.Context, *app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger := logpkg.NewCLILogger(verbose)
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	ctx := logpkg.ContextWithLogger(base, logger)

	a, err := app.New(ctx, &cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open directory: %w", err)
	}
	logger.Debug("directory opened", zap.String("driver", cfg.Database.Driver))
	return ctx, a, nil
}
