package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"matchfeed/internal/config"
	"matchfeed/internal/store"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "matchfeed",
	Short:        "Simulate football match events and push them to a webhook",
	Long:         "matchfeed generates a synthetic stream of match events, delivers each one to a configured HTTP endpoint, and keeps undeliverable events in a durable store for later retry.",
	SilenceUsage: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	return store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
}
