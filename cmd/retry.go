package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"matchfeed/internal/engine"
	"matchfeed/internal/worker"
)

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Run one sweep over stored failed events and re-attempt delivery",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Webhook.URL == "" {
			return fmt.Errorf("webhook.url is required (set MATCHFEED_WEBHOOK__URL or the config file)")
		}

		logger := newLogger()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		deliverer := worker.NewDeliverer(cfg.Webhook.URL, cfg.Webhook.RequestTimeout(), logger)
		sweeper := engine.NewSweeper(deliverer, st, cfg.Retry.MaxRetries, cfg.Retry.RetryDelay(), logger)

		sum, err := sweeper.Sweep(ctx)
		if err != nil {
			return err
		}

		if sum.Attempted == 0 {
			fmt.Fprintln(out, "No failed events to retry.")
		} else {
			fmt.Fprintf(out, "Retry summary:\n")
			fmt.Fprintf(out, "  redelivered:  %d\n", sum.Delivered)
			fmt.Fprintf(out, "  still failed: %d\n", sum.StillFailed)
		}
		fmt.Fprintf(out, "Remaining failed events in store: %d\n", sum.Remaining)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(retryCmd)
}
