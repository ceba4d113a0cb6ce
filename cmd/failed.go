package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"matchfeed/internal/domain"
)

var failedListLimit int

var failedCmd = &cobra.Command{
	Use:   "failed",
	Short: "Inspect stored failed events",
}

var failedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored failed events, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.List(ctx, failedListLimit)
		if err != nil {
			return err
		}

		total, err := st.Count(ctx)
		if err != nil {
			return err
		}

		if total == 0 {
			fmt.Fprintln(out, "No failed events in store.")
			return nil
		}

		for _, fe := range events {
			status := "retryable"
			if fe.RetryCount >= cfg.Retry.MaxRetries {
				status = "dead"
			}
			fmt.Fprintf(out, "#%d  %s  retries=%d  %s\n", fe.ID,
				fe.CreatedAt.Format(time.RFC3339), fe.RetryCount, status)
			if ev, err := domain.ParseEvent(fe.EventData); err == nil {
				fmt.Fprintf(out, "    event %s  type=%s  match=%s\n", ev.EventID, ev.EventType, ev.MatchID)
			}
			if fe.FailureReason != "" {
				fmt.Fprintf(out, "    reason: %s\n", fe.FailureReason)
			}
		}
		fmt.Fprintf(out, "Total failed events in store: %d\n", total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(failedCmd)
	failedCmd.AddCommand(failedListCmd)
	failedListCmd.Flags().IntVar(&failedListLimit, "limit", 50, "Maximum number of rows to print (0 = all)")
}
