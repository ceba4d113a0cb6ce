package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"matchfeed/internal/engine"
	"matchfeed/internal/roster"
	"matchfeed/internal/simulate"
	"matchfeed/internal/worker"
)

var simulateSeed int64

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate one match worth of events and deliver them to the webhook",
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

		seed := simulateSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewPCG(uint64(seed), 0))

		home, err := loadTeam(cfg.Match.HomeName, cfg.Match.HomeTeamID, cfg.Match.HomeRoster, rng, out)
		if err != nil {
			return err
		}
		away, err := loadTeam(cfg.Match.AwayName, cfg.Match.AwayTeamID, cfg.Match.AwayRoster, rng, out)
		if err != nil {
			return err
		}

		sim := simulate.New(home, away, cfg.Match.Minutes, rng)
		sim.Progress = func(minute, count, total int) {
			fmt.Fprintf(out, "minute %d: %d events (total: %d)\n", minute, count, total)
		}

		fmt.Fprintf(out, "\nSimulating %d minutes of the match (match id: %s)\n\n", cfg.Match.Minutes, sim.MatchID())

		deliverer := worker.NewDeliverer(cfg.Webhook.URL, cfg.Webhook.RequestTimeout(), logger)
		orch := engine.NewOrchestrator(deliverer, st, logger)

		sum, err := orch.Run(ctx, sim)
		if err != nil {
			return err
		}

		perMinute := sim.EventsPerMinute()
		fmt.Fprintf(out, "\nSimulation complete.\n")
		fmt.Fprintf(out, "  produced:  %d\n", sum.Produced)
		fmt.Fprintf(out, "  delivered: %d\n", sum.Delivered)
		fmt.Fprintf(out, "  failed:    %d\n", sum.Failed)
		if len(perMinute) > 0 {
			fmt.Fprintf(out, "  events per minute: %s (avg %.1f)\n",
				joinInts(perMinute), float64(sum.Produced)/float64(len(perMinute)))
		}
		return nil
	},
}

func loadTeam(name string, id int, rosterPath string, rng *rand.Rand, out io.Writer) (simulate.Team, error) {
	players, err := roster.Load(rosterPath)
	if err != nil {
		return simulate.Team{}, err
	}
	xi, formation, err := roster.SelectStartingXI(players, rng)
	if err != nil {
		return simulate.Team{}, fmt.Errorf("selecting %s starting XI: %w", name, err)
	}

	fmt.Fprintf(out, "%s starting XI (formation: %s):\n", name, formation)
	for _, p := range xi {
		fmt.Fprintf(out, "  %s (%s)\n", p.Name, strings.ToUpper(p.Position))
	}
	fmt.Fprintln(out)

	return simulate.Team{ID: id, Name: name, Players: xi}, nil
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "Random seed (0 = time-based)")
}
