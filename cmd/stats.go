package cmd

import (
	"fmt"

	"github.com/mathrush/mathrush/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show best score and accuracy by tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.EventRepo()

		best, err := repo.BestScore(ctx)
		if err != nil {
			return fmt.Errorf("best score: %w", err)
		}
		games, err := repo.QueryGameSummaries(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query games: %w", err)
		}
		tiers, err := repo.TierAccuracy(ctx)
		if err != nil {
			return fmt.Errorf("tier accuracy: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Best score:   %d\n", best)
		fmt.Fprintf(out, "Games played: %d\n", len(games))
		if len(tiers) == 0 {
			return nil
		}
		fmt.Fprintln(out, "\nAccuracy by tier:")
		for _, t := range tiers {
			fmt.Fprintf(out, "  %-7s %3.0f%%  (%d/%d, %d timed out)\n",
				t.Tier, t.Accuracy()*100, t.Correct, t.Attempts, t.TimedOut)
		}
		return nil
	},
}
