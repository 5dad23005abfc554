package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/mathrush/mathrush/internal/screens/history"
	"github.com/mathrush/mathrush/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent games",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		games, err := st.EventRepo().QueryGameSummaries(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query games: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(games) == 0 {
			fmt.Fprintln(out, "No games yet.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "WHEN\tSCORE\tCORRECT\tROUNDS\tTIME\tRESULT")
		for _, g := range games {
			result := "out of lives"
			if g.Action == store.ActionAbandon {
				result = "quit"
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
				g.Timestamp.Local().Format("2006-01-02 15:04"),
				g.Score, g.CorrectAnswers, g.Rounds,
				history.FormatDuration(g.DurationMs), result)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Number of games to show")
}
