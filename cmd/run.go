package cmd

import (
	"fmt"
	"time"

	"github.com/mathrush/mathrush/internal/app"
	"github.com/mathrush/mathrush/internal/game"
	"github.com/mathrush/mathrush/internal/store"
	"github.com/spf13/cobra"
)

// addGameFlags registers the rule flags shared by play and serve.
func addGameFlags(cmd *cobra.Command) {
	d := game.DefaultConfig()
	cmd.PersistentFlags().Int("lives", d.Lives, "Lives per game")
	cmd.PersistentFlags().Int("round-time", d.RoundTime, "Seconds to answer each question")
	cmd.PersistentFlags().Duration("delay", d.FeedbackDelay, "Pause between a resolved round and the next question")
	cmd.PersistentFlags().Uint64("seed", 0, "Random seed for reproducible games (0 = random)")
}

// gameConfig builds the game rules from flags.
func gameConfig(cmd *cobra.Command) (game.Config, error) {
	cfg := game.DefaultConfig()
	flags := cmd.Flags()

	lives, _ := flags.GetInt("lives")
	roundTime, _ := flags.GetInt("round-time")
	delay, _ := flags.GetDuration("delay")
	seed, _ := flags.GetUint64("seed")

	if lives < 1 {
		return cfg, fmt.Errorf("--lives must be at least 1, got %d", lives)
	}
	if roundTime < 1 {
		return cfg, fmt.Errorf("--round-time must be at least 1, got %d", roundTime)
	}
	if delay <= 0 || delay > time.Minute {
		return cfg, fmt.Errorf("--delay must be above 0s and at most 1m, got %s", delay)
	}

	cfg.Lives = lives
	cfg.RoundTime = roundTime
	cfg.FeedbackDelay = delay
	cfg.Seed = seed
	return cfg, nil
}

// openStore opens the event store at the resolved path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// runApp opens the store and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := gameConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	return app.Run(app.Options{
		Config:    cfg,
		EventRepo: st.EventRepo(),
	})
}
