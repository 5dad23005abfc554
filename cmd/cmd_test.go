package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mathrush/mathrush/internal/store"
)

// runCmd executes the root command with args and stdin, returning stdout.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores flag defaults so commands do not leak state
// between tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestPreviewAnswersInteractively(t *testing.T) {
	out, err := runCmd(t, "1\n\n99999\n", "preview", "--tier", "hard", "--kind", "exponent", "--count", "3", "--seed", "5")
	if err != nil {
		t.Fatalf("preview: %v\n%s", err, out)
	}
	for _, want := range []string{"Tier: hard", "Question 1/3 (exponent)", "(skipped)", "is not one of the options", "Summary:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "  1) ") != 3 {
		t.Errorf("expected three option lists:\n%s", out)
	}
}

func TestPreviewRejectsBadTier(t *testing.T) {
	if _, err := runCmd(t, "", "preview", "--tier", "impossible"); err == nil {
		t.Error("expected an error for an unknown tier")
	}
	if _, err := runCmd(t, "", "preview", "--kind", "modulo"); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}

func TestHistoryAndStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rush.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	repo := st.EventRepo()
	ctx := context.Background()
	_ = repo.AppendGameEvent(ctx, store.GameEventData{GameID: "a", Action: store.ActionEnd, Score: 60, Rounds: 8, CorrectAnswers: 6, DurationMs: 42000})
	_ = repo.AppendAnswerEvent(ctx, store.AnswerEventData{GameID: "a", Round: 1, Tier: "easy", Kind: "add", QuestionText: "1 + 1 = ?", CorrectAnswer: 2, Correct: true})
	st.Close()

	out, err := runCmd(t, "", "history", "--db", dbPath, "-n", "5")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "SCORE") || !strings.Contains(out, "60") || !strings.Contains(out, "0:42") {
		t.Errorf("unexpected history output:\n%s", out)
	}

	out, err = runCmd(t, "", "stats", "--db", dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Best score:   60", "Games played: 1", "easy"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}

func TestGameConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero lives", []string{"--lives", "0"}},
		{"zero round time", []string{"--round-time", "0"}},
		{"zero delay", []string{"--delay", "0s"}},
		{"negative delay", []string{"--delay=-1s"}},
		{"delay over a minute", []string{"--delay", "2m"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"play", "--db", filepath.Join(t.TempDir(), "x.db")}, tc.args...)
			if _, err := runCmd(t, "", args...); err == nil {
				t.Errorf("expected %v to be rejected", tc.args)
			}
		})
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rush.db")
	if _, err := runCmd(t, "", "reset", "--db", dbPath); err == nil {
		t.Error("expected reset without --yes to fail")
	}
	out, err := runCmd(t, "", "reset", "--db", dbPath, "--yes")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !strings.Contains(out, "Removed") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := runCmd(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "mathrush ") {
		t.Errorf("version output = %q", out)
	}
}
