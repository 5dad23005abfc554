package cmd

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/mathrush/mathrush/internal/problemgen"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview generated questions for a tier (no database)",
	Long: `Generate and interactively answer questions for one difficulty tier.

This is a stateless developer tool: no timer, no lives, no events.
Useful for checking question shapes and option spreads.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("tier", "easy", "Difficulty tier: easy, medium or hard")
	previewCmd.Flags().String("kind", "", "Only generate this question kind (e.g. exponent)")
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
}

func runPreview(cmd *cobra.Command, args []string) error {
	tierVal, _ := cmd.Flags().GetString("tier")
	kindVal, _ := cmd.Flags().GetString("kind")
	count, _ := cmd.Flags().GetInt("count")
	seed, _ := cmd.Flags().GetUint64("seed")

	tier, err := problemgen.ParseTier(tierVal)
	if err != nil {
		return err
	}
	kind := problemgen.Kind(kindVal)
	if kind != "" {
		kt, ok := kind.Tier()
		if !ok {
			return fmt.Errorf("unknown kind %q: %s tier has %s", kindVal, tier, kindList(tier))
		}
		tier = kt
	}
	if count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}
	if seed == 0 {
		seed = rand.Uint64()
	}

	rng := problemgen.NewRand(seed)
	gen := problemgen.New(rng)
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprintf(out, "Tier: %s (%s), seed %d\n\n", tier, kindList(tier), seed)

	var correct, asked int
	for i := 1; i <= count; i++ {
		var q problemgen.Question
		if kind != "" {
			q = gen.GenerateKind(kind)
		} else {
			q = gen.GenerateTier(tier)
		}
		if err := problemgen.Verify(q); err != nil {
			return fmt.Errorf("generated question failed check: %w", err)
		}
		options := problemgen.BuildOptions(q.Answer, 4, rng)

		fmt.Fprintf(out, "── Question %d/%d (%s) ──\n", i, count, q.Kind)
		fmt.Fprintln(out, q.Text)
		for j, o := range options {
			fmt.Fprintf(out, "  %d) %d\n", j+1, o)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			fmt.Fprintf(out, "(skipped) Answer: %d\n\n", q.Answer)
			continue
		}

		asked++
		chosen, ok := parseChoice(raw, options)
		switch {
		case !ok:
			fmt.Fprintf(out, "✗ %q is not one of the options. Answer: %d\n", raw, q.Answer)
		case chosen == q.Answer:
			correct++
			fmt.Fprintln(out, "✓ Correct!")
		default:
			fmt.Fprintf(out, "✗ Wrong. Answer: %d\n", q.Answer)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", correct, asked)
	return nil
}

// parseChoice accepts an option number (1-4) or the option value itself.
// A number that is both an index and an option value is read as the value.
func parseChoice(raw string, options []int) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	if slices.Contains(options, n) {
		return n, true
	}
	if n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	return 0, false
}

func kindList(t problemgen.Tier) string {
	kinds := problemgen.Kinds(t)
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
