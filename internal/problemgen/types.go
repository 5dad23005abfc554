package problemgen

import (
	"fmt"
	"strings"
)

// Counter thresholds for the difficulty tiers. A counter at or below
// EasyMaxCounter is Easy, at or below MediumMaxCounter is Medium, Hard above.
const (
	EasyMaxCounter   = 5
	MediumMaxCounter = 10
)

// Tier is a difficulty bucket derived from how many questions a game has
// generated so far.
type Tier int

const (
	TierEasy Tier = iota
	TierMedium
	TierHard
)

// TierFor returns the tier for a difficulty counter.
func TierFor(counter int) Tier {
	switch {
	case counter <= EasyMaxCounter:
		return TierEasy
	case counter <= MediumMaxCounter:
		return TierMedium
	default:
		return TierHard
	}
}

func (t Tier) String() string {
	switch t {
	case TierEasy:
		return "easy"
	case TierMedium:
		return "medium"
	case TierHard:
		return "hard"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// MarshalText renders the tier by name so JSON payloads stay readable.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a tier name.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier parses "easy", "medium" or "hard" (case-insensitive).
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return TierEasy, nil
	case "medium":
		return TierMedium, nil
	case "hard":
		return TierHard, nil
	}
	return 0, fmt.Errorf("invalid tier %q: must be easy, medium or hard", s)
}

// Kind identifies the shape of a question within a tier.
type Kind string

const (
	KindAdd              Kind = "add"
	KindSubtract         Kind = "subtract"
	KindMultiply         Kind = "multiply"
	KindDivide           Kind = "divide"
	KindAddSubtract      Kind = "add-subtract"
	KindMultiplyAdd      Kind = "multiply-add"
	KindMultiplySubtract Kind = "multiply-subtract"
	KindParenAddMultiply Kind = "paren-add-multiply"
	KindExponent         Kind = "exponent"
	KindParenMultiplyAdd Kind = "paren-multiply-add"
)

// tierKinds lists the kinds of each tier. Generation picks uniformly by index,
// so the order is part of the deterministic behavior under a seeded source.
var tierKinds = map[Tier][]Kind{
	TierEasy:   {KindAdd, KindSubtract, KindMultiply, KindDivide},
	TierMedium: {KindAddSubtract, KindMultiplyAdd, KindMultiplySubtract},
	TierHard:   {KindParenAddMultiply, KindExponent, KindParenMultiplyAdd},
}

// Kinds returns the kinds that can be generated for a tier.
func Kinds(t Tier) []Kind {
	kinds := tierKinds[t]
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Tier returns the tier a kind belongs to.
func (k Kind) Tier() (Tier, bool) {
	for t, kinds := range tierKinds {
		for _, kk := range kinds {
			if kk == k {
				return t, true
			}
		}
	}
	return 0, false
}

// Question is a generated arithmetic question. It is a value: once built it
// is never modified.
type Question struct {
	// Text is the expression shown to the player, e.g. "3 + 4 = ?".
	Text string `json:"text"`

	// Answer is the exact integer result of the expression.
	Answer int `json:"-"`

	Tier Tier `json:"tier"`
	Kind Kind `json:"kind"`

	// Operands are the numbers in the order they appear in Text.
	Operands []int `json:"-"`
}
