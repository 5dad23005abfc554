package problemgen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// Rand is the uniform integer source used for every draw. IntN returns a
// value in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Errors returned by Build for explicit operands.
var (
	ErrUnknownKind     = errors.New("unknown question kind")
	ErrOperandCount    = errors.New("wrong number of operands")
	ErrInexactDivision = errors.New("dividend is not a multiple of the divisor")
)

// Generator produces arithmetic questions whose difficulty follows a
// caller-owned counter. It holds no game state; the only thing it keeps
// between calls is the random source.
type Generator struct {
	rng Rand
}

// New creates a Generator. A nil source is replaced by a randomly seeded one.
func New(rng Rand) *Generator {
	if rng == nil {
		rng = NewRand(rand.Uint64())
	}
	return &Generator{rng: rng}
}

// Generate produces a question for the tier of counter. Advancing the counter
// is the caller's job.
func (g *Generator) Generate(counter int) Question {
	return g.GenerateTier(TierFor(counter))
}

// GenerateTier picks a uniformly random kind of the tier and builds it.
func (g *Generator) GenerateTier(t Tier) Question {
	kinds := tierKinds[t]
	if len(kinds) == 0 {
		kinds = tierKinds[TierHard]
	}
	return g.GenerateKind(kinds[g.rng.IntN(len(kinds))])
}

// GenerateKind draws operands for kind within its bounds and builds the
// question. Unknown kinds fall back to an easy addition.
func (g *Generator) GenerateKind(kind Kind) Question {
	var ops []int
	switch kind {
	case KindSubtract:
		a, b := g.between(1, 10), g.between(1, 10)
		if a < b {
			a, b = b, a
		}
		ops = []int{a, b}
	case KindMultiply:
		ops = []int{g.between(1, 10), g.between(1, 10)}
	case KindDivide:
		divisor := g.between(1, 10)
		quotient := g.between(1, 10)
		ops = []int{quotient * divisor, divisor}
	case KindAddSubtract:
		ops = []int{g.between(1, 15), g.between(1, 15), g.between(1, 15)}
	case KindMultiplyAdd:
		ops = []int{g.between(1, 5), g.between(1, 5), g.between(1, 15)}
	case KindMultiplySubtract:
		a, b := g.between(1, 5), g.between(1, 5)
		// c is drawn from [1, a*b), which is empty for 1 × 1.
		for a*b < 2 {
			a, b = g.between(1, 5), g.between(1, 5)
		}
		ops = []int{a, b, g.between(1, a*b-1)}
	case KindParenAddMultiply:
		ops = []int{g.between(1, 10), g.between(1, 10), g.between(1, 5)}
	case KindExponent:
		ops = []int{g.between(2, 8), g.between(2, 3)}
	case KindParenMultiplyAdd:
		ops = []int{g.between(1, 5), g.between(1, 10), g.between(1, 10)}
	default:
		kind = KindAdd
		ops = []int{g.between(1, 10), g.between(1, 10)}
	}

	q, err := Build(kind, ops...)
	if err != nil {
		// Operands above are always valid for their kind.
		panic(fmt.Sprintf("problemgen: %s with %v: %v", kind, ops, err))
	}
	return q
}

// between returns a uniform integer in the closed interval [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// Build assembles a question of kind from explicit operands, in the order
// they appear in the text. It does not apply the positivity adjustments the
// generator makes when drawing operands.
func Build(kind Kind, ops ...int) (Question, error) {
	tier, ok := kind.Tier()
	if !ok {
		return Question{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	want := 2
	switch kind {
	case KindAddSubtract, KindMultiplyAdd, KindMultiplySubtract,
		KindParenAddMultiply, KindParenMultiplyAdd:
		want = 3
	}
	if len(ops) != want {
		return Question{}, fmt.Errorf("%w: %s takes %d, got %d", ErrOperandCount, kind, want, len(ops))
	}

	var expr string
	var answer int
	switch kind {
	case KindAdd:
		expr, answer = fmt.Sprintf("%d + %d", ops[0], ops[1]), ops[0]+ops[1]
	case KindSubtract:
		expr, answer = fmt.Sprintf("%d - %d", ops[0], ops[1]), ops[0]-ops[1]
	case KindMultiply:
		expr, answer = fmt.Sprintf("%d × %d", ops[0], ops[1]), ops[0]*ops[1]
	case KindDivide:
		if ops[1] == 0 || ops[0]%ops[1] != 0 {
			return Question{}, fmt.Errorf("%w: %d ÷ %d", ErrInexactDivision, ops[0], ops[1])
		}
		expr, answer = fmt.Sprintf("%d ÷ %d", ops[0], ops[1]), ops[0]/ops[1]
	case KindAddSubtract:
		expr = fmt.Sprintf("%d + %d - %d", ops[0], ops[1], ops[2])
		answer = ops[0] + ops[1] - ops[2]
	case KindMultiplyAdd:
		expr = fmt.Sprintf("%d × %d + %d", ops[0], ops[1], ops[2])
		answer = ops[0]*ops[1] + ops[2]
	case KindMultiplySubtract:
		expr = fmt.Sprintf("%d × %d - %d", ops[0], ops[1], ops[2])
		answer = ops[0]*ops[1] - ops[2]
	case KindParenAddMultiply:
		expr = fmt.Sprintf("(%d + %d) × %d", ops[0], ops[1], ops[2])
		answer = (ops[0] + ops[1]) * ops[2]
	case KindExponent:
		if ops[1] < 0 {
			return Question{}, fmt.Errorf("negative exponent %d", ops[1])
		}
		expr, answer = fmt.Sprintf("%d%s", ops[0], Superscript(ops[1])), pow(ops[0], ops[1])
	case KindParenMultiplyAdd:
		expr = fmt.Sprintf("%d × (%d + %d)", ops[0], ops[1], ops[2])
		answer = ops[0] * (ops[1] + ops[2])
	}

	operands := make([]int, len(ops))
	copy(operands, ops)
	return Question{
		Text:     expr + " = ?",
		Answer:   answer,
		Tier:     tier,
		Kind:     kind,
		Operands: operands,
	}, nil
}

var superscriptDigits = []rune("⁰¹²³⁴⁵⁶⁷⁸⁹")

// Superscript renders a non-negative integer with superscript digits.
func Superscript(n int) string {
	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for _, d := range digits {
		if d == '-' {
			b.WriteRune('⁻')
			continue
		}
		b.WriteRune(superscriptDigits[d-'0'])
	}
	return b.String()
}

func pow(base, exp int) int {
	result := 1
	for range exp {
		result *= base
	}
	return result
}
