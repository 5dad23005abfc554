package problemgen

// optionWindow is the width of the offset window distractors are drawn from:
// answer + [-5, 4].
const optionWindow = 10

// maxOptionDraws caps the draws made against one window before it widens.
const maxOptionDraws = 64

// BuildOptions returns n distinct integers in random order, one of which is
// answer. Distractors are answer plus a uniform offset in [-5, 4]; if the
// window keeps producing duplicates it widens by optionWindow every
// maxOptionDraws draws, so the loop always terminates.
func BuildOptions(answer, n int, rng Rand) []int {
	if n < 1 {
		n = 1
	}

	options := make([]int, 0, n)
	options = append(options, answer)
	seen := map[int]bool{answer: true}

	window := optionWindow
	draws := 0
	for len(options) < n {
		v := answer + rng.IntN(window) - window/2
		if !seen[v] {
			seen[v] = true
			options = append(options, v)
		}
		draws++
		if draws >= maxOptionDraws {
			window += optionWindow
			draws = 0
		}
	}

	// Fisher-Yates.
	for i := len(options) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		options[i], options[j] = options[j], options[i]
	}
	return options
}
