package components

import (
	"fmt"
	"strconv"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mathrush/mathrush/internal/ui/theme"
)

// optionWidth is the width of one answer tile.
const optionWidth = 14

// Reveal marks the outcome of a resolved round on the option grid.
type Reveal struct {
	Correct  int
	Chosen   int
	TimedOut bool
}

// OptionGrid is a 2×2 grid of answer tiles navigated with arrows or picked
// with the number keys.
type OptionGrid struct {
	Options  []int
	Selected int
	Reveal   *Reveal
}

// NewOptionGrid creates a grid with the first tile selected.
func NewOptionGrid(options []int) OptionGrid {
	return OptionGrid{Options: options}
}

// SetOptions replaces the tiles. The selection is kept when the count
// is unchanged.
func (g *OptionGrid) SetOptions(options []int) {
	if len(options) != len(g.Options) {
		g.Selected = 0
	}
	g.Options = options
}

// Update moves the selection. The returned value is the chosen option when
// the key submits one.
func (g OptionGrid) Update(msg tea.Msg) (OptionGrid, int, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || g.Reveal != nil || len(g.Options) == 0 {
		return g, 0, false
	}

	n := len(g.Options)
	switch {
	case key.Matches(kmsg, Keys.Option):
		i, err := strconv.Atoi(kmsg.String())
		if err != nil || i < 1 || i > n {
			return g, 0, false
		}
		g.Selected = i - 1
		return g, g.Options[g.Selected], true
	case key.Matches(kmsg, Keys.Select):
		return g, g.Options[g.Selected], true
	case key.Matches(kmsg, Keys.Left):
		if g.Selected%2 == 1 {
			g.Selected--
		}
	case key.Matches(kmsg, Keys.Right):
		if g.Selected%2 == 0 && g.Selected+1 < n {
			g.Selected++
		}
	case key.Matches(kmsg, Keys.Up):
		if g.Selected >= 2 {
			g.Selected -= 2
		}
	case key.Matches(kmsg, Keys.Down):
		if g.Selected+2 < n {
			g.Selected += 2
		}
	}
	return g, 0, false
}

// View renders the grid centered in width.
func (g OptionGrid) View(width int) string {
	tiles := make([]string, len(g.Options))
	for i, v := range g.Options {
		tiles[i] = g.tile(i, v)
	}

	var rows []string
	for i := 0; i < len(tiles); i += 2 {
		end := min(i+2, len(tiles))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles[i:end]...))
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func (g OptionGrid) tile(i, v int) string {
	label := fmt.Sprintf("%d) %d", i+1, v)
	style := theme.OptionIdle.Width(optionWidth).Margin(0, 1)

	switch {
	case g.Reveal != nil && v == g.Reveal.Correct:
		style = style.BorderForeground(theme.Success).Foreground(theme.Success).Bold(true)
	case g.Reveal != nil && !g.Reveal.TimedOut && v == g.Reveal.Chosen:
		style = style.BorderForeground(theme.Error).Foreground(theme.Error).Bold(true)
	case g.Reveal != nil:
		style = style.Foreground(theme.TextDim)
	case i == g.Selected:
		style = theme.OptionActive.Width(optionWidth).Margin(0, 1)
	}
	return style.Render(label)
}
