package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/mathrush/mathrush/internal/ui/theme"
)

const arcadeTitleFull = ` █▄ ▄█ ▄▀▄ ▀█▀ █ █   █▀▄ █ █ ▄▀▀ █ █
 █ ▀ █ █▀█  █  █▀█   █▀▄ ▀▄█ ▄██ █▀█`

const arcadeTitleCompact = "M · A · T · H   R · U · S · H"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders best score, games played and overall accuracy in
// a double-bordered box matching the content width.
func renderStatsBar(st homeStats, cw int, compact bool) string {
	best := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	games := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	acc := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	var text string
	if compact {
		text = fmt.Sprintf("%s %s %s",
			best.Render(fmt.Sprintf("★%d", st.Best)),
			games.Render(fmt.Sprintf("▶%d", st.Games)),
			acc.Render(fmt.Sprintf("%d%%", st.AccuracyPct)),
		)
	} else {
		text = fmt.Sprintf("%s  %s  %s",
			best.Render(fmt.Sprintf("★ BEST %d", st.Best)),
			games.Render(fmt.Sprintf("▶ %d GAMES", st.Games)),
			acc.Render(fmt.Sprintf("%d%% ACCURACY", st.AccuracyPct)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
