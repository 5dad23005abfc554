package game

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	rush "github.com/mathrush/mathrush/internal/game"
	"github.com/mathrush/mathrush/internal/ui/components"
	"github.com/mathrush/mathrush/internal/ui/layout"
	"github.com/mathrush/mathrush/internal/ui/theme"
)

func (s *GameScreen) View(width, height int) string {
	if s.showingQuit {
		return renderQuitConfirm(width)
	}
	if s.state.Phase == rush.PhaseEnded {
		return s.renderGameOver(width)
	}
	return s.renderRound(width)
}

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
}

// renderRound renders the question, countdown and options, plus the
// feedback banner once the round is resolved.
func (s *GameScreen) renderRound(width int) string {
	st := s.state
	var b strings.Builder

	info := fmt.Sprintf("%s   Round %d   %s",
		layout.Hearts(st.Lives, s.lives),
		st.Round,
		lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(strings.ToUpper(st.Tier.String())),
	)
	b.WriteString(centered(width).Render(info))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(centered(width).Foreground(theme.Text).Bold(true).Render(st.Question))
	b.WriteString("\n\n")

	b.WriteString(centered(width).Render(s.countdown.View(st.TimeRemaining, st.RoundTime, st.Urgent)))
	b.WriteString("\n\n")

	b.WriteString(s.grid.View(width))
	b.WriteString("\n\n")

	b.WriteString(renderBanner(st.Last, width))
	return b.String()
}

func renderBanner(last *rush.Result, width int) string {
	if last == nil {
		return centered(width).Inherit(theme.Hint).Render("Pick 1-4, or move with arrows and press Enter")
	}
	if last.Correct {
		return centered(width).Inherit(theme.Correct).Render("Correct! +10")
	}
	headline := "Wrong!"
	if last.TimedOut {
		headline = "Time's up!"
	}
	return centered(width).Inherit(theme.Incorrect).Render(headline) + "\n" +
		centered(width).Foreground(theme.TextDim).Render(fmt.Sprintf("The answer was %d", last.CorrectAnswer))
}

func (s *GameScreen) renderGameOver(width int) string {
	st := s.state
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("GAME OVER"))
	b.WriteString("\n\n")
	if st.Last != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("%s  answer: %d", st.Question, st.Last.CorrectAnswer)))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Body.Bold(true).Render(fmt.Sprintf("Final score: %d", st.Score)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d of %d correct", st.Correct, st.Round)))
	b.WriteString("\n")
	if st.Score > s.best {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render("NEW BEST!"))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("Best: %d", s.best)))
	}
	b.WriteString("\n\n")
	b.WriteString(components.ArcadeButton("PLAY AGAIN", true, components.ButtonWidth))

	card := components.ArcadeCard(b.String(), cw, theme.Card.BorderForeground(theme.Primary))
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(theme.Title.Width(width).Render("Quit this game?"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.TextDim).Render("Your score so far is kept in history."))
	b.WriteString("\n\n")
	b.WriteString(centered(width).Foreground(theme.TextDim).Render("[Y] Quit   [N] Keep playing"))
	return b.String()
}
