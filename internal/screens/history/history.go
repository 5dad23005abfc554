package history

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/mathrush/mathrush/internal/router"
	"github.com/mathrush/mathrush/internal/screen"
	"github.com/mathrush/mathrush/internal/store"
	"github.com/mathrush/mathrush/internal/ui/components"
	"github.com/mathrush/mathrush/internal/ui/layout"
	"github.com/mathrush/mathrush/internal/ui/theme"
)

// pageSize is how many games the screen loads.
const pageSize = 50

type historyLoadedMsg struct {
	Games []store.GameSummaryRecord
	Tiers []store.TierAccuracyRecord
	Err   error
}

// HistoryScreen lists past games and per-tier accuracy.
type HistoryScreen struct {
	eventRepo store.EventRepo
	games     []store.GameSummaryRecord
	tiers     []store.TierAccuracyRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		games, err := s.eventRepo.QueryGameSummaries(ctx, store.QueryOpts{Limit: pageSize})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Accuracy is secondary; show the games even if it fails.
		tiers, err := s.eventRepo.TierAccuracy(ctx)
		if err != nil {
			return historyLoadedMsg{Games: games}
		}
		return historyLoadedMsg{Games: games, Tiers: tiers}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.games = msg.Games
			s.tiers = msg.Tiers
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		k := components.Keys
		switch {
		case key.Matches(msg, k.Back):
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case key.Matches(msg, k.Up):
			if s.selected > 0 {
				s.selected--
			}
		case key.Matches(msg, k.Down):
			if s.selected < len(s.games)-1 {
				s.selected++
			}
		case key.Matches(msg, k.Select):
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.games) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No games yet. Start a rush!")
	}

	var b strings.Builder
	b.WriteString("\n")
	if line := renderTierLine(s.tiers); line != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n\n")
	}

	for i, g := range s.games {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %s  score %3d  %d/%d correct",
			prefix, g.Timestamp.Local().Format("Jan 02 15:04"), FormatDuration(g.DurationMs),
			g.Score, g.CorrectAnswers, g.Rounds)
		if g.Action == store.ActionAbandon {
			line += "  (quit)"
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    game %s  %s", shortID(g.GameID), accuracyText(g.CorrectAnswers, g.Rounds))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderTierLine(tiers []store.TierAccuracyRecord) string {
	parts := make([]string, 0, len(tiers))
	for _, t := range tiers {
		if t.Attempts == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.0f%%", strings.ToUpper(t.Tier), t.Accuracy()*100))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(strings.Join(parts, "   "))
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func accuracyText(correct, rounds int) string {
	if rounds == 0 {
		return "no answers"
	}
	return fmt.Sprintf("%.0f%% accuracy", float64(correct)/float64(rounds)*100)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
