package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	rush "github.com/mathrush/mathrush/internal/game"
	"github.com/mathrush/mathrush/internal/router"
	"github.com/mathrush/mathrush/internal/screen"
	gamescreen "github.com/mathrush/mathrush/internal/screens/game"
	"github.com/mathrush/mathrush/internal/screens/history"
	"github.com/mathrush/mathrush/internal/store"
	"github.com/mathrush/mathrush/internal/ui/components"
	"github.com/mathrush/mathrush/internal/ui/layout"
)

// homeStats is the dashboard summary read from the event store.
type homeStats struct {
	Best        int
	Games       int
	Latest      int
	AccuracyPct int
}

type statsLoadedMsg struct {
	Stats homeStats
	Err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu      components.Menu
	eventRepo store.EventRepo
	stats     homeStats
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)
var _ screen.HeaderProvider = (*HomeScreen)(nil)

// New creates a HomeScreen. eventRepo may be nil, in which case history
// is unavailable.
func New(cfg rush.Config, eventRepo store.EventRepo) *HomeScreen {
	h := &HomeScreen{eventRepo: eventRepo}

	items := []components.MenuItem{
		{Label: "START GAME", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: gamescreen.New(cfg, eventRepo)}
			}
		}},
		{Label: "HISTORY", Disabled: eventRepo == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(eventRepo)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Resume reloads the dashboard after a game or the history screen closes.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	if h.eventRepo == nil {
		return nil
	}
	repo := h.eventRepo
	return func() tea.Msg {
		ctx := context.Background()
		var st homeStats

		best, err := repo.BestScore(ctx)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		st.Best = best

		games, err := repo.QueryGameSummaries(ctx, store.QueryOpts{})
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		st.Games = len(games)
		if len(games) > 0 {
			st.Latest = games[0].Score
		}

		tiers, err := repo.TierAccuracy(ctx)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		var attempts, correct int
		for _, t := range tiers {
			attempts += t.Attempts
			correct += t.Correct
		}
		if attempts > 0 {
			st.AccuracyPct = correct * 100 / attempts
		}
		return statsLoadedMsg{Stats: st}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		if msg.Err == nil {
			h.stats = msg.Stats
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) HeaderStats() layout.HeaderStats {
	return layout.HeaderStats{Lives: -1, Best: h.stats.Best}
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer
	compact := layout.IsCompactHeight(height+6) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		variant := mascotFor(h.stats.Games > 0, h.stats.Latest, h.stats.Best)
		sections = append(sections, renderMascotBox(variant, cw))
	}
	sections = append(sections,
		renderStatsBar(h.stats, cw, compact),
		h.menu.View(cw),
	)

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
