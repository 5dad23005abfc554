package game

import (
	"context"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	rush "github.com/mathrush/mathrush/internal/game"
	"github.com/mathrush/mathrush/internal/router"
	"github.com/mathrush/mathrush/internal/screen"
	"github.com/mathrush/mathrush/internal/store"
	"github.com/mathrush/mathrush/internal/ui/components"
	"github.com/mathrush/mathrush/internal/ui/layout"
)

// GameScreen drives one rush.Session. The session runs its own timers;
// the screen learns about changes through a signal channel fed by the
// session listener and re-reads State on every signal.
type GameScreen struct {
	session   *rush.Session
	changes   chan struct{}
	eventRepo store.EventRepo
	lives     int

	state     rush.State
	grid      components.OptionGrid
	countdown components.Countdown

	best        int // best score before this game
	showingQuit bool
	closed      bool
}

var _ screen.Screen = (*GameScreen)(nil)
var _ screen.KeyHintProvider = (*GameScreen)(nil)
var _ screen.HeaderProvider = (*GameScreen)(nil)
var _ screen.Closer = (*GameScreen)(nil)

// New creates a GameScreen. eventRepo may be nil.
func New(cfg rush.Config, eventRepo store.EventRepo, opts ...rush.Option) *GameScreen {
	s := &GameScreen{
		changes:   make(chan struct{}, 1),
		eventRepo: eventRepo,
		countdown: components.NewCountdown(40),
	}

	sessionOpts := []rush.Option{rush.WithListener(s.signal)}
	if eventRepo != nil {
		sessionOpts = append(sessionOpts, rush.WithEventRepo(eventRepo))
	}
	s.session = rush.New(cfg, append(sessionOpts, opts...)...)
	s.state = s.session.State()
	s.lives = s.state.Lives
	s.grid = components.NewOptionGrid(s.state.Options)
	return s
}

// signal runs under the session lock; it must never block.
func (s *GameScreen) signal(rush.State) {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

func (s *GameScreen) waitForChange() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-s.changes; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func (s *GameScreen) loadBest() tea.Cmd {
	if s.eventRepo == nil {
		return nil
	}
	return func() tea.Msg {
		best, err := s.eventRepo.BestScore(context.Background())
		return bestScoreMsg{Best: best, Err: err}
	}
}

func (s *GameScreen) Init() tea.Cmd {
	s.session.Start()
	return tea.Batch(s.waitForChange(), s.loadBest())
}

func (s *GameScreen) Title() string {
	return "Game"
}

func (s *GameScreen) HandlesEscape() bool {
	return true
}

func (s *GameScreen) HeaderStats() layout.HeaderStats {
	return layout.HeaderStats{
		Lives: s.state.Lives,
		Score: s.state.Score,
		Best:  max(s.best, s.state.Score),
	}
}

func (s *GameScreen) KeyHints() []layout.KeyHint {
	k := components.Keys
	switch {
	case s.showingQuit:
		return components.Hints(k.Yes, k.No)
	case s.state.Phase == rush.PhaseEnded:
		return components.Hints(k.Restart, k.Back)
	case s.state.Phase == rush.PhaseFeedback:
		return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Close stops the session. Once it returns the listener can no longer
// fire, so the signal channel is closed to release the waiting command.
func (s *GameScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.session.Close()
	// Drop a signal buffered before Close so the waiting command sees the close.
	select {
	case <-s.changes:
	default:
	}
	close(s.changes)
}

func (s *GameScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		s.sync()
		if s.closed {
			return s, nil
		}
		return s, s.waitForChange()

	case bestScoreMsg:
		if msg.Err == nil {
			s.best = msg.Best
		}
		return s, nil

	case tea.WindowSizeMsg:
		s.countdown.SetWidth(min(max(msg.Width/2, 10), 50))
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *GameScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	k := components.Keys

	if s.showingQuit {
		switch {
		case key.Matches(msg, k.Yes):
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case key.Matches(msg, k.No), key.Matches(msg, k.Back):
			s.showingQuit = false
		}
		return s, nil
	}

	if key.Matches(msg, k.Back) {
		if s.state.Phase == rush.PhaseEnded {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		s.showingQuit = true
		return s, nil
	}

	switch s.state.Phase {
	case rush.PhaseEnded:
		if key.Matches(msg, k.Restart, k.Select) {
			s.best = max(s.best, s.state.Score)
			_ = s.session.Restart()
			s.sync()
		}
	case rush.PhaseAwaiting:
		var value int
		var submit bool
		s.grid, value, submit = s.grid.Update(msg)
		if submit {
			// The countdown may have resolved the round first; the
			// refreshed state shows whichever won.
			_, _ = s.session.SubmitAnswer(value)
			s.sync()
		}
	}
	return s, nil
}

// sync pulls the session state into the screen.
func (s *GameScreen) sync() {
	st := s.session.State()
	if st.GameID != s.state.GameID || st.Round != s.state.Round {
		s.grid = components.NewOptionGrid(st.Options)
	}
	s.grid.Reveal = nil
	if st.Last != nil {
		s.grid.Reveal = &components.Reveal{
			Correct:  st.Last.CorrectAnswer,
			Chosen:   st.Last.Chosen,
			TimedOut: st.Last.TimedOut,
		}
	}
	s.state = st
}
