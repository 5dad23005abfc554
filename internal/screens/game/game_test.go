package game

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	rush "github.com/mathrush/mathrush/internal/game"
	"github.com/mathrush/mathrush/internal/problemgen"
	"github.com/mathrush/mathrush/internal/router"
	"github.com/mathrush/mathrush/internal/store"
)

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	best    int
	games   []store.GameEventData
	answers []store.AnswerEventData
}

func (m *mockEventRepo) AppendGameEvent(_ context.Context, data store.GameEventData) error {
	m.games = append(m.games, data)
	return nil
}
func (m *mockEventRepo) AppendAnswerEvent(_ context.Context, data store.AnswerEventData) error {
	m.answers = append(m.answers, data)
	return nil
}
func (m *mockEventRepo) QueryGameSummaries(_ context.Context, _ store.QueryOpts) ([]store.GameSummaryRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) BestScore(_ context.Context) (int, error) {
	return m.best, nil
}
func (m *mockEventRepo) TierAccuracy(_ context.Context) ([]store.TierAccuracyRecord, error) {
	return nil, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func escKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEscape}
}

func newTestScreen(t *testing.T, cfg rush.Config, repo store.EventRepo) (*GameScreen, *rush.ManualClock) {
	t.Helper()
	clock := rush.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s := New(cfg, repo, rush.WithClock(clock), rush.WithRand(problemgen.NewRand(1)))
	s.Init()
	t.Cleanup(s.Close)
	return s, clock
}

func update(t *testing.T, s *GameScreen, msg tea.Msg) tea.Cmd {
	t.Helper()
	updated, cmd := s.Update(msg)
	if updated != s {
		t.Fatalf("Update returned a different screen")
	}
	return cmd
}

func TestNumberKeySubmitsOption(t *testing.T) {
	s, _ := newTestScreen(t, rush.DefaultConfig(), nil)
	first := s.state.Options[0]

	update(t, s, keyPress('1'))

	if s.state.Phase != rush.PhaseFeedback {
		t.Fatalf("phase = %v, want feedback", s.state.Phase)
	}
	last := s.state.Last
	if last == nil || last.Chosen != first {
		t.Fatalf("last = %+v, want chosen %d", last, first)
	}
	if last.Correct {
		if s.state.Score != 10 || s.state.Lives != 3 {
			t.Errorf("correct answer gave score %d lives %d", s.state.Score, s.state.Lives)
		}
	} else if s.state.Score != 0 || s.state.Lives != 2 {
		t.Errorf("wrong answer gave score %d lives %d", s.state.Score, s.state.Lives)
	}
	if s.grid.Reveal == nil {
		t.Error("expected the grid to reveal the answer")
	}

	// Keys are ignored until the next question.
	update(t, s, keyPress('2'))
	if s.state.Last.Chosen != first {
		t.Error("a second answer changed the resolved round")
	}
}

func TestFeedbackAdvancesToNextQuestion(t *testing.T) {
	s, clock := newTestScreen(t, rush.DefaultConfig(), nil)
	update(t, s, keyPress('2'))

	clock.Advance(1500 * time.Millisecond)
	update(t, s, stateChangedMsg{})

	if s.state.Phase != rush.PhaseAwaiting {
		t.Fatalf("phase = %v, want awaiting", s.state.Phase)
	}
	if s.state.Round != 2 {
		t.Errorf("round = %d, want 2", s.state.Round)
	}
	if s.grid.Reveal != nil {
		t.Error("reveal should clear on a new question")
	}
	if s.grid.Selected != 0 {
		t.Errorf("selection = %d, want reset to 0", s.grid.Selected)
	}
}

func TestCountdownTimeout(t *testing.T) {
	s, clock := newTestScreen(t, rush.DefaultConfig(), nil)

	clock.Advance(7 * time.Second)
	update(t, s, stateChangedMsg{})
	if !s.state.Urgent {
		t.Errorf("expected urgent with %d seconds left", s.state.TimeRemaining)
	}

	clock.Advance(3 * time.Second)
	update(t, s, stateChangedMsg{})
	if s.state.Last == nil || !s.state.Last.TimedOut {
		t.Fatalf("expected a timed-out round, got %+v", s.state.Last)
	}
	if s.state.Lives != 2 {
		t.Errorf("lives = %d, want 2", s.state.Lives)
	}
	if !strings.Contains(s.View(100, 30), "Time's up!") {
		t.Error("expected time's up banner")
	}
}

func TestWaitForChangeReceivesSignal(t *testing.T) {
	s, clock := newTestScreen(t, rush.DefaultConfig(), nil)
	clock.Advance(time.Second)

	msg := s.waitForChange()()
	if _, ok := msg.(stateChangedMsg); !ok {
		t.Fatalf("got %T, want stateChangedMsg", msg)
	}
}

func TestGameOverAndRestart(t *testing.T) {
	cfg := rush.DefaultConfig()
	cfg.Lives = 1
	repo := &mockEventRepo{best: 50}
	s, clock := newTestScreen(t, cfg, repo)
	update(t, s, s.loadBest()())

	clock.Advance(10 * time.Second)
	update(t, s, stateChangedMsg{})
	if s.state.Phase != rush.PhaseEnded {
		t.Fatalf("phase = %v, want ended", s.state.Phase)
	}
	view := s.View(100, 30)
	for _, want := range []string{"GAME OVER", "Final score: 0", "0 of 1 correct", "Best: 50", "PLAY AGAIN"} {
		if !strings.Contains(view, want) {
			t.Errorf("game over view missing %q", want)
		}
	}

	oldID := s.state.GameID
	update(t, s, keyPress('r'))
	if s.state.Phase != rush.PhaseAwaiting || s.state.GameID == oldID {
		t.Errorf("restart gave phase %v id %s", s.state.Phase, s.state.GameID)
	}
	if s.state.Lives != 1 || s.state.Score != 0 || s.state.Counter != 0 {
		t.Errorf("unexpected state after restart: %+v", s.state)
	}
	if len(repo.games) != 3 {
		t.Errorf("recorded %d game events, want start, end, start", len(repo.games))
	}
}

func TestEscConfirmsBeforeQuitting(t *testing.T) {
	s, _ := newTestScreen(t, rush.DefaultConfig(), nil)

	if cmd := update(t, s, escKey()); cmd != nil {
		t.Fatal("esc should not pop immediately")
	}
	if !s.showingQuit {
		t.Fatal("expected quit confirmation")
	}
	if !strings.Contains(s.View(100, 30), "Quit this game?") {
		t.Error("expected quit prompt in view")
	}

	update(t, s, keyPress('n'))
	if s.showingQuit {
		t.Fatal("n should dismiss the prompt")
	}

	update(t, s, escKey())
	cmd := update(t, s, keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestQuitConfirmView(t *testing.T) {
	s, _ := newTestScreen(t, rush.DefaultConfig(), nil)
	update(t, s, escKey())

	view := s.View(100, 30)
	for _, want := range []string{"Quit this game?", "[Y] Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("quit view missing %q", want)
		}
	}
}

func TestCloseStopsTimers(t *testing.T) {
	repo := &mockEventRepo{}
	s, clock := newTestScreen(t, rush.DefaultConfig(), repo)
	if len(s.changes) != 1 {
		t.Fatalf("buffered signals after Init = %d, want 1", len(s.changes))
	}

	s.Close()
	if clock.Pending() != 0 {
		t.Errorf("pending timers = %d after close", clock.Pending())
	}
	if msg := s.waitForChange()(); msg != nil {
		t.Errorf("waitForChange after close returned %T, want nil", msg)
	}
	if n := len(repo.games); n != 2 || repo.games[1].Action != store.ActionAbandon {
		t.Errorf("game events = %+v, want start then abandon", repo.games)
	}
}

func TestViewShowsQuestionAndOptions(t *testing.T) {
	s, _ := newTestScreen(t, rush.DefaultConfig(), nil)
	view := s.View(100, 30)

	if !strings.Contains(view, s.state.Question) {
		t.Errorf("view missing question %q", s.state.Question)
	}
	if !strings.Contains(view, "1) ") || !strings.Contains(view, "4) ") {
		t.Error("view missing numbered options")
	}
	if !strings.Contains(view, "EASY") {
		t.Error("view missing tier label")
	}
}

func TestHeaderStats(t *testing.T) {
	s, _ := newTestScreen(t, rush.DefaultConfig(), &mockEventRepo{best: 30})
	update(t, s, s.loadBest()())

	stats := s.HeaderStats()
	if stats.Lives != 3 || stats.Score != 0 || stats.Best != 30 {
		t.Errorf("HeaderStats = %+v", stats)
	}
}
