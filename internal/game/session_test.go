package game

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathrush/mathrush/internal/problemgen"
	"github.com/mathrush/mathrush/internal/store"
)

// --- Test helpers ---

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	return cfg
}

func newTestSession(t *testing.T, cfg Config, opts ...Option) (*Session, *ManualClock) {
	t.Helper()
	clock := NewManualClock(epoch)
	s := New(cfg, append([]Option{WithClock(clock)}, opts...)...)
	t.Cleanup(s.Close)
	return s, clock
}

func answerOf(s *Session) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question.Answer
}

func wrongOption(t *testing.T, s *Session) int {
	t.Helper()
	answer := answerOf(s)
	for _, o := range s.State().Options {
		if o != answer {
			return o
		}
	}
	t.Fatal("no wrong option offered")
	return 0
}

// leakyClock hands out timers whose Stop never prevents the callback, so
// tests can run superseded callbacks by hand.
type leakyClock struct {
	mu        sync.Mutex
	callbacks []func()
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return true }

func (c *leakyClock) Now() time.Time { return epoch }

func (c *leakyClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, f)
	return leakyTimer{}
}

func (c *leakyClock) all() []func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.callbacks)
}

type recordingRepo struct {
	mu      sync.Mutex
	games   []store.GameEventData
	answers []store.AnswerEventData
}

func (r *recordingRepo) AppendGameEvent(_ context.Context, data store.GameEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games = append(r.games, data)
	return nil
}

func (r *recordingRepo) AppendAnswerEvent(_ context.Context, data store.AnswerEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers = append(r.answers, data)
	return nil
}

func (r *recordingRepo) QueryGameSummaries(context.Context, store.QueryOpts) ([]store.GameSummaryRecord, error) {
	return nil, nil
}

func (r *recordingRepo) BestScore(context.Context) (int, error) { return 0, nil }

func (r *recordingRepo) TierAccuracy(context.Context) ([]store.TierAccuracyRecord, error) {
	return nil, nil
}

// --- Tests ---

func TestNew_InitialState(t *testing.T) {
	s, clock := newTestSession(t, testConfig())
	st := s.State()

	assert.Equal(t, PhaseAwaiting, st.Phase)
	assert.Equal(t, 3, st.Lives)
	assert.Equal(t, 0, st.Score)
	assert.Equal(t, 0, st.Counter)
	assert.Equal(t, 1, st.Round)
	assert.Equal(t, 10, st.TimeRemaining)
	assert.Equal(t, problemgen.TierEasy, st.Tier)
	assert.NotEmpty(t, st.GameID)
	assert.True(t, st.Playing())
	assert.False(t, st.Urgent)
	assert.Nil(t, st.Last)

	require.Len(t, st.Options, 4)
	assert.Equal(t, 1, count(st.Options, answerOf(s)))
	assert.Zero(t, clock.Pending(), "no timers before Start")
}

func TestStateOptionsAreCopied(t *testing.T) {
	s, _ := newTestSession(t, testConfig())
	st := s.State()
	st.Options[0] = -999
	assert.NotEqual(t, -999, s.State().Options[0])
}

func TestSubmitAnswer_Correct(t *testing.T) {
	s, _ := newTestSession(t, testConfig())
	s.Start()

	res, err := s.SubmitAnswer(answerOf(s))
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.False(t, res.TimedOut)

	st := s.State()
	assert.Equal(t, 10, st.Score)
	assert.Equal(t, 3, st.Lives)
	assert.Equal(t, 1, st.Correct)
	assert.Equal(t, PhaseFeedback, st.Phase)
	require.NotNil(t, st.Last)
	assert.True(t, st.Last.Correct)
}

func TestSubmitAnswer_WrongWithOneLifeEnds(t *testing.T) {
	cfg := testConfig()
	cfg.Lives = 1
	s, clock := newTestSession(t, cfg)
	s.Start()

	res, err := s.SubmitAnswer(wrongOption(t, s))
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, answerOf(s), res.CorrectAnswer)

	ended := s.State()
	assert.Equal(t, PhaseEnded, ended.Phase)
	assert.Equal(t, 0, ended.Lives)
	assert.False(t, ended.Playing())
	assert.Zero(t, clock.Pending(), "no advance is scheduled after the game ends")

	_, err = s.SubmitAnswer(answerOf(s))
	assert.ErrorIs(t, err, ErrGameEnded)
	assert.ErrorIs(t, s.Tick(), ErrGameEnded)
	assert.ErrorIs(t, s.Advance(), ErrGameEnded)

	clock.Advance(time.Minute)
	assert.Equal(t, ended, s.State())
}

func TestTimeoutIsAMiss(t *testing.T) {
	missed, _ := newTestSession(t, testConfig())
	missed.Start()
	_, err := missed.SubmitAnswer(wrongOption(t, missed))
	require.NoError(t, err)

	timedOut, clock := newTestSession(t, testConfig())
	timedOut.Start()
	clock.Advance(9 * time.Second)
	assert.Equal(t, 1, timedOut.State().TimeRemaining)
	assert.Equal(t, PhaseAwaiting, timedOut.State().Phase)

	clock.Advance(time.Second)
	st := timedOut.State()
	assert.Equal(t, 0, st.TimeRemaining)
	assert.Equal(t, missed.State().Lives, st.Lives)
	assert.Equal(t, missed.State().Phase, st.Phase)
	assert.Equal(t, missed.State().Score, st.Score)
	require.NotNil(t, st.Last)
	assert.True(t, st.Last.TimedOut)
	assert.False(t, st.Last.Correct)
}

func TestTimeoutOnLastLifeEnds(t *testing.T) {
	cfg := testConfig()
	cfg.Lives = 1
	s, clock := newTestSession(t, cfg)
	s.Start()

	clock.Advance(10 * time.Second)
	assert.Equal(t, PhaseEnded, s.State().Phase)
	assert.Zero(t, clock.Pending())
}

func TestThreeMissesEndGame(t *testing.T) {
	s, _ := newTestSession(t, testConfig())

	for i := range 3 {
		_, err := s.SubmitAnswer(wrongOption(t, s))
		require.NoError(t, err, "miss %d", i+1)
		if i < 2 {
			assert.Equal(t, PhaseFeedback, s.State().Phase)
			require.NoError(t, s.Advance())
		}
	}

	st := s.State()
	assert.Equal(t, PhaseEnded, st.Phase)
	assert.Equal(t, 0, st.Lives)
	assert.Equal(t, 0, st.Score)
}

func TestSubmitAnswer_UnknownOption(t *testing.T) {
	s, _ := newTestSession(t, testConfig())
	before := s.State()

	value := 1000
	for slices.Contains(before.Options, value) {
		value++
	}
	_, err := s.SubmitAnswer(value)
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Equal(t, before, s.State())
}

func TestPhaseErrors(t *testing.T) {
	s, _ := newTestSession(t, testConfig())

	assert.ErrorIs(t, s.Advance(), ErrRoundOpen)

	_, err := s.SubmitAnswer(answerOf(s))
	require.NoError(t, err)
	before := s.State()

	_, err = s.SubmitAnswer(answerOf(s))
	assert.ErrorIs(t, err, ErrRoundResolved)
	assert.ErrorIs(t, s.Tick(), ErrRoundResolved)
	assert.Equal(t, before, s.State())
}

func TestFeedbackDelayAdvances(t *testing.T) {
	s, clock := newTestSession(t, testConfig())
	s.Start()
	clock.Advance(4 * time.Second)

	_, err := s.SubmitAnswer(answerOf(s))
	require.NoError(t, err)

	clock.Advance(1499 * time.Millisecond)
	assert.Equal(t, PhaseFeedback, s.State().Phase)

	clock.Advance(time.Millisecond)
	st := s.State()
	assert.Equal(t, PhaseAwaiting, st.Phase)
	assert.Equal(t, 1, st.Counter)
	assert.Equal(t, 2, st.Round)
	assert.Equal(t, 10, st.TimeRemaining)
	assert.Nil(t, st.Last)
	assert.Equal(t, 1, clock.Pending(), "only the new countdown is pending")
}

func TestCountdownMarksUrgent(t *testing.T) {
	s, clock := newTestSession(t, testConfig())
	s.Start()

	clock.Advance(6 * time.Second)
	assert.False(t, s.State().Urgent)

	clock.Advance(time.Second)
	st := s.State()
	assert.Equal(t, 3, st.TimeRemaining)
	assert.True(t, st.Urgent)
	assert.InDelta(t, 0.3, st.Fraction(), 1e-9)
}

func TestManualTick(t *testing.T) {
	s, _ := newTestSession(t, testConfig())
	for range 9 {
		require.NoError(t, s.Tick())
	}
	assert.Equal(t, 1, s.State().TimeRemaining)

	require.NoError(t, s.Tick())
	st := s.State()
	assert.Equal(t, PhaseFeedback, st.Phase)
	assert.Equal(t, 2, st.Lives)
}

func TestTierFollowsCounter(t *testing.T) {
	s, _ := newTestSession(t, testConfig())

	for round := 0; round < 12; round++ {
		st := s.State()
		assert.Equal(t, round, st.Counter)
		assert.Equal(t, problemgen.TierFor(round), st.Tier, "round %d", round)

		_, err := s.SubmitAnswer(answerOf(s))
		require.NoError(t, err)
		require.NoError(t, s.Advance())
	}
	assert.Equal(t, 120, s.State().Score)
}

func TestRestart(t *testing.T) {
	t.Run("from ended", func(t *testing.T) {
		cfg := testConfig()
		cfg.Lives = 1
		s, clock := newTestSession(t, cfg)
		s.Start()
		oldID := s.State().GameID

		_, err := s.SubmitAnswer(wrongOption(t, s))
		require.NoError(t, err)
		require.Equal(t, PhaseEnded, s.State().Phase)

		require.NoError(t, s.Restart())
		st := s.State()
		assert.Equal(t, PhaseAwaiting, st.Phase)
		assert.Equal(t, 1, st.Lives)
		assert.Equal(t, 0, st.Score)
		assert.Equal(t, 0, st.Counter)
		assert.Equal(t, 10, st.TimeRemaining)
		assert.NotEqual(t, oldID, st.GameID)
		assert.Equal(t, 1, clock.Pending(), "countdown re-armed")
	})

	t.Run("mid game", func(t *testing.T) {
		s, clock := newTestSession(t, testConfig())
		s.Start()
		for range 3 {
			_, err := s.SubmitAnswer(answerOf(s))
			require.NoError(t, err)
			clock.Advance(1500 * time.Millisecond)
		}
		_, err := s.SubmitAnswer(wrongOption(t, s))
		require.NoError(t, err)
		clock.Advance(2 * time.Second)

		require.NoError(t, s.Restart())
		st := s.State()
		assert.Equal(t, 3, st.Lives)
		assert.Equal(t, 0, st.Score)
		assert.Equal(t, 0, st.Counter)
		assert.Equal(t, PhaseAwaiting, st.Phase)
		assert.Equal(t, 1, clock.Pending())
	})

	t.Run("during feedback cancels advance", func(t *testing.T) {
		s, clock := newTestSession(t, testConfig())
		s.Start()
		_, err := s.SubmitAnswer(answerOf(s))
		require.NoError(t, err)

		require.NoError(t, s.Restart())
		clock.Advance(1500 * time.Millisecond)
		st := s.State()
		assert.Equal(t, 0, st.Counter)
		assert.Equal(t, 9, st.TimeRemaining)
	})
}

func TestStaleCallbacksAreNoOps(t *testing.T) {
	t.Run("after restart", func(t *testing.T) {
		clock := &leakyClock{}
		s := New(testConfig(), WithClock(clock))
		defer s.Close()
		s.Start()
		staleTick := clock.all()[0]

		_, err := s.SubmitAnswer(answerOf(s))
		require.NoError(t, err)
		staleAdvance := clock.all()[1]

		require.NoError(t, s.Restart())
		before := s.State()

		staleTick()
		staleAdvance()
		assert.Equal(t, before, s.State())

		current := clock.all()[2]
		current()
		assert.Equal(t, 9, s.State().TimeRemaining)
	})

	t.Run("after game end", func(t *testing.T) {
		cfg := testConfig()
		cfg.Lives = 1
		clock := &leakyClock{}
		s := New(cfg, WithClock(clock))
		defer s.Close()
		s.Start()

		_, err := s.SubmitAnswer(wrongOption(t, s))
		require.NoError(t, err)
		before := s.State()
		require.Equal(t, PhaseEnded, before.Phase)

		for _, cb := range clock.all() {
			cb()
		}
		assert.Equal(t, before, s.State())
	})

	t.Run("superseded tick", func(t *testing.T) {
		clock := &leakyClock{}
		s := New(testConfig(), WithClock(clock))
		defer s.Close()
		s.Start()

		first := clock.all()[0]
		first()
		assert.Equal(t, 9, s.State().TimeRemaining)

		first()
		assert.Equal(t, 9, s.State().TimeRemaining, "a callback only fires once")
	})
}

func TestClose(t *testing.T) {
	repo := &recordingRepo{}
	s, clock := newTestSession(t, testConfig(), WithEventRepo(repo))
	s.Start()
	s.Close()

	assert.Zero(t, clock.Pending())
	_, err := s.SubmitAnswer(answerOf(s))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Tick(), ErrClosed)
	assert.ErrorIs(t, s.Advance(), ErrClosed)
	assert.ErrorIs(t, s.Restart(), ErrClosed)

	s.Close()
	require.Len(t, repo.games, 2)
	assert.Equal(t, store.ActionAbandon, repo.games[1].Action)
}

func TestListenerSeesEveryChange(t *testing.T) {
	var states []State
	s, clock := newTestSession(t, testConfig(), WithListener(func(st State) {
		states = append(states, st)
	}))

	s.Start()
	clock.Advance(time.Second)
	_, err := s.SubmitAnswer(answerOf(s))
	require.NoError(t, err)
	clock.Advance(1500 * time.Millisecond)

	require.Len(t, states, 4)
	assert.Equal(t, 10, states[0].TimeRemaining)
	assert.Equal(t, 9, states[1].TimeRemaining)
	assert.Equal(t, PhaseFeedback, states[2].Phase)
	assert.Equal(t, PhaseAwaiting, states[3].Phase)
	assert.Equal(t, 2, states[3].Round)
}

func TestEventsRecorded(t *testing.T) {
	repo := &recordingRepo{}
	cfg := testConfig()
	cfg.Lives = 2
	s, clock := newTestSession(t, cfg, WithEventRepo(repo))
	s.Start()
	gameID := s.State().GameID

	_, err := s.SubmitAnswer(answerOf(s))
	require.NoError(t, err)
	clock.Advance(1500 * time.Millisecond)

	_, err = s.SubmitAnswer(wrongOption(t, s))
	require.NoError(t, err)
	clock.Advance(1500 * time.Millisecond)

	clock.Advance(10 * time.Second)
	require.Equal(t, PhaseEnded, s.State().Phase)

	require.Len(t, repo.games, 2)
	assert.Equal(t, store.ActionStart, repo.games[0].Action)
	assert.Equal(t, gameID, repo.games[0].GameID)
	assert.Equal(t, 2, repo.games[0].Lives)

	end := repo.games[1]
	assert.Equal(t, store.ActionEnd, end.Action)
	assert.Equal(t, 10, end.Score)
	assert.Equal(t, 3, end.Rounds)
	assert.Equal(t, 1, end.CorrectAnswers)
	assert.Equal(t, int64(13000), end.DurationMs)

	require.Len(t, repo.answers, 3)
	assert.True(t, repo.answers[0].Correct)
	assert.Equal(t, 1, repo.answers[0].Round)
	assert.Equal(t, "easy", repo.answers[0].Tier)
	require.NotNil(t, repo.answers[1].ChosenAnswer)
	assert.False(t, repo.answers[1].Correct)
	assert.True(t, repo.answers[2].TimedOut)
	assert.Nil(t, repo.answers[2].ChosenAnswer)
	assert.Equal(t, int64(10000), repo.answers[2].TimeMs)
}

func TestRestartRecordsAbandon(t *testing.T) {
	repo := &recordingRepo{}
	s, _ := newTestSession(t, testConfig(), WithEventRepo(repo))
	_, err := s.SubmitAnswer(answerOf(s))
	require.NoError(t, err)

	require.NoError(t, s.Restart())
	require.Len(t, repo.games, 3)
	assert.Equal(t, store.ActionAbandon, repo.games[1].Action)
	assert.Equal(t, 10, repo.games[1].Score)
	assert.Equal(t, 1, repo.games[1].Rounds)
	assert.Equal(t, store.ActionStart, repo.games[2].Action)
	assert.NotEqual(t, repo.games[0].GameID, repo.games[2].GameID)
}

func TestSeedIsDeterministic(t *testing.T) {
	a, _ := newTestSession(t, testConfig())
	b, _ := newTestSession(t, testConfig())
	assert.Equal(t, a.State().Question, b.State().Question)
	assert.Equal(t, a.State().Options, b.State().Options)
}

func TestDefaultsFillZeroConfig(t *testing.T) {
	s, _ := newTestSession(t, Config{Seed: 7})
	st := s.State()
	assert.Equal(t, 3, st.Lives)
	assert.Equal(t, 10, st.RoundTime)
	assert.Len(t, st.Options, 4)
}

func count(values []int, v int) int {
	n := 0
	for _, x := range values {
		if x == v {
			n++
		}
	}
	return n
}
