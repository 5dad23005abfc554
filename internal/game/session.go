package game

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mathrush/mathrush/internal/problemgen"
	"github.com/mathrush/mathrush/internal/store"
)

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source. The default is SystemClock.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithRand sets the random source shared by question and option draws.
// It overrides Config.Seed.
func WithRand(r problemgen.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithListener registers a function called with a fresh State after every
// mutation. It runs under the session lock, so it must not block or call
// back into the session.
func WithListener(fn func(State)) Option {
	return func(s *Session) { s.listener = fn }
}

// WithEventRepo persists game lifecycle and answer events.
func WithEventRepo(repo store.EventRepo) Option {
	return func(s *Session) { s.events = repo }
}

// Session is one player's game. All methods are safe for concurrent use;
// timer callbacks and caller operations are serialized by one mutex.
type Session struct {
	mu sync.Mutex

	cfg      Config
	gen      *problemgen.Generator
	rng      problemgen.Rand
	clock    Clock
	listener func(State)
	events   store.EventRepo

	gameID    string
	lives     int
	score     int
	counter   int // questions generated this game
	level     int // counter value the current question was drawn with
	correct   int
	question  problemgen.Question
	options   []int
	remaining int
	phase     Phase
	last      *Result

	startedAt      time.Time
	roundStartedAt time.Time

	running bool
	closed  bool

	// timer is the single pending countdown tick or advance delay. epoch
	// changes whenever it is armed or disarmed; callbacks from an older
	// epoch do nothing.
	timer Timer
	epoch uint64
}

// New creates a session with its first question ready. Timers do not run
// until Start is called.
func New(cfg Config, opts ...Option) *Session {
	s := &Session{cfg: cfg.withDefaults()}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.rng == nil && s.cfg.Seed != 0 {
		s.rng = problemgen.NewRand(s.cfg.Seed)
	}
	if s.rng == nil {
		s.rng = problemgen.NewRand(uint64(time.Now().UnixNano()))
	}
	s.gen = problemgen.New(s.rng)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return s
}

// Start arms the countdown for the current round. Calling it again has no
// effect.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.running {
		return
	}
	s.running = true
	s.armForPhase()
	s.notify()
}

// SubmitAnswer resolves the open round with v.
func (s *Session) SubmitAnswer(v int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAwaiting(); err != nil {
		return Result{}, err
	}
	if !slices.Contains(s.options, v) {
		return Result{}, ErrUnknownOption
	}
	res := s.resolve(v, false)
	s.notify()
	return res, nil
}

// Tick counts one unit off the countdown. At zero the round is forfeited
// as a miss.
func (s *Session) Tick() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkAwaiting(); err != nil {
		return err
	}
	s.tick()
	return nil
}

// Advance moves from a resolved round to the next question.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return ErrClosed
	case s.phase == PhaseEnded:
		return ErrGameEnded
	case s.phase == PhaseAwaiting:
		return ErrRoundOpen
	}
	s.advance()
	return nil
}

// Restart abandons the current game, if any, and begins a new one from
// the first tier. Valid in every phase.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.phase != PhaseEnded {
		s.recordGame(store.ActionAbandon)
	}
	s.disarm()
	s.reset()
	s.armForPhase()
	s.notify()
	return nil
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Close stops all timers. An unfinished game is recorded as abandoned.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.disarm()
	if s.phase != PhaseEnded {
		s.recordGame(store.ActionAbandon)
	}
	s.closed = true
	s.running = false
}

func (s *Session) checkAwaiting() error {
	switch {
	case s.closed:
		return ErrClosed
	case s.phase == PhaseEnded:
		return ErrGameEnded
	case s.phase == PhaseFeedback:
		return ErrRoundResolved
	}
	return nil
}

// reset puts the session into the initial state of a new game.
func (s *Session) reset() {
	s.gameID = uuid.New().String()
	s.lives = s.cfg.Lives
	s.score = 0
	s.counter = 0
	s.correct = 0
	s.startedAt = s.clock.Now()
	s.recordGame(store.ActionStart)
	s.nextQuestion()
}

func (s *Session) nextQuestion() {
	s.level = s.counter
	s.question = s.gen.Generate(s.counter)
	s.counter++
	s.options = problemgen.BuildOptions(s.question.Answer, s.cfg.Options, s.rng)
	s.remaining = s.cfg.RoundTime
	s.phase = PhaseAwaiting
	s.last = nil
	s.roundStartedAt = s.clock.Now()
}

func (s *Session) tick() {
	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		s.resolve(0, true)
	} else {
		s.arm(s.cfg.TickInterval, s.tick)
	}
	s.notify()
}

func (s *Session) advance() {
	s.nextQuestion()
	s.arm(s.cfg.TickInterval, s.tick)
	s.notify()
}

// resolve closes the open round. It does not notify.
func (s *Session) resolve(chosen int, timedOut bool) Result {
	s.disarm()

	res := Result{
		Correct:       !timedOut && chosen == s.question.Answer,
		CorrectAnswer: s.question.Answer,
		Chosen:        chosen,
		TimedOut:      timedOut,
		ElapsedMs:     s.clock.Now().Sub(s.roundStartedAt).Milliseconds(),
	}
	if res.Correct {
		s.score += s.cfg.PointsPerCorrect
		s.correct++
	} else {
		s.lives = max(s.lives-1, 0)
	}
	s.last = &res
	s.recordAnswer(res)

	if s.lives == 0 {
		s.phase = PhaseEnded
		s.recordGame(store.ActionEnd)
		return res
	}
	s.phase = PhaseFeedback
	s.arm(s.cfg.FeedbackDelay, s.advance)
	return res
}

// armForPhase schedules the timer the current phase needs.
func (s *Session) armForPhase() {
	switch s.phase {
	case PhaseAwaiting:
		s.arm(s.cfg.TickInterval, s.tick)
	case PhaseFeedback:
		s.arm(s.cfg.FeedbackDelay, s.advance)
	}
}

// arm replaces the pending timer with one running fn after d. Nothing is
// scheduled before Start or after Close.
func (s *Session) arm(d time.Duration, fn func()) {
	s.disarm()
	if !s.running || s.closed {
		return
	}
	epoch := s.epoch
	s.timer = s.clock.AfterFunc(d, func() { s.fire(epoch, fn) })
}

func (s *Session) disarm() {
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) fire(epoch uint64, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || epoch != s.epoch {
		return
	}
	s.timer = nil
	fn()
}

func (s *Session) snapshot() State {
	st := State{
		GameID:        s.gameID,
		Phase:         s.phase,
		Lives:         s.lives,
		Score:         s.score,
		Counter:       s.level,
		Round:         s.counter,
		Tier:          s.question.Tier,
		Question:      s.question.Text,
		Options:       slices.Clone(s.options),
		TimeRemaining: s.remaining,
		RoundTime:     s.cfg.RoundTime,
		Correct:       s.correct,
		Urgent:        s.phase == PhaseAwaiting && s.remaining <= s.cfg.UrgentThreshold,
	}
	if s.last != nil {
		last := *s.last
		st.Last = &last
	}
	return st
}

func (s *Session) notify() {
	if s.listener != nil {
		s.listener(s.snapshot())
	}
}
