package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Game event actions.
const (
	ActionStart   = "start"
	ActionEnd     = "end"     // lives ran out
	ActionAbandon = "abandon" // restarted or closed before the game ended
)

// GameEventData captures a game lifecycle event.
type GameEventData struct {
	GameID         string
	Action         string
	Score          int
	Lives          int
	Rounds         int
	CorrectAnswers int
	DurationMs     int64
}

// AnswerEventData captures one resolved round.
type AnswerEventData struct {
	GameID        string
	Round         int
	Tier          string
	Kind          string
	QuestionText  string
	CorrectAnswer int
	ChosenAnswer  *int // nil when the round timed out
	TimedOut      bool
	Correct       bool
	TimeMs        int64
}

// GameSummaryRecord is a finished (or abandoned) game as read back from
// the event log.
type GameSummaryRecord struct {
	Sequence       int64
	Timestamp      time.Time
	GameID         string
	Action         string
	Score          int
	Rounds         int
	CorrectAnswers int
	DurationMs     int64
}

// TierAccuracyRecord aggregates answers for one tier.
type TierAccuracyRecord struct {
	Tier     string
	Attempts int
	Correct  int
	TimedOut int
}

// Accuracy returns Correct / Attempts, or 0 with no attempts.
func (r TierAccuracyRecord) Accuracy() float64 {
	if r.Attempts == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Attempts)
}

// EventRepo provides append and query access to game events.
type EventRepo interface {
	// AppendGameEvent records a game start, end or abandon.
	AppendGameEvent(ctx context.Context, data GameEventData) error

	// AppendAnswerEvent records a resolved round.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// QueryGameSummaries returns finished and abandoned games, newest first.
	QueryGameSummaries(ctx context.Context, opts QueryOpts) ([]GameSummaryRecord, error)

	// BestScore returns the highest final score recorded, 0 if none.
	BestScore(ctx context.Context) (int, error)

	// TierAccuracy returns per-tier answer totals in tier order.
	TierAccuracy(ctx context.Context) ([]TierAccuracyRecord, error)
}
