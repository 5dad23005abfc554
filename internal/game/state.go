package game

import (
	"fmt"

	"github.com/mathrush/mathrush/internal/problemgen"
)

// Phase is where a Session is in its round cycle.
type Phase int

const (
	// PhaseAwaiting means a question is on screen and the countdown runs.
	PhaseAwaiting Phase = iota
	// PhaseFeedback means the round is resolved and the next question is
	// pending behind the feedback delay.
	PhaseFeedback
	// PhaseEnded means lives ran out. Only Restart leaves it.
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaiting:
		return "awaiting"
	case PhaseFeedback:
		return "feedback"
	case PhaseEnded:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseAwaiting, PhaseFeedback, PhaseEnded} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Result describes how a round was resolved.
type Result struct {
	Correct       bool  `json:"correct"`
	CorrectAnswer int   `json:"correct_answer"`
	Chosen        int   `json:"chosen"`
	TimedOut      bool  `json:"timed_out"`
	ElapsedMs     int64 `json:"elapsed_ms"`
}

// State is a snapshot of a Session. It shares no memory with the session.
type State struct {
	GameID        string          `json:"game_id"`
	Phase         Phase           `json:"phase"`
	Lives         int             `json:"lives"`
	Score         int             `json:"score"`
	Counter       int             `json:"counter"` // difficulty counter of the current question
	Round         int             `json:"round"`   // 1-based question number
	Tier          problemgen.Tier `json:"tier"`
	Question      string          `json:"question"`
	Options       []int           `json:"options"`
	TimeRemaining int             `json:"time_remaining"`
	RoundTime     int             `json:"round_time"`
	Correct       int             `json:"correct_answers"`
	Last          *Result         `json:"last,omitempty"`
	Urgent        bool            `json:"urgent"`
}

// Playing reports whether the game has not ended.
func (s State) Playing() bool {
	return s.Phase != PhaseEnded
}

// Fraction returns the share of the countdown still left, in [0, 1].
func (s State) Fraction() float64 {
	if s.RoundTime <= 0 {
		return 0
	}
	f := float64(s.TimeRemaining) / float64(s.RoundTime)
	if f < 0 {
		return 0
	}
	return f
}
