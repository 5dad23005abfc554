package game

import (
	"context"

	"github.com/mathrush/mathrush/internal/store"
)

// recordGame appends a lifecycle event. Store failures never affect play.
func (s *Session) recordGame(action string) {
	if s.events == nil {
		return
	}
	_ = s.events.AppendGameEvent(context.Background(), store.GameEventData{
		GameID:         s.gameID,
		Action:         action,
		Score:          s.score,
		Lives:          s.lives,
		Rounds:         s.resolvedRounds(action),
		CorrectAnswers: s.correct,
		DurationMs:     s.clock.Now().Sub(s.startedAt).Milliseconds(),
	})
}

// resolvedRounds counts rounds that were answered or timed out. An
// abandoned game's open round does not count.
func (s *Session) resolvedRounds(action string) int {
	if action == store.ActionStart {
		return 0
	}
	if s.phase == PhaseAwaiting {
		return s.counter - 1
	}
	return s.counter
}

func (s *Session) recordAnswer(res Result) {
	if s.events == nil {
		return
	}
	data := store.AnswerEventData{
		GameID:        s.gameID,
		Round:         s.counter,
		Tier:          s.question.Tier.String(),
		Kind:          string(s.question.Kind),
		QuestionText:  s.question.Text,
		CorrectAnswer: res.CorrectAnswer,
		TimedOut:      res.TimedOut,
		Correct:       res.Correct,
		TimeMs:        res.ElapsedMs,
	}
	if !res.TimedOut {
		chosen := res.Chosen
		data.ChosenAnswer = &chosen
	}
	_ = s.events.AppendAnswerEvent(context.Background(), data)
}
