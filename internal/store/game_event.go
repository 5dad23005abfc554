package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder over the shared
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) AppendGameEvent(ctx context.Context, data GameEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(GameEventsTable.Name).
		Columns("sequence", "timestamp", "game_id", "action", "score", "lives",
			"rounds", "correct_answers", "duration_ms").
		Values(seqNum, time.Now().UTC(), data.GameID, data.Action, data.Score, data.Lives,
			data.Rounds, data.CorrectAnswers, data.DurationMs).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save game event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var chosen sql.NullInt64
	if data.ChosenAnswer != nil {
		chosen = sql.NullInt64{Int64: int64(*data.ChosenAnswer), Valid: true}
	}

	query, args := builder().Insert(AnswerEventsTable.Name).
		Columns("sequence", "timestamp", "game_id", "round", "tier", "kind",
			"question_text", "correct_answer", "chosen_answer", "timed_out", "correct", "time_ms").
		Values(seqNum, time.Now().UTC(), data.GameID, data.Round, data.Tier, data.Kind,
			data.QuestionText, data.CorrectAnswer, chosen, data.TimedOut, data.Correct, data.TimeMs).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryGameSummaries(ctx context.Context, opts QueryOpts) ([]GameSummaryRecord, error) {
	b := builder()
	t := b.Table(GameEventsTable.Name)
	sel := b.Select(t.C("sequence"), t.C("timestamp"), t.C("game_id"), t.C("action"),
		t.C("score"), t.C("rounds"), t.C("correct_answers"), t.C("duration_ms")).
		From(t).
		Where(applyOpts(t, opts, entsql.NEQ(t.C("action"), ActionStart))).
		OrderBy(entsql.Desc(t.C("sequence")))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query game summaries: %w", err)
	}
	defer rows.Close()

	var records []GameSummaryRecord
	for rows.Next() {
		var rec GameSummaryRecord
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.GameID, &rec.Action,
			&rec.Score, &rec.Rounds, &rec.CorrectAnswers, &rec.DurationMs); err != nil {
			return nil, fmt.Errorf("scan game summary: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game summaries: %w", err)
	}
	return records, nil
}

func (r *eventRepo) BestScore(ctx context.Context) (int, error) {
	b := builder()
	t := b.Table(GameEventsTable.Name)
	query, args := b.Select(entsql.Max(t.C("score"))).
		From(t).
		Where(entsql.NEQ(t.C("action"), ActionStart)).
		Query()

	var best sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&best); err != nil {
		return 0, fmt.Errorf("query best score: %w", err)
	}
	return int(best.Int64), nil
}

func (r *eventRepo) TierAccuracy(ctx context.Context) ([]TierAccuracyRecord, error) {
	b := builder()
	t := b.Table(AnswerEventsTable.Name)
	query, args := b.Select(t.C("tier"), entsql.Count("*"),
		entsql.Sum(t.C("correct")), entsql.Sum(t.C("timed_out"))).
		From(t).
		GroupBy(t.C("tier")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tier accuracy: %w", err)
	}
	defer rows.Close()

	byTier := make(map[string]TierAccuracyRecord)
	for rows.Next() {
		var rec TierAccuracyRecord
		var correct, timedOut sql.NullInt64
		if err := rows.Scan(&rec.Tier, &rec.Attempts, &correct, &timedOut); err != nil {
			return nil, fmt.Errorf("scan tier accuracy: %w", err)
		}
		rec.Correct = int(correct.Int64)
		rec.TimedOut = int(timedOut.Int64)
		byTier[rec.Tier] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tier accuracy: %w", err)
	}

	var records []TierAccuracyRecord
	for _, tier := range []string{"easy", "medium", "hard"} {
		if rec, ok := byTier[tier]; ok {
			records = append(records, rec)
			delete(byTier, tier)
		}
	}
	for _, rec := range byTier {
		records = append(records, rec)
	}
	return records, nil
}

// applyOpts combines base with the sequence and timestamp bounds in opts.
func applyOpts(t *entsql.SelectTable, opts QueryOpts, base *entsql.Predicate) *entsql.Predicate {
	preds := []*entsql.Predicate{base}
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C("sequence"), opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(t.C("sequence"), opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C("timestamp"), opts.From))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C("timestamp"), opts.To))
	}
	return entsql.And(preds...)
}
