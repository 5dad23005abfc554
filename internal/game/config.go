package game

import "time"

// Config controls the rules and pacing of a Session.
type Config struct {
	// Lives is the number of misses a player can afford.
	Lives int

	// PointsPerCorrect is added to the score for every correct answer.
	PointsPerCorrect int

	// RoundTime is the countdown length in ticks.
	RoundTime int

	// TickInterval is the wall-clock length of one countdown tick.
	TickInterval time.Duration

	// FeedbackDelay is how long a resolved round stays on screen before
	// the next question appears.
	FeedbackDelay time.Duration

	// Options is the number of answer choices offered per round.
	Options int

	// UrgentThreshold marks the round as urgent once TimeRemaining drops
	// to or below it.
	UrgentThreshold int

	// Seed makes question generation deterministic. Zero picks a random seed.
	Seed uint64
}

// DefaultConfig returns the standard Math Rush rules.
func DefaultConfig() Config {
	return Config{
		Lives:            3,
		PointsPerCorrect: 10,
		RoundTime:        10,
		TickInterval:     time.Second,
		FeedbackDelay:    1500 * time.Millisecond,
		Options:          4,
		UrgentThreshold:  3,
	}
}

// withDefaults fills zero or invalid fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Lives <= 0 {
		c.Lives = d.Lives
	}
	if c.PointsPerCorrect <= 0 {
		c.PointsPerCorrect = d.PointsPerCorrect
	}
	if c.RoundTime <= 0 {
		c.RoundTime = d.RoundTime
	}
	if c.TickInterval <= 0 {
		c.TickInterval = d.TickInterval
	}
	if c.FeedbackDelay <= 0 {
		c.FeedbackDelay = d.FeedbackDelay
	}
	if c.Options < 2 {
		c.Options = d.Options
	}
	if c.UrgentThreshold < 0 {
		c.UrgentThreshold = d.UrgentThreshold
	}
	return c
}
