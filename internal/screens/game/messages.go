package game

// stateChangedMsg is sent when the session reports a mutation.
type stateChangedMsg struct{}

// bestScoreMsg carries the best score loaded from the event store.
type bestScoreMsg struct {
	Best int
	Err  error
}
