package game

import "errors"

// Caller errors. A call that returns one of these leaves the session
// unchanged.
var (
	ErrGameEnded     = errors.New("game has ended")
	ErrRoundResolved = errors.New("round already resolved")
	ErrRoundOpen     = errors.New("round is still open")
	ErrUnknownOption = errors.New("value is not one of the offered options")
	ErrClosed        = errors.New("session is closed")
)
