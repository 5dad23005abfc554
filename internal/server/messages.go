package server

import (
	"encoding/json"

	"github.com/mathrush/mathrush/internal/game"
)

// Message types exchanged over the websocket.
const (
	TypeAnswer  = "answer"
	TypeRestart = "restart"
	TypeSync    = "sync"

	TypeState = "state"
	TypeError = "error"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type  string `json:"type"`
	Value *int   `json:"value,omitempty"`
}

// ServerMessage is sent to the browser.
type ServerMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorPayload describes a rejected client message.
type ErrorPayload struct {
	Message string `json:"message"`
}

func stateMessage(st game.State) ServerMessage {
	payload, _ := json.Marshal(st)
	return ServerMessage{Type: TypeState, Payload: payload}
}

func errorMessage(msg string) ServerMessage {
	payload, _ := json.Marshal(ErrorPayload{Message: msg})
	return ServerMessage{Type: TypeError, Payload: payload}
}
