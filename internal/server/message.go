package server

import (
	"encoding/json"
	"errors"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	// Client → Server
	MessageTypeReset MessageType = "reset"
	MessageTypeStep  MessageType = "step"

	// Server → Client
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Error codes sent in ErrorData
const (
	CodeInvalidAction = "invalid_action"
	CodeInvalidState  = "invalid_state"
	CodeEmptyShoe     = "empty_shoe"
	CodeBadRequest    = "bad_request"
	CodeInternal      = "internal"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage creates a message with data encoded as JSON
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type: messageType,
		Data: dataBytes,
	}, nil
}

// ResetData starts a new round. A nil Seed continues the session's own RNG
// stream; Decks of 0 keeps the session's current deck count.
type ResetData struct {
	Seed  *int64 `json:"seed,omitempty"`
	Decks int    `json:"decks,omitempty"`
}

// StepData applies one action: 0 = stand, 1 = hit
type StepData struct {
	Action *int `json:"action"`
}

// StateData reports the session after a reset or a step
type StateData struct {
	Session     string           `json:"session"`
	Round       int              `json:"round"`
	Phase       string           `json:"phase"`
	Observation game.Observation `json:"observation"`
	Reward      float64          `json:"reward"`
	Terminated  bool             `json:"terminated"`
	Truncated   bool             `json:"truncated"`
	Info        game.Info        `json:"info"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorCode maps engine errors onto wire error codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidAction):
		return CodeInvalidAction
	case errors.Is(err, game.ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, deck.ErrEmptyShoe):
		return CodeEmptyShoe
	case errors.Is(err, deck.ErrInvalidDecks):
		return CodeBadRequest
	default:
		return CodeInternal
	}
}
