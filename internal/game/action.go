package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAction is returned by Step for action codes outside {Stand, Hit}.
	ErrInvalidAction = errors.New("game: invalid action")

	// ErrInvalidState is returned by Step when no round is awaiting an action,
	// either because Reset was never called or the round is already settled.
	ErrInvalidState = errors.New("game: no round awaiting action")

	// ErrInvalidActionSpace is returned by NewEnv for an unsupported action count.
	ErrInvalidActionSpace = errors.New("game: unsupported action space")
)

// Action is a player decision. The numeric values are the wire encoding.
type Action int

const (
	Stand Action = iota
	Hit
)

// NumActions is the size of the action space the engine defines.
const NumActions = 2

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Stand:
		return "stand"
	case Hit:
		return "hit"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Valid reports whether the engine knows how to apply a
func (a Action) Valid() bool {
	return a == Stand || a == Hit
}

// ParseAction parses "stand"/"s"/"0" or "hit"/"h"/"1"
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stand", "s", "0":
		return Stand, nil
	case "hit", "h", "1":
		return Hit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

// Phase is where a round is in its lifecycle
type Phase int

const (
	// PhaseIdle is the phase of an Env that has never been reset.
	PhaseIdle Phase = iota
	AwaitingAction
	Terminal
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case AwaitingAction:
		return "awaiting-action"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}
