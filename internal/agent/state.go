package agent

import (
	"errors"
	"fmt"
	"strings"
)

// State is the orchestrator's position in the turn loop.
type State int

const (
	StateAwaitingInput State = iota
	StateModelInvoked
	StateToolDispatch
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateModelInvoked:
		return "model_invoked"
	case StateToolDispatch:
		return "tool_dispatch"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StopReason records why a turn handed control back to the caller.
type StopReason string

const (
	StopGreeting      StopReason = "greeting"
	StopAwaitingInput StopReason = "awaiting_input"
	StopSaved         StopReason = "saved"
	StopExit          StopReason = "exit"
	StopError         StopReason = "error"
)

// Farewell is the closing message shown when the user leaves the session.
const Farewell = "Goodbye! Thanks for drafting with me."

var ErrSessionTerminated = errors.New("session has terminated")

// ModelInvocationError is returned when the language model fails. The session
// is terminal afterwards.
type ModelInvocationError struct {
	Round int
	Err   error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation failed in round %d: %v", e.Round, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}

// IsExitCommand reports whether input asks to end the session
func IsExitCommand(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "quit", "exit", "q":
		return true
	default:
		return false
	}
}
