// Package fsm defines the dictation UI state machine and its transition rules.
package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
	StateSuccess      State = "success"
	StateError        State = "error"
)

const (
	EventStart  Event = "start"
	EventStop   Event = "stop"
	EventFinish Event = "finish"
	EventFail   Event = "fail"
	EventReset  Event = "reset"
)

// Transition returns the state reached by applying event to current.
// Fail and Reset are accepted from every state; starting over is allowed
// from both terminal states, so a new recording never requires a reset.
func Transition(current State, event Event) (State, error) {
	switch event {
	case EventFail:
		return StateError, nil
	case EventReset:
		return StateIdle, nil
	}

	switch current {
	case StateIdle, StateSuccess, StateError:
		switch event {
		case EventStart:
			return StateRecording, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateRecording:
		switch event {
		case EventStop:
			return StateTranscribing, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateTranscribing:
		switch event {
		case EventFinish:
			return StateSuccess, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

// Terminal reports whether a state ends the current session.
func Terminal(s State) bool {
	return s == StateSuccess || s == StateError
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
