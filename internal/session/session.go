// Package session coordinates the dictation lifecycle: capture, streaming
// transcription, and text insertion behind one state machine.
package session

import "github.com/murmurapp/murmur/internal/fsm"

// Session is the value object for one recording attempt. PartialText
// accumulates interim transcripts while recording; FinalText is set exactly
// once when transcription completes and survives until the next start.
type Session struct {
	PartialText string
	FinalText   string
	HasFinal    bool
}

// Snapshot is a consistent, fully-formed view of controller state. It is the
// only read surface exposed to UI consumers; Reason is non-empty exactly when
// State is fsm.StateError.
type Snapshot struct {
	State   fsm.State
	Reason  string
	Session Session
}

// Observer receives a snapshot after every observable transition, including
// partial-transcript updates. Calls are made outside the controller lock and
// must not call back into the controller.
type Observer interface {
	StateChanged(Snapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) StateChanged(s Snapshot) {
	f(s)
}

// noopObserver preserves controller flow when no observer is wired.
type noopObserver struct{}

func (noopObserver) StateChanged(Snapshot) {}
