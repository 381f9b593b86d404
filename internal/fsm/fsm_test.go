package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	s := StateIdle

	next, err := Transition(s, EventStart)
	require.NoError(t, err)
	require.Equal(t, StateRecording, next)

	next, err = Transition(next, EventStop)
	require.NoError(t, err)
	require.Equal(t, StateTranscribing, next)

	next, err = Transition(next, EventFinish)
	require.NoError(t, err)
	require.Equal(t, StateSuccess, next)
}

func TestTransitionFailAndResetFromAnyState(t *testing.T) {
	states := []State{StateIdle, StateRecording, StateTranscribing, StateSuccess, StateError}
	for _, state := range states {
		next, err := Transition(state, EventFail)
		require.NoError(t, err)
		require.Equal(t, StateError, next)

		next, err = Transition(state, EventReset)
		require.NoError(t, err)
		require.Equal(t, StateIdle, next)
	}
}

func TestTransitionStartFromTerminalStates(t *testing.T) {
	for _, state := range []State{StateSuccess, StateError} {
		next, err := Transition(state, EventStart)
		require.NoError(t, err)
		require.Equal(t, StateRecording, next)
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
	}{
		{name: "idle stop invalid", state: StateIdle, event: EventStop},
		{name: "idle finish invalid", state: StateIdle, event: EventFinish},
		{name: "recording start invalid", state: StateRecording, event: EventStart},
		{name: "recording finish invalid", state: StateRecording, event: EventFinish},
		{name: "transcribing start invalid", state: StateTranscribing, event: EventStart},
		{name: "transcribing stop invalid", state: StateTranscribing, event: EventStop},
		{name: "success stop invalid", state: StateSuccess, event: EventStop},
		{name: "success finish invalid", state: StateSuccess, event: EventFinish},
		{name: "error stop invalid", state: StateError, event: EventStop},
		{name: "error finish invalid", state: StateError, event: EventFinish},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid transition")
			require.Equal(t, tc.state, next)
		})
	}
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventStart)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, State("mystery"), next)
}

func TestTerminal(t *testing.T) {
	require.True(t, Terminal(StateSuccess))
	require.True(t, Terminal(StateError))
	require.False(t, Terminal(StateIdle))
	require.False(t, Terminal(StateRecording))
	require.False(t, Terminal(StateTranscribing))
}
