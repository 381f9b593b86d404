package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/murmurapp/murmur/internal/ipc"
)

func TestHandleStatusIdle(t *testing.T) {
	c := NewController(nil, &fakeProvider{}, newFakeSource(), &fakeInserter{}, nil)

	resp := c.Handle(context.Background(), ipc.Request{Command: ipc.CommandStatus})
	require.True(t, resp.OK)
	require.Equal(t, "idle", resp.State)
	require.Empty(t, resp.Reason)
}

func TestHandleStartStopCycle(t *testing.T) {
	source := newFakeSource([]float32{0.1})
	provider := &fakeProvider{final: "hello world"}
	c := NewController(nil, provider, source, &fakeInserter{}, nil)
	ctx := context.Background()

	resp := c.Handle(ctx, ipc.Request{Command: ipc.CommandStart})
	require.True(t, resp.OK)
	require.Equal(t, "recording", resp.State)

	resp = c.Handle(ctx, ipc.Request{Command: ipc.CommandStop})
	require.True(t, resp.OK)
	require.Equal(t, "success", resp.State)
	require.Equal(t, "hello world", resp.Final)
	require.Equal(t, "transcription complete", resp.Message)
}

func TestHandleStartWhileActive(t *testing.T) {
	c := NewController(nil, &fakeProvider{}, newFakeSource(), &fakeInserter{}, nil)
	ctx := context.Background()

	require.True(t, c.Handle(ctx, ipc.Request{Command: ipc.CommandStart}).OK)

	resp := c.Handle(ctx, ipc.Request{Command: ipc.CommandStart})
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "already active")
	require.Equal(t, "recording", resp.State)
}

func TestHandleStopWithoutRecording(t *testing.T) {
	c := NewController(nil, &fakeProvider{}, newFakeSource(), &fakeInserter{}, nil)

	resp := c.Handle(context.Background(), ipc.Request{Command: ipc.CommandStop})
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "no active recording")
	require.Equal(t, "idle", resp.State)
}

func TestHandleReset(t *testing.T) {
	c := NewController(nil, &fakeProvider{}, newFakeSource(), &fakeInserter{}, nil)
	c.Fail("microphone unplugged")

	resp := c.Handle(context.Background(), ipc.Request{Command: ipc.CommandReset})
	require.True(t, resp.OK)
	require.Equal(t, "idle", resp.State)
	require.Empty(t, resp.Reason)
}

func TestHandleUnknownCommand(t *testing.T) {
	c := NewController(nil, &fakeProvider{}, newFakeSource(), &fakeInserter{}, nil)

	resp := c.Handle(context.Background(), ipc.Request{Command: "dance"})
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, `unknown command "dance"`)
}
