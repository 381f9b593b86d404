package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUnknownID(t *testing.T) {
	_, err := New("whisper-local", nil, Config{})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown provider "whisper-local"`)
	require.Contains(t, err.Error(), "placeholder")
	require.Contains(t, err.Error(), "deepgram")
}

func TestNewEmptyIDSelectsPlaceholder(t *testing.T) {
	p, err := New("", nil, Config{})
	require.NoError(t, err)
	require.Equal(t, IDPlaceholder, p.Name())
}

func TestNewDeepgramID(t *testing.T) {
	p, err := New(IDDeepgram, nil, Config{APIKey: "key"})
	require.NoError(t, err)
	require.Equal(t, IDDeepgram, p.Name())
}

func TestPlaceholderCountsFrames(t *testing.T) {
	p := NewPlaceholder()
	ctx := context.Background()

	require.NoError(t, p.BeginSession(ctx))

	_, err := p.FeedChunk(ctx, make([]float32, 160))
	require.NoError(t, err)
	_, err = p.FeedChunk(ctx, make([]float32, 40))
	require.NoError(t, err)

	res, err := p.EndSession(ctx)
	require.NoError(t, err)
	require.Equal(t, "Simulated transcript from 200 frames.", res.Text)
	require.False(t, res.IsPartial)
}

func TestPlaceholderSessionLifecycle(t *testing.T) {
	p := NewPlaceholder()
	ctx := context.Background()

	_, err := p.FeedChunk(ctx, []float32{0})
	require.ErrorIs(t, err, errNoOpenSession)
	_, err = p.EndSession(ctx)
	require.ErrorIs(t, err, errNoOpenSession)

	require.NoError(t, p.BeginSession(ctx))
	require.Error(t, p.BeginSession(ctx))

	res, err := p.EndSession(ctx)
	require.NoError(t, err)
	require.Equal(t, "Simulated transcript from 0 frames.", res.Text)

	// A finished session can be reopened with a fresh frame count.
	require.NoError(t, p.BeginSession(ctx))
	_, err = p.FeedChunk(ctx, make([]float32, 10))
	require.NoError(t, err)
	res, err = p.EndSession(ctx)
	require.NoError(t, err)
	require.Equal(t, "Simulated transcript from 10 frames.", res.Text)
}
