package session

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyActive indicates start was requested while a session is busy.
	ErrAlreadyActive = errors.New("a dictation session is already active")
	// ErrNotRecording indicates stop was requested outside the recording state.
	ErrNotRecording = errors.New("no active recording to stop")
	// ErrEmptyTranscript indicates transcription completed without usable text.
	ErrEmptyTranscript = errors.New("No transcript returned")
	// ErrProviderMissing indicates no transcription provider was wired.
	ErrProviderMissing = errors.New("transcription provider not configured")
	// ErrSourceMissing indicates no audio source was wired.
	ErrSourceMissing = errors.New("audio source not configured")
)

// Result is one transcription emission. Partial results revise the interim
// transcript; the final result ends the provider session.
type Result struct {
	Text      string
	IsPartial bool
}

// Provider is a session-oriented speech-to-text backend. BeginSession must be
// callable again after EndSession; EndSession must be safe when no chunks
// were fed and never returns a partial result.
type Provider interface {
	Name() string
	BeginSession(ctx context.Context) error
	// FeedChunk accepts one mono PCM chunk in capture order. A non-nil result
	// is an interim emission; nil means the backend had nothing to report.
	FeedChunk(ctx context.Context, pcm []float32) (*Result, error)
	EndSession(ctx context.Context) (Result, error)
}

// AudioSource produces mono PCM float chunks while capture is active.
// ReadMonoChunk blocks until a chunk is available and returns an empty chunk
// once capture has stopped and buffered audio is drained.
type AudioSource interface {
	StartCapture(ctx context.Context) error
	StopCapture() error
	ReadMonoChunk(ctx context.Context) ([]float32, error)
}

// Inserter delivers final text into the OS input focus.
type Inserter interface {
	InsertText(ctx context.Context, text string) error
}

// InserterFunc adapts a function to the Inserter interface.
type InserterFunc func(context.Context, string) error

func (f InserterFunc) InsertText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// unavailableProvider preserves controller flow when no provider is wired.
type unavailableProvider struct{}

func (unavailableProvider) Name() string { return "unavailable" }

func (unavailableProvider) BeginSession(context.Context) error {
	return ErrProviderMissing
}

func (unavailableProvider) FeedChunk(context.Context, []float32) (*Result, error) {
	return nil, ErrProviderMissing
}

func (unavailableProvider) EndSession(context.Context) (Result, error) {
	return Result{}, ErrProviderMissing
}

// unavailableSource preserves controller flow when no audio source is wired.
type unavailableSource struct{}

func (unavailableSource) StartCapture(context.Context) error { return ErrSourceMissing }
func (unavailableSource) StopCapture() error                 { return ErrSourceMissing }

func (unavailableSource) ReadMonoChunk(context.Context) ([]float32, error) {
	return nil, ErrSourceMissing
}
