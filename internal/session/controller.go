package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/murmurapp/murmur/internal/fsm"
)

// closeTimeout bounds best-effort resource cleanup on failure paths.
const closeTimeout = 5 * time.Second

// Controller owns one dictation session at a time and drives the audio
// source and transcription provider through the recording lifecycle. State
// transitions happen on the caller's goroutine; the streaming feed loop runs
// on its own worker so blocking audio/network waits never stall callers.
type Controller struct {
	logger   *slog.Logger
	provider Provider
	source   AudioSource
	insert   Inserter
	observer Observer

	mu      sync.Mutex
	state   fsm.State
	reason  string
	session Session

	// generation invalidates a superseded feed loop's late effects; it is
	// bumped whenever session ownership changes hands.
	generation   uint64
	opening      bool
	providerOpen bool
	captureOpen  bool
	feedDone     chan struct{}
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	provider Provider,
	source AudioSource,
	inserter Inserter,
	observer Observer,
) *Controller {
	if provider == nil {
		provider = unavailableProvider{}
	}
	if source == nil {
		source = unavailableSource{}
	}
	if inserter == nil {
		inserter = InserterFunc(func(context.Context, string) error { return nil })
	}
	if observer == nil {
		observer = noopObserver{}
	}

	return &Controller{
		logger:   logger,
		provider: provider,
		source:   source,
		insert:   inserter,
		observer: observer,
		state:    fsm.StateIdle,
	}
}

// State returns the current FSM state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a consistent copy of state, error reason, and session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// StartRecording opens a provider session and audio capture, replaces the
// session value, and enters Recording. Valid from Idle, Success, and Error;
// starting while busy returns ErrAlreadyActive and leaves state untouched.
// If either open fails the side that already opened is closed before the
// error is surfaced, and state becomes Error.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.opening {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	if _, err := fsm.Transition(c.state, fsm.EventStart); err != nil {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	c.opening = true
	c.mu.Unlock()

	if err := c.provider.BeginSession(ctx); err != nil {
		wrapped := fmt.Errorf("begin provider session: %w", err)
		c.failOpen(wrapped.Error(), false)
		return wrapped
	}

	if err := c.source.StartCapture(ctx); err != nil {
		wrapped := fmt.Errorf("start audio capture: %w", err)
		c.failOpen(wrapped.Error(), true)
		return wrapped
	}

	c.mu.Lock()
	c.opening = false
	c.generation++
	gen := c.generation
	c.providerOpen = true
	c.captureOpen = true
	c.session = Session{}
	c.reason = ""
	c.state = fsm.StateRecording
	done := make(chan struct{})
	c.feedDone = done
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	go c.feedLoop(ctx, gen, done)
	return nil
}

// StopAndTranscribe leaves Recording, drains buffered audio through the feed
// loop, finalizes the provider session, and hands non-empty text to the
// inserter. The Transcribing state is visible before any blocking work.
func (c *Controller) StopAndTranscribe(ctx context.Context) (string, error) {
	c.mu.Lock()
	next, err := fsm.Transition(c.state, fsm.EventStop)
	if err != nil {
		c.mu.Unlock()
		return "", ErrNotRecording
	}
	c.state = next
	gen := c.generation
	feedDone := c.feedDone
	c.feedDone = nil
	c.captureOpen = false
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	if err := c.source.StopCapture(); err != nil {
		wrapped := fmt.Errorf("stop audio capture: %w", err)
		c.failIf(wrapped.Error(), func() bool { return gen == c.generation })
		return "", wrapped
	}

	// Remaining buffered chunks drain through the feed loop before finalize,
	// so the provider sees the whole recording in capture order.
	if feedDone != nil {
		<-feedDone
	}

	c.mu.Lock()
	if gen != c.generation || c.state != fsm.StateTranscribing {
		reason := c.reason
		c.mu.Unlock()
		return "", fmt.Errorf("session aborted: %s", reason)
	}
	c.providerOpen = false
	c.mu.Unlock()

	final, err := c.provider.EndSession(ctx)
	if err != nil {
		wrapped := fmt.Errorf("finalize transcription: %w", err)
		c.failIf(wrapped.Error(), func() bool { return gen == c.generation })
		return "", wrapped
	}

	c.mu.Lock()
	if gen != c.generation || c.state != fsm.StateTranscribing {
		reason := c.reason
		c.mu.Unlock()
		return "", fmt.Errorf("session aborted: %s", reason)
	}
	if strings.TrimSpace(final.Text) == "" {
		c.session.FinalText = final.Text
		c.session.HasFinal = true
		c.state = fsm.StateError
		c.reason = ErrEmptyTranscript.Error()
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return "", ErrEmptyTranscript
	}
	c.mu.Unlock()

	// FinalText lands together with the terminal transition below, so no
	// snapshot ever shows a final transcript while still Transcribing.
	if err := c.insert.InsertText(ctx, final.Text); err != nil {
		// The transcript stays on the session for display and retry.
		c.mu.Lock()
		if gen == c.generation && c.state == fsm.StateTranscribing {
			c.session.FinalText = final.Text
			c.session.HasFinal = true
			c.state = fsm.StateError
			c.reason = err.Error()
			snap := c.snapshotLocked()
			c.mu.Unlock()
			c.notify(snap)
		} else {
			c.mu.Unlock()
		}
		return "", fmt.Errorf("insert text: %w", err)
	}

	c.mu.Lock()
	if gen == c.generation && c.state == fsm.StateTranscribing {
		c.session.FinalText = final.Text
		c.session.HasFinal = true
		c.state, _ = fsm.Transition(c.state, fsm.EventFinish)
		c.reason = ""
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
	} else {
		c.mu.Unlock()
	}
	return final.Text, nil
}

// ResetToIdle forces Idle from any state and clears the interim transcript.
// FinalText is left for historical display until the next start. Any session
// still open is closed best-effort so a later start never overlaps it.
func (c *Controller) ResetToIdle() {
	c.mu.Lock()
	c.generation++
	c.state, _ = fsm.Transition(c.state, fsm.EventReset)
	c.reason = ""
	c.session.PartialText = ""
	closeCapture := c.captureOpen
	closeProvider := c.providerOpen
	c.captureOpen = false
	c.providerOpen = false
	c.opening = false
	c.feedDone = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.closeLeftovers(closeCapture, closeProvider)
}

// Fail forces Error from any state and closes open sessions best-effort.
// Used by asynchronous error paths to short-circuit the machine.
func (c *Controller) Fail(reason string) {
	c.failIf(reason, nil)
}

// feedLoop forwards capture chunks to the provider in capture order and
// applies interim results. It exits on the drained sentinel, a read error,
// or a provider stream error; errors are discarded when a stop or a newer
// session already won the transition race.
func (c *Controller) feedLoop(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	for {
		chunk, err := c.source.ReadMonoChunk(ctx)
		if err != nil {
			c.failAsync(gen, fmt.Sprintf("read audio chunk: %v", err))
			return
		}
		if len(chunk) == 0 {
			return
		}

		res, err := c.provider.FeedChunk(ctx, chunk)
		if err != nil {
			c.failAsync(gen, fmt.Sprintf("stream audio chunk: %v", err))
			return
		}
		if res != nil && res.IsPartial {
			c.applyPartial(gen, res.Text)
		}
	}
}

// applyPartial publishes an interim transcript for the active session.
func (c *Controller) applyPartial(gen uint64, text string) {
	c.mu.Lock()
	if gen != c.generation ||
		(c.state != fsm.StateRecording && c.state != fsm.StateTranscribing) {
		c.mu.Unlock()
		return
	}
	c.session.PartialText = text
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// failAsync applies a feed-loop failure unless the session was superseded or
// already left Recording; the first terminal/Transcribing transition wins.
func (c *Controller) failAsync(gen uint64, reason string) {
	c.failIf(reason, func() bool {
		return gen == c.generation && c.state == fsm.StateRecording
	})
}

// failOpen records a start failure, rolling back the provider session when
// it was the side that had already opened.
func (c *Controller) failOpen(reason string, providerOpened bool) {
	c.mu.Lock()
	c.opening = false
	c.state = fsm.StateError
	c.reason = reason
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.closeLeftovers(false, providerOpened)
}

// failIf transitions to Error when gate (evaluated under the lock) allows it
// and closes any open sessions best-effort.
func (c *Controller) failIf(reason string, gate func() bool) {
	c.mu.Lock()
	if gate != nil && !gate() {
		c.mu.Unlock()
		return
	}
	c.generation++
	c.state, _ = fsm.Transition(c.state, fsm.EventFail)
	c.reason = reason
	closeCapture := c.captureOpen
	closeProvider := c.providerOpen
	c.captureOpen = false
	c.providerOpen = false
	c.opening = false
	c.feedDone = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	c.closeLeftovers(closeCapture, closeProvider)
}

// closeLeftovers closes still-open collaborator sessions. Close failures are
// logged and never mask the error that brought us here.
func (c *Controller) closeLeftovers(capture bool, provider bool) {
	if capture {
		if err := c.source.StopCapture(); err != nil {
			c.logWarn("stop capture during cleanup failed", err)
		}
	}
	if provider {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if _, err := c.provider.EndSession(ctx); err != nil {
			c.logWarn("end provider session during cleanup failed", err)
		}
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{State: c.state, Reason: c.reason, Session: c.session}
}

func (c *Controller) notify(snap Snapshot) {
	c.observer.StateChanged(snap)
}

func (c *Controller) logWarn(message string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(message, "error", err.Error())
}
