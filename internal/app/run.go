package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/murmurapp/murmur/internal/audio"
	"github.com/murmurapp/murmur/internal/hotkey"
	"github.com/murmurapp/murmur/internal/insert"
	"github.com/murmurapp/murmur/internal/ipc"
	"github.com/murmurapp/murmur/internal/provider"
	"github.com/murmurapp/murmur/internal/session"
	"github.com/murmurapp/murmur/internal/settings"
)

// commandRun hosts the daemon: session controller, control socket, and the
// push-to-talk hotkey.
func (r Runner) commandRun(ctx context.Context, store *settings.Store, fakeHotkey bool, logger *slog.Logger) int {
	loaded, err := store.Ensure()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load settings failed", "error", err.Error())
		return 1
	}

	socketPath, err := ipc.SocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 4)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintln(r.Stderr, "error: murmur is already running")
		} else {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
		}
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	controller, err := buildController(loaded, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	hk, err := buildHotkey(loaded.GlobalHotkey, fakeHotkey)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if err := hk.Register(); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer hk.Unregister()

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, controller)
	}()

	logger.Info("daemon ready",
		"hotkey", loaded.GlobalHotkey,
		"provider", loaded.Provider,
		"socket", socketPath,
	)
	fmt.Fprintf(r.Stdout, "murmur ready (hotkey %s, provider %s)\n", loaded.GlobalHotkey, loaded.Provider)

	r.runLoop(ctx, controller, hk, logger)

	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: control socket failed: %v\n", serverErr)
		return 1
	}
	return 0
}

// runLoop drives push-to-talk: hotkey down starts recording, hotkey up stops
// and transcribes. The stop runs off-loop so a held key stays responsive
// while transcription finishes.
func (r Runner) runLoop(ctx context.Context, controller *session.Controller, hk hotkey.Hotkey, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hk.Keydown():
			if err := controller.StartRecording(ctx); err != nil {
				if !errors.Is(err, session.ErrAlreadyActive) {
					logger.Error("start recording failed", "error", err.Error())
				}
			}
		case <-hk.Keyup():
			go func() {
				text, err := controller.StopAndTranscribe(ctx)
				if err != nil {
					if !errors.Is(err, session.ErrNotRecording) {
						logger.Error("transcription failed", "error", err.Error())
					}
					return
				}
				logger.Info("transcription complete", "length", len(text))
			}()
		}
	}
}

func buildController(loaded settings.Settings, logger *slog.Logger) (*session.Controller, error) {
	stt, err := provider.New(loaded.Provider, logger, provider.Config{
		APIKey:     strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")),
		SampleRate: audio.SampleRate,
	})
	if err != nil {
		return nil, err
	}

	source := audio.NewSource(loaded.AudioDevice)
	inserter := insert.New(logger, loaded.AutoInsert)
	observer := session.ObserverFunc(func(snap session.Snapshot) {
		logger.Debug("state changed",
			"state", string(snap.State),
			"reason", snap.Reason,
			"partial_length", len(snap.Session.PartialText),
		)
	})

	return session.NewController(logger, stt, source, inserter, observer), nil
}

func buildHotkey(binding string, fake bool) (hotkey.Hotkey, error) {
	if fake {
		return hotkey.NewFake(), nil
	}
	parsed, err := hotkey.ParseBinding(binding)
	if err != nil {
		return nil, err
	}
	return hotkey.NewGlobal(parsed)
}
