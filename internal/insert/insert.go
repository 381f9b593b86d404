// Package insert delivers transcribed text into the focused application via
// the clipboard and a synthesized paste keystroke.
package insert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cb "github.com/atotto/clipboard"
)

// restoreDelay gives the focused application time to consume the paste
// before the previous clipboard contents come back.
const restoreDelay = 250 * time.Millisecond

// Inserter copies text to the clipboard and, when paste is enabled, sends
// the platform paste chord and restores the previous clipboard contents.
// With paste disabled the text is left on the clipboard for a manual paste.
type Inserter struct {
	logger *slog.Logger
	paste  bool

	copyText func(string) error
	readText func() (string, error)
	sendKeys func() error
	sleep    func(time.Duration)
}

// New builds an inserter. paste=false leaves delivery at clipboard-only.
func New(logger *slog.Logger, paste bool) *Inserter {
	return &Inserter{
		logger:   logger,
		paste:    paste,
		copyText: cb.WriteAll,
		readText: cb.ReadAll,
		sendKeys: sendPasteChord,
		sleep:    time.Sleep,
	}
}

func (i *Inserter) InsertText(ctx context.Context, text string) error {
	previous, readErr := i.readText()
	if readErr != nil {
		// Restore is best-effort; insertion proceeds without it.
		i.logWarn("read clipboard before insert failed", readErr)
	}

	if err := i.copyText(text); err != nil {
		return fmt.Errorf("copy text to clipboard: %w", err)
	}
	if !i.paste {
		return nil
	}

	if err := i.sendKeys(); err != nil {
		return fmt.Errorf("send paste keystroke: %w", err)
	}

	if readErr == nil {
		i.sleep(restoreDelay)
		if err := i.copyText(previous); err != nil {
			i.logWarn("restore clipboard after insert failed", err)
		}
	}
	return nil
}

func (i *Inserter) logWarn(message string, err error) {
	if i.logger == nil {
		return
	}
	i.logger.Warn(message, "error", err.Error())
}
