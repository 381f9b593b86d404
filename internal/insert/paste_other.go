//go:build !linux && !darwin

package insert

import "errors"

func sendPasteChord() error {
	return errors.New("paste keystroke not supported on this platform")
}
