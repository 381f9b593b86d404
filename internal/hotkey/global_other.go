//go:build !linux && !darwin && !windows

package hotkey

import "errors"

// NewGlobal has no backend on this platform; the fake still works.
func NewGlobal(Binding) (Hotkey, error) {
	return nil, errors.New("global hotkeys are not supported on this platform")
}
