// Package hotkey registers the global push-to-talk chord and exposes its
// press/release edges as channels.
package hotkey

// Hotkey is one registered global chord. Keydown and Keyup deliver one
// signal per physical press and release.
type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}

// Fake is an in-process Hotkey for tests and headless runs.
type Fake struct {
	keydown chan struct{}
	keyup   chan struct{}
}

func NewFake() *Fake {
	return &Fake{
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}
}

func (f *Fake) Register() error          { return nil }
func (f *Fake) Unregister()              {}
func (f *Fake) Keydown() <-chan struct{} { return f.keydown }
func (f *Fake) Keyup() <-chan struct{}   { return f.keyup }

// Press simulates the chord going down.
func (f *Fake) Press() { f.keydown <- struct{}{} }

// Release simulates the chord coming back up.
func (f *Fake) Release() { f.keyup <- struct{}{} }
