//go:build linux || darwin || windows

package hotkey

import (
	"fmt"
	"sync"

	xhotkey "golang.design/x/hotkey"
)

// Global registers a chord with the OS through golang.design/x/hotkey and
// forwards its events. One instance handles one binding.
type Global struct {
	binding Binding
	hk      *xhotkey.Hotkey
	keydown chan struct{}
	keyup   chan struct{}
	stop    chan struct{}
	once    sync.Once
}

// NewGlobal resolves the binding against the platform's modifier and key
// tables.
func NewGlobal(binding Binding) (*Global, error) {
	mods := make([]xhotkey.Modifier, 0, len(binding.Mods))
	for _, name := range binding.Mods {
		mod, ok := platformModifier(name)
		if !ok {
			return nil, fmt.Errorf("modifier %q is not supported on this platform", name)
		}
		mods = append(mods, mod)
	}

	key, ok := platformKey(binding.Key)
	if !ok {
		return nil, fmt.Errorf("key %q is not supported on this platform", binding.Key)
	}

	return &Global{
		binding: binding,
		hk:      xhotkey.New(mods, key),
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}, nil
}

func (g *Global) Register() error {
	if err := g.hk.Register(); err != nil {
		return fmt.Errorf("register hotkey %s: %w", g.binding, err)
	}

	go g.forward(g.hk.Keydown(), g.keydown)
	go g.forward(g.hk.Keyup(), g.keyup)
	return nil
}

func (g *Global) forward(from <-chan xhotkey.Event, to chan struct{}) {
	for {
		select {
		case <-g.stop:
			return
		case <-from:
			select {
			case to <- struct{}{}:
			default:
			}
		}
	}
}

func (g *Global) Unregister() {
	g.once.Do(func() {
		close(g.stop)
		g.hk.Unregister()
	})
}

func (g *Global) Keydown() <-chan struct{} { return g.keydown }
func (g *Global) Keyup() <-chan struct{}   { return g.keyup }

func platformKey(name string) (xhotkey.Key, bool) {
	if len(name) == 1 {
		c := name[0]
		if c >= 'a' && c <= 'z' {
			return letterKeys[c-'a'], true
		}
		if c >= '0' && c <= '9' {
			return digitKeys[c-'0'], true
		}
	}

	switch name {
	case "space":
		return xhotkey.KeySpace, true
	case "enter":
		return xhotkey.KeyReturn, true
	case "escape":
		return xhotkey.KeyEscape, true
	case "tab":
		return xhotkey.KeyTab, true
	default:
		return 0, false
	}
}

var letterKeys = [26]xhotkey.Key{
	xhotkey.KeyA, xhotkey.KeyB, xhotkey.KeyC, xhotkey.KeyD, xhotkey.KeyE,
	xhotkey.KeyF, xhotkey.KeyG, xhotkey.KeyH, xhotkey.KeyI, xhotkey.KeyJ,
	xhotkey.KeyK, xhotkey.KeyL, xhotkey.KeyM, xhotkey.KeyN, xhotkey.KeyO,
	xhotkey.KeyP, xhotkey.KeyQ, xhotkey.KeyR, xhotkey.KeyS, xhotkey.KeyT,
	xhotkey.KeyU, xhotkey.KeyV, xhotkey.KeyW, xhotkey.KeyX, xhotkey.KeyY,
	xhotkey.KeyZ,
}

var digitKeys = [10]xhotkey.Key{
	xhotkey.Key0, xhotkey.Key1, xhotkey.Key2, xhotkey.Key3, xhotkey.Key4,
	xhotkey.Key5, xhotkey.Key6, xhotkey.Key7, xhotkey.Key8, xhotkey.Key9,
}
