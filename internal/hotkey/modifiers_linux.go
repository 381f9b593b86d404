//go:build linux

package hotkey

import xhotkey "golang.design/x/hotkey"

// X11 modifier masks: Mod1 is Alt/Option, Mod4 is Super.
func platformModifier(name string) (xhotkey.Modifier, bool) {
	switch name {
	case ModCtrl:
		return xhotkey.ModCtrl, true
	case ModShift:
		return xhotkey.ModShift, true
	case ModAlt:
		return xhotkey.Mod1, true
	case ModSuper:
		return xhotkey.Mod4, true
	default:
		return 0, false
	}
}
