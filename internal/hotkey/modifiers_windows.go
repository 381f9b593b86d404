//go:build windows

package hotkey

import xhotkey "golang.design/x/hotkey"

func platformModifier(name string) (xhotkey.Modifier, bool) {
	switch name {
	case ModCtrl:
		return xhotkey.ModCtrl, true
	case ModShift:
		return xhotkey.ModShift, true
	case ModAlt:
		return xhotkey.ModAlt, true
	case ModSuper:
		return xhotkey.ModWin, true
	default:
		return 0, false
	}
}
