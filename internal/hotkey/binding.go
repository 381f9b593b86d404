package hotkey

import (
	"fmt"
	"strings"
)

// Canonical modifier names produced by ParseBinding.
const (
	ModCtrl  = "ctrl"
	ModShift = "shift"
	ModAlt   = "alt"
	ModSuper = "super"
)

// Binding is a parsed chord: zero or more modifiers plus exactly one key.
type Binding struct {
	Mods []string
	Key  string
}

// String renders the binding in settings notation.
func (b Binding) String() string {
	parts := make([]string, 0, len(b.Mods)+1)
	parts = append(parts, b.Mods...)
	parts = append(parts, b.Key)
	return strings.Join(parts, "+")
}

var modifierAliases = map[string]string{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"super":   ModSuper,
	"cmd":     ModSuper,
	"command": ModSuper,
	"meta":    ModSuper,
	"win":     ModSuper,
}

var namedKeys = map[string]string{
	"space":  "space",
	"enter":  "enter",
	"return": "enter",
	"tab":    "tab",
	"esc":    "escape",
	"escape": "escape",
}

// ParseBinding parses settings notation like "Option+Space" or
// "ctrl+shift+d". Tokens are case-insensitive; every token but the last must
// be a modifier, and the last must be a single letter, digit, or named key.
func ParseBinding(raw string) (Binding, error) {
	tokens := strings.Split(raw, "+")
	if strings.TrimSpace(raw) == "" {
		return Binding{}, fmt.Errorf("empty hotkey binding")
	}

	var binding Binding
	seen := map[string]bool{}
	for idx, token := range tokens {
		token = strings.TrimSpace(strings.ToLower(token))
		if token == "" {
			return Binding{}, fmt.Errorf("hotkey binding %q has an empty token", raw)
		}

		last := idx == len(tokens)-1
		if !last {
			mod, ok := modifierAliases[token]
			if !ok {
				return Binding{}, fmt.Errorf("hotkey binding %q: unknown modifier %q", raw, token)
			}
			if seen[mod] {
				return Binding{}, fmt.Errorf("hotkey binding %q repeats modifier %q", raw, mod)
			}
			seen[mod] = true
			binding.Mods = append(binding.Mods, mod)
			continue
		}

		key, err := parseKeyToken(token)
		if err != nil {
			return Binding{}, fmt.Errorf("hotkey binding %q: %w", raw, err)
		}
		binding.Key = key
	}

	return binding, nil
}

func parseKeyToken(token string) (string, error) {
	if key, ok := namedKeys[token]; ok {
		return key, nil
	}
	if len(token) == 1 {
		c := token[0]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			return token, nil
		}
	}
	return "", fmt.Errorf("unknown key %q", token)
}
