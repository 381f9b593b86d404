// Package settings persists user preferences as JSON under the XDG config
// directory.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Settings are the user-tunable knobs. Zero-value fields are filled from
// Default on load so a hand-trimmed file keeps working.
type Settings struct {
	GlobalHotkey string `json:"global_hotkey"`
	Provider     string `json:"provider"`
	AutoInsert   bool   `json:"auto_insert"`

	// AudioDevice selects the capture source by id or description substring.
	// Empty means the system default.
	AudioDevice string `json:"audio_device,omitempty"`
}

// Default returns the out-of-the-box settings.
func Default() Settings {
	return Settings{
		GlobalHotkey: "Option+Space",
		Provider:     "placeholder",
		AutoInsert:   true,
	}
}

// Store reads and writes one settings file.
type Store struct {
	path string
}

// NewStore creates a store for an explicit path. An empty path resolves to
// the default location under the XDG config directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return &Store{path: path}, nil
}

// Path returns the file this store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads settings from disk. A missing file yields the defaults; a file
// that exists but cannot be read or parsed is a hard error so a typo never
// silently reverts preferences.
func (s *Store) Load() (Settings, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("read settings file %s: %w", s.path, err)
	}

	loaded := Default()
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return Settings{}, fmt.Errorf("parse settings file %s: %w", s.path, err)
	}
	return loaded, nil
}

// Ensure loads settings and, on first run, writes the defaults back so the
// user has a file to edit.
func (s *Store) Ensure() (Settings, error) {
	loaded, err := s.Load()
	if err != nil {
		return Settings{}, err
	}
	if _, statErr := os.Stat(s.path); errors.Is(statErr, os.ErrNotExist) {
		if err := s.Save(loaded); err != nil {
			return Settings{}, err
		}
	}
	return loaded, nil
}

// Save writes settings pretty-printed, creating parent directories as needed.
func (s *Store) Save(settings Settings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings directory %s: %w", dir, err)
	}

	content, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	content = append(content, '\n')

	if err := os.WriteFile(s.path, content, 0o644); err != nil {
		return fmt.Errorf("write settings file %s: %w", s.path, err)
	}
	return nil
}

// DefaultPath is $XDG_CONFIG_HOME/murmur/settings.json, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "murmur", "settings.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "murmur", "settings.json"), nil
}
