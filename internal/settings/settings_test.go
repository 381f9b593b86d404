package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	def := Default()
	require.Equal(t, "Option+Space", def.GlobalHotkey)
	require.Equal(t, "placeholder", def.Provider)
	require.True(t, def.AutoInsert)
	require.Empty(t, def.AudioDevice)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, Default(), loaded)
}

func TestLoadMalformedFileIsHardError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := NewStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse settings file")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "settings.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	saved := Settings{
		GlobalHotkey: "Ctrl+Shift+D",
		Provider:     "deepgram",
		AutoInsert:   false,
		AudioDevice:  "usb-mic",
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, saved, loaded)

	// Saving what was loaded must be byte-stable.
	require.NoError(t, store.Save(loaded))
	again, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, saved, again)
}

func TestSaveWritesPrettyJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(Default()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	require.Contains(t, content, "\n  \"global_hotkey\": \"Option+Space\"")
	require.Contains(t, content, "\"provider\": \"placeholder\"")
	require.Contains(t, content, "\"auto_insert\": true")
	require.True(t, strings.HasSuffix(content, "\n"))
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"provider":"deepgram"}`), 0o644))

	store, err := NewStore(path)
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "deepgram", loaded.Provider)
	require.Equal(t, "Option+Space", loaded.GlobalHotkey)
	require.True(t, loaded.AutoInsert)
}

func TestEnsureWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	loaded, err := store.Ensure()
	require.NoError(t, err)
	require.Equal(t, Default(), loaded)

	_, err = os.Stat(path)
	require.NoError(t, err)

	// An existing file is left untouched.
	custom := Settings{GlobalHotkey: "ctrl+m", Provider: "deepgram", AutoInsert: false}
	require.NoError(t, store.Save(custom))
	loaded, err = store.Ensure()
	require.NoError(t, err)
	require.Equal(t, custom, loaded)
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")

	path, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, "/tmp/xdg-config/murmur/settings.json", path)
}
