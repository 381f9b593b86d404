package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/murmurapp/murmur/internal/audio"
	"github.com/murmurapp/murmur/internal/settings"
)

func fakeDevices(t *testing.T) {
	t.Helper()
	original := listDevices
	listDevices = func(context.Context) ([]audio.Device, error) {
		return []audio.Device{
			{ID: "alsa_input.test-mic", Description: "Test Mic", Available: true, Default: true},
		}, nil
	}
	t.Cleanup(func() { listDevices = original })
}

func newStore(t *testing.T, content string) *settings.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	store, err := settings.NewStore(path)
	require.NoError(t, err)
	return store
}

func TestRunAllChecksPass(t *testing.T) {
	fakeDevices(t)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	report := Run(context.Background(), newStore(t, ""))
	require.True(t, report.OK(), report.String())
	require.Len(t, report.Checks, 5)
	require.Contains(t, report.String(), "[OK] settings")
	require.Contains(t, report.String(), "binding alt+space")
	require.Contains(t, report.String(), `using "placeholder"`)
	require.Contains(t, report.String(), `capturing from "alsa_input.test-mic"`)
}

func TestRunMalformedSettingsShortCircuits(t *testing.T) {
	report := Run(context.Background(), newStore(t, "{broken"))
	require.False(t, report.OK())
	require.Len(t, report.Checks, 1)
	require.Contains(t, report.String(), "[FAIL] settings")
}

func TestRunBadBinding(t *testing.T) {
	fakeDevices(t)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	report := Run(context.Background(), newStore(t, `{"global_hotkey":"hyper+x"}`))
	require.False(t, report.OK())
	require.Contains(t, report.String(), "[FAIL] hotkey")
}

func TestRunDeepgramWithoutKey(t *testing.T) {
	fakeDevices(t)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("DEEPGRAM_API_KEY", "")

	report := Run(context.Background(), newStore(t, `{"provider":"deepgram"}`))
	require.False(t, report.OK())
	require.Contains(t, report.String(), "DEEPGRAM_API_KEY is not set")
}

func TestRunUnknownProvider(t *testing.T) {
	fakeDevices(t)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	report := Run(context.Background(), newStore(t, `{"provider":"whisper-local"}`))
	require.False(t, report.OK())
	require.Contains(t, report.String(), "[FAIL] provider")
}

func TestRunMissingRuntimeDir(t *testing.T) {
	fakeDevices(t)
	t.Setenv("XDG_RUNTIME_DIR", "")

	report := Run(context.Background(), newStore(t, ""))
	require.False(t, report.OK())
	require.Contains(t, report.String(), "XDG_RUNTIME_DIR is not set")
}
