// Package doctor runs readiness diagnostics for settings, hotkey, provider,
// audio, and the control socket.
package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/murmurapp/murmur/internal/audio"
	"github.com/murmurapp/murmur/internal/hotkey"
	"github.com/murmurapp/murmur/internal/provider"
	"github.com/murmurapp/murmur/internal/settings"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", status, check.Name, check.Message)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// listDevices is swappable in tests to avoid a live Pulse connection.
var listDevices = audio.ListDevices

// Run executes the environment and configuration checks.
func Run(ctx context.Context, store *settings.Store) Report {
	checks := []Check{}

	loaded, err := store.Load()
	if err != nil {
		checks = append(checks, Check{Name: "settings", Pass: false, Message: err.Error()})
		return Report{Checks: checks}
	}
	checks = append(checks, Check{
		Name:    "settings",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", store.Path()),
	})

	checks = append(checks, checkBinding(loaded.GlobalHotkey))
	checks = append(checks, checkProvider(loaded.Provider))
	checks = append(checks, checkAudio(ctx, loaded.AudioDevice))
	checks = append(checks, checkRuntimeDir())

	return Report{Checks: checks}
}

func checkBinding(raw string) Check {
	binding, err := hotkey.ParseBinding(raw)
	if err != nil {
		return Check{Name: "hotkey", Pass: false, Message: err.Error()}
	}
	return Check{Name: "hotkey", Pass: true, Message: fmt.Sprintf("binding %s", binding)}
}

func checkProvider(id string) Check {
	if _, err := provider.New(id, nil, provider.Config{APIKey: "probe"}); err != nil {
		return Check{Name: "provider", Pass: false, Message: err.Error()}
	}
	if id == provider.IDDeepgram && strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")) == "" {
		return Check{Name: "provider", Pass: false, Message: "deepgram selected but DEEPGRAM_API_KEY is not set"}
	}
	return Check{Name: "provider", Pass: true, Message: fmt.Sprintf("using %q", orDefault(id))}
}

func checkAudio(ctx context.Context, term string) Check {
	devices, err := listDevices(ctx)
	if err != nil {
		return Check{Name: "audio", Pass: false, Message: err.Error()}
	}
	device, err := audio.ResolveDevice(devices, term)
	if err != nil {
		return Check{Name: "audio", Pass: false, Message: err.Error()}
	}
	return Check{Name: "audio", Pass: true, Message: fmt.Sprintf("capturing from %q", device.ID)}
}

func checkRuntimeDir() Check {
	if strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")) == "" {
		return Check{Name: "socket", Pass: false, Message: "XDG_RUNTIME_DIR is not set"}
	}
	return Check{Name: "socket", Pass: true, Message: "runtime dir available for control socket"}
}

func orDefault(id string) string {
	if id == "" {
		return provider.IDPlaceholder
	}
	return id
}
