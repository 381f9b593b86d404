// Package provider hosts the speech-to-text backends selectable through
// settings and constructs them by id.
package provider

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/murmurapp/murmur/internal/session"
)

// Provider ids accepted in settings.
const (
	IDPlaceholder = "placeholder"
	IDDeepgram    = "deepgram"
)

// Config carries backend settings the registry forwards to providers.
type Config struct {
	// APIKey authenticates hosted backends. Typically sourced from
	// DEEPGRAM_API_KEY by the caller.
	APIKey     string
	BaseURL    string
	Model      string
	Language   string
	SampleRate int
}

// IDs lists the selectable provider ids in display order.
func IDs() []string {
	return []string{IDPlaceholder, IDDeepgram}
}

// New constructs the provider registered under id. An empty id selects the
// placeholder so a fresh install works without credentials.
func New(id string, logger *slog.Logger, cfg Config) (session.Provider, error) {
	switch id {
	case "", IDPlaceholder:
		return NewPlaceholder(), nil
	case IDDeepgram:
		return NewDeepgram(logger, DeepgramConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Language:   cfg.Language,
			SampleRate: cfg.SampleRate,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: %s)",
			id, strings.Join(IDs(), ", "))
	}
}
