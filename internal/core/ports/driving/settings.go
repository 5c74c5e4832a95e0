package driving

import (
	"context"

	"github.com/recipedelight/delight/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// InitDefaults creates the settings row if absent.
	InitDefaults(ctx context.Context) error

	// Get retrieves the persisted settings row.
	Get(ctx context.Context) (domain.AppSettings, error)

	// SetDarkMode writes the dark-mode flag.
	SetDarkMode(ctx context.Context, enabled bool) error

	// ToggleDarkMode flips dark mode and returns the new value.
	ToggleDarkMode(ctx context.Context) (bool, error)

	// WatchDarkMode streams the dark-mode flag.
	// The channel is closed when ctx ends.
	WatchDarkMode(ctx context.Context) <-chan bool

	// Config returns the file-backed configuration with defaults applied.
	Config() domain.Config

	// Assistant returns the effective assistant settings.
	Assistant() domain.AssistantSettings

	// SetAPIKey stores the assistant credential.
	SetAPIKey(key string) error

	// SetModel stores the assistant model name.
	SetModel(model string) error

	// APIKeySource describes where the effective API key comes from.
	APIKeySource() string
}
