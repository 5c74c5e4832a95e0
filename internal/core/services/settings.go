package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvAPIKey overrides the configured assistant API key.
//
//nolint:gosec // G101: This is an environment variable name, not a credential.
const EnvAPIKey = "DELIGHT_API_KEY"

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAssistantAPIKey   = "assistant.api_key"
	keyAssistantModel    = "assistant.model"
	keyAssistantEndpoint = "assistant.endpoint"
	keyCatalogBaseURL    = "catalog.base_url"
	keyCatalogRPS        = "catalog.requests_per_second"
	keyCatalogBurst      = "catalog.burst"
	keyCatalogTimeout    = "catalog.timeout_seconds"
	keySchedulerEnabled  = "scheduler.enabled"
	keySpeechCommand     = "speech.command"
)

// SettingsService manages the dark-mode row in the local store and the
// file-backed configuration.
type SettingsService struct {
	configStore   driven.ConfigStore
	store         driven.SettingsStore
	feed          driven.ChangeFeed
	defaultAPIKey string
	getenv        func(string) string
}

// NewSettingsService creates a new settings service. defaultAPIKey is the
// key baked in at build time, used when neither the environment nor the
// config file provide one.
func NewSettingsService(
	configStore driven.ConfigStore,
	store driven.SettingsStore,
	feed driven.ChangeFeed,
	defaultAPIKey string,
) *SettingsService {
	return &SettingsService{
		configStore:   configStore,
		store:         store,
		feed:          feed,
		defaultAPIKey: defaultAPIKey,
		getenv:        os.Getenv,
	}
}

// InitDefaults creates the settings row if absent.
func (s *SettingsService) InitDefaults(ctx context.Context) error {
	if err := s.store.InitDefaults(ctx); err != nil {
		return fmt.Errorf("initialising settings: %w", err)
	}
	return nil
}

// Get retrieves the persisted settings row.
func (s *SettingsService) Get(ctx context.Context) (domain.AppSettings, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("reading settings: %w", err)
	}
	return settings, nil
}

// SetDarkMode writes the dark-mode flag.
func (s *SettingsService) SetDarkMode(ctx context.Context, enabled bool) error {
	if err := s.store.SetDarkMode(ctx, enabled); err != nil {
		return fmt.Errorf("save dark mode: %w", err)
	}
	return nil
}

// ToggleDarkMode flips dark mode and returns the new value.
func (s *SettingsService) ToggleDarkMode(ctx context.Context) (bool, error) {
	enabled, err := s.store.ToggleDarkMode(ctx)
	if err != nil {
		return false, fmt.Errorf("toggle dark mode: %w", err)
	}
	return enabled, nil
}

// WatchDarkMode streams the dark-mode flag.
func (s *SettingsService) WatchDarkMode(ctx context.Context) <-chan bool {
	return watchQuery(ctx, s.feed, "dark-mode", func(ctx context.Context) (bool, error) {
		settings, err := s.store.GetSettings(ctx)
		return settings.DarkMode, err
	}, domain.TableSettings)
}

// Config returns the file-backed configuration with defaults applied.
func (s *SettingsService) Config() domain.Config {
	defaults := domain.DefaultConfig()

	timeout := defaults.Catalog.Timeout
	if secs := s.configStore.GetInt(keyCatalogTimeout); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	rps := s.configStore.GetFloat(keyCatalogRPS)
	if rps <= 0 {
		rps = defaults.Catalog.RequestsPerSecond
	}

	return domain.Config{
		Assistant: s.Assistant(),
		Catalog: domain.CatalogSettings{
			BaseURL:           s.getString(keyCatalogBaseURL, defaults.Catalog.BaseURL),
			RequestsPerSecond: rps,
			Burst:             s.getInt(keyCatalogBurst, defaults.Catalog.Burst),
			Timeout:           timeout,
		},
		SchedulerEnabled: s.getBool(keySchedulerEnabled, defaults.SchedulerEnabled),
		SpeechCommand:    strings.TrimSpace(s.configStore.GetString(keySpeechCommand)),
	}
}

// Assistant returns the effective assistant settings. The API key is taken
// from the environment, then the config file, then the build default.
func (s *SettingsService) Assistant() domain.AssistantSettings {
	return domain.AssistantSettings{
		APIKey:   s.resolveAPIKey(),
		Model:    s.getString(keyAssistantModel, domain.DefaultAssistantModel),
		Endpoint: strings.TrimSpace(s.configStore.GetString(keyAssistantEndpoint)),
	}
}

// APIKeySource reports where the effective API key comes from.
func (s *SettingsService) APIKeySource() string {
	switch {
	case strings.TrimSpace(s.getenv(EnvAPIKey)) != "":
		return "environment (" + EnvAPIKey + ")"
	case strings.TrimSpace(s.configStore.GetString(keyAssistantAPIKey)) != "":
		return s.configStore.Path()
	case strings.TrimSpace(s.defaultAPIKey) != "":
		return "build default"
	default:
		return "not set"
	}
}

// SetAPIKey stores the assistant credential in the config file.
// An empty key removes the stored credential.
func (s *SettingsService) SetAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key != "" && !(domain.AssistantSettings{APIKey: key}).HasCredential() {
		return fmt.Errorf("%w: %q is a placeholder, not an API key", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Set(keyAssistantAPIKey, key); err != nil {
		return fmt.Errorf("save assistant api_key: %w", err)
	}
	return nil
}

// SetModel stores the assistant model name. Empty resets to the default.
func (s *SettingsService) SetModel(model string) error {
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if strings.ContainsAny(model, " /") {
		return fmt.Errorf("%w: invalid model name %q", domain.ErrInvalidInput, model)
	}
	if err := s.configStore.Set(keyAssistantModel, model); err != nil {
		return fmt.Errorf("save assistant model: %w", err)
	}
	return nil
}

func (s *SettingsService) resolveAPIKey() string {
	if key := strings.TrimSpace(s.getenv(EnvAPIKey)); key != "" {
		return key
	}
	if key := strings.TrimSpace(s.configStore.GetString(keyAssistantAPIKey)); key != "" {
		return key
	}
	return strings.TrimSpace(s.defaultAPIKey)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := strings.TrimSpace(s.configStore.GetString(key))
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
