package domain

import (
	"strings"
	"time"
)

// AppSettings is the persisted singleton settings row.
type AppSettings struct {
	// DarkMode selects the dark theme.
	DarkMode bool
}

// DefaultAppSettings returns the row written by the first InitDefaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{DarkMode: false}
}

// Assistant defaults.
const (
	DefaultAssistantModel = "gemini-2.5-flash"
)

// placeholderKeys are values shipped in sample configs that must never be
// sent to the assistant endpoint.
var placeholderKeys = []string{
	"null",
	"your_api_key",
	"<api-key>",
	"changeme",
}

// AssistantSettings configures the generative assistant.
type AssistantSettings struct {
	// APIKey is the assistant credential.
	APIKey string

	// Model is the model name without the "models/" prefix.
	Model string

	// Endpoint overrides the API root URL. Empty means the public endpoint.
	Endpoint string
}

// HasCredential reports whether APIKey looks like a real credential.
// Blank keys, the literal "null" and known placeholders do not count.
func (s AssistantSettings) HasCredential() bool {
	key := strings.TrimSpace(s.APIKey)
	if key == "" {
		return false
	}
	for _, p := range placeholderKeys {
		if strings.EqualFold(key, p) {
			return false
		}
	}
	return true
}

// Catalogue defaults.
const (
	DefaultCatalogBaseURL           = "https://www.themealdb.com/api/json/v1/1/"
	DefaultCatalogRequestsPerSecond = 5.0
	DefaultCatalogBurst             = 5
	DefaultCatalogTimeout           = 15 * time.Second
)

// CatalogSettings configures the meal catalogue client.
type CatalogSettings struct {
	// BaseURL is the API root, ending in a slash.
	BaseURL string

	// RequestsPerSecond caps outbound request rate.
	RequestsPerSecond float64

	// Burst is the limiter bucket size.
	Burst int

	// Timeout bounds a single request.
	Timeout time.Duration
}

// Config is the file-backed configuration, as opposed to the
// AppSettings row kept in the local store.
type Config struct {
	Assistant AssistantSettings
	Catalog   CatalogSettings

	// SchedulerEnabled is the master switch for background tasks.
	SchedulerEnabled bool

	// SpeechCommand is the external program used for voice input.
	// Empty disables voice input.
	SpeechCommand string
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Assistant: AssistantSettings{
			Model: DefaultAssistantModel,
		},
		Catalog: CatalogSettings{
			BaseURL:           DefaultCatalogBaseURL,
			RequestsPerSecond: DefaultCatalogRequestsPerSecond,
			Burst:             DefaultCatalogBurst,
			Timeout:           DefaultCatalogTimeout,
		},
		SchedulerEnabled: true,
	}
}
