package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	assert.False(t, DefaultAppSettings().DarkMode)
}

func TestAssistantSettings_HasCredential(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"literal null", "null", false},
		{"null uppercase", "NULL", false},
		{"placeholder", "YOUR_API_KEY", false},
		{"angle placeholder", "<api-key>", false},
		{"changeme", "changeme", false},
		{"real key", "AIzaSyD-example-key", true},
		{"padded real key", "  AIzaSyD-example-key  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := AssistantSettings{APIKey: tt.key}
			assert.Equal(t, tt.want, s.HasCredential())
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultAssistantModel, cfg.Assistant.Model)
	assert.False(t, cfg.Assistant.HasCredential())
	assert.Equal(t, "https://www.themealdb.com/api/json/v1/1/", cfg.Catalog.BaseURL)
	assert.Equal(t, 5.0, cfg.Catalog.RequestsPerSecond)
	assert.Equal(t, 5, cfg.Catalog.Burst)
	assert.Equal(t, 15*time.Second, cfg.Catalog.Timeout)
	assert.True(t, cfg.SchedulerEnabled)
	assert.Empty(t, cfg.SpeechCommand)
}
