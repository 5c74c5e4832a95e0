package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/services"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "AIzaSy1234567890abcdef",
			expected: "AIza...cdef",
		},
		{
			name:     "Very long key",
			input:    "AIzaSyB-1234567890abcdefghijklmnop",
			expected: "AIza...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestReadLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  2 \nnext\n"))
	assert.Equal(t, "2", readLine(reader))
	assert.Equal(t, "next", readLine(reader))
	assert.Empty(t, readLine(reader))
}

func TestReadPassword_FallsBackToLine(t *testing.T) {
	prev := stdin
	stdin = strings.NewReader(" AIzaSyTestKey \n")
	defer func() { stdin = prev }()

	assert.Equal(t, "AIzaSyTestKey", readPassword())
}

func TestSettingsShowCmd_Defaults(t *testing.T) {
	t.Setenv(services.EnvAPIKey, "")
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings")

	require.NoError(t, err)
	requireContains(t, out,
		"[Appearance]", "Dark mode: off",
		"[Assistant]", "Model: "+domain.DefaultAssistantModel, "API Key: (not set)",
		"[Catalogue]", "Base URL: "+domain.DefaultCatalogBaseURL,
		"[Background]", "Scheduler: on", "Speech command: (not set)",
		"delight settings api-key",
	)
}

func TestSettingsDarkModeCmd(t *testing.T) {
	cleanup, ts := installTestServices()
	defer cleanup()
	ctx := context.Background()

	out, err := execute(t, "settings", "dark-mode", "on")
	require.NoError(t, err)
	assert.Contains(t, out, "Dark mode: on")

	out, err = execute(t, "settings", "dark-mode")
	require.NoError(t, err)
	assert.Contains(t, out, "Dark mode: off")

	out, err = execute(t, "settings", "dark-mode", "toggle")
	require.NoError(t, err)
	assert.Contains(t, out, "Dark mode: on")

	settings, err := ts.settings.Get(ctx)
	require.NoError(t, err)
	assert.True(t, settings.DarkMode)

	_, err = execute(t, "settings", "dark-mode", "maybe")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsAPIKeyCmd(t *testing.T) {
	t.Setenv(services.EnvAPIKey, "")
	cleanup, ts := installTestServices()
	defer cleanup()

	stdin = strings.NewReader("AIzaSyTestKey0000001234\n")
	out, err := execute(t, "settings", "api-key")

	require.NoError(t, err)
	requireContains(t, out, "API key saved: AIza...1234", "Effective key source: "+ts.config.Path())
	assert.Equal(t, "AIzaSyTestKey0000001234", ts.settings.Assistant().APIKey)

	out, err = execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "API Key: AIza...1234")
}

func TestSettingsAPIKeyCmd_Clear(t *testing.T) {
	t.Setenv(services.EnvAPIKey, "")
	cleanup, ts := installTestServices()
	defer cleanup()
	require.NoError(t, ts.settings.SetAPIKey("AIzaSyTestKey0000001234"))

	stdin = strings.NewReader("\n")
	out, err := execute(t, "settings", "api-key")

	require.NoError(t, err)
	requireContains(t, out, "API key cleared.", "Effective key source: not set")
	assert.False(t, ts.settings.Assistant().HasCredential())
}

func TestSettingsAPIKeyCmd_RejectsPlaceholder(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	stdin = strings.NewReader("your_api_key\n")
	_, err := execute(t, "settings", "api-key")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsModelCmd_Argument(t *testing.T) {
	cleanup, ts := installTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "model", "models/gemini-2.5-pro")

	require.NoError(t, err)
	assert.Contains(t, out, "Assistant model set to: gemini-2.5-pro")
	assert.Equal(t, "gemini-2.5-pro", ts.settings.Assistant().Model)
}

func TestSettingsModelCmd_Picker(t *testing.T) {
	cleanup, ts := installTestServices()
	defer cleanup()

	stdin = strings.NewReader("2\n")
	out, err := execute(t, "settings", "model")

	require.NoError(t, err)
	requireContains(t, out, "1. "+domain.DefaultAssistantModel+" (current)", "Enter choice [1]:")
	assert.Equal(t, knownModels[1], ts.settings.Assistant().Model)
}

func TestSettingsModelCmd_PickerKeepsCurrentOnBlank(t *testing.T) {
	cleanup, ts := installTestServices()
	defer cleanup()
	require.NoError(t, ts.settings.SetModel(knownModels[2]))

	stdin = strings.NewReader("\n")
	_, err := execute(t, "settings", "model")

	require.NoError(t, err)
	assert.Equal(t, knownModels[2], ts.settings.Assistant().Model)
}

func TestSettingsCmd_WithoutService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	SetServices(nil)

	_, err := execute(t, "settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
