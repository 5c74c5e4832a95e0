package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/recipedelight/delight/internal/core/domain"
)

// knownModels are offered by the model picker. Any other model name can
// still be passed as an argument.
var knownModels = []string{
	domain.DefaultAssistantModel,
	"gemini-2.5-pro",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
}

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the theme, the assistant credential and model.

Catalogue and scheduler options live in the config file and are picked up
by running sessions without a restart.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsDarkModeCmd = &cobra.Command{
	Use:       "dark-mode [on|off|toggle]",
	Short:     "Switch the dark theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off", "toggle"},
	RunE:      runSettingsDarkMode,
}

var settingsAPIKeyCmd = &cobra.Command{
	Use:   "api-key",
	Short: "Set the assistant API key",
	Long: `Prompts for the assistant API key and saves it to the config file.
An empty answer clears the stored key.

The DELIGHT_API_KEY environment variable takes precedence over the
stored key.`,
	Args: cobra.NoArgs,
	RunE: runSettingsAPIKey,
}

var settingsModelCmd = &cobra.Command{
	Use:   "model [name]",
	Short: "Choose the assistant model",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsModel,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsDarkModeCmd)
	settingsCmd.AddCommand(settingsAPIKeyCmd)
	settingsCmd.AddCommand(settingsModelCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cfg := settingsService.Config()
	assistant := settingsService.Assistant()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Appearance]")
	cmd.Printf("  Dark mode: %s\n", onOff(settings.DarkMode))
	cmd.Println()

	cmd.Println("[Assistant]")
	cmd.Printf("  Model: %s\n", assistant.Model)
	if assistant.HasCredential() {
		cmd.Printf("  API Key: %s (%s)\n", maskAPIKey(assistant.APIKey), settingsService.APIKeySource())
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	if assistant.Endpoint != "" {
		cmd.Printf("  Endpoint: %s\n", assistant.Endpoint)
	}
	cmd.Println()

	cmd.Println("[Catalogue]")
	cmd.Printf("  Base URL: %s\n", cfg.Catalog.BaseURL)
	cmd.Printf("  Rate: %.1f req/s (burst %d)\n", cfg.Catalog.RequestsPerSecond, cfg.Catalog.Burst)
	cmd.Printf("  Timeout: %s\n", cfg.Catalog.Timeout)
	cmd.Println()

	cmd.Println("[Background]")
	cmd.Printf("  Scheduler: %s\n", onOff(cfg.SchedulerEnabled))
	if cfg.SpeechCommand != "" {
		cmd.Printf("  Speech command: %s\n", cfg.SpeechCommand)
	} else {
		cmd.Printf("  Speech command: (not set)\n")
	}

	if !assistant.HasCredential() {
		cmd.Println()
		cmd.Println("Run 'delight settings api-key' to enable the assistant.")
	}
	return nil
}

func runSettingsDarkMode(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	mode := "toggle"
	if len(args) > 0 {
		mode = strings.ToLower(args[0])
	}

	var enabled bool
	switch mode {
	case "on", "off":
		enabled = mode == "on"
		if err := settingsService.SetDarkMode(cmd.Context(), enabled); err != nil {
			return fmt.Errorf("failed to set dark mode: %w", err)
		}
	case "toggle":
		var err error
		if enabled, err = settingsService.ToggleDarkMode(cmd.Context()); err != nil {
			return fmt.Errorf("failed to toggle dark mode: %w", err)
		}
	default:
		return fmt.Errorf("%w: expected on, off or toggle, got %q", domain.ErrInvalidInput, args[0])
	}

	cmd.Printf("Dark mode: %s\n", onOff(enabled))
	return nil
}

func runSettingsAPIKey(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	cmd.Print("Enter API key (empty to clear): ")
	key := readPassword()
	cmd.Println()

	if err := settingsService.SetAPIKey(key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	if key == "" {
		cmd.Println("API key cleared.")
	} else {
		cmd.Printf("API key saved: %s\n", maskAPIKey(key))
	}
	// The environment can still win over what was just stored.
	cmd.Printf("Effective key source: %s\n", settingsService.APIKeySource())
	return nil
}

func runSettingsModel(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	var model string
	if len(args) > 0 {
		model = args[0]
	} else {
		current := settingsService.Assistant().Model
		cmd.Println("Select Assistant Model")
		cmd.Println("----------------------")
		defaultIdx := 1
		for i, m := range knownModels {
			marker := ""
			if m == current {
				marker = " (current)"
				defaultIdx = i + 1
			}
			cmd.Printf("  %d. %s%s\n", i+1, m, marker)
		}
		cmd.Printf("\nEnter choice [%d]: ", defaultIdx)
		idx := parseChoice(readLine(bufio.NewReader(stdin)), len(knownModels), defaultIdx)
		model = knownModels[idx-1]
	}

	if err := settingsService.SetModel(model); err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}
	cmd.Printf("Assistant model set to: %s\n", settingsService.Assistant().Model)
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func readPassword() string {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(bufio.NewReader(stdin))
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

