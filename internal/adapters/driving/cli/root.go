// Package cli provides the delight command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/core/ports/driving"
	"github.com/recipedelight/delight/internal/logger"
)

// Set at build time with -ldflags "-X .../cli.version=... -X .../cli.defaultAPIKey=...".
var (
	version       = "dev"
	defaultAPIKey = ""
)

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

// Global flags.
var (
	verbose bool
	dataDir string
	offline bool
)

// Services used by the commands.
var (
	mealService     driving.MealService
	chatService     driving.ChatService
	settingsService driving.SettingsService
	scheduler       driving.Scheduler
	recognizer      driven.SpeechRecognizer
	watchConfig     func(ctx context.Context) error
)

// Options are the global flags handed to the bootstrap function.
type Options struct {
	// DataDir holds the config file and the database. Empty means ~/.delight.
	DataDir string

	// Offline keeps all state in memory for this run.
	Offline bool

	// DefaultAPIKey is the build-time assistant credential, if any.
	DefaultAPIKey string
}

// Services are the ports the commands run against.
type Services struct {
	Meals     driving.MealService
	Chat      driving.ChatService
	Settings  driving.SettingsService
	Scheduler driving.Scheduler
	Speech    driven.SpeechRecognizer

	// WatchConfig reloads the config file on change until ctx ends.
	// Only long-running commands start it. Optional.
	WatchConfig func(ctx context.Context) error
}

// Bootstrap builds the services once flags are parsed. The returned
// function releases them.
type Bootstrap func(ctx context.Context, opts Options) (*Services, func() error, error)

var (
	bootstrap Bootstrap
	release   func() error
)

var rootCmd = &cobra.Command{
	Use:   "delight",
	Short: "Recipes, bookmarks and a cooking assistant",
	Long: `Delight browses TheMealDB catalogue, keeps bookmarked recipes available
offline and answers cooking questions with a Gemini-backed assistant.

Everything the catalogue returns is cached locally, so browsing keeps
working without a network connection.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for config and database (default ~/.delight)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "keep all state in memory for this run")
}

// SetBootstrap registers the function that wires services before a
// command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	mealService = s.Meals
	chatService = s.Chat
	settingsService = s.Settings
	scheduler = s.Scheduler
	recognizer = s.Speech
	watchConfig = s.WatchConfig
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if release != nil {
		if cerr := release(); cerr != nil {
			logger.Error("closing services: %v", cerr)
		}
		release = nil
	}
	return err
}

// Version returns the build version.
func Version() string {
	return version
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Annotations[skipBootstrap] != "" {
		return nil
	}

	services, closeFn, err := bootstrap(cmd.Context(), Options{
		DataDir:       dataDir,
		Offline:       offline,
		DefaultAPIKey: defaultAPIKey,
	})
	if err != nil {
		return fmt.Errorf("starting delight: %w", err)
	}
	SetServices(services)
	release = closeFn
	return nil
}

func requireMeals() error {
	if mealService == nil {
		return errors.New("meal service not configured")
	}
	return nil
}

func requireChat() error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	return nil
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}
