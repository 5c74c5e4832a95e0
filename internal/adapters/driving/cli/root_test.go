package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipedelight/delight/internal/logger"
)

func TestRootCmd_GlobalFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	require.NotNil(t, flags.Lookup("verbose"))
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
	require.NotNil(t, flags.Lookup("data-dir"))
	require.NotNil(t, flags.Lookup("offline"))
}

func TestBootstrap_ReceivesFlagsAndInstallsServices(t *testing.T) {
	cleanup, ts := installTestServices()
	defer cleanup()
	installed := Services{Meals: ts.meals, Chat: ts.chat, Settings: ts.settings, Scheduler: ts.scheduler}
	SetServices(nil)

	var (
		got      Options
		released bool
	)
	SetBootstrap(func(_ context.Context, opts Options) (*Services, func() error, error) {
		got = opts
		return &installed, func() error { released = true; return nil }, nil
	})
	defer SetBootstrap(nil)

	rootCmd.SetArgs([]string{"meal", "categories", "--data-dir", "/tmp/delight-test", "--offline"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/tmp/delight-test", got.DataDir)
	assert.True(t, got.Offline)
	assert.True(t, released)
	assert.NotNil(t, mealService)
}

func TestExecute_ReleaseFailureIsLoggedWithoutVerbose(t *testing.T) {
	cleanup, ts := installTestServices()
	defer cleanup()
	installed := Services{Meals: ts.meals, Chat: ts.chat, Settings: ts.settings, Scheduler: ts.scheduler}
	SetServices(nil)

	var logs bytes.Buffer
	prevOut := logger.Output()
	logger.SetOutput(&logs)
	defer logger.SetOutput(prevOut)

	SetBootstrap(func(context.Context, Options) (*Services, func() error, error) {
		return &installed, func() error { return errors.New("database is locked") }, nil
	})
	defer SetBootstrap(nil)

	rootCmd.SetArgs([]string{"meal", "categories"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := Execute(context.Background())

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "[ERROR] closing services: database is locked")
}

func TestBootstrap_ErrorStopsCommand(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	SetBootstrap(func(context.Context, Options) (*Services, func() error, error) {
		return nil, nil, errors.New("database locked")
	})
	defer SetBootstrap(nil)

	_, err := execute(t, "meal", "categories")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting delight: database locked")
}
