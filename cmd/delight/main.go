// Command delight browses recipes, keeps bookmarks offline and talks to a
// cooking assistant.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/recipedelight/delight/internal/adapters/driven/assistant/gemini"
	"github.com/recipedelight/delight/internal/adapters/driven/catalog/themealdb"
	"github.com/recipedelight/delight/internal/adapters/driven/config/file"
	"github.com/recipedelight/delight/internal/adapters/driven/notify"
	"github.com/recipedelight/delight/internal/adapters/driven/speech"
	"github.com/recipedelight/delight/internal/adapters/driven/storage/changefeed"
	"github.com/recipedelight/delight/internal/adapters/driven/storage/memory"
	"github.com/recipedelight/delight/internal/adapters/driven/storage/sqlite"
	"github.com/recipedelight/delight/internal/adapters/driving/cli"
	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/core/services"
	"github.com/recipedelight/delight/internal/logger"
)

// store is what both storage backends provide.
type store interface {
	MealStore() driven.MealStore
	BookmarkStore() driven.BookmarkStore
	CategoryStore() driven.CategoryStore
	SettingsStore() driven.SettingsStore
	ChatStore() driven.ChatStore
	SchedulerStore() driven.SchedulerStore
	Close() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetBootstrap(bootstrap)
	err := cli.Execute(ctx)
	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, func() error, error) {
	hub := changefeed.NewHub()

	cfg, err := file.NewConfigStore(opts.DataDir)
	if err != nil {
		hub.Close()
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	var st store
	if opts.Offline {
		logger.Debug("offline run: state is kept in memory")
		st = memory.NewStore(hub)
	} else {
		dbDir := ""
		if opts.DataDir != "" {
			dbDir = filepath.Join(opts.DataDir, "data")
		}
		db, err := sqlite.NewStore(dbDir, hub)
		if err != nil {
			hub.Close()
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		logger.Debug("database: %s", db.Path())
		st = db
	}

	release := func() error {
		err := st.Close()
		hub.Close()
		return err
	}

	settings := services.NewSettingsService(cfg, st.SettingsStore(), hub, opts.DefaultAPIKey)
	if err := settings.InitDefaults(ctx); err != nil {
		return nil, nil, errors.Join(err, release())
	}
	config := settings.Config()

	catalog, err := themealdb.New(themealdb.ConfigFromSettings(config.Catalog))
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("creating catalogue client: %w", err), release())
	}

	assistant, err := gemini.New(ctx, gemini.Config{
		Model:    config.Assistant.Model,
		Endpoint: config.Assistant.Endpoint,
		KeySource: func() string {
			return settings.Assistant().APIKey
		},
	})
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("creating assistant: %w", err), release())
	}

	meals := services.NewMealService(catalog, st.MealStore(), st.BookmarkStore(), st.CategoryStore(), hub)
	chat := services.NewChatService(st.ChatStore(), assistant, settings)

	schedCfg := domain.DefaultSchedulerConfig()
	schedCfg.Enabled = config.SchedulerEnabled
	scheduler := services.NewScheduler(schedCfg, st.SchedulerStore(), meals, notify.NewConsole(os.Stdout)).
		WithEnabled(func() bool { return settings.Config().SchedulerEnabled })

	return &cli.Services{
		Meals:     meals,
		Chat:      chat,
		Settings:  settings,
		Scheduler: scheduler,
		Speech:    speech.NewCommandRecognizer(config.SpeechCommand),
		WatchConfig: func(ctx context.Context) error {
			return cfg.Watch(ctx, func() {
				// Model and catalogue changes need a restart; the key and
				// scheduler switch are read live.
				logger.Info("configuration reloaded from %s", cfg.Path())
			})
		},
	}, release, nil
}
