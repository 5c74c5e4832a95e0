package cli

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/recipedelight/delight/internal/logger"
)

// runBackground starts the scheduler and the config watcher. The scheduler
// checks scheduler.enabled on every tick, so flipping the switch in the
// config file takes effect without a restart. It returns once both have
// stopped, which happens when ctx ends.
func runBackground(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if scheduler != nil {
		g.Go(func() error {
			if err := scheduler.Start(gctx); err != nil && gctx.Err() == nil {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return scheduler.Stop()
		})
	}

	if watchConfig != nil {
		g.Go(func() error {
			if err := watchConfig(gctx); err != nil && gctx.Err() == nil {
				// A broken watcher only costs live reload.
				logger.Warn("config watch stopped: %v", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func schedulerEnabled() bool {
	if settingsService == nil {
		return true
	}
	return settingsService.Config().SchedulerEnabled
}
