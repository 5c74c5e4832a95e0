package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/core/ports/driving"
	"github.com/recipedelight/delight/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// ErrUnknownTask is returned by RunNow for an unregistered task ID.
var ErrUnknownTask = errors.New("unknown task")

// errNoMeal marks a daily-meal run that had nothing to announce.
var errNoMeal = errors.New("no meal available (offline with an empty cache)")

// DailyMealTitle prefixes the daily meal notification.
const DailyMealTitle = "Today's Delight"

// historyRetention is how many results are kept per task.
const historyRetention = 100

// Scheduler manages background task execution.
// It is a pure core service with no external control API.
type Scheduler struct {
	config   domain.SchedulerConfig
	store    driven.SchedulerStore
	meals    driving.MealService
	notifier driven.Notifier

	// enabled is the master switch, read on every tick.
	enabled func() bool

	// tick is how often due tasks are checked.
	tick time.Duration
	now  func() time.Time

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	done     chan struct{}
	inflight map[string]bool
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	meals driving.MealService,
	notifier driven.Notifier,
) *Scheduler {
	return &Scheduler{
		config:   config,
		store:    store,
		meals:    meals,
		notifier: notifier,
		enabled:  func() bool { return config.Enabled },
		tick:     time.Minute,
		now:      time.Now,
		inflight: make(map[string]bool),
	}
}

// WithEnabled replaces the master switch with fn, which is consulted on
// every tick. Use it to follow a config file that can change at runtime.
func (s *Scheduler) WithEnabled(fn func() bool) *Scheduler {
	if fn != nil {
		s.enabled = fn
	}
	return s
}

// Start begins the scheduler loop. This method blocks until Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	stopCh, done := s.stopCh, s.done
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.stopCh == stopCh {
			s.running = false
		}
		s.mu.Unlock()
		close(done)
	}()

	if !s.enabled() {
		logger.Info("scheduler: disabled by configuration")
	}

	return s.run(ctx, stopCh)
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	done := s.done
	s.mu.Unlock()

	// The loop must be gone before waiting, so no task is added meanwhile.
	<-done
	s.wg.Wait()

	return nil
}

// RunNow executes one task immediately and waits for it to finish.
func (s *Scheduler) RunNow(ctx context.Context, taskID string) (*domain.TaskResult, error) {
	name, ok := taskNames[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
	}

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("loading task %s: %w", taskID, err)
	}
	if task == nil {
		cfg := s.config.GetTaskConfig(taskID)
		task = &domain.ScheduledTask{ID: taskID, Name: name, Interval: cfg.Interval, Enabled: cfg.Enabled}
	}

	if !s.claim(taskID) {
		return nil, fmt.Errorf("task %s is already running", taskID)
	}
	defer s.release(taskID)

	return s.execute(ctx, task), nil
}

// Tasks returns the current state of every registered task.
func (s *Scheduler) Tasks() []domain.ScheduledTask {
	tasks, err := s.store.ListTasks(context.Background())
	if err != nil {
		logger.Warn("scheduler: failed to list tasks: %v", err)
		return nil
	}
	return tasks
}

// taskNames holds the built-in tasks and their display names.
var taskNames = map[string]string{
	domain.TaskIDDailyMeal:       "Daily Meal",
	domain.TaskIDCategoryRefresh: "Category Refresh",
}

// initialiseTasks ensures all configured tasks exist in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	for _, id := range []string{domain.TaskIDDailyMeal, domain.TaskIDCategoryRefresh} {
		if err := s.ensureTask(ctx, id, taskNames[id], s.config.GetTaskConfig(id)); err != nil {
			return err
		}
	}
	return nil
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		// New tasks run on the first check.
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
			NextRun:  s.now(),
		}
	} else {
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			task.NextRun = s.now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context, stopCh <-chan struct{}) error {
	var initialised bool
	check := func() {
		if !s.enabled() {
			return
		}
		if !initialised {
			if err := s.initialiseTasks(ctx); err != nil {
				logger.Warn("scheduler: failed to initialise tasks: %v", err)
				return
			}
			initialised = true
		}
		s.checkAndRunDueTasks(ctx)
	}

	check()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			check()
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("scheduler: failed to list tasks: %v", err)
		return
	}

	now := s.now()
	for i := range tasks {
		task := tasks[i]
		if !task.Enabled {
			continue
		}
		if task.NextRun.IsZero() || !task.NextRun.After(now) {
			s.runTask(ctx, &task)
		}
	}
}

// runTask executes a single task in the background.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	if !s.claim(task.ID) {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release(task.ID)
		s.execute(ctx, task)
	}()
}

// execute runs task, then persists its new state and result.
func (s *Scheduler) execute(ctx context.Context, task *domain.ScheduledTask) *domain.TaskResult {
	logger.Section("Task " + task.ID)

	result := &domain.TaskResult{
		TaskID:    task.ID,
		StartedAt: s.now(),
	}

	var err error
	switch task.ID {
	case domain.TaskIDDailyMeal:
		result.ItemsProcessed, err = s.runDailyMeal(ctx)
	case domain.TaskIDCategoryRefresh:
		result.ItemsProcessed, err = s.runCategoryRefresh(ctx)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownTask, task.ID)
	}

	result.EndedAt = s.now()
	task.LastRun = result.StartedAt
	if err != nil {
		result.Error = err.Error()
		task.LastError = err.Error()
		task.NextRun = result.EndedAt.Add(retryDelay(task))
		logger.Warn("scheduler: task %s failed: %v", task.ID, err)
	} else {
		result.Success = true
		task.LastError = ""
		task.LastSuccess = result.EndedAt
		task.NextRun = result.EndedAt.Add(task.Interval)
		logger.Debug("scheduler: task %s processed %d item(s)", task.ID, result.ItemsProcessed)
	}

	// Bookkeeping outlives a cancelled run.
	saveCtx := context.WithoutCancel(ctx)

	if saveErr := s.store.SaveTask(saveCtx, task); saveErr != nil {
		logger.Error("scheduler: failed to save task %s: %v", task.ID, saveErr)
	}
	if recordErr := s.store.RecordResult(saveCtx, result); recordErr != nil {
		logger.Error("scheduler: failed to record result for %s: %v", task.ID, recordErr)
	}
	if pruneErr := s.store.PruneHistory(saveCtx, historyRetention); pruneErr != nil {
		logger.Warn("scheduler: failed to prune history: %v", pruneErr)
	}

	return result
}

// runDailyMeal picks a random meal and announces it.
func (s *Scheduler) runDailyMeal(ctx context.Context) (int, error) {
	meal, err := s.meals.GetRandomMeal(ctx)
	if err != nil {
		return 0, err
	}
	if meal == nil {
		return 0, errNoMeal
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, DailyMealTitle, meal.Name); err != nil {
			return 0, fmt.Errorf("sending notification: %w", err)
		}
	}
	return 1, nil
}

// runCategoryRefresh warms the categories cache.
func (s *Scheduler) runCategoryRefresh(ctx context.Context) (int, error) {
	cats, err := s.meals.GetCategories(ctx)
	if err != nil {
		return 0, err
	}
	return len(cats), nil
}

// retryDelay is how long a failed task waits before its next attempt.
func retryDelay(task *domain.ScheduledTask) time.Duration {
	if task.ID == domain.TaskIDDailyMeal {
		return domain.DailyMealRetryDelay
	}
	return task.Interval
}

func (s *Scheduler) claim(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[taskID] {
		return false
	}
	s.inflight[taskID] = true
	return true
}

func (s *Scheduler) release(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, taskID)
}
