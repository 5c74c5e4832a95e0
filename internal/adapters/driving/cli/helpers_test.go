package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/recipedelight/delight/internal/adapters/driven/storage/changefeed"
	"github.com/recipedelight/delight/internal/adapters/driven/storage/memory"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/tuitest"
	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/services"
)

var arrabiata = &domain.Meal{
	ID:           "52771",
	Name:         "Spicy Arrabiata Penne",
	Category:     "Vegetarian",
	Area:         "Italian",
	Instructions: "Bring a large pot of water to a boil.",
	Tags:         []string{"Pasta", "Curry"},
	YouTube:      "https://www.youtube.com/watch?v=1IszT_guI08",
	Ingredients: []string{"penne rigate - 1 pound", "olive oil - 1/4 cup"},
}

// testServices holds the fakes installed by setupTestServices.
type testServices struct {
	meals     *tuitest.Meals
	chat      *tuitest.Chat
	settings  *services.SettingsService
	config    *memory.ConfigStore
	scheduler *fakeScheduler
	speech    *fakeRecognizer
}

// setupTestServices installs fakes for every service and returns a
// function restoring the previous ones.
func setupTestServices() func() {
	cleanup, _ := installTestServices()
	return cleanup
}

func installTestServices() (func(), *testServices) {
	prev := Services{
		Meals:       mealService,
		Chat:        chatService,
		Settings:    settingsService,
		Scheduler:   scheduler,
		Speech:      recognizer,
		WatchConfig: watchConfig,
	}
	prevStdin := stdin

	meals := tuitest.NewMeals()
	meals.Home = &domain.HomeFeed{
		Categories: []domain.Category{{ID: "1", Name: "Beef"}, {ID: "2", Name: "Vegetarian"}},
		RandomMeal: arrabiata,
	}
	meals.ByCategory["Vegetarian"] = []domain.MealSummary{{ID: arrabiata.ID, Name: arrabiata.Name}}
	meals.Details[arrabiata.ID] = arrabiata
	meals.Results = []domain.Meal{*arrabiata}

	hub := changefeed.NewHub()
	store := memory.NewStore(hub)
	cfg := memory.NewConfigStore()

	ts := &testServices{
		meals:     meals,
		chat:      tuitest.NewChat("Use rigatoni, it holds the sauce well."),
		settings:  services.NewSettingsService(cfg, store.SettingsStore(), hub, ""),
		config:    cfg,
		scheduler: &fakeScheduler{},
		speech:    &fakeRecognizer{},
	}

	SetServices(&Services{
		Meals:     ts.meals,
		Chat:      ts.chat,
		Settings:  ts.settings,
		Scheduler: ts.scheduler,
		Speech:    ts.speech,
	})

	return func() {
		SetServices(&prev)
		stdin = prevStdin
		hub.Close()
	}, ts
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

// resetFlags restores flag defaults so values do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
}

// fakeScheduler records RunNow calls.
type fakeScheduler struct {
	mu      sync.Mutex
	ran     []string
	fail    map[string]string
	tasks   []domain.ScheduledTask
	started bool
	stopped bool
}

func (s *fakeScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func (s *fakeScheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *fakeScheduler) RunNow(_ context.Context, taskID string) (*domain.TaskResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if taskID != domain.TaskIDDailyMeal && taskID != domain.TaskIDCategoryRefresh {
		return nil, errors.New("unknown task: " + taskID)
	}
	s.ran = append(s.ran, taskID)
	now := time.Now()
	result := &domain.TaskResult{TaskID: taskID, StartedAt: now, EndedAt: now, Success: true, ItemsProcessed: 14}
	if msg, ok := s.fail[taskID]; ok {
		result.Success = false
		result.Error = msg
	}
	return result, nil
}

func (s *fakeScheduler) Tasks() []domain.ScheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks
}

func (s *fakeScheduler) snapshot() (ran []string, started, stopped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.ran...), s.started, s.stopped
}

// fakeRecognizer returns Text or Err.
type fakeRecognizer struct {
	Text string
	Err  error
}

func (r *fakeRecognizer) Listen(context.Context) (string, error) { return r.Text, r.Err }
func (r *fakeRecognizer) Available() bool                        { return r.Err == nil }

func requireContains(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		require.Contains(t, out, p)
	}
}
