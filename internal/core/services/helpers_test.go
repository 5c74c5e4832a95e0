package services

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/recipedelight/delight/internal/adapters/driven/storage/changefeed"
	"github.com/recipedelight/delight/internal/adapters/driven/storage/memory"
	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/logger"
)

// --- Test doubles shared by the service tests ---

// fakeCatalog implements driven.MealCatalog over in-memory fixtures.
type fakeCatalog struct {
	mu sync.Mutex

	// err, when set, fails every call.
	err error
	// delay holds every call, to exercise request collapsing.
	delay time.Duration

	random     *domain.Meal
	categories []domain.Category
	byCategory map[string][]domain.MealSummary
	meals      map[string]domain.Meal
	search     []domain.Meal

	calls map[string]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		byCategory: make(map[string][]domain.MealSummary),
		meals:      make(map[string]domain.Meal),
		calls:      make(map[string]int),
	}
}

func (f *fakeCatalog) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls[op]++
	err, delay := f.err, f.delay
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeCatalog) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeCatalog) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeCatalog) RandomMeal(ctx context.Context) (*domain.Meal, error) {
	if err := f.enter(ctx, "random"); err != nil {
		return nil, err
	}
	if f.random == nil {
		return nil, domain.ErrNotFound
	}
	m := *f.random
	return &m, nil
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]domain.Category, error) {
	if err := f.enter(ctx, "categories"); err != nil {
		return nil, err
	}
	return append([]domain.Category{}, f.categories...), nil
}

func (f *fakeCatalog) MealsByCategory(ctx context.Context, category string) ([]domain.MealSummary, error) {
	if err := f.enter(ctx, "category"); err != nil {
		return nil, err
	}
	return append([]domain.MealSummary{}, f.byCategory[category]...), nil
}

func (f *fakeCatalog) MealByID(ctx context.Context, id string) (*domain.Meal, error) {
	if err := f.enter(ctx, "lookup"); err != nil {
		return nil, err
	}
	m, ok := f.meals[id]
	if !ok {
		return nil, fmt.Errorf("meal %s: %w", id, domain.ErrNotFound)
	}
	return &m, nil
}

func (f *fakeCatalog) Search(ctx context.Context, _ string) ([]domain.Meal, error) {
	if err := f.enter(ctx, "search"); err != nil {
		return nil, err
	}
	return append([]domain.Meal{}, f.search...), nil
}

// fakeAssistant implements driven.Assistant and records every request.
type fakeAssistant struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	requests [][]domain.ChatTurn
	systems  []string
}

func (f *fakeAssistant) Generate(_ context.Context, systemInstruction string, turns []domain.ChatTurn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.requests = append(f.requests, append([]domain.ChatTurn{}, turns...))
	f.systems = append(f.systems, systemInstruction)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeAssistant) ModelName() string { return "fake-model" }

func (f *fakeAssistant) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// staticAssistantConfig implements AssistantConfig.
type staticAssistantConfig struct{ key string }

func (c staticAssistantConfig) Assistant() domain.AssistantSettings {
	return domain.AssistantSettings{APIKey: c.key, Model: domain.DefaultAssistantModel}
}

// recordingNotifier implements driven.Notifier.
type recordingNotifier struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.lines = append(n.lines, title+": "+body)
	return nil
}

func (n *recordingNotifier) Lines() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.lines...)
}

var (
	_ driven.MealCatalog = (*fakeCatalog)(nil)
	_ driven.Assistant   = (*fakeAssistant)(nil)
	_ driven.Notifier    = (*recordingNotifier)(nil)
)

// --- Fixtures ---

func arrabiata() domain.Meal {
	return domain.Meal{
		ID:           "52771",
		Name:         "Spicy Arrabiata Penne",
		Category:     "Vegetarian",
		Area:         "Italian",
		Instructions: "Bring a large pot of water to a boil.",
		Thumbnail:    "https://example.test/arrabiata.jpg",
		Tags:         []string{"Pasta", "Curry"},
		YouTube:      "https://www.youtube.com/watch?v=1IszT_guI08",
		Ingredients:  []string{"penne rigate - 1 pound", "olive oil - 1/4 cup"},
	}
}

func teriyaki() domain.Meal {
	return domain.Meal{
		ID:          "52772",
		Name:        "Teriyaki Chicken Casserole",
		Category:    "Chicken",
		Area:        "Japanese",
		Ingredients: []string{"soy sauce - 3/4 cup"},
	}
}

// mealHarness wires a MealService to an in-memory store.
type mealHarness struct {
	catalog *fakeCatalog
	hub     *changefeed.Hub
	store   *memory.Store
	service *MealService
}

func newMealHarness(t *testing.T) *mealHarness {
	t.Helper()
	hub := changefeed.NewHub()
	t.Cleanup(hub.Close)

	store := memory.NewStore(hub)
	catalog := newFakeCatalog()
	service := NewMealService(catalog, store.MealStore(), store.BookmarkStore(), store.CategoryStore(), hub)
	return &mealHarness{catalog: catalog, hub: hub, store: store, service: service}
}

// receive waits for the next value on ch.
func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for live query")
	}
	var zero T
	return zero
}

// eventually waits until the live query on ch yields a value matching want.
func eventually[T any](t *testing.T, ch <-chan T, want func(T) bool) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case v, ok := <-ch:
			require.True(t, ok, "channel closed")
			if want(v) {
				return v
			}
		case <-deadline:
			t.Fatal("timed out waiting for expected live query value")
			var zero T
			return zero
		}
	}
}

// logBuffer collects log output written from any goroutine.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// captureLog sends quiet-mode log output to a buffer for the rest of the test.
func captureLog(t *testing.T) *logBuffer {
	t.Helper()
	prevOut, prevVerbose := logger.Output(), logger.IsVerbose()
	b := &logBuffer{}
	logger.SetOutput(b)
	logger.SetVerbose(false)
	t.Cleanup(func() {
		logger.SetOutput(prevOut)
		logger.SetVerbose(prevVerbose)
	})
	return b
}
