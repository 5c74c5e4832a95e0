// Package tuitest provides in-memory driving ports for TUI tests.
package tuitest

import (
	"context"
	"sync"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driving"
)

var (
	_ driving.MealService     = (*Meals)(nil)
	_ driving.ChatService     = (*Chat)(nil)
	_ driving.SettingsService = (*Settings)(nil)
)

// Meals is a driving.MealService over fixed data. Bookmark streams emit
// the current value on subscribe and again after every toggle.
type Meals struct {
	mu sync.Mutex

	Home       *domain.HomeFeed
	ByCategory map[string][]domain.MealSummary
	Details    map[string]*domain.Meal
	Results    []domain.Meal
	Err        error

	bookmarks []domain.Meal
	watchers  []func()
	Queries   []string
}

// NewMeals returns a service with empty fixtures.
func NewMeals() *Meals {
	return &Meals{
		Home:       &domain.HomeFeed{Categories: []domain.Category{}},
		ByCategory: map[string][]domain.MealSummary{},
		Details:    map[string]*domain.Meal{},
	}
}

func (m *Meals) GetRandomMeal(_ context.Context) (*domain.Meal, error) {
	return m.Home.RandomMeal, m.Err
}

func (m *Meals) GetCategories(_ context.Context) ([]domain.Category, error) {
	return m.Home.Categories, m.Err
}

func (m *Meals) GetMealsByCategory(_ context.Context, category string) ([]domain.MealSummary, error) {
	return m.ByCategory[category], m.Err
}

func (m *Meals) GetMealDetails(_ context.Context, id string) (*domain.Meal, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Details[id], nil
}

func (m *Meals) SearchMeals(_ context.Context, query string) ([]domain.Meal, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	m.mu.Unlock()
	return m.Results, m.Err
}

func (m *Meals) LoadHome(_ context.Context) (*domain.HomeFeed, error) {
	return m.Home, m.Err
}

func (m *Meals) BookmarkedMeals(ctx context.Context) <-chan []domain.Meal {
	return watch(ctx, m, func() []domain.Meal {
		return append([]domain.Meal{}, m.bookmarks...)
	})
}

func (m *Meals) IsMealBookmarked(ctx context.Context, id string) <-chan bool {
	return watch(ctx, m, func() bool { return m.indexOf(id) >= 0 })
}

func (m *Meals) ToggleBookmark(_ context.Context, meal *domain.Meal) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	var on bool
	if i := m.indexOf(meal.ID); i >= 0 {
		m.bookmarks = append(m.bookmarks[:i], m.bookmarks[i+1:]...)
	} else {
		snap := *meal
		snap.Bookmarked = true
		m.bookmarks = append(m.bookmarks, snap)
		on = true
	}
	watchers := append([]func(){}, m.watchers...)
	m.mu.Unlock()

	for _, notify := range watchers {
		notify()
	}
	return on, nil
}

// indexOf must be called with mu held.
func (m *Meals) indexOf(id string) int {
	for i := range m.bookmarks {
		if m.bookmarks[i].ID == id {
			return i
		}
	}
	return -1
}

func watch[T any](ctx context.Context, m *Meals, read func() T) <-chan T {
	out := make(chan T, 1)
	var (
		outMu  sync.Mutex
		closed bool
	)
	send := func() {
		m.mu.Lock()
		v := read()
		m.mu.Unlock()

		outMu.Lock()
		defer outMu.Unlock()
		if closed {
			return
		}
		select {
		case <-out:
		default:
		}
		out <- v
	}

	m.mu.Lock()
	m.watchers = append(m.watchers, send)
	m.mu.Unlock()
	send()

	go func() {
		<-ctx.Done()
		outMu.Lock()
		closed = true
		close(out)
		outMu.Unlock()
	}()
	return out
}

// Chat is a driving.ChatService that answers with Reply. When Block is
// set, SendMessage waits for it to be closed.
type Chat struct {
	mu sync.Mutex

	Reply string
	Err   error
	Block chan struct{}

	history map[string][]domain.ChatMessage
	loading map[string]bool
	Recipes []string
}

// NewChat returns a chat service with no history.
func NewChat(reply string) *Chat {
	return &Chat{
		Reply:   reply,
		history: map[string][]domain.ChatMessage{},
		loading: map[string]bool{},
	}
}

func (c *Chat) LoadHistory(_ context.Context, key string) ([]domain.ChatMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ChatMessage{}, c.history[key]...), c.Err
}

func (c *Chat) SendMessage(_ context.Context, text, key, recipe string) (domain.ChatMessage, error) {
	if c.Err != nil {
		return domain.ChatMessage{}, c.Err
	}
	c.mu.Lock()
	c.Recipes = append(c.Recipes, recipe)
	c.history[key] = append(c.history[key], domain.ChatMessage{ID: "u", ContextKey: key, Role: domain.ChatRoleUser, Content: text})
	c.loading[key] = true
	block := c.Block
	c.mu.Unlock()

	if block != nil {
		<-block
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	reply := domain.ChatMessage{ID: "m", ContextKey: key, Role: domain.ChatRoleModel, Content: c.Reply}
	c.history[key] = append(c.history[key], reply)
	delete(c.loading, key)
	return reply, nil
}

func (c *Chat) ClearHistory(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.history, key)
	return c.Err
}

func (c *Chat) IsLoading(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading[key]
}

func (c *Chat) Conversations(_ context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.history))
	for k := range c.history {
		keys = append(keys, k)
	}
	return keys, c.Err
}

// Settings is a driving.SettingsService holding the dark-mode flag only.
type Settings struct {
	mu       sync.Mutex
	dark     bool
	watchers []chan bool
}

func (s *Settings) InitDefaults(_ context.Context) error { return nil }

func (s *Settings) Get(_ context.Context) (domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.AppSettings{DarkMode: s.dark}, nil
}

func (s *Settings) SetDarkMode(_ context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dark = enabled
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- enabled
	}
	return nil
}

func (s *Settings) ToggleDarkMode(ctx context.Context) (bool, error) {
	s.mu.Lock()
	next := !s.dark
	s.mu.Unlock()
	return next, s.SetDarkMode(ctx, next)
}

func (s *Settings) WatchDarkMode(_ context.Context) <-chan bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan bool, 1)
	ch <- s.dark
	s.watchers = append(s.watchers, ch)
	return ch
}

func (s *Settings) Config() domain.Config { return domain.DefaultConfig() }

func (s *Settings) Assistant() domain.AssistantSettings { return domain.DefaultConfig().Assistant }

func (s *Settings) SetAPIKey(_ string) error { return nil }

func (s *Settings) SetModel(_ string) error { return nil }

func (s *Settings) APIKeySource() string { return "not set" }
