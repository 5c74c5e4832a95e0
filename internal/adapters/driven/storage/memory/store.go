// Package memory provides in-memory implementations of the driven store ports.
// They back the --offline mode and the service tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
)

// Store holds every table in maps guarded by one lock, so joins such as
// Meal.Bookmarked see a consistent view.
type Store struct {
	mu   sync.RWMutex
	feed driven.ChangeFeed

	meals         map[string]domain.Meal
	aliases       map[string]string
	bookmarks     []domain.Meal
	categories    []domain.Category
	categoryMeals map[string][]domain.MealSummary
	settings      *domain.AppSettings
	chats         []domain.ChatMessage

	scheduler *SchedulerStore
}

// NewStore creates an empty store. feed may be nil.
func NewStore(feed driven.ChangeFeed) *Store {
	return &Store{
		feed:          feed,
		meals:         make(map[string]domain.Meal),
		aliases:       make(map[string]string),
		categoryMeals: make(map[string][]domain.MealSummary),
		scheduler:     NewSchedulerStore(),
	}
}

// MealStore returns the meal cache view.
func (s *Store) MealStore() driven.MealStore { return (*mealStore)(s) }

// BookmarkStore returns the bookmark view.
func (s *Store) BookmarkStore() driven.BookmarkStore { return (*bookmarkStore)(s) }

// CategoryStore returns the category cache view.
func (s *Store) CategoryStore() driven.CategoryStore { return (*categoryStore)(s) }

// SettingsStore returns the settings row view.
func (s *Store) SettingsStore() driven.SettingsStore { return (*settingsStore)(s) }

// ChatStore returns the chat view.
func (s *Store) ChatStore() driven.ChatStore { return (*chatStore)(s) }

// SchedulerStore returns the scheduler state store.
func (s *Store) SchedulerStore() driven.SchedulerStore { return s.scheduler }

// Close is a no-op kept for parity with the SQLite store.
func (s *Store) Close() error { return nil }

func (s *Store) publish(tables ...domain.Table) {
	if s.feed != nil {
		s.feed.Publish(tables...)
	}
}

func (s *Store) bookmarkIndex(id string) int {
	return slices.IndexFunc(s.bookmarks, func(m domain.Meal) bool { return m.ID == id })
}

func cloneMeal(m domain.Meal) domain.Meal {
	m.Tags = slices.Clone(m.Tags)
	m.Ingredients = slices.Clone(m.Ingredients)
	return m
}

// ==================== Meal Store ====================

type mealStore Store

var _ driven.MealStore = (*mealStore)(nil)

func (m *mealStore) SaveMeal(ctx context.Context, meal *domain.Meal) error {
	if meal == nil || meal.ID == "" {
		return domain.ErrInvalidInput
	}
	return m.SaveMeals(ctx, []domain.Meal{*meal})
}

func (m *mealStore) SaveMeals(_ context.Context, meals []domain.Meal) error {
	if len(meals) == 0 {
		return nil
	}
	s := (*Store)(m)
	s.mu.Lock()
	for _, meal := range meals {
		if meal.ID == "" {
			s.mu.Unlock()
			return domain.ErrInvalidInput
		}
		meal.Bookmarked = false
		s.meals[meal.ID] = cloneMeal(meal)
	}
	s.mu.Unlock()
	s.publish(domain.TableMeals)
	return nil
}

func (m *mealStore) GetMeal(_ context.Context, id string) (*domain.Meal, error) {
	s := (*Store)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupMeal(id), nil
}

func (m *mealStore) SetAlias(_ context.Context, alias, mealID string) error {
	s := (*Store)(m)
	s.mu.Lock()
	s.aliases[alias] = mealID
	s.mu.Unlock()
	s.publish(domain.TableMeals)
	return nil
}

func (m *mealStore) GetMealByAlias(_ context.Context, alias string) (*domain.Meal, error) {
	s := (*Store)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.aliases[alias]
	if !ok {
		return nil, nil
	}
	return s.lookupMeal(id), nil
}

// lookupMeal must be called with s.mu held.
func (s *Store) lookupMeal(id string) *domain.Meal {
	meal, ok := s.meals[id]
	if !ok {
		return nil
	}
	meal = cloneMeal(meal)
	meal.Bookmarked = s.bookmarkIndex(id) >= 0
	return &meal
}

// ==================== Bookmark Store ====================

type bookmarkStore Store

var _ driven.BookmarkStore = (*bookmarkStore)(nil)

func (b *bookmarkStore) Toggle(_ context.Context, meal *domain.Meal) (bool, error) {
	if meal == nil || meal.ID == "" {
		return false, domain.ErrInvalidInput
	}
	s := (*Store)(b)
	s.mu.Lock()
	var bookmarked bool
	if i := s.bookmarkIndex(meal.ID); i >= 0 {
		s.bookmarks = slices.Delete(s.bookmarks, i, i+1)
	} else {
		snapshot := cloneMeal(*meal)
		snapshot.Bookmarked = true
		s.bookmarks = append(s.bookmarks, snapshot)
		bookmarked = true
	}
	s.mu.Unlock()
	s.publish(domain.TableBookmarks)
	return bookmarked, nil
}

func (b *bookmarkStore) List(_ context.Context) ([]domain.Meal, error) {
	s := (*Store)(b)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Meal, 0, len(s.bookmarks))
	for _, m := range s.bookmarks {
		out = append(out, cloneMeal(m))
	}
	return out, nil
}

func (b *bookmarkStore) Get(_ context.Context, id string) (*domain.Meal, error) {
	s := (*Store)(b)
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.bookmarkIndex(id)
	if i < 0 {
		return nil, nil
	}
	meal := cloneMeal(s.bookmarks[i])
	return &meal, nil
}

func (b *bookmarkStore) Exists(_ context.Context, id string) (bool, error) {
	s := (*Store)(b)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookmarkIndex(id) >= 0, nil
}

// ==================== Category Store ====================

type categoryStore Store

var _ driven.CategoryStore = (*categoryStore)(nil)

func (c *categoryStore) ReplaceCategories(_ context.Context, categories []domain.Category) error {
	s := (*Store)(c)
	s.mu.Lock()
	s.categories = slices.Clone(categories)
	s.mu.Unlock()
	s.publish(domain.TableCategories)
	return nil
}

func (c *categoryStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	s := (*Store)(c)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category{}, s.categories...), nil
}

func (c *categoryStore) ReplaceCategoryMeals(_ context.Context, category string, meals []domain.MealSummary) error {
	s := (*Store)(c)
	s.mu.Lock()
	s.categoryMeals[category] = slices.Clone(meals)
	s.mu.Unlock()
	s.publish(domain.TableCategoryMeals)
	return nil
}

func (c *categoryStore) ListCategoryMeals(_ context.Context, category string) ([]domain.MealSummary, error) {
	s := (*Store)(c)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.MealSummary{}, s.categoryMeals[category]...), nil
}

// ==================== Settings Store ====================

type settingsStore Store

var _ driven.SettingsStore = (*settingsStore)(nil)

func (st *settingsStore) InitDefaults(_ context.Context) error {
	s := (*Store)(st)
	s.mu.Lock()
	created := s.settings == nil
	if created {
		defaults := domain.DefaultAppSettings()
		s.settings = &defaults
	}
	s.mu.Unlock()
	if created {
		s.publish(domain.TableSettings)
	}
	return nil
}

func (st *settingsStore) GetSettings(_ context.Context) (domain.AppSettings, error) {
	s := (*Store)(st)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return domain.DefaultAppSettings(), nil
	}
	return *s.settings, nil
}

func (st *settingsStore) SetDarkMode(_ context.Context, enabled bool) error {
	s := (*Store)(st)
	s.mu.Lock()
	s.settings = &domain.AppSettings{DarkMode: enabled}
	s.mu.Unlock()
	s.publish(domain.TableSettings)
	return nil
}

func (st *settingsStore) ToggleDarkMode(_ context.Context) (bool, error) {
	s := (*Store)(st)
	s.mu.Lock()
	if s.settings == nil {
		defaults := domain.DefaultAppSettings()
		s.settings = &defaults
	}
	s.settings.DarkMode = !s.settings.DarkMode
	enabled := s.settings.DarkMode
	s.mu.Unlock()
	s.publish(domain.TableSettings)
	return enabled, nil
}

// ==================== Chat Store ====================

type chatStore Store

var _ driven.ChatStore = (*chatStore)(nil)

func (c *chatStore) AppendMessage(_ context.Context, msg *domain.ChatMessage) error {
	if msg == nil || msg.ID == "" || msg.ContextKey == "" {
		return domain.ErrInvalidInput
	}
	s := (*Store)(c)
	s.mu.Lock()
	s.chats = append(s.chats, *msg)
	s.mu.Unlock()
	s.publish(domain.TableChatMessages)
	return nil
}

func (c *chatStore) ListMessages(_ context.Context, contextKey string) ([]domain.ChatMessage, error) {
	s := (*Store)(c)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.ChatMessage{}
	for _, m := range s.chats {
		if m.ContextKey == contextKey {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *chatStore) ClearMessages(_ context.Context, contextKey string) error {
	s := (*Store)(c)
	s.mu.Lock()
	s.chats = slices.DeleteFunc(s.chats, func(m domain.ChatMessage) bool { return m.ContextKey == contextKey })
	s.mu.Unlock()
	s.publish(domain.TableChatMessages)
	return nil
}

// ListContextKeys returns keys most recently active first.
func (c *chatStore) ListContextKeys(_ context.Context) ([]string, error) {
	s := (*Store)(c)
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := []string{}
	for i := len(s.chats) - 1; i >= 0; i-- {
		if key := s.chats[i].ContextKey; !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
