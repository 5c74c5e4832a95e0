package mcp

import (
	"context"

	"github.com/recipedelight/delight/internal/core/domain"
)

// mockMealService is a mock implementation of driving.MealService.
type mockMealService struct {
	random     *domain.Meal
	categories []domain.Category
	summaries  []domain.MealSummary
	meals      map[string]*domain.Meal
	search     []domain.Meal
	bookmarks  []domain.Meal
	toggled    []string
	err        error
}

func (m *mockMealService) GetRandomMeal(_ context.Context) (*domain.Meal, error) {
	return m.random, m.err
}

func (m *mockMealService) GetCategories(_ context.Context) ([]domain.Category, error) {
	return m.categories, m.err
}

func (m *mockMealService) GetMealsByCategory(_ context.Context, _ string) ([]domain.MealSummary, error) {
	return m.summaries, m.err
}

func (m *mockMealService) GetMealDetails(_ context.Context, id string) (*domain.Meal, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.meals[id], nil
}

func (m *mockMealService) SearchMeals(_ context.Context, _ string) ([]domain.Meal, error) {
	return m.search, m.err
}

func (m *mockMealService) LoadHome(_ context.Context) (*domain.HomeFeed, error) {
	return &domain.HomeFeed{Categories: m.categories, RandomMeal: m.random}, m.err
}

func (m *mockMealService) BookmarkedMeals(ctx context.Context) <-chan []domain.Meal {
	ch := make(chan []domain.Meal, 1)
	ch <- m.bookmarks
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

func (m *mockMealService) IsMealBookmarked(ctx context.Context, _ string) <-chan bool {
	ch := make(chan bool, 1)
	ch <- false
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

func (m *mockMealService) ToggleBookmark(_ context.Context, meal *domain.Meal) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.toggled = append(m.toggled, meal.ID)
	return len(m.toggled)%2 == 1, nil
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	reply   string
	history []domain.ChatMessage
	err     error

	lastText, lastKey, lastRecipe string
}

func (m *mockChatService) LoadHistory(_ context.Context, _ string) ([]domain.ChatMessage, error) {
	return m.history, m.err
}

func (m *mockChatService) SendMessage(_ context.Context, text, contextKey, recipe string) (domain.ChatMessage, error) {
	m.lastText, m.lastKey, m.lastRecipe = text, contextKey, recipe
	if m.err != nil {
		return domain.ChatMessage{}, m.err
	}
	return domain.ChatMessage{ID: "m1", ContextKey: contextKey, Role: domain.ChatRoleModel, Content: m.reply}, nil
}

func (m *mockChatService) ClearHistory(_ context.Context, _ string) error { return m.err }

func (m *mockChatService) IsLoading(_ string) bool { return false }

func (m *mockChatService) Conversations(_ context.Context) ([]string, error) { return nil, m.err }
