package driving

import (
	"context"

	"github.com/recipedelight/delight/internal/core/domain"
)

// MealService is the single access point for catalogue data and bookmarks.
//
// Reads try the network first, write results through to the local store and
// fall back to the store when the network fails. The returned error is
// non-nil only when the local store itself fails.
type MealService interface {
	// GetRandomMeal returns a random meal, or the last cached one offline.
	// Returns nil when neither is available.
	GetRandomMeal(ctx context.Context) (*domain.Meal, error)

	// GetCategories returns every category, possibly from cache, possibly empty.
	GetCategories(ctx context.Context) ([]domain.Category, error)

	// GetMealsByCategory returns summaries for one category.
	GetMealsByCategory(ctx context.Context, category string) ([]domain.MealSummary, error)

	// GetMealDetails returns a full meal, or nil if it is unknown both
	// remotely and locally.
	GetMealDetails(ctx context.Context, id string) (*domain.Meal, error)

	// SearchMeals queries the network only. Failures yield an empty result.
	SearchMeals(ctx context.Context, query string) ([]domain.Meal, error)

	// LoadHome fetches categories and a random meal concurrently.
	LoadHome(ctx context.Context) (*domain.HomeFeed, error)

	// BookmarkedMeals streams the bookmark list in insertion order.
	// The channel is closed when ctx ends.
	BookmarkedMeals(ctx context.Context) <-chan []domain.Meal

	// IsMealBookmarked streams the bookmarked state of one meal.
	// The channel is closed when ctx ends.
	IsMealBookmarked(ctx context.Context, id string) <-chan bool

	// ToggleBookmark saves meal if it is not bookmarked, otherwise removes
	// it. Returns the new state.
	ToggleBookmark(ctx context.Context, meal *domain.Meal) (bool, error)
}
