package driven

import (
	"context"

	"github.com/recipedelight/delight/internal/core/domain"
)

// MealCatalog is the remote meal catalogue.
//
// Implementations map absent or null result arrays to empty slices.
// Transport failures, non-success statuses and undecodable bodies are
// returned as errors wrapping domain.ErrSourceUnavailable or
// domain.ErrMalformedResponse.
type MealCatalog interface {
	// RandomMeal returns one random meal.
	RandomMeal(ctx context.Context) (*domain.Meal, error)

	// Categories returns every category.
	Categories(ctx context.Context) ([]domain.Category, error)

	// MealsByCategory returns summaries for one category.
	MealsByCategory(ctx context.Context, category string) ([]domain.MealSummary, error)

	// MealByID looks up a full meal.
	// Returns domain.ErrNotFound when the catalogue has no such meal.
	MealByID(ctx context.Context, id string) (*domain.Meal, error)

	// Search returns meals whose name matches query.
	Search(ctx context.Context, query string) ([]domain.Meal, error)
}
