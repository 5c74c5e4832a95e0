package driven

import (
	"context"

	"github.com/recipedelight/delight/internal/core/domain"
)

// MealStore caches full meal records.
type MealStore interface {
	// SaveMeal upserts a meal by ID. Meal.Bookmarked is ignored.
	SaveMeal(ctx context.Context, meal *domain.Meal) error

	// SaveMeals upserts a batch in one transaction.
	SaveMeals(ctx context.Context, meals []domain.Meal) error

	// GetMeal returns a cached meal with Bookmarked filled in.
	// Returns nil and no error if the meal is not cached.
	GetMeal(ctx context.Context, id string) (*domain.Meal, error)

	// SetAlias points a reserved key (e.g. domain.RandomMealAlias) at a meal ID.
	SetAlias(ctx context.Context, alias, mealID string) error

	// GetMealByAlias resolves an alias to its cached meal.
	// Returns nil and no error if the alias or the meal is missing.
	GetMealByAlias(ctx context.Context, alias string) (*domain.Meal, error)
}

// BookmarkStore persists bookmarked meal snapshots.
// A row's existence is the bookmarked state.
type BookmarkStore interface {
	// Toggle deletes the bookmark for meal.ID if present, otherwise inserts
	// a full snapshot. The check and the write are atomic. Returns the new state.
	Toggle(ctx context.Context, meal *domain.Meal) (bool, error)

	// List returns every bookmarked meal in insertion order.
	List(ctx context.Context) ([]domain.Meal, error)

	// Get returns the bookmarked snapshot for id, or nil if not bookmarked.
	Get(ctx context.Context, id string) (*domain.Meal, error)

	// Exists reports whether id is bookmarked.
	Exists(ctx context.Context, id string) (bool, error)
}

// CategoryStore caches categories and per-category summaries.
type CategoryStore interface {
	// ReplaceCategories overwrites every cached category.
	ReplaceCategories(ctx context.Context, categories []domain.Category) error

	// ListCategories returns the cached categories.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// ReplaceCategoryMeals overwrites the summaries tagged with category.
	ReplaceCategoryMeals(ctx context.Context, category string, meals []domain.MealSummary) error

	// ListCategoryMeals returns the cached summaries tagged with category.
	ListCategoryMeals(ctx context.Context, category string) ([]domain.MealSummary, error)
}

// SettingsStore persists the singleton AppSettings row.
type SettingsStore interface {
	// InitDefaults inserts the default row if absent. Safe to call repeatedly.
	InitDefaults(ctx context.Context) error

	// GetSettings returns the row, or defaults if InitDefaults has not run.
	GetSettings(ctx context.Context) (domain.AppSettings, error)

	// SetDarkMode writes the dark-mode flag.
	SetDarkMode(ctx context.Context, enabled bool) error

	// ToggleDarkMode flips the flag atomically and returns the new value.
	ToggleDarkMode(ctx context.Context) (bool, error)
}

// ChatStore persists chat turns per context key.
type ChatStore interface {
	// AppendMessage persists one turn.
	AppendMessage(ctx context.Context, msg *domain.ChatMessage) error

	// ListMessages returns the turns for contextKey in insertion order.
	ListMessages(ctx context.Context, contextKey string) ([]domain.ChatMessage, error)

	// ClearMessages deletes every turn for contextKey.
	ClearMessages(ctx context.Context, contextKey string) error

	// ListContextKeys returns every context key with at least one turn.
	ListContextKeys(ctx context.Context) ([]string, error)
}
