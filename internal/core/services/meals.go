package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/core/ports/driving"
	"github.com/recipedelight/delight/internal/logger"
)

// Ensure MealService implements the interface.
var _ driving.MealService = (*MealService)(nil)

// errEmptyResult marks a successful response that carried nothing usable.
// It is handled like any other source failure.
var errEmptyResult = fmt.Errorf("%w: empty result", domain.ErrSourceUnavailable)

// sharedFetchTimeout bounds a collapsed fetch once it no longer follows
// any single caller's context.
const sharedFetchTimeout = 60 * time.Second

// storeError marks a local store failure raised inside a remote fetch, so
// it propagates instead of triggering the cache fallback.
type storeError struct{ err error }

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func isStoreError(err error) bool {
	var se *storeError
	return errors.As(err, &se)
}

// MealService mediates between the meal catalogue and the local store.
//
// Reads go to the network first and write the result through to the store;
// when the network fails, is malformed or returns nothing, the cached copy
// is returned instead. Only local store failures are reported as errors.
type MealService struct {
	catalog    driven.MealCatalog
	meals      driven.MealStore
	bookmarks  driven.BookmarkStore
	categories driven.CategoryStore
	feed       driven.ChangeFeed

	flight singleflight.Group
}

// NewMealService creates a meal service.
func NewMealService(
	catalog driven.MealCatalog,
	meals driven.MealStore,
	bookmarks driven.BookmarkStore,
	categories driven.CategoryStore,
	feed driven.ChangeFeed,
) *MealService {
	return &MealService{
		catalog:    catalog,
		meals:      meals,
		bookmarks:  bookmarks,
		categories: categories,
		feed:       feed,
	}
}

// GetRandomMeal returns a random meal from the catalogue, or the last one
// cached under domain.RandomMealAlias when the catalogue is unreachable.
func (s *MealService) GetRandomMeal(ctx context.Context) (*domain.Meal, error) {
	meal, err := s.fetchMeal(ctx, "random", func(ctx context.Context) (*domain.Meal, error) {
		m, err := s.catalog.RandomMeal(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.meals.SaveMeal(ctx, m); err != nil {
			return nil, &storeError{err}
		}
		if err := s.meals.SetAlias(ctx, domain.RandomMealAlias, m.ID); err != nil {
			return nil, &storeError{err}
		}
		return m, nil
	})
	if err == nil {
		logger.Debug("meals: random meal %s served from network", meal.ID)
		return meal, nil
	}
	if isStoreError(err) {
		return nil, err
	}

	logger.Warn("meals: random meal unavailable, using cache: %v", err)
	cached, err := s.meals.GetMealByAlias(ctx, domain.RandomMealAlias)
	if err != nil {
		return nil, fmt.Errorf("reading cached random meal: %w", err)
	}
	return cached, nil
}

// GetCategories returns every category. On failure the cached list is
// returned, which may be empty.
func (s *MealService) GetCategories(ctx context.Context) ([]domain.Category, error) {
	v, err := s.shared(ctx, "categories", func(ctx context.Context) (any, error) {
		cats, err := s.catalog.Categories(ctx)
		if err != nil {
			return nil, err
		}
		if len(cats) == 0 {
			return nil, errEmptyResult
		}
		if err := s.categories.ReplaceCategories(ctx, cats); err != nil {
			return nil, &storeError{err}
		}
		return cats, nil
	})
	if err == nil {
		cats := v.([]domain.Category)
		logger.Debug("meals: %d categories served from network", len(cats))
		return slices.Clone(cats), nil
	}
	if isStoreError(err) {
		return nil, err
	}

	logger.Warn("meals: categories unavailable, using cache: %v", err)
	cached, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading cached categories: %w", err)
	}
	if cached == nil {
		cached = []domain.Category{}
	}
	return cached, nil
}

// GetMealsByCategory returns the meal summaries for one category, falling
// back to the summaries cached under that category name.
func (s *MealService) GetMealsByCategory(ctx context.Context, category string) ([]domain.MealSummary, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return []domain.MealSummary{}, nil
	}

	v, err := s.shared(ctx, "category:"+category, func(ctx context.Context) (any, error) {
		summaries, err := s.catalog.MealsByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		if len(summaries) == 0 {
			return nil, errEmptyResult
		}
		if err := s.categories.ReplaceCategoryMeals(ctx, category, summaries); err != nil {
			return nil, &storeError{err}
		}
		return summaries, nil
	})
	if err == nil {
		summaries := v.([]domain.MealSummary)
		logger.Debug("meals: %d %s meals served from network", len(summaries), category)
		return slices.Clone(summaries), nil
	}
	if isStoreError(err) {
		return nil, err
	}

	logger.Warn("meals: category %q unavailable, using cache: %v", category, err)
	cached, err := s.categories.ListCategoryMeals(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("reading cached meals for %s: %w", category, err)
	}
	if cached == nil {
		cached = []domain.MealSummary{}
	}
	return cached, nil
}

// GetMealDetails returns a meal by ID. Offline it falls back to the cached
// record, then to the bookmarked snapshot. Returns nil if neither exists.
func (s *MealService) GetMealDetails(ctx context.Context, id string) (*domain.Meal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	meal, err := s.fetchMeal(ctx, "meal:"+id, func(ctx context.Context) (*domain.Meal, error) {
		m, err := s.catalog.MealByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.meals.SaveMeal(ctx, m); err != nil {
			return nil, &storeError{err}
		}
		return m, nil
	})
	if err == nil {
		logger.Debug("meals: meal %s served from network", id)
		return meal, nil
	}
	if isStoreError(err) {
		return nil, err
	}

	logger.Warn("meals: meal %s unavailable, using cache: %v", id, err)
	cached, err := s.meals.GetMeal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading cached meal %s: %w", id, err)
	}
	if cached != nil {
		return cached, nil
	}

	saved, err := s.bookmarks.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading bookmarked meal %s: %w", id, err)
	}
	return saved, nil
}

// SearchMeals queries the catalogue by name. There is no cache tier:
// failures yield an empty list. Results are written through to the meal
// cache so they can be opened offline later.
func (s *MealService) SearchMeals(ctx context.Context, query string) ([]domain.Meal, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Meal{}, nil
	}

	meals, err := s.catalog.Search(ctx, query)
	if err != nil {
		logger.Warn("meals: search %q failed: %v", query, err)
		return []domain.Meal{}, nil
	}
	if len(meals) == 0 {
		return []domain.Meal{}, nil
	}

	if err := s.meals.SaveMeals(ctx, meals); err != nil {
		return nil, fmt.Errorf("caching search results: %w", err)
	}
	for i := range meals {
		bookmarked, err := s.bookmarks.Exists(ctx, meals[i].ID)
		if err != nil {
			return nil, fmt.Errorf("reading bookmark state: %w", err)
		}
		meals[i].Bookmarked = bookmarked
	}

	logger.Debug("meals: search %q returned %d meals", query, len(meals))
	return meals, nil
}

// LoadHome fetches the categories and a random meal concurrently.
func (s *MealService) LoadHome(ctx context.Context) (*domain.HomeFeed, error) {
	feed := &domain.HomeFeed{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cats, err := s.GetCategories(gctx)
		feed.Categories = cats
		return err
	})
	g.Go(func() error {
		meal, err := s.GetRandomMeal(gctx)
		feed.RandomMeal = meal
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return feed, nil
}

// BookmarkedMeals streams the bookmark list, oldest first.
func (s *MealService) BookmarkedMeals(ctx context.Context) <-chan []domain.Meal {
	return watchQuery(ctx, s.feed, "bookmarks", func(ctx context.Context) ([]domain.Meal, error) {
		meals, err := s.bookmarks.List(ctx)
		if meals == nil && err == nil {
			meals = []domain.Meal{}
		}
		return meals, err
	}, domain.TableBookmarks)
}

// IsMealBookmarked streams whether id is bookmarked.
func (s *MealService) IsMealBookmarked(ctx context.Context, id string) <-chan bool {
	return watchQuery(ctx, s.feed, "bookmark:"+id, func(ctx context.Context) (bool, error) {
		return s.bookmarks.Exists(ctx, id)
	}, domain.TableBookmarks)
}

// ToggleBookmark removes the bookmark for meal if present, otherwise saves
// a snapshot of meal. Returns the new state.
func (s *MealService) ToggleBookmark(ctx context.Context, meal *domain.Meal) (bool, error) {
	if meal == nil || strings.TrimSpace(meal.ID) == "" {
		return false, fmt.Errorf("%w: meal ID is required", domain.ErrInvalidInput)
	}

	bookmarked, err := s.bookmarks.Toggle(ctx, meal)
	if err != nil {
		return false, fmt.Errorf("toggling bookmark %s: %w", meal.ID, err)
	}

	logger.Debug("meals: meal %s bookmarked=%t", meal.ID, bookmarked)
	return bookmarked, nil
}

// fetchMeal collapses concurrent fetches for key and fills in the
// bookmark flag for the caller.
func (s *MealService) fetchMeal(
	ctx context.Context,
	key string,
	fetch func(context.Context) (*domain.Meal, error),
) (*domain.Meal, error) {
	v, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return nil, err
	}

	meal := *v.(*domain.Meal)
	meal.Tags = slices.Clone(meal.Tags)
	meal.Ingredients = slices.Clone(meal.Ingredients)

	bookmarked, err := s.bookmarks.Exists(ctx, meal.ID)
	if err != nil {
		return nil, &storeError{fmt.Errorf("reading bookmark state: %w", err)}
	}
	meal.Bookmarked = bookmarked
	return &meal, nil
}

// shared runs fetch once for all concurrent callers of key. The fetch is
// detached from ctx so one caller giving up does not fail the others; each
// caller stops waiting when its own ctx ends.
func (s *MealService) shared(
	ctx context.Context,
	key string,
	fetch func(context.Context) (any, error),
) (any, error) {
	ch := s.flight.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return fetch(fctx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
