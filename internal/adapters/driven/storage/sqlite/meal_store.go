package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
)

// ==================== Meal Store ====================

// mealStore implements driven.MealStore.
type mealStore struct {
	store *Store
}

var _ driven.MealStore = (*mealStore)(nil)

const mealColumns = `m.id, m.name, m.category, m.area, m.instructions, m.thumbnail, m.tags, m.youtube,
	m.ingredients, b.meal_id IS NOT NULL`

const upsertMealSQL = `
	INSERT INTO meals (id, name, category, area, instructions, thumbnail, tags, youtube, ingredients, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		category = excluded.category,
		area = excluded.area,
		instructions = excluded.instructions,
		thumbnail = excluded.thumbnail,
		tags = excluded.tags,
		youtube = excluded.youtube,
		ingredients = excluded.ingredients,
		updated_at = excluded.updated_at
`

// SaveMeal upserts a single meal.
func (s *mealStore) SaveMeal(ctx context.Context, meal *domain.Meal) error {
	if meal == nil || meal.ID == "" {
		return domain.ErrInvalidInput
	}
	return s.SaveMeals(ctx, []domain.Meal{*meal})
}

// SaveMeals upserts meals in one transaction.
func (s *mealStore) SaveMeals(ctx context.Context, meals []domain.Meal) error {
	if len(meals) == 0 {
		return nil
	}

	now := formatTime(time.Now())
	return s.store.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertMealSQL)
		if err != nil {
			return fmt.Errorf("preparing meal upsert: %w", err)
		}
		defer stmt.Close()

		for i := range meals {
			m := &meals[i]
			if m.ID == "" {
				return domain.ErrInvalidInput
			}
			ingredients, err := encodeList(m.Ingredients)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, m.ID, m.Name, nullString(m.Category), nullString(m.Area),
				nullString(m.Instructions), nullString(m.Thumbnail), nullString(domain.JoinTags(m.Tags)),
				nullString(m.YouTube), ingredients, now); err != nil {
				return fmt.Errorf("saving meal %s: %w", m.ID, err)
			}
		}
		return nil
	}, domain.TableMeals)
}

// GetMeal retrieves a cached meal by ID.
// Returns nil and no error if the meal is not cached.
func (s *mealStore) GetMeal(ctx context.Context, id string) (*domain.Meal, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+mealColumns+`
		FROM meals m
		LEFT JOIN bookmarks b ON b.meal_id = m.id
		WHERE m.id = ?
	`, id)

	return nilIfNotFound(scanMeal(row))
}

// SetAlias points alias at mealID.
func (s *mealStore) SetAlias(ctx context.Context, alias, mealID string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO meal_aliases (alias, meal_id) VALUES (?, ?)
		ON CONFLICT(alias) DO UPDATE SET meal_id = excluded.meal_id
	`, alias, mealID)
	if err != nil {
		return fmt.Errorf("saving alias %s: %w", alias, err)
	}
	s.store.publish(domain.TableMeals)
	return nil
}

// GetMealByAlias resolves alias to its cached meal.
func (s *mealStore) GetMealByAlias(ctx context.Context, alias string) (*domain.Meal, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+mealColumns+`
		FROM meal_aliases a
		JOIN meals m ON m.id = a.meal_id
		LEFT JOIN bookmarks b ON b.meal_id = m.id
		WHERE a.alias = ?
	`, alias)

	return nilIfNotFound(scanMeal(row))
}

// scanMeal scans the mealColumns projection.
func scanMeal(row rowScanner) (*domain.Meal, error) {
	var meal domain.Meal
	var category, area, instructions, thumbnail, tags, youtube sql.NullString
	var ingredients string

	if err := row.Scan(&meal.ID, &meal.Name, &category, &area, &instructions, &thumbnail,
		&tags, &youtube, &ingredients, &meal.Bookmarked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning meal: %w", err)
	}

	meal.Category = category.String
	meal.Area = area.String
	meal.Instructions = instructions.String
	meal.Thumbnail = thumbnail.String
	meal.Tags = domain.ParseTags(tags.String)
	meal.YouTube = youtube.String
	meal.Ingredients = decodeList(ingredients)

	return &meal, nil
}

// nilIfNotFound maps domain.ErrNotFound to a nil result.
func nilIfNotFound(meal *domain.Meal, err error) (*domain.Meal, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return meal, err
}
