package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
)

// ==================== Category Store ====================

// categoryStore implements driven.CategoryStore.
type categoryStore struct {
	store *Store
}

var _ driven.CategoryStore = (*categoryStore)(nil)

// ReplaceCategories overwrites the cached categories in one transaction.
func (s *categoryStore) ReplaceCategories(ctx context.Context, categories []domain.Category) error {
	return s.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM categories"); err != nil {
			return fmt.Errorf("clearing categories: %w", err)
		}

		for i, c := range categories {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO categories (id, name, thumbnail, description, position)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					name = excluded.name,
					thumbnail = excluded.thumbnail,
					description = excluded.description,
					position = excluded.position
			`, c.ID, c.Name, nullString(c.Thumbnail), nullString(c.Description), i); err != nil {
				return fmt.Errorf("saving category %s: %w", c.Name, err)
			}
		}
		return nil
	}, domain.TableCategories)
}

// ListCategories returns cached categories in the order they were fetched.
func (s *categoryStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, thumbnail, description
		FROM categories
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		var thumbnail, description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &thumbnail, &description); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.Thumbnail = thumbnail.String
		c.Description = description.String
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}

// ReplaceCategoryMeals overwrites the summaries tagged with category.
func (s *categoryStore) ReplaceCategoryMeals(ctx context.Context, category string, meals []domain.MealSummary) error {
	return s.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM category_meals WHERE category = ?", category); err != nil {
			return fmt.Errorf("clearing category meals: %w", err)
		}

		for i, m := range meals {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO category_meals (category, meal_id, name, thumbnail, position)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(category, meal_id) DO UPDATE SET
					name = excluded.name,
					thumbnail = excluded.thumbnail,
					position = excluded.position
			`, category, m.ID, m.Name, nullString(m.Thumbnail), i); err != nil {
				return fmt.Errorf("saving category meal %s: %w", m.ID, err)
			}
		}
		return nil
	}, domain.TableCategoryMeals)
}

// ListCategoryMeals returns cached summaries for category.
func (s *categoryStore) ListCategoryMeals(ctx context.Context, category string) ([]domain.MealSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT meal_id, name, thumbnail
		FROM category_meals
		WHERE category = ?
		ORDER BY position
	`, category)
	if err != nil {
		return nil, fmt.Errorf("querying category meals: %w", err)
	}
	defer rows.Close()

	meals := []domain.MealSummary{}
	for rows.Next() {
		var m domain.MealSummary
		var thumbnail sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &thumbnail); err != nil {
			return nil, fmt.Errorf("scanning category meal: %w", err)
		}
		m.Thumbnail = thumbnail.String
		meals = append(meals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category meals: %w", err)
	}

	return meals, nil
}
