package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
)

// ==================== Bookmark Store ====================

// bookmarkStore implements driven.BookmarkStore.
type bookmarkStore struct {
	store *Store
}

var _ driven.BookmarkStore = (*bookmarkStore)(nil)

// Bookmark rows are projected into the same shape as mealColumns.
const bookmarkColumns = `meal_id, name, category, area, instructions, thumbnail, tags, youtube, ingredients, 1`

// Toggle removes the bookmark for meal.ID, or inserts a snapshot if there was none.
func (s *bookmarkStore) Toggle(ctx context.Context, meal *domain.Meal) (bool, error) {
	if meal == nil || meal.ID == "" {
		return false, domain.ErrInvalidInput
	}

	s.store.writeMu.Lock()
	defer s.store.writeMu.Unlock()

	var bookmarked bool
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM bookmarks WHERE meal_id = ?", meal.ID)
		if err != nil {
			return fmt.Errorf("deleting bookmark: %w", err)
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting bookmark: %w", err)
		}
		if removed > 0 {
			bookmarked = false
			return nil
		}

		ingredients, err := encodeList(meal.Ingredients)
		if err != nil {
			return err
		}
		// ON CONFLICT keeps the unique meal_id intact even if another process raced us.
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bookmarks (meal_id, name, category, area, instructions, thumbnail, tags, youtube, ingredients, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(meal_id) DO NOTHING
		`, meal.ID, meal.Name, nullString(meal.Category), nullString(meal.Area),
			nullString(meal.Instructions), nullString(meal.Thumbnail), nullString(domain.JoinTags(meal.Tags)),
			nullString(meal.YouTube), ingredients, formatTime(time.Now())); err != nil {
			return fmt.Errorf("inserting bookmark: %w", err)
		}
		bookmarked = true
		return nil
	}, domain.TableBookmarks)
	if err != nil {
		return false, err
	}

	return bookmarked, nil
}

// List returns bookmarked meals in insertion order.
func (s *bookmarkStore) List(ctx context.Context) ([]domain.Meal, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+bookmarkColumns+`
		FROM bookmarks
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	meals := []domain.Meal{}
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, *meal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookmarks: %w", err)
	}

	return meals, nil
}

// Get returns the bookmarked snapshot for id.
func (s *bookmarkStore) Get(ctx context.Context, id string) (*domain.Meal, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+bookmarkColumns+`
		FROM bookmarks
		WHERE meal_id = ?
	`, id)

	return nilIfNotFound(scanMeal(row))
}

// Exists reports whether id is bookmarked.
func (s *bookmarkStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.store.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM bookmarks WHERE meal_id = ?)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking bookmark: %w", err)
	}
	return exists, nil
}
