package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipedelight/delight/internal/adapters/driven/storage/changefeed"
	"github.com/recipedelight/delight/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	return setupTestStoreWithFeed(t, nil)
}

// setupTestStoreWithFeed creates a temporary store that publishes to hub.
func setupTestStoreWithFeed(t *testing.T, hub *changefeed.Hub) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "delight-test-*")
	require.NoError(t, err)

	var store *Store
	if hub != nil {
		store, err = NewStore(tempDir, hub)
	} else {
		store, err = NewStore(tempDir, nil)
	}
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func sampleMeal(id, name string) *domain.Meal {
	return &domain.Meal{
		ID:           id,
		Name:         name,
		Category:     "Vegetarian",
		Area:         "Italian",
		Instructions: "Bring a large pot of water to a boil.",
		Thumbnail:    "https://www.themealdb.com/images/media/meals/" + id + ".jpg",
		Tags:         []string{"Pasta", "Curry"},
		YouTube:      "https://www.youtube.com/watch?v=1IszT_guI08",
		Ingredients:  []string{"penne rigate - 1 pound", "olive oil - 1/4 cup", "Salt, to taste - pinch"},
	}
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, "delight.db", filepath.Base(store.Path()))
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(tempDir, nil)
	require.NoError(t, err)
	require.NoError(t, store.MealStore().SaveMeal(ctx, sampleMeal("52771", "Spicy Arrabiata Penne")))
	require.NoError(t, store.Close())

	// Migrations must not re-run against an existing schema.
	reopened, err := NewStore(tempDir, nil)
	require.NoError(t, err)
	defer reopened.Close()

	meal, err := reopened.MealStore().GetMeal(ctx, "52771")
	require.NoError(t, err)
	require.NotNil(t, meal)
	assert.Equal(t, "Spicy Arrabiata Penne", meal.Name)
}

func TestStore_WritesPublishToFeed(t *testing.T) {
	hub := changefeed.NewHub()
	store, cleanup := setupTestStoreWithFeed(t, hub)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signal := hub.Subscribe(ctx, domain.TableBookmarks)

	_, err := store.BookmarkStore().Toggle(ctx, sampleMeal("52771", "Spicy Arrabiata Penne"))
	require.NoError(t, err)

	select {
	case <-signal:
	default:
		t.Fatal("bookmark toggle was not published")
	}
}

func TestListHelpers(t *testing.T) {
	raw, err := encodeList(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
	assert.Nil(t, decodeList(raw))
	assert.Nil(t, decodeList("not json"))

	raw, err = encodeList([]string{"Salt, to taste - pinch"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Salt, to taste - pinch"}, decodeList(raw))
}
