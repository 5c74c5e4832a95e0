package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipedelight/delight/internal/core/domain"
)

func TestBookmarkCmd_ToggleAndList(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "bookmark", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No bookmarks yet.")

	out, err = execute(t, "bookmark", "toggle", "52771")
	require.NoError(t, err)
	assert.Contains(t, out, "Bookmarked: Spicy Arrabiata Penne")

	out, err = execute(t, "bookmark", "list")
	require.NoError(t, err)
	requireContains(t, out, "Bookmarks (1):", "[52771] Spicy Arrabiata Penne")

	out, err = execute(t, "bookmark", "toggle", "52771")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed bookmark: Spicy Arrabiata Penne")

	out, err = execute(t, "bookmark", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No bookmarks yet.")
}

func TestBookmarkCmd_ToggleUnknownMeal(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "bookmark", "toggle", "404")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookmarkCmd_WatchPrintsUntilCancelled(t *testing.T) {
	cleanup, ts := installTestServices()
	defer cleanup()
	_, err := ts.meals.ToggleBookmark(context.Background(), arrabiata)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	out, err := executeContext(t, ctx, "bookmark", "watch")

	require.NoError(t, err)
	assert.Contains(t, out, "Bookmarks (1):")
}
