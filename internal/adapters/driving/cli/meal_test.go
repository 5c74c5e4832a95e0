package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipedelight/delight/internal/core/domain"
)

func TestHomeCmd_PrintsPickAndCategories(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "home")

	require.NoError(t, err)
	requireContains(t, out, "Today's pick", "Spicy Arrabiata Penne  [52771]", "Italian Vegetarian", "Categories (2):", "Beef")
}

func TestHomeCmd_OfflineWithoutPick(t *testing.T) {
	cleanup, ts := installTestServices()
	defer cleanup()
	ts.meals.Home = &domain.HomeFeed{}

	out, err := execute(t, "home")

	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to suggest while offline.")
	assert.Contains(t, out, "No categories cached yet.")
}

func TestMealShowCmd_PrintsRecipe(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "meal", "show", "52771")

	require.NoError(t, err)
	requireContains(t, out,
		"Spicy Arrabiata Penne  [52771]",
		"Tags: Pasta, Curry",
		"Ingredients:",
		"  - penne rigate - 1 pound",
		"Instructions:",
		"Video: https://www.youtube.com/watch?v=1IszT_guI08",
	)
}

func TestMealShowCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "meal", "show", "52771", "--json")
	require.NoError(t, err)

	var meal domain.Meal
	require.NoError(t, json.Unmarshal([]byte(out), &meal))
	assert.Equal(t, "52771", meal.ID)
	assert.Len(t, meal.Ingredients, 2)
}

func TestMealShowCmd_NotCached(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "meal", "show", "99999")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMealShowCmd_RequiresID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "meal", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestMealRandomCmd(t *testing.T) {
	cleanup, ts := installTestServices()
	defer cleanup()

	out, err := execute(t, "meal", "random")
	require.NoError(t, err)
	assert.Contains(t, out, "Spicy Arrabiata Penne")

	ts.meals.Home = &domain.HomeFeed{}
	out, err = execute(t, "meal", "random")
	require.NoError(t, err)
	assert.Contains(t, out, "No meal available")
}

func TestMealCategoriesCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "meal", "categories")

	require.NoError(t, err)
	requireContains(t, out, "Categories (2):", "  Beef", "  Vegetarian")
}

func TestMealCategoryCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "meal", "category", "Vegetarian")
	require.NoError(t, err)
	requireContains(t, out, "Vegetarian (1):", "[52771] Spicy Arrabiata Penne")

	out, err = execute(t, "meal", "category", "Goat")
	require.NoError(t, err)
	assert.Contains(t, out, "No meals found in Goat.")
}

func TestMealCmd_ServiceErrorIsWrapped(t *testing.T) {
	cleanup, ts := installTestServices()
	defer cleanup()
	ts.meals.Err = errors.New("disk full")

	_, err := execute(t, "meal", "categories")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list categories")
	assert.Contains(t, err.Error(), "disk full")
}

func TestMealCmd_WithoutServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	SetServices(nil)

	_, err := execute(t, "home")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "meal service not configured")
}
