package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipedelight/delight/internal/core/domain"
)

func sampleEntries() []Entry {
	return FromMeals([]domain.Meal{
		{ID: "52771", Name: "Spicy Arrabiata Penne", Area: "Italian", Category: "Vegetarian", Bookmarked: true},
		{ID: "52772", Name: "Teriyaki Chicken Casserole", Area: "Japanese", Category: "Chicken"},
		{ID: "52773", Name: "Honey Teriyaki Salmon"},
	})
}

func TestFromMeals(t *testing.T) {
	entries := sampleEntries()

	require.Len(t, entries, 3)
	assert.Equal(t, "Italian Vegetarian", entries[0].Subtitle)
	assert.True(t, entries[0].Marked)
	assert.False(t, entries[1].Marked)
	assert.Empty(t, entries[2].Subtitle)
}

func TestFromSummariesAndCategories(t *testing.T) {
	summaries := FromSummaries([]domain.MealSummary{{ID: "1", Name: "Beef Wellington"}})
	assert.Equal(t, Entry{ID: "1", Title: "Beef Wellington"}, summaries[0])

	cats := FromCategories([]domain.Category{{ID: "3", Name: "Dessert"}})
	assert.Equal(t, "Dessert", cats[0].ID)
}

func TestMealList_EmptyView(t *testing.T) {
	l := NewMealList(nil, "Bookmarks", "No bookmarks yet")

	assert.Contains(t, l.View(), "No bookmarks yet")
	assert.Nil(t, l.SelectedEntry())
}

func TestMealList_Navigation(t *testing.T) {
	l := NewMealList(nil, "Results", "No results")
	l.SetEntries(sampleEntries())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected())
	assert.Equal(t, "52773", l.SelectedEntry().ID)

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, l.Selected())
}

func TestMealList_SetEntriesClampsSelection(t *testing.T) {
	l := NewMealList(nil, "Results", "No results")
	l.SetEntries(sampleEntries())
	l.MoveDown()
	l.MoveDown()

	l.SetEntries(sampleEntries()[:1])
	assert.Equal(t, 0, l.Selected())

	l.SetEntries(nil)
	assert.Equal(t, 0, l.Selected())
}

func TestMealList_View(t *testing.T) {
	l := NewMealList(nil, "Results", "No results")
	l.SetDimensions(80, 20)
	l.SetEntries(sampleEntries())

	view := l.View()
	assert.Contains(t, view, "Results (3)")
	assert.Contains(t, view, "Spicy Arrabiata Penne *")
	assert.Contains(t, view, "Japanese Chicken")
}

func TestMealList_Reset(t *testing.T) {
	l := NewMealList(nil, "Results", "No results")
	l.SetEntries(sampleEntries())
	l.MoveDown()

	l.Reset()

	assert.Zero(t, l.Count())
	assert.Zero(t, l.Selected())
}
