package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"send", km.Send, []string{"enter"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"select", km.Select, []string{"enter"}},
		{"bookmark", km.Bookmark, []string{"b"}},
		{"chat", km.Chat, []string{"c"}},
		{"refresh", km.Refresh, []string{"r"}},
		{"theme", km.Theme, []string{"ctrl+t"}},
		{"new search", km.NewSearch, []string{"n"}},
		{"pick", km.Pick, []string{"p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 2)
	assert.Len(t, km.ListHelp(), 3)
	assert.Contains(t, km.MealHelp()[0].Keys(), "b")
	assert.Contains(t, km.ChatHelp()[0].Keys(), "enter")
	assert.Len(t, km.FullHelp(), 4)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("b", km.Bookmark))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.False(t, Matches("t", km.Theme))
	assert.False(t, Matches("x", km.Chat))
}
