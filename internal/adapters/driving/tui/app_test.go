package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipedelight/delight/internal/adapters/driving/tui/messages"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/tuitest"
	"github.com/recipedelight/delight/internal/core/domain"
)

type testHarness struct {
	app      *App
	meals    *tuitest.Meals
	chat     *tuitest.Chat
	settings *tuitest.Settings
	parked   []chan tea.Msg
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	h := &testHarness{
		meals:    tuitest.NewMeals(),
		chat:     tuitest.NewChat("Rest it for five minutes."),
		settings: &tuitest.Settings{},
	}
	h.meals.Home = &domain.HomeFeed{
		RandomMeal: &domain.Meal{ID: "52771", Name: "Spicy Arrabiata Penne"},
		Categories: []domain.Category{{ID: "1", Name: "Beef"}},
	}
	h.meals.Details["52771"] = &domain.Meal{ID: "52771", Name: "Spicy Arrabiata Penne", Area: "Italian"}
	h.meals.Results = []domain.Meal{*h.meals.Details["52771"]}

	app, err := NewApp(NewPorts(h.meals, h.chat, h.settings))
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	t.Cleanup(app.Close)
	h.app = app
	return h
}

// run executes cmd and feeds each resulting message back into the app.
// Commands that do not finish promptly, such as live-query listeners
// waiting on their stream, are parked and picked up later by settle.
func (h *testHarness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	h.runDepth(t, cmd, 6)
}

func (h *testHarness) runDepth(t *testing.T, cmd tea.Cmd, depth int) {
	t.Helper()
	if cmd == nil || depth == 0 {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		h.deliver(t, msg, depth)
	case <-time.After(50 * time.Millisecond):
		h.parked = append(h.parked, done)
	}
}

func (h *testHarness) deliver(t *testing.T, msg tea.Msg, depth int) {
	t.Helper()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			h.runDepth(t, c, depth)
		}
		return
	}
	if msg == nil {
		return
	}
	_, next := h.app.Update(msg)
	h.runDepth(t, next, depth-1)
}

// settle delivers the results of parked commands that have finished.
func (h *testHarness) settle(t *testing.T) {
	t.Helper()
	parked := h.parked
	h.parked = nil
	for _, done := range parked {
		select {
		case msg := <-done:
			h.deliver(t, msg, 6)
		default:
			h.parked = append(h.parked, done)
		}
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func (h *testHarness) press(t *testing.T, s string) {
	t.Helper()
	_, cmd := h.app.Update(key(s))
	h.run(t, cmd)
}

func TestNewApp_Success(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, messages.ViewMenu, h.app.CurrentView())
	assert.True(t, h.app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Chat: tuitest.NewChat("")})

	assert.ErrorIs(t, err, ErrMissingMealService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, h.app, h.app.WithContext(context.Background()))
}

func TestApp_View_NotReady(t *testing.T) {
	app, err := NewApp(NewPorts(tuitest.NewMeals(), tuitest.NewChat(""), nil))
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	h := newHarness(t)

	model, cmd := h.app.Update(tea.WindowSizeMsg{Width: 120, Height: 50})

	assert.Equal(t, h.app, model)
	assert.Nil(t, cmd)
	assert.Contains(t, h.app.View(), "Delight")
}

func TestApp_CtrlCQuits(t *testing.T) {
	h := newHarness(t)

	_, cmd := h.app.Update(key("ctrl+c"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	h := newHarness(t)

	_, cmd := h.app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_HomeToMeal(t *testing.T) {
	h := newHarness(t)

	h.press(t, "enter") // Today's pick
	assert.Equal(t, messages.ViewHome, h.app.CurrentView())
	assert.Contains(t, h.app.View(), "Spicy Arrabiata Penne")
	assert.Contains(t, h.app.View(), "Beef")

	h.press(t, "p")
	assert.Equal(t, messages.ViewMeal, h.app.CurrentView())
	assert.Contains(t, h.app.View(), "Italian")

	h.press(t, "esc")
	assert.Equal(t, messages.ViewHome, h.app.CurrentView())
}

func TestApp_SearchToMeal(t *testing.T) {
	h := newHarness(t)
	h.run(t, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSearch} })
	require.Equal(t, messages.ViewSearch, h.app.CurrentView())

	h.press(t, "arrabiata")
	h.press(t, "enter")
	assert.Equal(t, []string{"arrabiata"}, h.meals.Queries)
	assert.Contains(t, h.app.View(), "Spicy Arrabiata Penne")

	h.press(t, "enter")
	assert.Equal(t, messages.ViewMeal, h.app.CurrentView())

	h.press(t, "esc")
	assert.Equal(t, messages.ViewSearch, h.app.CurrentView())
}

func TestApp_BookmarkFlow(t *testing.T) {
	h := newHarness(t)
	h.run(t, func() tea.Msg { return messages.MealSelected{ID: "52771"} })
	require.Equal(t, messages.ViewMeal, h.app.CurrentView())

	h.press(t, "b")
	h.run(t, func() tea.Msg { return messages.ViewChanged{View: messages.ViewBookmarks} })
	require.Equal(t, messages.ViewBookmarks, h.app.CurrentView())
	assert.Eventually(t, func() bool {
		h.settle(t)
		return len(h.app.bookmarksView.Meals()) == 1
	}, time.Second, 20*time.Millisecond)

	assert.Contains(t, h.app.View(), "Spicy Arrabiata Penne *")
}

func TestApp_ChatFromMeal(t *testing.T) {
	h := newHarness(t)
	h.run(t, func() tea.Msg { return messages.MealSelected{ID: "52771"} })

	h.press(t, "c")
	require.Equal(t, messages.ViewChat, h.app.CurrentView())
	assert.Equal(t, "52771", h.app.chatView.ContextKey())

	h.press(t, "How long to rest?")
	h.press(t, "enter")

	assert.Equal(t, []string{"Spicy Arrabiata Penne"}, h.chat.Recipes)
	assert.Contains(t, h.app.View(), "Rest it for five minutes.")

	h.press(t, "esc")
	assert.Equal(t, messages.ViewMeal, h.app.CurrentView())
}

func TestApp_GeneralChatFromMenu(t *testing.T) {
	h := newHarness(t)

	h.run(t, func() tea.Msg { return messages.ViewChanged{View: messages.ViewChat} })

	assert.Equal(t, domain.ContextGeneral, h.app.chatView.ContextKey())
}

func TestApp_DarkMode(t *testing.T) {
	h := newHarness(t)
	cmd := h.app.Init()
	require.NotNil(t, cmd)
	h.run(t, cmd)
	assert.False(t, h.app.DarkMode())

	_, toggle := h.app.Update(key("ctrl+t"))
	require.NotNil(t, toggle)
	assert.Nil(t, toggle())

	assert.Eventually(t, func() bool {
		h.settle(t)
		return h.app.DarkMode()
	}, time.Second, 20*time.Millisecond)
	assert.True(t, h.app.styles.Theme().Dark)
}

func TestApp_DarkModeWithoutSettings(t *testing.T) {
	app, err := NewApp(NewPorts(tuitest.NewMeals(), tuitest.NewChat(""), nil))
	require.NoError(t, err)

	_, cmd := app.Update(key("ctrl+t"))

	assert.Nil(t, cmd)
}

func TestApp_Help(t *testing.T) {
	h := newHarness(t)
	h.run(t, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} })

	assert.Contains(t, h.app.View(), "Toggle bookmark")

	h.press(t, "esc")
	assert.Equal(t, messages.ViewMenu, h.app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	h := newHarness(t)
	h.run(t, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSearch} })

	h.app.Update(messages.ErrorOccurred{Err: assert.AnError})

	assert.Equal(t, assert.AnError, h.app.Err())
	assert.Contains(t, h.app.View(), assert.AnError.Error())
}
