// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recipedelight/delight/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewHome shows the random meal and the category list.
	ViewHome
	// ViewSearch is the meal search input and results view.
	ViewSearch
	// ViewBookmarks lists bookmarked meals.
	ViewBookmarks
	// ViewMeal shows one meal's recipe.
	ViewMeal
	// ViewChat is the assistant conversation.
	ViewChat
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewHome:
		return "home"
	case ViewSearch:
		return "search"
	case ViewBookmarks:
		return "bookmarks"
	case ViewMeal:
		return "meal"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// HomeLoaded carries the landing screen data.
type HomeLoaded struct {
	Feed *domain.HomeFeed
	Err  error
}

// CategoryMealsLoaded carries the summaries for one category.
type CategoryMealsLoaded struct {
	Category string
	Meals    []domain.MealSummary
	Err      error
}

// SearchCompleted carries meal search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.Meal
	Err     error
}

// BookmarksChanged carries a new value of the live bookmark list.
type BookmarksChanged struct {
	Meals []domain.Meal
}

// MealSelected asks the app to open a meal by ID.
type MealSelected struct {
	ID string
}

// MealLoaded carries a meal's full record. Meal is nil when it is
// unknown both remotely and locally.
type MealLoaded struct {
	ID   string
	Meal *domain.Meal
	Err  error
}

// BookmarkStateChanged carries a new value of a meal's live bookmark flag.
type BookmarkStateChanged struct {
	ID         string
	Bookmarked bool
}

// BookmarkToggled reports the outcome of a toggle.
type BookmarkToggled struct {
	ID         string
	Bookmarked bool
	Err        error
}

// ChatOpened asks the app to open the conversation for ContextKey.
// Recipe is the meal name used to enrich the first turn.
type ChatOpened struct {
	ContextKey string
	Recipe     string
}

// HistoryLoaded carries the persisted turns of a conversation.
type HistoryLoaded struct {
	ContextKey string
	Messages   []domain.ChatMessage
	Err        error
}

// ReplyReceived carries the model turn for a sent message.
type ReplyReceived struct {
	ContextKey string
	Reply      domain.ChatMessage
	Err        error
}

// DarkModeChanged carries a new value of the live dark-mode setting.
type DarkModeChanged struct {
	Enabled bool
}

// Listen returns a command that waits for the next value on ch and wraps
// it as a message. It yields nil once ch is closed, which ends the loop;
// callers re-issue Listen after handling each message.
func Listen[T any](ch <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return wrap(v)
	}
}
