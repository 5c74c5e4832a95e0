// Package bookmarks provides the live bookmark list view for the TUI.
package bookmarks

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recipedelight/delight/internal/adapters/driving/tui/components/list"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/components/status"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/keymap"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/messages"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/styles"
	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driving"
)

// View lists bookmarked meals and follows the bookmark table as it
// changes.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.MealList
	statusbar *status.Bar

	service driving.MealService
	ctx     context.Context
	cancel  context.CancelFunc
	stream  <-chan []domain.Meal

	meals  []domain.Meal
	width  int
	height int
	ready  bool
}

// NewView creates a new bookmarks view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.MealService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.ListHelp())

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewMealList(s, "Bookmarks", "No bookmarks yet. Press b on a meal to save it."),
		statusbar: bar,
		service:   service,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context the subscription runs under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init subscribes to the bookmark list. Calling it again is a no-op
// while the subscription is live.
func (v *View) Init() tea.Cmd {
	if v.service == nil || v.stream != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(v.ctx)
	v.cancel = cancel
	v.stream = v.service.BookmarkedMeals(ctx)
	return v.listen()
}

func (v *View) listen() tea.Cmd {
	return messages.Listen(v.stream, func(meals []domain.Meal) tea.Msg {
		return messages.BookmarksChanged{Meals: meals}
	})
}

// Close ends the subscription.
func (v *View) Close() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.stream = nil
}

// Update handles messages for the bookmarks view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.BookmarksChanged:
		v.meals = msg.Meals
		v.list.SetEntries(list.FromMeals(msg.Meals))
		v.statusbar.SetState(status.StateResults)
		v.statusbar.SetResultCount(len(msg.Meals))
		return v, v.listen()

	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		case keymap.Matches(keyStr, v.keymap.Up):
			v.list.MoveUp()
		case keymap.Matches(keyStr, v.keymap.Down):
			v.list.MoveDown()
		case keymap.Matches(keyStr, v.keymap.Select):
			entry := v.list.SelectedEntry()
			if entry == nil {
				return v, nil
			}
			id := entry.ID
			return v, func() tea.Msg { return messages.MealSelected{ID: id} }
		}
	}

	return v, nil
}

// View renders the bookmarks view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		v.list.View(),
		"",
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.list.SetDimensions(width, height-3)
	v.statusbar.SetWidth(width)
}

// Meals returns the latest bookmark list.
func (v *View) Meals() []domain.Meal {
	return v.meals
}
