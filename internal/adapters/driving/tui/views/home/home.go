// Package home provides the landing view: today's pick and the category
// browser.
package home

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
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

// ErrNoMealService indicates that no meal service was provided.
var ErrNoMealService = errors.New("meal service is required")

// View shows the random meal above a category list. Selecting a category
// swaps the list for that category's meals.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	categories *list.MealList
	meals      *list.MealList
	statusbar  *status.Bar

	service driving.MealService
	ctx     context.Context

	feed     *domain.HomeFeed
	category string // non-empty while browsing one category
	loading  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new home view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.MealService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints([]key.Binding{km.Select, km.Pick, km.Refresh, km.Back})

	return &View{
		styles:     s,
		keymap:     km,
		categories: list.NewMealList(s, "Categories", "No categories yet"),
		meals:      list.NewMealList(s, "Meals", "No meals in this category"),
		statusbar:  bar,
		service:    service,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the landing data.
func (v *View) Init() tea.Cmd {
	return v.Load()
}

// Load fetches the home feed, falling back to cached data offline.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage("Loading...")

	service := v.service
	ctx := v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.HomeLoaded{Err: ErrNoMealService}
		}
		feed, err := service.LoadHome(ctx)
		return messages.HomeLoaded{Feed: feed, Err: err}
	}
}

func (v *View) loadCategory(name string) tea.Cmd {
	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage("Loading " + name + "...")

	service := v.service
	ctx := v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.CategoryMealsLoaded{Category: name, Err: ErrNoMealService}
		}
		meals, err := service.GetMealsByCategory(ctx, name)
		return messages.CategoryMealsLoaded{Category: name, Meals: meals, Err: err}
	}
}

// Update handles messages for the home view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HomeLoaded:
		v.loading = false
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.feed = msg.Feed
		if v.feed != nil {
			v.categories.SetEntries(list.FromCategories(v.feed.Categories))
		}
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
		return v, nil

	case messages.CategoryMealsLoaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.category = msg.Category
		v.meals.Reset()
		v.meals.SetEntries(list.FromSummaries(msg.Meals))
		v.statusbar.SetState(status.StateResults)
		v.statusbar.SetMessage(msg.Category)
		v.statusbar.SetResultCount(len(msg.Meals))
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	active := v.active()
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		if v.category != "" {
			v.category = ""
			v.statusbar.Clear()
			return v, nil
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case keymap.Matches(keyStr, v.keymap.Up):
		active.MoveUp()

	case keymap.Matches(keyStr, v.keymap.Down):
		active.MoveDown()

	case keymap.Matches(keyStr, v.keymap.Select):
		entry := active.SelectedEntry()
		if entry == nil {
			return v, nil
		}
		if v.category == "" {
			return v, v.loadCategory(entry.ID)
		}
		id := entry.ID
		return v, func() tea.Msg { return messages.MealSelected{ID: id} }

	case keymap.Matches(keyStr, v.keymap.Pick):
		if v.feed == nil || v.feed.RandomMeal == nil {
			return v, nil
		}
		id := v.feed.RandomMeal.ID
		return v, func() tea.Msg { return messages.MealSelected{ID: id} }

	case keymap.Matches(keyStr, v.keymap.Refresh):
		if v.loading {
			return v, nil
		}
		if v.category != "" {
			return v, v.loadCategory(v.category)
		}
		return v, v.Load()
	}

	return v, nil
}

func (v *View) active() *list.MealList {
	if v.category != "" {
		return v.meals
	}
	return v.categories
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the home view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Today's pick"), v.renderPick(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.active().View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderPick() string {
	if v.feed == nil || v.feed.RandomMeal == nil {
		if v.loading {
			return v.styles.Muted.Render("Loading...")
		}
		return v.styles.Muted.Render("Nothing to suggest while offline")
	}
	m := v.feed.RandomMeal
	line := v.styles.Normal.Render(m.Name)
	if detail := strings.TrimSpace(m.Area + " " + m.Category); detail != "" {
		line += " " + v.styles.Muted.Render(fmt.Sprintf("(%s)", detail))
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.categories.SetDimensions(width, height-8)
	v.meals.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Feed returns the loaded home feed.
func (v *View) Feed() *domain.HomeFeed {
	return v.feed
}

// Category returns the category being browsed, or "" on the category list.
func (v *View) Category() string {
	return v.category
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
