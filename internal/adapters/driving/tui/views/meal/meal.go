// Package meal provides the recipe view for a single meal.
package meal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recipedelight/delight/internal/adapters/driving/tui/components/status"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/keymap"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/messages"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/styles"
	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driving"
)

// Error definitions for the meal view.
var (
	// ErrNoMealService indicates that no meal service was provided.
	ErrNoMealService = errors.New("meal service is required")

	// ErrMealNotFound is shown when a meal is neither online nor cached.
	ErrMealNotFound = errors.New("meal not available offline")
)

// View shows one meal's recipe and its live bookmark state.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	body      viewport.Model
	statusbar *status.Bar

	service driving.MealService
	ctx     context.Context
	cancel  context.CancelFunc // ends the bookmark subscription of the open meal
	stream  <-chan bool

	id         string
	meal       *domain.Meal
	bookmarked bool
	back       messages.ViewType
	err        error
	width      int
	height     int
	ready      bool
}

// NewView creates a new meal view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.MealService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.MealHelp())

	return &View{
		styles:    s,
		keymap:    km,
		body:      viewport.New(80, 16),
		statusbar: bar,
		service:   service,
		ctx:       context.Background(),
		back:      messages.ViewMenu,
		width:     80,
		height:    24,
	}
}

// WithContext sets the parent context for loads and subscriptions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open switches the view to meal id. Esc returns to back. The bookmark
// subscription of the previously open meal is cancelled.
func (v *View) Open(id string, back messages.ViewType) tea.Cmd {
	v.Close()
	v.id = id
	v.meal = nil
	v.bookmarked = false
	v.err = nil
	v.back = back
	v.body.SetContent("")
	v.body.GotoTop()
	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage("Loading...")

	if v.service == nil {
		v.setError(ErrNoMealService)
		return nil
	}

	ctx, cancel := context.WithCancel(v.ctx)
	v.cancel = cancel
	v.stream = v.service.IsMealBookmarked(ctx, id)

	service := v.service
	load := func() tea.Msg {
		meal, err := service.GetMealDetails(ctx, id)
		return messages.MealLoaded{ID: id, Meal: meal, Err: err}
	}
	return tea.Batch(load, v.listen())
}

func (v *View) listen() tea.Cmd {
	id := v.id
	return messages.Listen(v.stream, func(on bool) tea.Msg {
		return messages.BookmarkStateChanged{ID: id, Bookmarked: on}
	})
}

// Close ends the bookmark subscription.
func (v *View) Close() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.stream = nil
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the meal view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.MealLoaded:
		if msg.ID != v.id {
			return v, nil
		}
		switch {
		case msg.Err != nil:
			v.setError(msg.Err)
		case msg.Meal == nil:
			v.setError(ErrMealNotFound)
		default:
			v.err = nil
			v.meal = msg.Meal
			v.body.SetContent(v.renderBody())
			v.statusbar.Clear()
		}
		return v, nil

	case messages.BookmarkStateChanged:
		// Values from a meal that is no longer open end that loop.
		if msg.ID != v.id || v.stream == nil {
			return v, nil
		}
		v.bookmarked = msg.Bookmarked
		return v, v.listen()

	case messages.BookmarkToggled:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		if msg.Bookmarked {
			v.statusbar.SetMessage("Bookmarked")
		} else {
			v.statusbar.SetMessage("Bookmark removed")
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		back := v.back
		v.Close()
		return v, func() tea.Msg { return messages.ViewChanged{View: back} }

	case keymap.Matches(keyStr, v.keymap.Bookmark):
		if v.meal == nil || v.service == nil {
			return v, nil
		}
		meal := *v.meal
		service := v.service
		ctx := v.ctx
		return v, func() tea.Msg {
			on, err := service.ToggleBookmark(ctx, &meal)
			return messages.BookmarkToggled{ID: meal.ID, Bookmarked: on, Err: err}
		}

	case keymap.Matches(keyStr, v.keymap.Chat):
		if v.meal == nil {
			return v, nil
		}
		opened := messages.ChatOpened{ContextKey: v.meal.ID, Recipe: v.meal.Name}
		return v, func() tea.Msg { return opened }
	}

	var cmd tea.Cmd
	v.body, cmd = v.body.Update(msg)
	return v, cmd
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) renderBody() string {
	m := v.meal
	var b strings.Builder

	if len(m.Ingredients) > 0 {
		b.WriteString(v.styles.Subtitle.Render("Ingredients"))
		b.WriteString("\n")
		for _, ing := range m.Ingredients {
			b.WriteString("  - " + ing + "\n")
		}
		b.WriteString("\n")
	}

	if m.Instructions != "" {
		b.WriteString(v.styles.Subtitle.Render("Instructions"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(max(v.width-2, 20)).Render(m.Instructions))
		b.WriteString("\n")
	}

	if m.HasVideo() {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Video: " + m.YouTube))
		b.WriteString("\n")
	}

	return b.String()
}

// View renders the meal view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	switch {
	case v.meal != nil:
		title := v.meal.Name
		if v.bookmarked {
			title += " *"
		}
		sections = append(sections, v.styles.Title.Render(title))
		if sub := v.subtitle(); sub != "" {
			sections = append(sections, v.styles.Muted.Render(sub))
		}
		sections = append(sections, "", v.body.View())
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	default:
		sections = append(sections, v.styles.Muted.Render("Loading..."))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) subtitle() string {
	parts := make([]string, 0, 3)
	if v.meal.Area != "" {
		parts = append(parts, v.meal.Area)
	}
	if v.meal.Category != "" {
		parts = append(parts, v.meal.Category)
	}
	if len(v.meal.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("[%s]", strings.Join(v.meal.Tags, ", ")))
	}
	return strings.Join(parts, " · ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.body.Width = width
	v.body.Height = max(height-6, 3)
	v.statusbar.SetWidth(width)
	if v.meal != nil {
		v.body.SetContent(v.renderBody())
	}
}

// Meal returns the open meal, or nil while loading.
func (v *View) Meal() *domain.Meal {
	return v.meal
}

// Bookmarked returns the live bookmark state of the open meal.
func (v *View) Bookmarked() bool {
	return v.bookmarked
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
