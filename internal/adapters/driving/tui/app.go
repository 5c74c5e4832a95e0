package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/recipedelight/delight/internal/adapters/driving/tui/keymap"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/messages"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/styles"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/views/bookmarks"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/views/chat"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/views/home"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/views/meal"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/views/menu"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/views/search"
	"github.com/recipedelight/delight/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the parent context for requests and live queries.
	ctx context.Context

	// cancel ends the live queries started by Init.
	cancel context.CancelFunc

	// styles is shared by every view and re-themed in place.
	styles *styles.Styles

	keymap *keymap.KeyMap

	menuView      *menu.View
	homeView      *home.View
	searchView    *search.View
	bookmarksView *bookmarks.View
	mealView      *meal.View
	chatView      *chat.View

	// darkMode is the live dark-mode stream.
	darkMode <-chan bool
	dark     bool

	// homeLoaded is set once the landing data has been requested.
	homeLoaded bool

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		menuView:      menu.NewView(s),
		homeView:      home.NewView(s, km, ports.Meals),
		searchView:    search.NewView(s, km, ports.Meals),
		bookmarksView: bookmarks.NewView(s, km, ports.Meals),
		mealView:      meal.NewView(s, km, ports.Meals),
		chatView:      chat.NewView(s, km, ports.Chat),
		currentView:   messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.homeView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	a.bookmarksView.WithContext(ctx)
	a.mealView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It sets the window title and subscribes to the dark-mode setting.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("delight"),
	}
	if a.ports.Settings != nil && a.darkMode == nil {
		ctx, cancel := context.WithCancel(a.ctx)
		a.cancel = cancel
		a.darkMode = a.ports.Settings.WatchDarkMode(ctx)
		cmds = append(cmds, a.listenDarkMode())
	}
	return tea.Batch(cmds...)
}

func (a *App) listenDarkMode() tea.Cmd {
	return messages.Listen(a.darkMode, func(on bool) tea.Msg {
		return messages.DarkModeChanged{Enabled: on}
	})
}

// Close ends every live query the app holds.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.bookmarksView.Close()
	a.mealView.Close()
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if keymap.Matches(msg.String(), a.keymap.Theme) {
			return a, a.toggleDarkMode()
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.MealSelected:
		back := a.currentView
		if back == messages.ViewMeal || back == messages.ViewChat {
			back = messages.ViewMenu
		}
		a.currentView = messages.ViewMeal
		return a, a.mealView.Open(msg.ID, back)

	case messages.ChatOpened:
		back := a.currentView
		a.currentView = messages.ViewChat
		return a, a.chatView.Open(msg.ContextKey, msg.Recipe, back)

	case messages.DarkModeChanged:
		a.dark = msg.Enabled
		a.styles.Apply(styles.ThemeFor(msg.Enabled))
		return a, a.listenDarkMode()

	// Results of background work go to the view that asked for them,
	// whichever view is active now.
	case messages.HomeLoaded, messages.CategoryMealsLoaded:
		a.homeView, cmd = a.homeView.Update(msg)
		return a, cmd

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.BookmarksChanged:
		a.bookmarksView, cmd = a.bookmarksView.Update(msg)
		return a, cmd

	case messages.MealLoaded, messages.BookmarkStateChanged, messages.BookmarkToggled:
		a.mealView, cmd = a.mealView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded, messages.ReplyReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blinks and the like) to the active view.
	return a, a.updateCurrent(msg)
}

// switchTo activates view and runs whatever it needs on entry.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	from := a.currentView
	a.currentView = view

	switch view {
	case messages.ViewHome:
		if !a.homeLoaded {
			a.homeLoaded = true
			return a.homeView.Init()
		}
	case messages.ViewSearch:
		if from == messages.ViewMenu {
			return a.searchView.Reset()
		}
	case messages.ViewBookmarks:
		return a.bookmarksView.Init()
	case messages.ViewChat:
		if from == messages.ViewMenu {
			return a.chatView.Open(domain.ContextGeneral, "", messages.ViewMenu)
		}
	case messages.ViewMenu, messages.ViewMeal, messages.ViewHelp:
		// Nothing to load
	}
	return nil
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewHome:
		a.homeView, cmd = a.homeView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewBookmarks:
		a.bookmarksView, cmd = a.bookmarksView.Update(msg)
	case messages.ViewMeal:
		a.mealView, cmd = a.mealView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewHelp:
		// Esc from help goes to menu
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

func (a *App) toggleDarkMode() tea.Cmd {
	settings := a.ports.Settings
	if settings == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		// The new value arrives on the dark-mode stream.
		if _, err := settings.ToggleDarkMode(ctx); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return nil
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewHome:
		return a.homeView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewBookmarks:
		return a.bookmarksView.View()
	case messages.ViewMeal:
		return a.mealView.View()
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+t      Toggle dark mode
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Today's pick:
  enter       Open category / meal
  p           Open today's pick
  r           Refresh from the network

Search:
  (type)      Enter meal name
  enter       Submit search / open meal
  n           New search

Meal:
  b           Toggle bookmark
  c           Ask the chef about this recipe

Chat:
  (type)      Enter question
  enter       Send

[esc] back to menu`
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// DarkMode returns the theme currently applied.
func (a *App) DarkMode() bool {
	return a.dark
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.menuView.SetDimensions(width, height)
	a.homeView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.bookmarksView.SetDimensions(width, height)
	a.mealView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
}
