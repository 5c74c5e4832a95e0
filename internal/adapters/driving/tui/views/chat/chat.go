// Package chat provides the assistant conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recipedelight/delight/internal/adapters/driving/tui/components/input"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/components/status"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/keymap"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/messages"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/styles"
	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driving"
)

// ErrNoChatService indicates that no chat service was provided.
var ErrNoChatService = errors.New("chat service is required")

// View is one conversation: its persisted turns above an input line.
// The input is disabled while a request for the conversation is in
// flight.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	transcript viewport.Model
	input      *input.Field
	statusbar  *status.Bar

	service driving.ChatService
	ctx     context.Context

	contextKey string
	recipe     string
	history    []domain.ChatMessage
	pending    string // text of the unanswered message, if any
	back       messages.ViewType
	err        error
	width      int
	height     int
	ready      bool
}

// NewView creates a new chat view on the general conversation.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.ChatHelp())

	return &View{
		styles:     s,
		keymap:     km,
		transcript: viewport.New(80, 16),
		input:      input.NewChatInput(s),
		statusbar:  bar,
		service:    service,
		ctx:        context.Background(),
		contextKey: domain.ContextGeneral,
		back:       messages.ViewMenu,
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Open switches to the conversation for contextKey and loads its
// history. A blank key opens the general conversation; recipe enriches
// the first turn of a recipe conversation.
func (v *View) Open(contextKey, recipe string, back messages.ViewType) tea.Cmd {
	if strings.TrimSpace(contextKey) == "" {
		contextKey = domain.ContextGeneral
	}
	v.contextKey = contextKey
	v.recipe = recipe
	v.back = back
	v.history = nil
	v.pending = ""
	v.err = nil
	v.input.Reset()
	v.statusbar.Clear()
	v.refresh()

	if v.service == nil {
		v.setError(ErrNoChatService)
		return nil
	}
	return tea.Batch(v.syncInput(), v.loadHistory())
}

func (v *View) loadHistory() tea.Cmd {
	service := v.service
	ctx := v.ctx
	key := v.contextKey
	return func() tea.Msg {
		msgs, err := service.LoadHistory(ctx, key)
		return messages.HistoryLoaded{ContextKey: key, Messages: msgs, Err: err}
	}
}

// busy reports whether a request for this conversation is in flight,
// from this view or from another surface.
func (v *View) busy() bool {
	if v.pending != "" {
		return true
	}
	return v.service != nil && v.service.IsLoading(v.contextKey)
}

func (v *View) syncInput() tea.Cmd {
	return v.input.SetEnabled(!v.busy())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		if msg.ContextKey != v.contextKey {
			return v, nil
		}
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.history = msg.Messages
		v.refresh()
		return v, v.syncInput()

	case messages.ReplyReceived:
		if msg.ContextKey != v.contextKey {
			return v, nil
		}
		v.pending = ""
		if msg.Err != nil {
			v.setError(msg.Err)
		} else {
			v.statusbar.Clear()
		}
		v.refresh()
		return v, tea.Batch(v.syncInput(), v.loadHistory())

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		back := v.back
		return v, func() tea.Msg { return messages.ViewChanged{View: back} }

	case keymap.Matches(keyStr, v.keymap.Send):
		return v, v.send()

	case keymap.Matches(keyStr, v.keymap.Up) && msg.Type != tea.KeyRunes,
		keymap.Matches(keyStr, v.keymap.Down) && msg.Type != tea.KeyRunes:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// send submits the input line. Blank input and input typed while a
// request is in flight are ignored.
func (v *View) send() tea.Cmd {
	if v.service == nil || v.busy() {
		return nil
	}
	text := strings.TrimSpace(v.input.Value())
	if text == "" {
		return nil
	}

	v.pending = text
	v.err = nil
	v.input.Reset()
	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage("Waiting for the chef...")
	v.refresh()

	service := v.service
	ctx := v.ctx
	key := v.contextKey
	recipe := v.recipe
	request := func() tea.Msg {
		reply, err := service.SendMessage(ctx, text, key, recipe)
		return messages.ReplyReceived{ContextKey: key, Reply: reply, Err: err}
	}
	return tea.Batch(v.input.SetEnabled(false), request)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// refresh re-renders the transcript and scrolls to the newest turn.
func (v *View) refresh() {
	v.transcript.SetContent(v.renderTranscript())
	v.transcript.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.history) == 0 && v.pending == "" {
		return v.styles.Muted.Render("No messages yet. Ask anything about cooking.")
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-2, 20))
	turns := make([]string, 0, len(v.history)+2)
	for i := range v.history {
		m := &v.history[i]
		if m.Role == domain.ChatRoleUser {
			turns = append(turns, v.styles.UserTurn.Render("You")+"\n"+wrap.Render(m.Content))
		} else {
			turns = append(turns, v.styles.ModelTurn.Render("Chef")+"\n"+wrap.Render(m.Content))
		}
	}
	if v.pending != "" {
		turns = append(turns,
			v.styles.UserTurn.Render("You")+"\n"+wrap.Render(v.pending),
			v.styles.Muted.Render("The chef is thinking..."),
		)
	}
	return strings.Join(turns, "\n\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	title := "Ask the chef"
	if v.recipe != "" {
		title += ": " + v.recipe
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render(title), "", v.transcript.View(), "")
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	}
	sections = append(sections, v.input.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.transcript.Width = width
	v.transcript.Height = max(height-8, 3)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// ContextKey returns the open conversation's key.
func (v *View) ContextKey() string {
	return v.contextKey
}

// History returns the loaded turns.
func (v *View) History() []domain.ChatMessage {
	return v.history
}

// Pending reports whether a message is awaiting its reply.
func (v *View) Pending() bool {
	return v.pending != ""
}

// InputEnabled reports whether the input accepts text.
func (v *View) InputEnabled() bool {
	return v.input.Enabled()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
