// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recipedelight/delight/internal/adapters/driving/tui/styles"
)

// Field wraps a bubbles textinput with a label and an enabled state.
// A disabled field ignores keys and shows its busy placeholder.
type Field struct {
	textinput   textinput.Model
	styles      *styles.Styles
	label       string
	placeholder string
	busy        string
	enabled     bool
	width       int
}

// NewField creates a focused, enabled input field.
func NewField(s *styles.Styles, label, placeholder string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 1000
	ti.Width = 50

	return &Field{
		textinput:   ti,
		styles:      s,
		label:       label,
		placeholder: placeholder,
		busy:        "Waiting...",
		enabled:     true,
		width:       50,
	}
}

// NewSearchInput creates the meal search field.
func NewSearchInput(s *styles.Styles) *Field {
	return NewField(s, "Search: ", "Meal name, e.g. Arrabiata")
}

// NewChatInput creates the chat message field.
func NewChatInput(s *styles.Styles) *Field {
	f := NewField(s, "You: ", "Ask a cooking question...")
	f.busy = "The chef is thinking..."
	return f
}

// Init initialises the input.
func (f *Field) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	if !f.enabled {
		if _, ok := msg.(tea.KeyMsg); ok {
			return f, nil
		}
	}
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the input.
func (f *Field) View() string {
	label := f.styles.Title.Render(f.label)
	input := f.styles.InputField.Render(f.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Value returns the current input value.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// SetValue sets the input value.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// SetEnabled switches the field between accepting input and showing its
// busy placeholder.
func (f *Field) SetEnabled(enabled bool) tea.Cmd {
	if f.enabled == enabled {
		return nil
	}
	f.enabled = enabled
	if !enabled {
		f.textinput.Placeholder = f.busy
		f.textinput.Blur()
		return nil
	}
	f.textinput.Placeholder = f.placeholder
	return f.textinput.Focus()
}

// Enabled reports whether the field accepts input.
func (f *Field) Enabled() bool {
	return f.enabled
}

// Focus sets focus on the input.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the input.
func (f *Field) SetWidth(width int) {
	f.width = width
	// Account for label and padding
	inputWidth := width - lipgloss.Width(f.label) - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}

// Reset clears the input.
func (f *Field) Reset() {
	f.textinput.Reset()
}
