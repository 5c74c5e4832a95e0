package chat

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipedelight/delight/internal/adapters/driving/tui/messages"
	"github.com/recipedelight/delight/internal/adapters/driving/tui/tuitest"
	"github.com/recipedelight/delight/internal/core/domain"
)

// deliver runs cmd, unpacking batches, and returns every non-nil message.
func deliver(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, deliver(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// find returns the first message of type T.
func find[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %v", zero, msgs)
	return zero
}

func typeText(v *View, text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestView_OpenDefaultsToGeneral(t *testing.T) {
	view := NewView(nil, nil, tuitest.NewChat("ok"))
	view.SetDimensions(80, 30)

	cmd := view.Open("  ", "", messages.ViewMenu)

	assert.Equal(t, domain.ContextGeneral, view.ContextKey())
	loaded := find[messages.HistoryLoaded](t, deliver(cmd))
	assert.Equal(t, domain.ContextGeneral, loaded.ContextKey)

	view.Update(loaded)
	assert.Contains(t, view.View(), "No messages yet")
	assert.Contains(t, view.View(), "Ask the chef")
}

func TestView_Open_NoService(t *testing.T) {
	view := NewView(nil, nil, nil)

	assert.Nil(t, view.Open("52771", "Arrabiata", messages.ViewMeal))
	assert.ErrorIs(t, view.Err(), ErrNoChatService)
}

func TestView_SendMessage(t *testing.T) {
	chat := tuitest.NewChat("Rigatoni works well.")
	view := NewView(nil, nil, chat)
	view.SetDimensions(100, 40)
	view.Update(find[messages.HistoryLoaded](t, deliver(view.Open("52771", "Spicy Arrabiata Penne", messages.ViewMeal))))

	typeText(view, "Can I use rigatoni?")
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.True(t, view.Pending())
	assert.False(t, view.InputEnabled())
	assert.Contains(t, view.View(), "The chef is thinking...")

	reply := find[messages.ReplyReceived](t, deliver(cmd))
	assert.Equal(t, "52771", reply.ContextKey)
	assert.Equal(t, "Rigatoni works well.", reply.Reply.Content)
	assert.Equal(t, []string{"Spicy Arrabiata Penne"}, chat.Recipes)

	_, cmd = view.Update(reply)
	assert.False(t, view.Pending())
	assert.True(t, view.InputEnabled())

	view.Update(find[messages.HistoryLoaded](t, deliver(cmd)))
	require.Len(t, view.History(), 2)

	output := view.View()
	assert.Contains(t, output, "Ask the chef: Spicy Arrabiata Penne")
	assert.Contains(t, output, "Can I use rigatoni?")
	assert.Contains(t, output, "Rigatoni works well.")
	assert.Contains(t, output, "Chef")
}

func TestView_SendBlankIgnored(t *testing.T) {
	view := NewView(nil, nil, tuitest.NewChat("ok"))
	view.SetDimensions(80, 30)
	view.Open("", "", messages.ViewMenu)

	typeText(view, "   ")
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, view.Pending())
}

func TestView_SendWhileLoadingIgnored(t *testing.T) {
	chat := tuitest.NewChat("ok")
	chat.Block = make(chan struct{})
	view := NewView(nil, nil, chat)
	view.SetDimensions(80, 30)
	view.Open("52771", "", messages.ViewMenu)

	typeText(view, "first")
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	// Keys are swallowed by the disabled input and enter does nothing.
	typeText(view, "second")
	_, again := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, again)

	done := make(chan []tea.Msg)
	go func() { done <- deliver(cmd) }()
	close(chat.Block)
	reply := find[messages.ReplyReceived](t, <-done)
	assert.Equal(t, "ok", reply.Reply.Content)
}

func TestView_ReplyError(t *testing.T) {
	view := NewView(nil, nil, tuitest.NewChat("ok"))
	view.SetDimensions(80, 30)
	view.Open("52771", "", messages.ViewMenu)

	view.Update(messages.ReplyReceived{ContextKey: "52771", Err: errors.New("store closed")})

	assert.EqualError(t, view.Err(), "store closed")
	assert.True(t, view.InputEnabled())
	assert.Contains(t, view.View(), "store closed")
}

func TestView_IgnoresOtherConversations(t *testing.T) {
	view := NewView(nil, nil, tuitest.NewChat("ok"))
	view.SetDimensions(80, 30)
	view.Open("52771", "", messages.ViewMenu)

	view.Update(messages.HistoryLoaded{ContextKey: "general", Messages: []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "elsewhere"},
	}})

	assert.Empty(t, view.History())
}

func TestView_HistoryError(t *testing.T) {
	view := NewView(nil, nil, tuitest.NewChat("ok"))
	view.SetDimensions(80, 30)
	view.Open("general", "", messages.ViewMenu)

	view.Update(messages.HistoryLoaded{ContextKey: "general", Err: errors.New("locked")})

	assert.EqualError(t, view.Err(), "locked")
}

func TestView_Back(t *testing.T) {
	view := NewView(nil, nil, tuitest.NewChat("ok"))
	view.Open("52771", "Arrabiata", messages.ViewMeal)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMeal}, cmd())
}

func TestView_NotReady(t *testing.T) {
	view := NewView(nil, nil, nil)
	assert.Equal(t, "Initialising...", view.View())
}
