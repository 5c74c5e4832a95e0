package driving

import (
	"context"

	"github.com/recipedelight/delight/internal/core/domain"
)

// ChatService manages assistant conversations, one per context key.
type ChatService interface {
	// LoadHistory returns every persisted turn for contextKey in order.
	LoadHistory(ctx context.Context, contextKey string) ([]domain.ChatMessage, error)

	// SendMessage persists the user turn, asks the assistant and persists
	// the reply (or an error turn). firstTurnContext, when set, names the
	// recipe being viewed and is only used on a conversation's first turn.
	// Returns the model turn. Blank text is ignored and yields a zero message.
	SendMessage(ctx context.Context, text, contextKey, firstTurnContext string) (domain.ChatMessage, error)

	// ClearHistory deletes every turn for contextKey.
	ClearHistory(ctx context.Context, contextKey string) error

	// IsLoading reports whether a reply for contextKey is pending.
	IsLoading(contextKey string) bool

	// Conversations lists the context keys that have history.
	Conversations(ctx context.Context) ([]string, error)
}
