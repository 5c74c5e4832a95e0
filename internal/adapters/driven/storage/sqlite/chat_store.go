package sqlite

import (
	"context"
	"fmt"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
)

// ==================== Chat Store ====================

// chatStore implements driven.ChatStore.
type chatStore struct {
	store *Store
}

var _ driven.ChatStore = (*chatStore)(nil)

// AppendMessage persists one turn.
func (s *chatStore) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	if msg == nil || msg.ID == "" || msg.ContextKey == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, context_key, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.ContextKey, string(msg.Role), msg.Content, formatTime(msg.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving chat message: %w", err)
	}

	s.store.publish(domain.TableChatMessages)
	return nil
}

// ListMessages returns the turns for contextKey in insertion order.
func (s *chatStore) ListMessages(ctx context.Context, contextKey string) ([]domain.ChatMessage, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, context_key, role, content, created_at
		FROM chat_messages
		WHERE context_key = ?
		ORDER BY seq
	`, contextKey)
	if err != nil {
		return nil, fmt.Errorf("querying chat messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var msg domain.ChatMessage
		var role, createdAt string
		if err := rows.Scan(&msg.ID, &msg.ContextKey, &role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		msg.Role = domain.ChatRole(role)
		msg.CreatedAt = parseTime(createdAt)
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat messages: %w", err)
	}

	return messages, nil
}

// ClearMessages deletes every turn for contextKey.
func (s *chatStore) ClearMessages(ctx context.Context, contextKey string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM chat_messages WHERE context_key = ?", contextKey)
	if err != nil {
		return fmt.Errorf("clearing chat messages: %w", err)
	}
	s.store.publish(domain.TableChatMessages)
	return nil
}

// ListContextKeys returns context keys with history, most recently active first.
func (s *chatStore) ListContextKeys(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT context_key
		FROM chat_messages
		GROUP BY context_key
		ORDER BY MAX(seq) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chat contexts: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning chat context: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat contexts: %w", err)
	}

	return keys, nil
}
