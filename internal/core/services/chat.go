package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/core/ports/driving"
	"github.com/recipedelight/delight/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// MissingKeyReply is the model turn recorded when no API key is configured.
const MissingKeyReply = "Error: API key is missing. Run 'delight settings api-key' to configure it."

// AssistantConfig supplies the current assistant settings.
type AssistantConfig interface {
	Assistant() domain.AssistantSettings
}

// chatSession is the in-memory history of one context key.
type chatSession struct {
	loaded  bool
	loading bool
	history []domain.ChatMessage
}

// ChatService keeps one conversation per context key and drives the
// request/response cycle with the assistant. Every turn is persisted as
// soon as it exists; a failed request still records a model turn.
type ChatService struct {
	store     driven.ChatStore
	assistant driven.Assistant
	config    AssistantConfig

	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// NewChatService creates a chat service.
func NewChatService(store driven.ChatStore, assistant driven.Assistant, config AssistantConfig) *ChatService {
	return &ChatService{
		store:     store,
		assistant: assistant,
		config:    config,
		now:       time.Now,
		newID:     uuid.NewString,
		sessions:  make(map[string]*chatSession),
	}
}

// LoadHistory reads every persisted turn for contextKey, oldest first,
// and resets the in-memory session to match.
func (s *ChatService) LoadHistory(ctx context.Context, contextKey string) ([]domain.ChatMessage, error) {
	contextKey = normaliseContextKey(contextKey)

	msgs, err := s.store.ListMessages(ctx, contextKey)
	if err != nil {
		return nil, fmt.Errorf("loading chat history for %s: %w", contextKey, err)
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}

	s.mu.Lock()
	sess := s.sessionLocked(contextKey)
	sess.history = slices.Clone(msgs)
	sess.loaded = true
	s.mu.Unlock()

	return msgs, nil
}

// SendMessage records the user turn, asks the assistant and records the
// reply. When the session has no earlier turns, firstTurnContext names the
// recipe in view and is prepended to the outbound question only.
func (s *ChatService) SendMessage(ctx context.Context, text, contextKey, firstTurnContext string) (domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, nil
	}
	contextKey = normaliseContextKey(contextKey)

	if err := s.ensureLoaded(ctx, contextKey); err != nil {
		return domain.ChatMessage{}, err
	}

	userMsg := s.newMessage(contextKey, domain.ChatRoleUser, text)
	if err := s.store.AppendMessage(ctx, &userMsg); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("saving chat message: %w", err)
	}

	s.mu.Lock()
	sess := s.sessionLocked(contextKey)
	first := len(sess.history) == 0
	sess.history = append(sess.history, userMsg)
	sess.loading = true
	turns := toTurns(sess.history)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sessionLocked(contextKey).loading = false
		s.mu.Unlock()
	}()

	if first && strings.TrimSpace(firstTurnContext) != "" {
		turns[len(turns)-1].Text = domain.EnrichFirstTurn(strings.TrimSpace(firstTurnContext), text)
	}

	reply := s.ask(ctx, turns)

	// The reply is recorded even if the caller has gone away.
	modelMsg := s.newMessage(contextKey, domain.ChatRoleModel, reply)
	if err := s.store.AppendMessage(context.WithoutCancel(ctx), &modelMsg); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("saving chat reply: %w", err)
	}

	s.mu.Lock()
	sess = s.sessionLocked(contextKey)
	sess.history = append(sess.history, modelMsg)
	s.mu.Unlock()

	return modelMsg, nil
}

// ClearHistory deletes every turn for contextKey.
func (s *ChatService) ClearHistory(ctx context.Context, contextKey string) error {
	contextKey = normaliseContextKey(contextKey)

	if err := s.store.ClearMessages(ctx, contextKey); err != nil {
		return fmt.Errorf("clearing chat history for %s: %w", contextKey, err)
	}

	s.mu.Lock()
	sess := s.sessionLocked(contextKey)
	sess.history = nil
	sess.loaded = true
	s.mu.Unlock()

	logger.Debug("chat: cleared history for %s", contextKey)
	return nil
}

// IsLoading reports whether a reply for contextKey is pending.
func (s *ChatService) IsLoading(contextKey string) bool {
	contextKey = normaliseContextKey(contextKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[contextKey]; ok {
		return sess.loading
	}
	return false
}

// Conversations lists the context keys with history, most recent first.
func (s *ChatService) Conversations(ctx context.Context) ([]string, error) {
	keys, err := s.store.ListContextKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	return keys, nil
}

// ask returns the assistant's reply, or an error turn text.
func (s *ChatService) ask(ctx context.Context, turns []domain.ChatTurn) string {
	if s.config == nil || !s.config.Assistant().HasCredential() {
		logger.Warn("chat: no API key configured, skipping request")
		return MissingKeyReply
	}
	if s.assistant == nil {
		return "Error: " + domain.ErrAssistantUnavailable.Error()
	}

	reply, err := s.assistant.Generate(ctx, domain.SystemInstruction, turns)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			return MissingKeyReply
		}
		logger.Warn("chat: assistant failed: %v", err)
		return "Error: " + err.Error()
	}
	return reply
}

// ensureLoaded reads persisted history the first time a key is used.
func (s *ChatService) ensureLoaded(ctx context.Context, contextKey string) error {
	s.mu.Lock()
	loaded := s.sessionLocked(contextKey).loaded
	s.mu.Unlock()
	if loaded {
		return nil
	}

	_, err := s.LoadHistory(ctx, contextKey)
	return err
}

func (s *ChatService) sessionLocked(contextKey string) *chatSession {
	sess, ok := s.sessions[contextKey]
	if !ok {
		sess = &chatSession{}
		s.sessions[contextKey] = sess
	}
	return sess
}

func (s *ChatService) newMessage(contextKey string, role domain.ChatRole, content string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:         s.newID(),
		ContextKey: contextKey,
		Role:       role,
		Content:    content,
		CreatedAt:  s.now().UTC(),
	}
}

func toTurns(history []domain.ChatMessage) []domain.ChatTurn {
	turns := make([]domain.ChatTurn, 0, len(history))
	for _, m := range history {
		turns = append(turns, domain.ChatTurn{Role: m.Role, Text: m.Content})
	}
	return turns
}

func normaliseContextKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ContextGeneral
	}
	return key
}
