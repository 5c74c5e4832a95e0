package domain

import "time"

// ChatRole identifies who authored a chat turn.
type ChatRole string

const (
	// ChatRoleUser is a turn typed (or spoken) by the user.
	ChatRoleUser ChatRole = "user"
	// ChatRoleModel is a turn produced by the assistant, including
	// locally injected error turns.
	ChatRoleModel ChatRole = "model"
)

// ContextGeneral is the context key for conversations not tied to a recipe.
const ContextGeneral = "general"

// SystemInstruction is sent with every assistant request.
const SystemInstruction = "You are a strict cooking assistant. If a user asks a question that is not about food, " +
	"recipes, or cooking techniques, you must reply exactly with: 'I answer only cooking related questions.'"

// RefusalText is the exact reply the assistant gives to off-topic questions.
const RefusalText = "I answer only cooking related questions."

// ChatMessage is a single persisted conversation turn.
type ChatMessage struct {
	// ID is a UUID assigned when the turn is created.
	ID string `json:"id"`

	// ContextKey scopes the conversation (a meal ID or ContextGeneral).
	ContextKey string `json:"context_key"`

	// Role is user or model.
	Role ChatRole `json:"role"`

	// Content is the turn text as displayed.
	Content string `json:"content"`

	// CreatedAt orders turns within a context key.
	CreatedAt time.Time `json:"created_at"`
}

// IsZero reports whether m is the zero message.
func (m ChatMessage) IsZero() bool {
	return m.ID == "" && m.Content == ""
}

// ChatTurn is the wire form of a turn sent to the assistant.
type ChatTurn struct {
	Role ChatRole
	Text string
}

// EnrichFirstTurn prefixes the user's first question with the recipe being viewed.
func EnrichFirstTurn(recipe, question string) string {
	return "Context: I am looking at the recipe \"" + recipe + "\".\n\nQuestion: " + question
}
