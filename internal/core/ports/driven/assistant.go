package driven

import (
	"context"

	"github.com/recipedelight/delight/internal/core/domain"
)

// Assistant is the remote generative model used by the chat manager.
type Assistant interface {
	// Generate sends the ordered turns together with a system instruction
	// and returns the model's reply text.
	//
	// Errors carry a user-presentable message, including the HTTP status
	// code when one is available.
	Generate(ctx context.Context, systemInstruction string, turns []domain.ChatTurn) (string, error)

	// ModelName returns the model being used.
	ModelName() string
}
