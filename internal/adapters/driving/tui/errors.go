package tui

import "errors"

// ErrMissingMealService is returned when the meal service is not provided.
var ErrMissingMealService = errors.New("tui: meal service is required")

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("tui: chat service is required")
