// Package tui provides an interactive terminal user interface for delight.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/recipedelight/delight/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Meals serves the catalogue, the cache fallback and bookmarks.
	Meals driving.MealService

	// Chat manages assistant conversations.
	Chat driving.ChatService

	// Settings provides the live dark-mode flag. Optional; without it
	// the TUI stays on the light theme.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	meals driving.MealService,
	chat driving.ChatService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Meals:    meals,
		Chat:     chat,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Meals == nil {
		return ErrMissingMealService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
