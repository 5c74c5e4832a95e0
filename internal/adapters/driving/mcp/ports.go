package mcp

import (
	"github.com/recipedelight/delight/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Meals provides catalogue reads and bookmarks.
	Meals driving.MealService

	// Chat answers cooking questions. Optional.
	Chat driving.ChatService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Meals == nil {
		return ErrMissingMealService
	}
	return nil
}
