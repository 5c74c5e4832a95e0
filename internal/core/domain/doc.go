// Package domain defines the core business entities for delight.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Meal, MealSummary, Category: catalogue records
//   - ChatMessage: a persisted assistant conversation turn
//   - AppSettings, Config: persisted and file-backed settings
//   - ScheduledTask: recurring background work
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
