package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoMealService indicates that no meal service was provided.
	ErrNoMealService = errors.New("meal service is required")
)
