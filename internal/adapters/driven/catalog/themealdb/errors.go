package themealdb

import (
	"fmt"
	"net/http"

	"github.com/recipedelight/delight/internal/core/domain"
)

// StatusError reports a non-success HTTP status from the catalogue.
// It matches domain.ErrSourceUnavailable with errors.Is, and also
// domain.ErrRateLimited for HTTP 429.
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("themealdb: %s returned HTTP %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap exposes the domain classification.
func (e *StatusError) Unwrap() []error {
	if e.StatusCode == http.StatusTooManyRequests {
		return []error{domain.ErrSourceUnavailable, domain.ErrRateLimited}
	}
	return []error{domain.ErrSourceUnavailable}
}
