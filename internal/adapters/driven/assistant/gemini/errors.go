package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/recipedelight/delight/internal/core/domain"
)

// classify maps a client error onto the domain errors. The resulting
// message is shown to the user as the model turn, so it keeps the HTTP
// status code when one is known.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out or was cancelled: %w", domain.ErrAssistantUnavailable, err)
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := strings.TrimSpace(gerr.Message)
		if msg == "" {
			msg = http.StatusText(gerr.Code)
		}
		switch gerr.Code {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w: HTTP %d: %s", domain.ErrAssistantUnavailable, domain.ErrRateLimited, gerr.Code, msg)
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			if IsInvalidKey(gerr) {
				return fmt.Errorf("%w: HTTP %d: API key was rejected: %s", domain.ErrAssistantUnavailable, gerr.Code, msg)
			}
		}
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrAssistantUnavailable, gerr.Code, msg)
	}

	return fmt.Errorf("%w: failed to connect: %w", domain.ErrAssistantUnavailable, err)
}

// IsInvalidKey reports whether the API rejected the configured key.
func IsInvalidKey(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	switch gerr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		if strings.Contains(strings.ToLower(gerr.Message), "api key") {
			return true
		}
		for _, d := range gerr.Details {
			if m, ok := d.(map[string]any); ok && m["reason"] == "API_KEY_INVALID" {
				return true
			}
		}
	}
	return false
}
