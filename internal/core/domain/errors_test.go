package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrSourceUnavailable", ErrSourceUnavailable},
		{"ErrMalformedResponse", ErrMalformedResponse},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrAssistantUnavailable", ErrAssistantUnavailable},
		{"ErrMissingCredential", ErrMissingCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrSourceUnavailable))
}

func TestErrors_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("lookup 52772: %w", ErrMalformedResponse)

	assert.True(t, errors.Is(wrapped, ErrMalformedResponse))
	assert.False(t, errors.Is(wrapped, ErrSourceUnavailable))
	assert.Equal(t, "lookup 52772: malformed response", wrapped.Error())
}

func TestErrors_AreDistinct(t *testing.T) {
	all := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrSourceUnavailable,
		ErrMalformedResponse,
		ErrRateLimited,
		ErrAssistantUnavailable,
		ErrMissingCredential,
	}

	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}
