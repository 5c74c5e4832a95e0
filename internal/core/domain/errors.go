package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Remote Source Errors.

	// ErrSourceUnavailable indicates the meal catalogue could not be reached
	// or answered with a non-success status. Reads degrade to the cache.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedResponse indicates a response body could not be decoded
	// or did not have the expected envelope shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrRateLimited indicates the remote API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Assistant Errors.

	// ErrAssistantUnavailable indicates the generative assistant failed to answer.
	ErrAssistantUnavailable = errors.New("assistant unavailable")

	// ErrMissingCredential indicates no usable API key is configured.
	// The chat send path short-circuits before any network call.
	ErrMissingCredential = errors.New("API key is missing")
)
