// Package mcp provides an MCP (Model Context Protocol) server adapter for delight.
// It lets AI assistants browse the meal catalogue, manage bookmarks and
// talk to the cooking assistant.
package mcp

import "errors"

// ErrMissingMealService is returned when the meal service is not provided.
var ErrMissingMealService = errors.New("mcp: meal service is required")

// ErrChatUnavailable is returned by ask_chef when no chat service is wired.
var ErrChatUnavailable = errors.New("mcp: chat service is not configured")
