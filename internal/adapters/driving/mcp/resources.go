package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for delight resources.
	uriScheme = "delight://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "bookmarks",
		Name:        "bookmarks",
		Description: "Bookmarked meals in the order they were saved",
		MIMEType:    "application/json",
	}, s.handleBookmarksResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chats/{contextKey}",
		Name:        "chat-history",
		Description: "Conversation with the cooking assistant for a meal ID or general",
		MIMEType:    "application/json",
	}, s.handleChatResource)
}

// handleBookmarksResource returns a snapshot of the bookmark list.
func (s *Server) handleBookmarksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// The first value of the live list is the current snapshot.
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	meals, ok := <-s.ports.Meals.BookmarkedMeals(watchCtx)
	if !ok {
		return nil, fmt.Errorf("reading bookmarks: %w", ctx.Err())
	}

	return jsonResource(req.Params.URI, meals)
}

// handleChatResource returns the persisted turns for one context key.
func (s *Server) handleChatResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Chat == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract contextKey from URI: delight://chats/{contextKey}
	key := extractContextKey(req.Params.URI)
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	history, err := s.ports.Chat.LoadHistory(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading chat history: %w", err)
	}

	return jsonResource(req.Params.URI, history)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractContextKey extracts the key from a URI like delight://chats/{contextKey}.
func extractContextKey(uri string) string {
	const prefix = uriScheme + "chats/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	key := strings.TrimPrefix(uri, prefix)
	if strings.Contains(key, "/") {
		return ""
	}
	return key
}
