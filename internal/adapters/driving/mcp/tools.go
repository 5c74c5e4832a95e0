package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/recipedelight/delight/internal/core/domain"
)

// NoInput is the input schema for tools without arguments.
type NoInput struct{}

// MealOutput wraps a single meal lookup.
type MealOutput struct {
	Found bool         `json:"found"`
	Meal  *domain.Meal `json:"meal,omitempty"`
}

// CategoriesOutput is the output schema for list_categories.
type CategoriesOutput struct {
	Categories []domain.Category `json:"categories"`
	Count      int               `json:"count"`
}

// CategoryInput is the input schema for meals_by_category.
type CategoryInput struct {
	Category string `json:"category" jsonschema:"the category name, e.g. Seafood"`
}

// SummariesOutput is the output schema for meals_by_category.
type SummariesOutput struct {
	Meals []domain.MealSummary `json:"meals"`
	Count int                  `json:"count"`
}

// MealIDInput identifies a meal.
type MealIDInput struct {
	ID string `json:"id" jsonschema:"the catalogue meal ID"`
}

// SearchInput is the input schema for search_meals.
type SearchInput struct {
	Query string `json:"query" jsonschema:"part of a meal name"`
}

// SearchOutput is the output schema for search_meals.
type SearchOutput struct {
	Meals []domain.Meal `json:"meals"`
	Count int           `json:"count"`
}

// BookmarkOutput is the output schema for toggle_bookmark.
type BookmarkOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Bookmarked bool   `json:"bookmarked"`
}

// AskInput is the input schema for ask_chef.
type AskInput struct {
	Question   string `json:"question" jsonschema:"the cooking question"`
	ContextKey string `json:"context_key,omitempty" jsonschema:"conversation key, a meal ID or general (default general)"`
	Recipe     string `json:"recipe,omitempty" jsonschema:"name of the recipe being viewed, used on the first turn only"`
}

// AskOutput is the output schema for ask_chef.
type AskOutput struct {
	ContextKey string `json:"context_key"`
	Reply      string `json:"reply"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "random_meal",
		Description: "Suggest a random meal (the last cached one when offline)",
	}, s.handleRandomMeal)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_categories",
		Description: "List every meal category",
	}, s.handleListCategories)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "meals_by_category",
		Description: "List the meals in one category",
	}, s.handleMealsByCategory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "meal_details",
		Description: "Get the full recipe for a meal ID",
	}, s.handleMealDetails)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_meals",
		Description: "Search meals by name (online only)",
	}, s.handleSearchMeals)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "toggle_bookmark",
		Description: "Bookmark a meal, or remove it if already bookmarked",
	}, s.handleToggleBookmark)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_chef",
		Description: "Ask the cooking assistant a question",
	}, s.handleAskChef)
}

func (s *Server) handleRandomMeal(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, MealOutput, error) {
	meal, err := s.ports.Meals.GetRandomMeal(ctx)
	if err != nil {
		return nil, MealOutput{}, err
	}
	return nil, MealOutput{Found: meal != nil, Meal: meal}, nil
}

func (s *Server) handleListCategories(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, CategoriesOutput, error) {
	cats, err := s.ports.Meals.GetCategories(ctx)
	if err != nil {
		return nil, CategoriesOutput{}, err
	}
	return nil, CategoriesOutput{Categories: cats, Count: len(cats)}, nil
}

func (s *Server) handleMealsByCategory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CategoryInput,
) (*mcp.CallToolResult, SummariesOutput, error) {
	meals, err := s.ports.Meals.GetMealsByCategory(ctx, input.Category)
	if err != nil {
		return nil, SummariesOutput{}, err
	}
	return nil, SummariesOutput{Meals: meals, Count: len(meals)}, nil
}

func (s *Server) handleMealDetails(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MealIDInput,
) (*mcp.CallToolResult, MealOutput, error) {
	meal, err := s.ports.Meals.GetMealDetails(ctx, input.ID)
	if err != nil {
		return nil, MealOutput{}, err
	}
	return nil, MealOutput{Found: meal != nil, Meal: meal}, nil
}

func (s *Server) handleSearchMeals(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	meals, err := s.ports.Meals.SearchMeals(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, SearchOutput{Meals: meals, Count: len(meals)}, nil
}

func (s *Server) handleToggleBookmark(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MealIDInput,
) (*mcp.CallToolResult, BookmarkOutput, error) {
	meal, err := s.ports.Meals.GetMealDetails(ctx, input.ID)
	if err != nil {
		return nil, BookmarkOutput{}, err
	}
	if meal == nil {
		return nil, BookmarkOutput{}, fmt.Errorf("meal %q: %w", input.ID, domain.ErrNotFound)
	}

	bookmarked, err := s.ports.Meals.ToggleBookmark(ctx, meal)
	if err != nil {
		return nil, BookmarkOutput{}, err
	}
	return nil, BookmarkOutput{ID: meal.ID, Name: meal.Name, Bookmarked: bookmarked}, nil
}

func (s *Server) handleAskChef(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Chat == nil {
		return nil, AskOutput{}, ErrChatUnavailable
	}

	key := strings.TrimSpace(input.ContextKey)
	if key == "" {
		key = domain.ContextGeneral
	}

	reply, err := s.ports.Chat.SendMessage(ctx, input.Question, key, input.Recipe)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{ContextKey: key, Reply: reply.Content}, nil
}
