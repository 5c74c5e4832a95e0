package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recipedelight/delight/internal/core/domain"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Manage bookmarked meals",
	Long: `Bookmarked meals are stored with their full recipe so they stay
readable offline.`,
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarked meals",
	Args:  cobra.NoArgs,
	RunE:  runBookmarkList,
}

var bookmarkToggleCmd = &cobra.Command{
	Use:   "toggle [meal-id]",
	Short: "Bookmark a meal, or remove its bookmark",
	Args:  cobra.ExactArgs(1),
	RunE:  runBookmarkToggle,
}

var bookmarkWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the bookmark list whenever it changes",
	Long: `Prints the bookmark list, then prints it again after every change made
by any delight process sharing the database. Stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runBookmarkWatch,
}

func init() {
	bookmarkCmd.AddCommand(bookmarkListCmd)
	bookmarkCmd.AddCommand(bookmarkToggleCmd)
	bookmarkCmd.AddCommand(bookmarkWatchCmd)
	rootCmd.AddCommand(bookmarkCmd)
}

func runBookmarkList(cmd *cobra.Command, _ []string) error {
	if err := requireMeals(); err != nil {
		return err
	}

	// The stream's first value is the current list.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	select {
	case meals, ok := <-mealService.BookmarkedMeals(ctx):
		if !ok {
			return nil
		}
		printBookmarks(cmd, meals)
	case <-ctx.Done():
	}
	return nil
}

func runBookmarkToggle(cmd *cobra.Command, args []string) error {
	if err := requireMeals(); err != nil {
		return err
	}

	meal, err := mealService.GetMealDetails(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get meal: %w", err)
	}
	if meal == nil {
		return fmt.Errorf("meal %s: %w", args[0], domain.ErrNotFound)
	}

	on, err := mealService.ToggleBookmark(cmd.Context(), meal)
	if err != nil {
		return fmt.Errorf("failed to toggle bookmark: %w", err)
	}

	if on {
		cmd.Printf("Bookmarked: %s\n", meal.Name)
	} else {
		cmd.Printf("Removed bookmark: %s\n", meal.Name)
	}
	return nil
}

func runBookmarkWatch(cmd *cobra.Command, _ []string) error {
	if err := requireMeals(); err != nil {
		return err
	}

	for meals := range mealService.BookmarkedMeals(cmd.Context()) {
		printBookmarks(cmd, meals)
		cmd.Println()
	}
	return nil
}

func printBookmarks(cmd *cobra.Command, meals []domain.Meal) {
	if len(meals) == 0 {
		cmd.Println("No bookmarks yet.")
		return
	}
	cmd.Printf("Bookmarks (%d):\n", len(meals))
	for i := range meals {
		cmd.Printf("  [%s] %s\n", meals[i].ID, meals[i].Name)
	}
}
