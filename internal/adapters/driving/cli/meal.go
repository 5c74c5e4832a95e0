package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recipedelight/delight/internal/core/domain"
)

var mealJSON bool

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show today's pick and the category list",
	Long: `Loads a random meal and every catalogue category, as the landing screen
does. Falls back to cached data when the catalogue is unreachable.`,
	Args: cobra.NoArgs,
	RunE: runHome,
}

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Browse the meal catalogue",
}

var mealRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show a random meal",
	Args:  cobra.NoArgs,
	RunE:  runMealRandom,
}

var mealCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalogue categories",
	Args:  cobra.NoArgs,
	RunE:  runMealCategories,
}

var mealCategoryCmd = &cobra.Command{
	Use:   "category [name]",
	Short: "List the meals in a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runMealCategory,
}

var mealShowCmd = &cobra.Command{
	Use:   "show [meal-id]",
	Short: "Show a meal's recipe",
	Args:  cobra.ExactArgs(1),
	RunE:  runMealShow,
}

func init() {
	mealShowCmd.Flags().BoolVar(&mealJSON, "json", false, "output the meal as JSON")
	mealRandomCmd.Flags().BoolVar(&mealJSON, "json", false, "output the meal as JSON")

	mealCmd.AddCommand(mealRandomCmd)
	mealCmd.AddCommand(mealCategoriesCmd)
	mealCmd.AddCommand(mealCategoryCmd)
	mealCmd.AddCommand(mealShowCmd)
	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(mealCmd)
}

func runHome(cmd *cobra.Command, _ []string) error {
	if err := requireMeals(); err != nil {
		return err
	}

	feed, err := mealService.LoadHome(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load home: %w", err)
	}

	cmd.Println("Today's pick")
	cmd.Println("============")
	if feed.RandomMeal != nil {
		cmd.Printf("  %s  [%s]\n", feed.RandomMeal.Name, feed.RandomMeal.ID)
		if sub := mealSubtitle(feed.RandomMeal); sub != "" {
			cmd.Printf("  %s\n", sub)
		}
	} else {
		cmd.Println("  Nothing to suggest while offline.")
	}
	cmd.Println()

	printCategories(cmd, feed.Categories)
	return nil
}

func runMealRandom(cmd *cobra.Command, _ []string) error {
	if err := requireMeals(); err != nil {
		return err
	}

	meal, err := mealService.GetRandomMeal(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get random meal: %w", err)
	}
	if meal == nil {
		cmd.Println("No meal available. Connect to the network once to fill the cache.")
		return nil
	}
	return outputMeal(cmd, meal)
}

func runMealCategories(cmd *cobra.Command, _ []string) error {
	if err := requireMeals(); err != nil {
		return err
	}

	categories, err := mealService.GetCategories(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	printCategories(cmd, categories)
	return nil
}

func runMealCategory(cmd *cobra.Command, args []string) error {
	if err := requireMeals(); err != nil {
		return err
	}

	name := args[0]
	meals, err := mealService.GetMealsByCategory(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("failed to list category %s: %w", name, err)
	}

	if len(meals) == 0 {
		cmd.Printf("No meals found in %s.\n", name)
		return nil
	}

	cmd.Printf("%s (%d):\n", name, len(meals))
	for _, m := range meals {
		cmd.Printf("  [%s] %s\n", m.ID, m.Name)
	}
	return nil
}

func runMealShow(cmd *cobra.Command, args []string) error {
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
	return outputMeal(cmd, meal)
}

func outputMeal(cmd *cobra.Command, meal *domain.Meal) error {
	if mealJSON {
		data, err := json.MarshalIndent(meal, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal meal: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	title := meal.Name
	if meal.Bookmarked {
		title += " *"
	}
	cmd.Printf("%s  [%s]\n", title, meal.ID)
	if sub := mealSubtitle(meal); sub != "" {
		cmd.Println(sub)
	}
	if len(meal.Tags) > 0 {
		cmd.Printf("Tags: %s\n", strings.Join(meal.Tags, ", "))
	}
	cmd.Println()

	if len(meal.Ingredients) > 0 {
		cmd.Println("Ingredients:")
		for _, ing := range meal.Ingredients {
			cmd.Printf("  - %s\n", ing)
		}
		cmd.Println()
	}

	if meal.Instructions != "" {
		cmd.Println("Instructions:")
		cmd.Println(meal.Instructions)
	}

	if meal.HasVideo() {
		cmd.Println()
		cmd.Printf("Video: %s\n", meal.YouTube)
	}
	return nil
}

func printCategories(cmd *cobra.Command, categories []domain.Category) {
	if len(categories) == 0 {
		cmd.Println("No categories cached yet.")
		return
	}
	cmd.Printf("Categories (%d):\n", len(categories))
	for _, c := range categories {
		cmd.Printf("  %s\n", c.Name)
	}
}

func mealSubtitle(meal *domain.Meal) string {
	return strings.TrimSpace(meal.Area + " " + meal.Category)
}
