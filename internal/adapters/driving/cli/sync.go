package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/recipedelight/delight/internal/core/domain"
)

// syncTasks run, in order, when sync is called without a task ID.
var syncTasks = []string{domain.TaskIDCategoryRefresh, domain.TaskIDDailyMeal}

var syncStatus bool

var syncCmd = &cobra.Command{
	Use:   "sync [task-id]",
	Short: "Run background tasks now",
	Long: `Runs scheduled tasks immediately instead of waiting for their interval.
If a task ID is provided, only that task runs. Otherwise the category
refresh runs first, followed by the daily meal pick.

Tasks:
  category-refresh  re-download the category list into the cache
  daily-meal        pick a random meal and show a notification`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncStatus, "status", false, "show task status instead of running tasks")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	if syncStatus {
		printTaskStatus(cmd, scheduler.Tasks())
		return nil
	}

	ids := syncTasks
	if len(args) > 0 {
		ids = args
	}

	var failed int
	for _, id := range ids {
		cmd.Printf("Running %s...\n", id)
		result, err := scheduler.RunNow(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		if !result.Success {
			failed++
			cmd.Printf("  failed: %s\n", result.Error)
			continue
		}
		cmd.Printf("  done in %s", result.EndedAt.Sub(result.StartedAt).Round(time.Millisecond))
		if result.ItemsProcessed > 0 {
			cmd.Printf(" (%d items)", result.ItemsProcessed)
		}
		cmd.Println()
	}

	if failed > 0 {
		return fmt.Errorf("sync failed: %d of %d tasks did not complete", failed, len(ids))
	}
	return nil
}

func printTaskStatus(cmd *cobra.Command, tasks []domain.ScheduledTask) {
	if len(tasks) == 0 {
		cmd.Println("No tasks have run yet.")
		return
	}
	for i := range tasks {
		t := &tasks[i]
		state := "enabled"
		if !t.Enabled {
			state = "disabled"
		}
		cmd.Printf("%s (%s, every %s)\n", t.Name, state, t.Interval)
		if !t.LastRun.IsZero() {
			cmd.Printf("  last run: %s\n", t.LastRun.Local().Format("2006-01-02 15:04"))
		}
		if !t.NextRun.IsZero() {
			cmd.Printf("  next run: %s\n", t.NextRun.Local().Format("2006-01-02 15:04"))
		}
		if t.LastError != "" {
			cmd.Printf("  last error: %s\n", t.LastError)
		}
	}
}
