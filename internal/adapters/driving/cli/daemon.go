package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/recipedelight/delight/internal/logger"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run background tasks until interrupted",
	Long: `Runs the scheduler in the foreground: the daily meal notification and
the category cache refresh fire on their intervals. Config file changes are
applied without a restart. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}
	if !schedulerEnabled() {
		cmd.Println("Scheduler is disabled in the config file (scheduler.enabled = false).")
		return nil
	}

	cmd.Println("Running background tasks. Press Ctrl+C to stop.")
	logger.Info("daemon started")
	err := runBackground(cmd.Context())
	logger.Info("daemon stopped")
	return err
}
