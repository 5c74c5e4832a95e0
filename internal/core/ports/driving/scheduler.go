package driving

import (
	"context"

	"github.com/recipedelight/delight/internal/core/domain"
)

// Scheduler runs background tasks like the daily meal notification and
// the category cache refresh.
type Scheduler interface {
	// Start begins running scheduled tasks.
	// Blocks until context is cancelled or an error occurs.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error

	// RunNow executes one task immediately, outside its schedule.
	RunNow(ctx context.Context, taskID string) (*domain.TaskResult, error)

	// Tasks returns the current state of every registered task.
	Tasks() []domain.ScheduledTask
}
