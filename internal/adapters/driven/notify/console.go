// Package notify delivers user-visible notifications.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/recipedelight/delight/internal/core/ports/driven"
)

// Ensure Console implements the interface.
var _ driven.Notifier = (*Console)(nil)

// Console writes notifications as timestamped lines.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewConsole creates a notifier writing to out. A nil out means stdout.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out, now: time.Now}
}

// Notify writes "[15:04] title: body".
func (c *Console) Notify(ctx context.Context, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line := title
	if body != "" {
		line += ": " + body
	}
	if _, err := fmt.Fprintf(c.out, "[%s] %s\n", c.now().Format("15:04"), line); err != nil {
		return fmt.Errorf("writing notification: %w", err)
	}
	return nil
}
