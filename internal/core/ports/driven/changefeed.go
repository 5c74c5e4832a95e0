package driven

import (
	"context"

	"github.com/recipedelight/delight/internal/core/domain"
)

// ChangeFeed broadcasts committed writes to live queries.
type ChangeFeed interface {
	// Subscribe returns a channel that receives a signal after every
	// committed write touching any of tables. Signals coalesce: a reader
	// that falls behind sees one pending signal, never a backlog.
	// The channel is closed once ctx is done.
	Subscribe(ctx context.Context, tables ...domain.Table) <-chan struct{}

	// Publish notifies subscribers of tables. Stores call it after commit.
	Publish(tables ...domain.Table)
}
