package services

import (
	"context"
	"reflect"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/logger"
)

// watchQuery runs load immediately and again after every committed write
// to tables, sending each distinct result on the returned channel.
//
// The subscription is taken before the first load so no write can fall
// between the initial state and the first signal. The channel holds only
// the latest value: a slow reader may miss intermediate states but always
// sees the final one. The channel is closed when ctx ends.
func watchQuery[T any](
	ctx context.Context,
	feed driven.ChangeFeed,
	name string,
	load func(context.Context) (T, error),
	tables ...domain.Table,
) <-chan T {
	out := make(chan T, 1)
	signals := feed.Subscribe(ctx, tables...)

	go func() {
		defer func() {
			// Nothing is delivered after cancellation.
			select {
			case <-out:
			default:
			}
			close(out)
		}()

		var last T
		emitted := false
		refresh := func() {
			v, err := load(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Error("live query %s: %v", name, err)
				}
				return
			}
			if emitted && reflect.DeepEqual(v, last) {
				return
			}
			last, emitted = v, true
			sendLatest(out, v)
		}

		refresh()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				refresh()
			}
		}
	}()

	return out
}

// sendLatest replaces any unread value in out with v.
// out must have capacity one and a single sender.
func sendLatest[T any](out chan T, v T) {
	for {
		select {
		case out <- v:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
