// Package changefeed broadcasts committed store writes to live queries.
package changefeed

import (
	"context"
	"sync"

	"github.com/recipedelight/delight/internal/core/domain"
	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/logger"
)

// Ensure Hub implements the interface.
var _ driven.ChangeFeed = (*Hub)(nil)

type subscriber struct {
	tables map[domain.Table]struct{}
	signal chan struct{}
}

// Hub fans table change notifications out to subscribers.
// Delivery never blocks a writer: each subscriber has a single pending
// slot and repeated notifications collapse into it.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	nextID uint64
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*subscriber)}
}

// Subscribe registers interest in tables until ctx is done.
func (h *Hub) Subscribe(ctx context.Context, tables ...domain.Table) <-chan struct{} {
	sub := &subscriber{
		tables: make(map[domain.Table]struct{}, len(tables)),
		signal: make(chan struct{}, 1),
	}
	for _, t := range tables {
		sub.tables[t] = struct{}{}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.signal)
		return sub.signal
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.remove(id)
	}()

	return sub.signal
}

// Publish signals every subscriber watching one of tables.
func (h *Hub) Publish(tables ...domain.Table) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if !sub.watches(tables) {
			continue
		}
		select {
		case sub.signal <- struct{}{}:
		default:
			// A signal is already pending; the reader will re-query anyway.
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		close(sub.signal)
		delete(h.subs, id)
	}
	logger.Debug("changefeed closed")
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		close(sub.signal)
		delete(h.subs, id)
	}
}

func (s *subscriber) watches(tables []domain.Table) bool {
	for _, t := range tables {
		if _, ok := s.tables[t]; ok {
			return true
		}
	}
	return false
}
