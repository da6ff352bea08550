package realtime

import (
	"context"
	"sync"
)

const subscriberBuffer = 8

// Hub is an in-process Feed. Events are fanned out to matching subscribers
// without blocking the publisher; a subscriber that falls behind loses
// events, which is harmless because every event means "re-fetch".
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]*subscriber
	nextID int
}

type subscriber struct {
	table   string
	ownerID string
	ch      chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]*subscriber)}
}

func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.table != ev.Table || sub.ownerID != ev.OwnerID {
			continue
		}
		select {
		case sub.ch <- ev:
		default: // subscriber is behind, the pending event already forces a re-fetch
		}
	}
	return nil
}

func (h *Hub) Subscribe(table, ownerID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	sub := &subscriber{table: table, ownerID: ownerID, ch: make(chan Event, subscriberBuffer)}
	h.subs[id] = sub

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub.ch)
		}
	}
	return sub.ch, cancel
}
