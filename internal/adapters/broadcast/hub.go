// Package broadcast fans store snapshots out to a changing set of
// subscribers, such as open event-stream connections. The Hub is registered
// once as a store listener; subscribers come and go through Subscribe and
// their cancel functions.
package broadcast

import (
	"context"
	"slices"
	"sync"

	"github.com/jsamuelsen11/projectboard/internal/domain/project"
)

// Hub keeps the latest snapshot and delivers new ones to subscribers.
//
// Each subscriber has a one-slot buffer. A subscriber that falls behind
// loses intermediate snapshots and receives only the newest, so Publish
// never blocks on a slow reader.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]chan []project.Project
	nextID uint64
	latest []project.Project
	closed bool
}

// NewHub creates a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan []project.Project)}
}

// Publish is a ports.Listener. It records projects as the latest snapshot and
// offers a copy to every subscriber.
func (h *Hub) Publish(_ context.Context, projects []project.Project) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.latest = slices.Clone(projects)
	for _, ch := range h.subs {
		offer(ch, slices.Clone(projects))
	}
}

// Subscribe registers a subscriber. The returned channel receives a snapshot
// after every change; it is closed by cancel or by Close. cancel is safe to
// call more than once.
//
// If seed is not nil its snapshot is queued immediately, unless a change has
// already been published in which case that newer snapshot is queued instead.
func (h *Hub) Subscribe(seed []project.Project) (<-chan []project.Project, func()) {
	ch := make(chan []project.Project, 1)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return ch, func() {}
	}

	switch {
	case h.latest != nil:
		ch <- slices.Clone(h.latest)
	case seed != nil:
		ch <- seed
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close closes every subscriber channel. Later publishes are ignored and
// later subscribers receive a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// offer replaces any unread snapshot in ch with projects.
func offer(ch chan []project.Project, projects []project.Project) {
	select {
	case <-ch:
	default:
	}
	ch <- projects
}
