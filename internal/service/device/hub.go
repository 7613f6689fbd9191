package device

import (
	"context"
	"sync"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
)

// DefaultWatchBuffer is the per-subscriber queue length.
const DefaultWatchBuffer = 16

// Hub broadcasts state updates to watchers. A slow watcher loses its
// oldest queued update, never blocking the publisher.
type Hub struct {
	// mu guards subscribers, next and last.
	mu sync.Mutex
	// subscribers maps subscription IDs to their queues.
	subscribers map[uint64]chan *domain.Snapshot
	// next is the ID handed to the next subscriber.
	next uint64
	// last is replayed to new subscribers.
	last *domain.Snapshot
}

// NewHub returns a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint64]chan *domain.Snapshot),
	}
}

// Subscribe registers a watcher. The channel first receives the latest
// snapshot, if any. The returned cancel func closes the channel and is
// safe to call more than once.
func (h *Hub) Subscribe(buffer int) (<-chan *domain.Snapshot, func()) {
	if buffer <= 0 {
		buffer = DefaultWatchBuffer
	}

	ch := make(chan *domain.Snapshot, buffer)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subscribers[id] = ch

	if h.last != nil {
		ch <- h.last.Clone()
	}
	h.mu.Unlock()

	var once sync.Once

	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			delete(h.subscribers, id)
			close(ch)
		})
	}

	return ch, cancel
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscribers)
}

// PublishMorse implements Publisher. Watchers only follow status.
func (h *Hub) PublishMorse(context.Context, string) error {
	return nil
}

// PublishStatus implements Publisher.
func (h *Hub) PublishStatus(_ context.Context, snapshot *domain.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = snapshot.Clone()

	for _, ch := range h.subscribers {
		select {
		case ch <- snapshot.Clone():
			continue
		default:
		}

		// Full: drop the oldest. Only this method sends, so the retry fits.
		select {
		case <-ch:
		default:
		}

		select {
		case ch <- snapshot.Clone():
		default:
		}
	}
}
