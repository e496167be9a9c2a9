// Package notify implements the synchronous observer list shared by the
// storefront stores. Subscribers are invoked after every successful mutation,
// before the mutating call returns.
package notify

import (
	"sync"

	"github.com/google/uuid"
)

type Hub struct {
	mu   sync.RWMutex
	subs map[string]func()
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]func())}
}

// Subscribe registers fn and returns a function that removes it again.
// Unsubscribing twice is harmless.
func (h *Hub) Subscribe(fn func()) (unsubscribe func()) {
	id := uuid.NewString()

	h.mu.Lock()
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Notify invokes every subscriber synchronously, in no guaranteed order.
// The lock is released before the callbacks run, so a subscriber may read
// store state or manage its own subscription.
func (h *Hub) Notify() {
	h.mu.RLock()
	fns := make([]func(), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
