// Package history owns the list of past orders, newest first.
package history

import (
	"context"
	"errors"
	"log"
	"sync"

	"faunastore/internal/domain"
	"faunastore/internal/notify"
	"faunastore/internal/storage"
)

const storageKey = "orderHistory"

// Store grows by prepend on checkout and shrinks by explicit removal; orders
// never auto-expire. Orders are handed out as deep copies so a caller can
// never mutate a recorded snapshot.
type Store struct {
	mu     sync.RWMutex
	orders []domain.Order

	store storage.PersistentStore
	hub   *notify.Hub
}

// NewStore restores the order history from persisted state. Absent or
// malformed state starts an empty history.
func NewStore(ctx context.Context, ps storage.PersistentStore) *Store {
	s := &Store{
		store: ps,
		hub:   notify.NewHub(),
	}

	var orders []domain.Order
	if err := ps.Load(ctx, storageKey, &orders); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("order history restore error: %v", err)
		}
		return s
	}
	s.orders = orders
	return s
}

// AddOrder prepends the order. Id uniqueness is the caller's responsibility;
// the store does not de-duplicate.
func (s *Store) AddOrder(ctx context.Context, order domain.Order) {
	s.mu.Lock()
	s.orders = append([]domain.Order{order.Clone()}, s.orders...)
	s.mu.Unlock()

	s.persist(ctx)
}

// RemoveOrder removes the order with the given id. Removing an absent id is
// a no-op.
func (s *Store) RemoveOrder(ctx context.Context, id string) {
	s.mu.Lock()
	kept := s.orders[:0]
	removed := false
	for _, o := range s.orders {
		if o.ID == id {
			removed = true
			continue
		}
		kept = append(kept, o)
	}
	s.orders = kept
	s.mu.Unlock()

	if !removed {
		return
	}
	s.persist(ctx)
}

// Order returns a copy of the order with the given id.
func (s *Store) Order(id string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return domain.Order{}, false
}

// Orders returns a copy of the history, newest first.
func (s *Store) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out
}

// Subscribe registers a callback invoked after every successful mutation.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	return s.hub.Subscribe(fn)
}

func (s *Store) persist(ctx context.Context) {
	s.mu.RLock()
	orders := make([]domain.Order, len(s.orders))
	copy(orders, s.orders)
	s.mu.RUnlock()

	if err := s.store.Save(ctx, storageKey, orders); err != nil {
		log.Printf("order history persist error: %v", err)
	}
	s.hub.Notify()
}
