// Package cart owns the list of cart line items for the current session.
package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"faunastore/internal/domain"
	"faunastore/internal/notify"
	"faunastore/internal/storage"

	"github.com/shopspring/decimal"
)

// storageKey is the document name the cart persists under.
const storageKey = "cart"

// Store keeps line items in insertion order, with at most one item per
// composite id. Every mutation persists the full cart and notifies
// subscribers synchronously before returning; persistence failures are
// logged and the in-memory state stays authoritative.
type Store struct {
	mu    sync.RWMutex
	items []domain.LineItem

	store storage.PersistentStore
	hub   *notify.Hub
}

// NewStore restores the cart from persisted state. Absent or malformed
// state starts an empty cart.
func NewStore(ctx context.Context, ps storage.PersistentStore) *Store {
	s := &Store{
		store: ps,
		hub:   notify.NewHub(),
	}

	var items []domain.LineItem
	if err := ps.Load(ctx, storageKey, &items); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("cart restore error: %v", err)
		}
		return s
	}
	s.items = items
	return s
}

// AddItem merges the quantity into an existing item with the same id, or
// appends the item. It always succeeds; quantities are not capped. The
// updated cart is returned.
func (s *Store) AddItem(ctx context.Context, item domain.LineItem) []domain.LineItem {
	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	snapshot := domain.CloneItems(s.items)
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return snapshot
}

// RemoveItem removes the item with the given id. Removing an absent id is a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	kept := s.items[:0]
	removed := false
	for _, item := range s.items {
		if item.ID == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	snapshot := domain.CloneItems(s.items)
	s.mu.Unlock()

	if !removed {
		return
	}
	s.persist(ctx, snapshot)
}

// SetQuantity replaces the stored quantity for id. A quantity of zero or
// less removes the item; the cart never stores a non-positive quantity.
func (s *Store) SetQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, id)
		return
	}

	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			changed = true
			break
		}
	}
	snapshot := domain.CloneItems(s.items)
	s.mu.Unlock()

	if !changed {
		return
	}
	s.persist(ctx, snapshot)
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.persist(ctx, nil)
}

// Items returns a copy of the cart in display order.
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneItems(s.items)
}

// Contains reports whether an item with the given id is in the cart.
func (s *Store) Contains(id string) bool {
	return s.QuantityOf(id) > 0
}

// QuantityOf returns the stored quantity for id, or 0 if absent.
func (s *Store) QuantityOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item.Quantity
		}
	}
	return 0
}

// VariantInUse returns the variant index of any cart entry for the product.
// Product views use it to default to the variant already in the cart, so two
// variants of one product do not coexist silently.
func (s *Store) VariantInUse(productID int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ProductID == productID {
			return item.Variant, true
		}
	}
	return 0, false
}

// Total is the sum of unit price times quantity over the cart.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Total(s.items)
}

// Subscribe registers a callback invoked after every successful mutation.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	return s.hub.Subscribe(fn)
}

func (s *Store) persist(ctx context.Context, items []domain.LineItem) {
	if err := s.store.Save(ctx, storageKey, items); err != nil {
		// Best effort: the in-memory cart stays the source of truth
		log.Printf("cart persist error: %v", err)
	}
	s.hub.Notify()
}
