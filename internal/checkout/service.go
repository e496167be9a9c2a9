// Package checkout implements the one cross-store operation of the
// storefront: turning the current cart into a recorded order, and replaying
// a past order back into the cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"faunastore/internal/domain"
)

var (
	ErrEmptyCart     = errors.New("cart is empty, nothing to checkout")
	ErrOrderNotFound = errors.New("order not found")
)

// CartStore is the slice of the cart API the checkout needs.
type CartStore interface {
	Items() []domain.LineItem
	AddItem(ctx context.Context, item domain.LineItem) []domain.LineItem
	Clear(ctx context.Context)
}

// HistoryStore is the slice of the order history API the checkout needs.
type HistoryStore interface {
	AddOrder(ctx context.Context, order domain.Order)
	Order(id string) (domain.Order, bool)
}

type Service struct {
	cart    CartStore
	history HistoryStore

	now func() time.Time

	mu       sync.Mutex
	lastTick int64
}

func NewService(cart CartStore, history HistoryStore) *Service {
	return &Service{
		cart:    cart,
		history: history,
		now:     time.Now,
	}
}

// Checkout snapshots the cart into a new order, records it in the history
// and clears the cart. There is no rollback between the two store writes: a
// crash after the history write leaves the cart intact with the order
// already recorded, which is the accepted weak-consistency window of a
// single-user session. The history write always happens first.
func (s *Service) Checkout(ctx context.Context) (domain.Order, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	now := s.now()
	order := domain.Order{
		ID:          s.orderID(now),
		Date:        now.Format("02.01.2006"),
		Products:    domain.CloneItems(items),
		TotalAmount: domain.Total(items),
	}

	s.history.AddOrder(ctx, order)
	s.cart.Clear(ctx)

	return order, nil
}

// Repeat re-adds every product snapshot of a past order into the cart,
// merging quantities under the standard add rule. The composite id is
// recomputed from product and variant, so a repeated item merges with a
// matching item already in the cart.
func (s *Service) Repeat(ctx context.Context, orderID string) error {
	order, found := s.history.Order(orderID)
	if !found {
		return ErrOrderNotFound
	}

	for _, product := range order.Products {
		product.ID = domain.CompositeID(product.ProductID, product.Variant)
		s.cart.AddItem(ctx, product)
	}
	return nil
}

// orderID derives an id unique within this session from the checkout time:
// the calendar date followed by the nanosecond timestamp, bumped past the
// previous id if the clock has not advanced.
func (s *Service) orderID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tick := now.UnixNano()
	if tick <= s.lastTick {
		tick = s.lastTick + 1
	}
	s.lastTick = tick

	return fmt.Sprintf("%s%d", now.Format("20060102"), tick)
}
