package checkout

import (
	"context"

	"faunastore/internal/domain"
)

// recorder captures the sequence of store calls the checkout makes, so tests
// can assert the history write happens before the cart clear.
type recorder struct {
	calls []string

	items  []domain.LineItem
	orders []domain.Order
}

// MockCart implements CartStore over a recorder
type MockCart struct {
	rec *recorder
}

func (m *MockCart) Items() []domain.LineItem {
	return domain.CloneItems(m.rec.items)
}

func (m *MockCart) AddItem(_ context.Context, item domain.LineItem) []domain.LineItem {
	m.rec.calls = append(m.rec.calls, "cart.AddItem")
	for i := range m.rec.items {
		if m.rec.items[i].ID == item.ID {
			m.rec.items[i].Quantity += item.Quantity
			return domain.CloneItems(m.rec.items)
		}
	}
	m.rec.items = append(m.rec.items, item)
	return domain.CloneItems(m.rec.items)
}

func (m *MockCart) Clear(_ context.Context) {
	m.rec.calls = append(m.rec.calls, "cart.Clear")
	m.rec.items = nil
}

// MockHistory implements HistoryStore over a recorder
type MockHistory struct {
	rec *recorder
}

func (m *MockHistory) AddOrder(_ context.Context, order domain.Order) {
	m.rec.calls = append(m.rec.calls, "history.AddOrder")
	m.rec.orders = append([]domain.Order{order}, m.rec.orders...)
}

func (m *MockHistory) Order(id string) (domain.Order, bool) {
	for _, o := range m.rec.orders {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return domain.Order{}, false
}

func setupMocks() (*Service, *recorder) {
	rec := &recorder{}
	svc := NewService(&MockCart{rec: rec}, &MockHistory{rec: rec})
	return svc, rec
}
