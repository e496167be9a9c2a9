package domain

import "github.com/shopspring/decimal"

// Order is an immutable snapshot of a cart at the moment of checkout.
// Products are copies of the cart line items, and TotalAmount is fixed at
// creation time and never recomputed.
type Order struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Products    []LineItem      `json:"products"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	o.Products = CloneItems(o.Products)
	return o
}
