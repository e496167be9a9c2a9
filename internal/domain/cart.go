package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItem is one purchasable product variant in the cart. The ID is the
// composite cart key (product id + variant index), so two variants of the
// same product are distinct line items.
type LineItem struct {
	ID          string          `json:"id"`
	ProductID   int             `json:"productId"`
	Title       string          `json:"title"`
	Image       string          `json:"image,omitempty"`
	UnitPrice   decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Weight      string          `json:"weight,omitempty"`
	Variant     int             `json:"variant"`
	Rating      float64         `json:"rating,omitempty"`
	ReviewCount int             `json:"reviewCount,omitempty"`
}

// Subtotal is unit price times quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CompositeID builds the cart key for a product variant.
func CompositeID(productID, variant int) string {
	return fmt.Sprintf("%d-%d", productID, variant)
}

// CloneItems returns an independent copy of a line item slice.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// Total sums unit price times quantity over the given items.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
