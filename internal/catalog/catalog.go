// Package catalog decodes the read-only product catalog and builds cart line
// items from it. The catalog is never mutated; the stores treat it purely as
// a source of line item construction data.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"faunastore/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type Review struct {
	Score string `json:"score"`
}

// Product is one catalog record. Prices and weight labels are per-variant,
// index-aligned; prices arrive as locale-formatted strings with a comma
// decimal separator.
type Product struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Price         []string `json:"price"`
	Heft          []string `json:"heft"`
	Images        []string `json:"images,omitempty"`
	Category      string   `json:"category"`
	Brand         string   `json:"brand"`
	Age           string   `json:"age,omitempty"`
	PackagingType string   `json:"packagingType,omitempty"`
	Appointment   string   `json:"appointment,omitempty"`
	Discount      int      `json:"discount,omitempty"`
	IsNew         int      `json:"isNew,omitempty"`
	Review        []Review `json:"review,omitempty"`
	Count         []int    `json:"count,omitempty"`
}

type Catalog struct {
	products []Product
	byID     map[int]Product
}

// Load decodes a catalog JSON document.
func Load(r io.Reader) (*Catalog, error) {
	var products []Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	byID := make(map[int]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}, nil
}

// LoadFile decodes a catalog from a JSON file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Empty returns a catalog with no products.
func Empty() *Catalog {
	return &Catalog{byID: make(map[int]Product)}
}

// Products returns every catalog record.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product returns the record with the given id.
func (c *Catalog) Product(id int) (Product, bool) {
	p, found := c.byID[id]
	return p, found
}

// LineItem builds a cart line item for a product variant, the way the
// product view does: composite id, first image, the variant's weight label,
// rating from the first review score.
func (c *Catalog) LineItem(productID, variant, quantity int) (domain.LineItem, error) {
	p, found := c.byID[productID]
	if !found {
		return domain.LineItem{}, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}
	if variant < 0 || variant >= len(p.Price) {
		return domain.LineItem{}, fmt.Errorf("product %d has no variant %d", productID, variant)
	}
	if quantity < 1 {
		return domain.LineItem{}, fmt.Errorf("quantity %d is below 1", quantity)
	}

	price, err := domain.ParsePrice(p.Price[variant])
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("product %d variant %d: %w", productID, variant, err)
	}

	item := domain.LineItem{
		ID:          domain.CompositeID(productID, variant),
		ProductID:   productID,
		Title:       p.Name,
		UnitPrice:   price,
		Quantity:    quantity,
		Variant:     variant,
		ReviewCount: len(p.Review),
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0]
	}
	if variant < len(p.Heft) {
		item.Weight = p.Heft[variant]
	}
	if len(p.Review) > 0 {
		item.Rating = parseScore(p.Review[0].Score)
	}
	return item, nil
}

// parseScore reads a review score string; anything unreadable counts as 0.
func parseScore(s string) float64 {
	score, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return score
}
