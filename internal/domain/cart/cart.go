// Package cart holds the client-assembled cart model and the pure pricing
// functions the order pipeline re-runs server-side.
package cart

import (
	"github.com/shopspring/decimal"
)

// Category enumerates the product lines sold by the store.
type Category string

const (
	CategoryKids   Category = "kids"
	CategoryLadies Category = "ladies"
	CategoryMens   Category = "mens"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryKids, CategoryLadies, CategoryMens:
		return true
	}
	return false
}

// LineItem is a single cart entry. Items are mutable while the cart is held
// client-side and frozen once they become part of an order.
type LineItem struct {
	ItemID       string          `json:"itemId"`
	ItemName     string          `json:"itemName"`
	Category     Category        `json:"category"`
	Image        string          `json:"image"`
	Quantity     int             `json:"quantity"`
	SelectedSize string          `json:"selectedSize"`
	Price        decimal.Decimal `json:"price"`
}

// TotalPrice returns the sum of price * quantity across all items.
func TotalPrice(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		sum = sum.Add(item.Price.Mul(qty))
	}
	return sum
}

// TotalQuantity returns the sum of quantities across all items.
func TotalQuantity(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// MinimumOrderPolicy is the pair of thresholds a cart must meet before
// checkout is permitted. Both thresholds are configuration, not constants:
// the store's product lines run different catalogs and may use different
// minimums.
type MinimumOrderPolicy struct {
	MinQuantity int
	MinAmount   decimal.Decimal
}

// DefaultMinimumOrderPolicy mirrors the storefront defaults: at least 3 items
// totalling at least $30.
func DefaultMinimumOrderPolicy() MinimumOrderPolicy {
	return MinimumOrderPolicy{
		MinQuantity: 3,
		MinAmount:   decimal.NewFromInt(30),
	}
}

// Meets reports whether the given totals satisfy both thresholds.
func (p MinimumOrderPolicy) Meets(totalQuantity int, totalPrice decimal.Decimal) bool {
	return totalQuantity >= p.MinQuantity && totalPrice.GreaterThanOrEqual(p.MinAmount)
}
