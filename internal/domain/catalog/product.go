// Package catalog defines the fixed tracksuit catalog the storefront sells.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/solkim/tracksuit-store/internal/domain/cart"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
type Product struct {
	ID          string
	Name        string
	Category    cart.Category
	Image       string
	Description string
	Price       decimal.Decimal
	Sizes       []string
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}
