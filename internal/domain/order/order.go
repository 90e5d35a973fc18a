// Package order implements the order submission pipeline: validation,
// persistence, referral crediting, and notification hand-off.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solkim/tracksuit-store/internal/domain/cart"
)

// Status enumerates the order lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Order is an immutable, persisted record of a completed purchase. The store
// assigns ID and both timestamps at write time; nothing mutates an order
// afterwards.
type Order struct {
	ID               string
	CustomerName     string
	CustomerEmail    string
	CustomerWhatsapp string
	DeliveryAddress  string
	CartItems        []cart.LineItem
	TotalPrice       decimal.Decimal
	TotalQuantity    int
	PaymentID        string

	// ReferralCode is the code the order was placed under, empty when none.
	// ReferredBy is reserved and never populated.
	ReferralCode string
	ReferredBy   string

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines persistence operations for orders. Create assigns the
// id and timestamps server-side and returns the new id.
type Repository interface {
	Create(ctx context.Context, o *Order) (string, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	ListRecent(ctx context.Context, limit int) ([]Order, error)
}
