// Package referral implements the referral ledger: code issuance and the
// crediting of completed orders to referrers.
package referral

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when no record exists for a referral code.
	ErrNotFound = errors.New("referral code not found")
	// ErrCodeExists is returned by Create when the generated code collides
	// with an existing record. The issuer retries with a fresh code.
	ErrCodeExists = errors.New("referral code already exists")
)

// Record tracks a referrer's accumulated customers, completed orders, and
// earnings. Code, referrer identity, and CreatedAt are immutable after
// issuance; only Credit mutates the rest.
//
// Invariants: TotalEarnings == len(CompletedOrders) * bonus, and
// len(ReferredCustomers) == len(CompletedOrders): one customer email is
// appended per credited order, duplicates included.
type Record struct {
	ID                string
	Code              string
	ReferrerEmail     string
	ReferrerName      string
	ReferredCustomers []string
	CompletedOrders   []string
	TotalEarnings     decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Repository defines persistence operations for referral records.
//
// Credit must be atomic with respect to concurrent credits against the same
// code: it appends customerEmail and orderID, recomputes the earnings from
// the new completed-order count times bonus, and bumps UpdatedAt, all as one
// store-level operation. It returns ErrNotFound when the code does not
// resolve.
type Repository interface {
	Create(ctx context.Context, r *Record) (string, error)
	FindByCode(ctx context.Context, code string) (*Record, error)
	Credit(ctx context.Context, code, customerEmail, orderID string, bonus decimal.Decimal) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}
