package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solkim/tracksuit-store/internal/domain/cart"
	"github.com/solkim/tracksuit-store/internal/domain/order"
)

const createOrderSQL = `INSERT INTO orders (
		customer_name, customer_email, customer_whatsapp, delivery_address,
		cart_items, total_price, total_quantity, payment_id,
		referral_code, referred_by, status
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id::text`

const selectOrderSQL = `SELECT id::text, customer_name, customer_email,
		customer_whatsapp, delivery_address, cart_items, total_price,
		total_quantity, payment_id, COALESCE(referral_code, ''),
		COALESCE(referred_by, ''), status, created_at, updated_at
	FROM orders`

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order and returns the store-assigned id. Cart items
// are serialized to JSON for the JSONB column; the referral columns are
// written as NULL when absent rather than as empty strings.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (string, error) {
	itemsJSON, err := json.Marshal(o.CartItems)
	if err != nil {
		return "", fmt.Errorf("marshaling cart items: %w", err)
	}

	var id string
	err = r.pool.QueryRow(ctx, createOrderSQL,
		o.CustomerName, o.CustomerEmail, o.CustomerWhatsapp, o.DeliveryAddress,
		itemsJSON, o.TotalPrice, o.TotalQuantity, o.PaymentID,
		nullIfEmpty(o.ReferralCode), nullIfEmpty(o.ReferredBy), string(o.Status),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating order: %w", err)
	}

	return id, nil
}

// GetByID fetches a single order by its id.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	row := r.pool.QueryRow(ctx, selectOrderSQL+` WHERE id::text = $1`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %q not found: %w", id, err)
		}
		return nil, fmt.Errorf("fetching order %q: %w", id, err)
	}

	return o, nil
}

// ListRecent returns up to limit orders, newest first.
func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, selectOrderSQL+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		out = append(out, *o)
	}

	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
		status    string
	)
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.CustomerEmail,
		&o.CustomerWhatsapp, &o.DeliveryAddress, &itemsJSON, &o.TotalPrice,
		&o.TotalQuantity, &o.PaymentID, &o.ReferralCode,
		&o.ReferredBy, &status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Status = order.Status(status)
	if err := json.Unmarshal(itemsJSON, &o.CartItems); err != nil {
		return nil, fmt.Errorf("unmarshaling cart items: %w", err)
	}
	if o.CartItems == nil {
		o.CartItems = []cart.LineItem{}
	}

	return &o, nil
}

// nullIfEmpty maps "" to SQL NULL for the sparse optional columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
