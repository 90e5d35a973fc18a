package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/solkim/tracksuit-store/internal/domain/referral"
)

const createReferralSQL = `INSERT INTO referrals (
		referral_code, referrer_email, referrer_name, total_earnings
	) VALUES ($1, $2, $3, $4)
	ON CONFLICT (referral_code) DO NOTHING
	RETURNING id::text`

const importReferralSQL = `INSERT INTO referrals (
		referral_code, referrer_email, referrer_name,
		referred_customers, completed_orders, total_earnings
	) VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (referral_code) DO NOTHING
	RETURNING id::text`

// creditReferralSQL is the single-statement atomic credit. Postgres locks the
// row for the duration of the UPDATE, so concurrent credits against the same
// code serialize and each computes its earnings from the row it actually
// appended to. There is deliberately no application-side read-modify-write.
const creditReferralSQL = `UPDATE referrals
	SET referred_customers = array_append(referred_customers, $2),
		completed_orders   = array_append(completed_orders, $3),
		total_earnings     = (cardinality(completed_orders) + 1) * $4::numeric,
		updated_at         = now()
	WHERE referral_code = $1`

const selectReferralSQL = `SELECT id::text, referral_code, referrer_email,
		referrer_name, referred_customers, completed_orders, total_earnings,
		created_at, updated_at
	FROM referrals`

var _ referral.Repository = (*ReferralRepository)(nil)

// ReferralRepository implements referral.Repository backed by PostgreSQL.
type ReferralRepository struct {
	pool *pgxpool.Pool
}

// NewReferralRepository returns a ReferralRepository that uses the given pool.
func NewReferralRepository(pool *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{pool: pool}
}

// Create inserts a fresh referral record. The unique index on referral_code
// enforces uniqueness; a collision is reported as referral.ErrCodeExists so
// the issuer can regenerate.
func (r *ReferralRepository) Create(ctx context.Context, rec *referral.Record) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, createReferralSQL,
		rec.Code, rec.ReferrerEmail, rec.ReferrerName, rec.TotalEarnings,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// ON CONFLICT DO NOTHING returned no row: the code is taken.
		return "", referral.ErrCodeExists
	}
	if err != nil {
		return "", fmt.Errorf("creating referral %q: %w", rec.Code, err)
	}

	return id, nil
}

// Import inserts a reconstructed legacy record together with its credit
// history. The completed-order count has to land alongside the earnings:
// the credit statement recomputes earnings from that count, so an imported
// total without matching history would be wiped by the first credit.
func (r *ReferralRepository) Import(ctx context.Context, rec *referral.Record) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, importReferralSQL,
		rec.Code, rec.ReferrerEmail, rec.ReferrerName,
		rec.ReferredCustomers, rec.CompletedOrders, rec.TotalEarnings,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", referral.ErrCodeExists
	}
	if err != nil {
		return "", fmt.Errorf("importing referral %q: %w", rec.Code, err)
	}

	return id, nil
}

// FindByCode looks up a referral record by its exact code.
func (r *ReferralRepository) FindByCode(ctx context.Context, code string) (*referral.Record, error) {
	row := r.pool.QueryRow(ctx, selectReferralSQL+` WHERE referral_code = $1`, code)

	rec, err := scanReferral(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, referral.ErrNotFound
		}
		return nil, fmt.Errorf("finding referral %q: %w", code, err)
	}

	return rec, nil
}

// Credit atomically appends the customer and order to the record for code and
// recomputes the earnings from the new completed-order count.
func (r *ReferralRepository) Credit(ctx context.Context, code, customerEmail, orderID string, bonus decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx, creditReferralSQL, code, customerEmail, orderID, bonus)
	if err != nil {
		return fmt.Errorf("crediting referral %q: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return referral.ErrNotFound
	}
	return nil
}

// ListRecent returns up to limit referral records, newest first.
func (r *ReferralRepository) ListRecent(ctx context.Context, limit int) ([]referral.Record, error) {
	rows, err := r.pool.Query(ctx, selectReferralSQL+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing referrals: %w", err)
	}
	defer rows.Close()

	var out []referral.Record
	for rows.Next() {
		rec, err := scanReferral(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning referral: %w", err)
		}
		out = append(out, *rec)
	}

	return out, rows.Err()
}

func scanReferral(row pgx.Row) (*referral.Record, error) {
	var rec referral.Record
	err := row.Scan(
		&rec.ID, &rec.Code, &rec.ReferrerEmail,
		&rec.ReferrerName, &rec.ReferredCustomers, &rec.CompletedOrders,
		&rec.TotalEarnings, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
