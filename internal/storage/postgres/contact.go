package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solkim/tracksuit-store/internal/domain/contact"
)

const createContactSQL = `INSERT INTO contacts (name, email, message)
	VALUES ($1, $2, $3)
	RETURNING id::text`

const selectContactSQL = `SELECT id::text, name, email, message, created_at
	FROM contacts`

var _ contact.Repository = (*ContactRepository)(nil)

// ContactRepository implements contact.Repository backed by PostgreSQL.
type ContactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository returns a ContactRepository that uses the given pool.
func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Create(ctx context.Context, m *contact.Message) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, createContactSQL, m.Name, m.Email, m.Message).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating contact message: %w", err)
	}

	return id, nil
}

func (r *ContactRepository) ListRecent(ctx context.Context, limit int) ([]contact.Message, error) {
	rows, err := r.pool.Query(ctx, selectContactSQL+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	defer rows.Close()

	var out []contact.Message
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact message: %w", err)
		}
		out = append(out, *m)
	}

	return out, rows.Err()
}

func scanContact(row pgx.Row) (*contact.Message, error) {
	var m contact.Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
