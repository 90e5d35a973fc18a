package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solkim/tracksuit-store/internal/domain/auth"
)

const selectAPIKeySQL = `SELECT id, key_hash, name, scopes
	FROM api_keys WHERE key_hash = $1 AND active = TRUE`

const upsertAPIKeySQL = `INSERT INTO api_keys (id, key_hash, name, scopes)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET
		key_hash = EXCLUDED.key_hash,
		name = EXCLUDED.name,
		scopes = EXCLUDED.scopes,
		active = TRUE`

var _ auth.Repository = (*APIKeyRepository)(nil)

// APIKeyRepository provides admin API key lookups backed by PostgreSQL.
type APIKeyRepository struct {
	pool *pgxpool.Pool
}

// NewAPIKeyRepository returns an APIKeyRepository that uses the given pool.
func NewAPIKeyRepository(pool *pgxpool.Pool) *APIKeyRepository {
	return &APIKeyRepository{pool: pool}
}

// FindByHash looks up an active API key by its peppered hash.
func (r *APIKeyRepository) FindByHash(ctx context.Context, hash string) (*auth.APIKey, error) {
	var key auth.APIKey
	err := r.pool.QueryRow(ctx, selectAPIKeySQL, hash).Scan(&key.ID, &key.KeyHash, &key.Name, &key.Scopes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrKeyNotFound
		}
		return nil, fmt.Errorf("finding api key: %w", err)
	}
	return &key, nil
}

// Upsert writes a key record, reactivating it if it was disabled. Used by the
// seeding tool.
func (r *APIKeyRepository) Upsert(ctx context.Context, id, keyHash, name string, scopes []string) error {
	_, err := r.pool.Exec(ctx, upsertAPIKeySQL, id, keyHash, name, scopes)
	if err != nil {
		return fmt.Errorf("upserting api key %q: %w", id, err)
	}
	return nil
}
