package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solkim/tracksuit-store/internal/domain/catalog"
)

const selectProductSQL = `SELECT id, name, category, image, description, price, sizes
	FROM products`

const upsertProductSQL = `INSERT INTO products (id, name, category, image, description, price, sizes)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		category = EXCLUDED.category,
		image = EXCLUDED.image,
		description = EXCLUDED.description,
		price = EXCLUDED.price,
		sizes = EXCLUDED.sizes`

var _ catalog.Repository = (*ProductRepository)(nil)

// ProductRepository implements catalog.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, selectProductSQL+` ORDER BY category, id`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, *p)
	}

	return out, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	row := r.pool.QueryRow(ctx, selectProductSQL+` WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("fetching product %q: %w", id, err)
	}

	return p, nil
}

// Upsert writes a product, replacing any existing row with the same id. It is
// used by the seeding tool to load the fixed catalog.
func (r *ProductRepository) Upsert(ctx context.Context, p *catalog.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Category, p.Image, p.Description, p.Price, p.Sizes,
	)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Image, &p.Description, &p.Price, &p.Sizes)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
