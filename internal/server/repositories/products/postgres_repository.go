package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/dmitrijs2005/biscotto/internal/dbx"
	"github.com/dmitrijs2005/biscotto/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const productColumns = `id, name, price, category, stock, image, image_public_id,
	description, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Stock, &p.Image,
		&p.ImagePublicID, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

// escapeLike makes s safe for use inside a LIKE pattern with '\' as escape.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// List returns every product, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

// ListByCategory returns products whose category contains pattern, ignoring case.
func (r *PostgresRepository) ListByCategory(ctx context.Context, pattern string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		 WHERE category ILIKE '%' || $1 || '%' ESCAPE '\'
		 ORDER BY created_at DESC`
	return r.query(ctx, query, escapeLike(pattern))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	query :=
		`INSERT INTO products (name, price, category, stock, image, image_public_id, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Price, p.Category, p.Stock, p.Image, p.ImagePublicID, p.Description).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Update writes every mutable column of p.
func (r *PostgresRepository) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	query :=
		`UPDATE products
		 SET name = $2, price = $3, category = $4, stock = $5, image = $6,
		     image_public_id = $7, description = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Price, p.Category, p.Stock, p.Image, p.ImagePublicID, p.Description).
		Scan(&p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// Delete removes the product and returns the deleted row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns
	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}
