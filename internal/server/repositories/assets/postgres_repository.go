package assets

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/biscotto/internal/dbx"
	"github.com/dmitrijs2005/biscotto/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Enqueue records publicID for deletion. Enqueueing the same id twice is a no-op.
func (r *PostgresRepository) Enqueue(ctx context.Context, publicID string, reason string) error {
	query :=
		`INSERT INTO orphaned_assets (public_id, reason)
		 VALUES ($1, $2)
		 ON CONFLICT (public_id) DO NOTHING
		 `
	if _, err := r.db.ExecContext(ctx, query, publicID, reason); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, publicID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orphaned_assets WHERE public_id = $1`, publicID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListPending returns up to limit entries, oldest first.
func (r *PostgresRepository) ListPending(ctx context.Context, limit int) ([]models.OrphanedAsset, error) {
	query :=
		`SELECT public_id, reason, attempts, created_at
		 FROM orphaned_assets
		 ORDER BY created_at
		 LIMIT $1
		 `
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.OrphanedAsset
	for rows.Next() {
		var a models.OrphanedAsset
		if err := rows.Scan(&a.PublicID, &a.Reason, &a.Attempts, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// MarkAttempt bumps the attempt counter and stores the last failure reason.
func (r *PostgresRepository) MarkAttempt(ctx context.Context, publicID string, reason string) error {
	query :=
		`UPDATE orphaned_assets SET attempts = attempts + 1, reason = $2
		 WHERE public_id = $1
		 `
	if _, err := r.db.ExecContext(ctx, query, publicID, reason); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
