package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/dmitrijs2005/biscotto/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Ensure inserts defaults for settingsType unless a row already exists.
// The primary key on settings_type makes concurrent calls safe.
func (r *PostgresRepository) Ensure(ctx context.Context, settingsType string, defaults json.RawMessage) error {
	query :=
		`INSERT INTO settings (settings_type, data)
		 VALUES ($1, $2)
		 ON CONFLICT (settings_type) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, settingsType, []byte(defaults)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) get(ctx context.Context, query string, settingsType string) (*Document, error) {
	d := &Document{Type: settingsType}
	var data []byte
	err := r.db.QueryRowContext(ctx, query, settingsType).Scan(&data, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	d.Data = data
	return d, nil
}

func (r *PostgresRepository) Get(ctx context.Context, settingsType string) (*Document, error) {
	return r.get(ctx, `SELECT data, updated_at FROM settings WHERE settings_type = $1`, settingsType)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, settingsType string) (*Document, error) {
	return r.get(ctx, `SELECT data, updated_at FROM settings WHERE settings_type = $1 FOR UPDATE`, settingsType)
}

// Put replaces the stored document, creating it when absent.
func (r *PostgresRepository) Put(ctx context.Context, settingsType string, data json.RawMessage) (*Document, error) {
	query :=
		`INSERT INTO settings (settings_type, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (settings_type) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
		 RETURNING updated_at
		 `

	d := &Document{Type: settingsType, Data: data}
	if err := r.db.QueryRowContext(ctx, query, settingsType, []byte(data)).Scan(&d.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}
