package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/sahanw/restopos/internal/settings"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value json.RawMessage
	err := r.DB.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, settings.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *PGRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	query := `
        INSERT INTO settings (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
    `
	_, err := r.DB.ExecContext(ctx, query, key, value)
	return err
}
