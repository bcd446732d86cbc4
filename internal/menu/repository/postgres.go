package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/sahanw/restopos/internal/menu"
	"github.com/sahanw/restopos/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, item *model.MenuItem) error {
	query := `
        INSERT INTO menu_items (
            id, name, price, category, subcategory, description,
            image_url, available, created_at, updated_at
        )
        VALUES (
            :id, :name, :price, :category, :subcategory, :description,
            :image_url, :available, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) FindAll(ctx context.Context, includeDisabled bool) ([]model.MenuItem, error) {
	query := `SELECT * FROM menu_items`
	if !includeDisabled {
		query += ` WHERE available = TRUE`
	}
	query += ` ORDER BY category, subcategory, name`

	items := []model.MenuItem{}
	if err := r.DB.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.DB.GetContext(ctx, &item, `SELECT * FROM menu_items WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) Update(ctx context.Context, item *model.MenuItem) error {
	query := `
        UPDATE menu_items
        SET name = :name,
            price = :price,
            category = :category,
            subcategory = :subcategory,
            description = :description,
            image_url = :image_url,
            available = :available,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := r.DB.NamedExecContext(ctx, query, item)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE menu_items SET available = $1, updated_at = NOW() WHERE id = $2`,
		available, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return menu.ErrNotFound
	}
	return nil
}
