package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sahanw/restopos/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type orderRow struct {
	ID            string    `db:"id"`
	OrderNumber   string    `db:"order_number"`
	TableNumber   string    `db:"table_number"`
	PaymentMethod string    `db:"payment_method"`
	Total         float64   `db:"total"`
	Status        string    `db:"status"`
	RefundStatus  string    `db:"refund_status"`
	CreatedAt     time.Time `db:"created_at"`
}

type orderItemRow struct {
	ID          string  `db:"id"`
	OrderID     string  `db:"order_id"`
	MenuItemID  string  `db:"menu_item_id"`
	Quantity    int     `db:"quantity"`
	Price       float64 `db:"price"`
	Name        string  `db:"name"`
	Category    string  `db:"category"`
	Subcategory string  `db:"subcategory"`
	Description string  `db:"description"`
	ImageURL    *string `db:"image_url"`
	Notes       string  `db:"notes"`
}

func (r orderRow) toModel(items []orderItemRow) model.Order {
	o := model.Order{
		ID:            r.OrderNumber,
		Total:         r.Total,
		Status:        model.OrderStatus(r.Status),
		RefundStatus:  model.RefundStatus(r.RefundStatus),
		Timestamp:     r.CreatedAt,
		PaymentMethod: model.PaymentMethod(r.PaymentMethod),
		TableNumber:   r.TableNumber,
	}
	if o.RefundStatus == "" {
		o.RefundStatus = model.RefundNone
	}
	for _, it := range items {
		o.Items = append(o.Items, model.OrderItem{
			MenuItem: model.MenuItem{
				ID:          it.MenuItemID,
				Name:        it.Name,
				Price:       it.Price,
				Category:    model.Category(it.Category),
				Subcategory: it.Subcategory,
				Description: it.Description,
				ImageURL:    it.ImageURL,
				Available:   true,
			},
			Quantity: it.Quantity,
			Notes:    it.Notes,
		})
	}
	return o
}

// Create inserts the order header and its item rows. The two inserts are not
// wrapped in a transaction; a failure between them is the partial-write gap
// the sync layer knowingly carries, and the caller falls back to the local
// ledger on any error here.
func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	rowID := uuid.New().String()

	header := orderRow{
		ID:            rowID,
		OrderNumber:   o.ID,
		TableNumber:   o.TableNumber,
		PaymentMethod: string(o.PaymentMethod),
		Total:         o.Total,
		Status:        string(o.Status),
		RefundStatus:  string(o.RefundStatus),
		CreatedAt:     o.Timestamp,
	}

	_, err := r.DB.NamedExecContext(ctx, `
        INSERT INTO orders (id, order_number, table_number, payment_method, total, status, refund_status, created_at)
        VALUES (:id, :order_number, :table_number, :payment_method, :total, :status, :refund_status, :created_at)
    `, header)
	if err != nil {
		return err
	}

	items := make([]orderItemRow, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemRow{
			ID:          uuid.New().String(),
			OrderID:     rowID,
			MenuItemID:  it.MenuItem.ID,
			Quantity:    it.Quantity,
			Price:       it.MenuItem.Price,
			Name:        it.MenuItem.Name,
			Category:    string(it.MenuItem.Category),
			Subcategory: it.MenuItem.Subcategory,
			Description: it.MenuItem.Description,
			ImageURL:    it.MenuItem.ImageURL,
			Notes:       it.Notes,
		})
	}

	_, err = r.DB.NamedExecContext(ctx, `
        INSERT INTO order_items (id, order_id, menu_item_id, quantity, price, name, category, subcategory, description, image_url, notes)
        VALUES (:id, :order_id, :menu_item_id, :quantity, :price, :name, :category, :subcategory, :description, :image_url, :notes)
    `, items)
	return err
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Order, error) {
	var rows []orderRow
	err := r.DB.SelectContext(ctx, &rows, `SELECT * FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []model.Order{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	query, args, err := sqlx.In(`SELECT * FROM order_items WHERE order_id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var itemRows []orderItemRow
	if err := r.DB.SelectContext(ctx, &itemRows, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}

	itemsByOrder := make(map[string][]orderItemRow, len(rows))
	for _, it := range itemRows {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it)
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel(itemsByOrder[row.ID]))
	}
	return orders, nil
}

func (r *PGRepository) FindByCode(ctx context.Context, code string) (*model.Order, error) {
	var row orderRow
	err := r.DB.GetContext(ctx, &row, `SELECT * FROM orders WHERE order_number = $1 LIMIT 1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var itemRows []orderItemRow
	if err := r.DB.SelectContext(ctx, &itemRows, `SELECT * FROM order_items WHERE order_id = $1`, row.ID); err != nil {
		return nil, err
	}

	o := row.toModel(itemRows)
	return &o, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, code string, status model.OrderStatus) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE order_number = $2`, string(status), code)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepository) UpdateRefundStatus(ctx context.Context, code string, status model.RefundStatus) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE orders SET refund_status = $1 WHERE order_number = $2`, string(status), code)
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
		return sql.ErrNoRows
	}
	return nil
}
