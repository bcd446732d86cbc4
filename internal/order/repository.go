package order

import (
	"context"
	"errors"

	"github.com/sahanw/restopos/internal/model"
)

var ErrNotFound = errors.New("order not found")

// Repository is the remote-store side of order persistence. Mutations are
// keyed by the human-readable order code, not the internal row id.
type Repository interface {
	Create(ctx context.Context, o *model.Order) error
	FindAll(ctx context.Context) ([]model.Order, error)
	FindByCode(ctx context.Context, code string) (*model.Order, error)
	UpdateStatus(ctx context.Context, code string, status model.OrderStatus) error
	UpdateRefundStatus(ctx context.Context, code string, status model.RefundStatus) error
}
