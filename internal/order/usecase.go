package order

import (
	"context"

	"github.com/sahanw/restopos/internal/model"
	"github.com/sahanw/restopos/internal/order/dto"
)

// UseCase is the single read/write API for orders. Create and GetAll absorb
// remote failures into the local fallback ledger and never surface them;
// UpdateStatus and UpdateRefundStatus report errors to the caller.
type UseCase interface {
	Create(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetAll(ctx context.Context) []model.Order
	Advance(ctx context.Context, code string) (model.OrderStatus, error)
	UpdateStatus(ctx context.Context, code string, status model.OrderStatus) error
	UpdateRefundStatus(ctx context.Context, code string, status model.RefundStatus) error
}
