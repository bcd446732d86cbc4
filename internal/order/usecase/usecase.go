package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sahanw/restopos/internal/bus"
	"github.com/sahanw/restopos/internal/ledger"
	"github.com/sahanw/restopos/internal/model"
	"github.com/sahanw/restopos/internal/order"
	"github.com/sahanw/restopos/internal/order/dto"
	"github.com/sahanw/restopos/internal/store"
)

var (
	ErrNoItems         = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("order item quantity must be positive")
)

type orderUseCase struct {
	repo     order.Repository
	notifier store.Notifier
	ledger   *ledger.Ledger
	bus      *bus.Bus
	logger   *zap.Logger
}

func NewOrderUseCase(repo order.Repository, notifier store.Notifier, led *ledger.Ledger, b *bus.Bus, log *zap.Logger) order.UseCase {
	return &orderUseCase{
		repo:     repo,
		notifier: notifier,
		ledger:   led,
		bus:      b,
		logger:   log,
	}
}

// Create persists a new order. A remote failure degrades to the local
// fallback ledger; exactly one of the two paths yields the returned order,
// and only input validation can produce an error.
func (uc *orderUseCase) Create(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range input.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	o := buildOrder(input)

	if err := uc.repo.Create(ctx, o); err != nil {
		uc.logger.Warn("remote order create failed, falling back to local ledger",
			zap.String("order", o.ID), zap.Error(err))

		o.Unsynced = true
		if ledgerErr := uc.ledger.Append(*o); ledgerErr != nil {
			uc.logger.Error("fallback ledger append failed",
				zap.String("order", o.ID), zap.Error(ledgerErr))
		}

		// No remote propagation possible; notify this terminal directly.
		uc.bus.Publish(bus.OrdersForceUpdate, order.ChangePayload{Order: o, Fallback: true})
		uc.bus.Publish(bus.NewOrderCreated, order.ChangePayload{Order: o, Fallback: true})
		return o, nil
	}

	// Other terminals learn about the order from the change feed; the local
	// bus events only serve same-process subscribers.
	if err := uc.notifier.Publish(ctx, store.TableOrders); err != nil {
		uc.logger.Warn("order change publish failed", zap.String("order", o.ID), zap.Error(err))
	}
	uc.bus.Publish(bus.OrdersForceUpdate, order.ChangePayload{Order: o})
	uc.bus.Publish(bus.NewOrderCreated, order.ChangePayload{Order: o})

	return o, nil
}

func buildOrder(input *dto.CreateOrderInput) *model.Order {
	subtotal := 0.0
	for _, it := range input.Items {
		subtotal += it.Subtotal()
	}
	total := subtotal
	if input.ServiceChargePct > 0 {
		total += subtotal * input.ServiceChargePct / 100
	}

	return &model.Order{
		ID:            order.NewCode(),
		Items:         input.Items,
		Total:         order.RoundCents(total),
		Status:        model.StatusPending,
		RefundStatus:  model.RefundNone,
		Timestamp:     time.Now(),
		PaymentMethod: input.PaymentMethod,
		TableNumber:   input.TableNumber,
	}
}

// GetAll reads the authoritative order list, newest first. Remote failure
// degrades to the fallback ledger; the two views are not merged.
func (uc *orderUseCase) GetAll(ctx context.Context) []model.Order {
	orders, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logger.Warn("remote order fetch failed, serving fallback ledger", zap.Error(err))
		return uc.ledger.Load()
	}
	return orders
}

// Advance moves an order one step along pending→preparing→ready→completed.
// Advancing a completed order is a no-op.
func (uc *orderUseCase) Advance(ctx context.Context, code string) (model.OrderStatus, error) {
	current, err := uc.repo.FindByCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("advance order %s: %w", code, err)
	}
	if current == nil {
		return "", order.ErrNotFound
	}

	next := model.NextStatus(current.Status)
	if next == current.Status {
		return current.Status, nil
	}

	if err := uc.UpdateStatus(ctx, code, next); err != nil {
		return "", err
	}
	return next, nil
}

// UpdateStatus is a thin pass-through: no fallback, errors surface so the
// caller can retry.
func (uc *orderUseCase) UpdateStatus(ctx context.Context, code string, status model.OrderStatus) error {
	if err := uc.repo.UpdateStatus(ctx, code, status); err != nil {
		return fmt.Errorf("update status of order %s: %w", code, err)
	}

	if err := uc.notifier.Publish(ctx, store.TableOrders); err != nil {
		uc.logger.Warn("status change publish failed", zap.String("order", code), zap.Error(err))
	}
	uc.bus.Publish(bus.OrdersUpdated, order.ChangePayload{})
	return nil
}

// UpdateRefundStatus writes the refund outcome. On remote failure the
// fallback ledger is patched best-effort and the error still surfaces;
// refund correctness is higher-stakes than availability.
func (uc *orderUseCase) UpdateRefundStatus(ctx context.Context, code string, status model.RefundStatus) error {
	if err := uc.repo.UpdateRefundStatus(ctx, code, status); err != nil {
		uc.logger.Error("remote refund status update failed",
			zap.String("order", code), zap.String("refund_status", string(status)), zap.Error(err))

		if patchErr := uc.ledger.PatchRefundStatus(code, status); patchErr != nil {
			uc.logger.Error("fallback ledger refund patch failed",
				zap.String("order", code), zap.Error(patchErr))
		}
		return fmt.Errorf("update refund status of order %s: %w", code, err)
	}

	if err := uc.notifier.Publish(ctx, store.TableOrders); err != nil {
		uc.logger.Warn("refund change publish failed", zap.String("order", code), zap.Error(err))
	}
	uc.bus.Publish(bus.RefundProcessed, order.RefundPayload{OrderID: code, RefundStatus: status})
	return nil
}
