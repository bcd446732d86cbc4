// Package refund enforces the refund/exchange state machine: completed,
// never-refunded orders move exactly once into full_refund, partial_refund,
// or exchanged, within the acting user's authorization ceiling.
package refund

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahanw/restopos/internal/model"
	"github.com/sahanw/restopos/internal/order"
	"github.com/sahanw/restopos/internal/permission"
	"github.com/sahanw/restopos/internal/receipt"
)

var (
	ErrNotCompleted    = errors.New("only completed orders can be refunded")
	ErrAlreadyRefunded = errors.New("order has already been refunded")
	ErrReasonRequired  = errors.New("refund reason is required")
	ErrInvalidAmount   = errors.New("refund amount must be positive and not exceed the order total")
	ErrCeilingExceeded = errors.New("refund amount exceeds the authorization ceiling for this role")
)

type Actor struct {
	ID   string
	Name string
	Role model.Role
}

type Input struct {
	Order  *model.Order
	Type   model.RefundType
	Amount float64
	Reason string
	Method model.RefundMethod
	Actor  Actor
}

type Processor struct {
	orders  order.UseCase
	printer receipt.Printer
	logger  *zap.Logger
}

func NewProcessor(orders order.UseCase, printer receipt.Printer, log *zap.Logger) *Processor {
	return &Processor{orders: orders, printer: printer, logger: log}
}

// Process validates and applies a refund. All checks run before any state
// mutation; a rejection is side-effect-free. Once the refund status write
// succeeds the refund is committed, and receipt printing is best-effort.
func (p *Processor) Process(ctx context.Context, input Input) (*model.RefundTransaction, error) {
	o := input.Order
	if o == nil {
		return nil, order.ErrNotFound
	}
	if o.Status != model.StatusCompleted {
		return nil, ErrNotCompleted
	}
	if o.RefundStatus != "" && o.RefundStatus != model.RefundNone {
		return nil, ErrAlreadyRefunded
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, ErrReasonRequired
	}

	amount := input.Amount
	switch input.Type {
	case model.RefundTypeFull:
		amount = o.Total
	case model.RefundTypePartial:
		if amount <= 0 || amount > o.Total {
			return nil, ErrInvalidAmount
		}
	case model.RefundTypeExchange:
		// Exchanges are not charged against a numeric limit.
	default:
		return nil, fmt.Errorf("unknown refund type %q", input.Type)
	}
	amount = order.RoundCents(amount)

	if input.Type != model.RefundTypeExchange && !permission.CanRefund(input.Actor.Role, amount) {
		return nil, fmt.Errorf("%w: role %s, amount %.2f", ErrCeilingExceeded, input.Actor.Role, amount)
	}

	status := resolveStatus(input.Type, amount, o.Total)

	if err := p.orders.UpdateRefundStatus(ctx, o.ID, status); err != nil {
		return nil, err
	}

	tx := &model.RefundTransaction{
		ID:              "REF-" + uuid.New().String(),
		OriginalOrderID: o.ID,
		RefundType:      input.Type,
		RefundedItems:   o.Items,
		RefundAmount:    amount,
		Reason:          strings.TrimSpace(input.Reason),
		ProcessedBy:     input.Actor.Name,
		Timestamp:       time.Now(),
		RefundMethod:    resolveMethod(input.Method, o.PaymentMethod),
	}

	// The refund is committed; a printer failure must not roll it back.
	if p.printer != nil {
		if err := p.printer.PrintRefund(tx, o); err != nil {
			p.logger.Warn("refund receipt printing failed",
				zap.String("order", o.ID), zap.String("refund", tx.ID), zap.Error(err))
		}
	}

	p.logger.Info("refund processed",
		zap.String("order", o.ID),
		zap.String("refund", tx.ID),
		zap.String("type", string(input.Type)),
		zap.Float64("amount", amount),
		zap.String("by", input.Actor.Name))

	return tx, nil
}

// Exchange wins over the amount comparison; for full refunds the amount is
// pinned to the total, so amount >= total implies full_refund.
func resolveStatus(t model.RefundType, amount, total float64) model.RefundStatus {
	switch {
	case t == model.RefundTypeExchange:
		return model.RefundExchanged
	case amount >= total:
		return model.RefundFull
	default:
		return model.RefundPartial
	}
}

func resolveMethod(requested model.RefundMethod, paid model.PaymentMethod) model.RefundMethod {
	if requested != "" {
		return requested
	}
	if paid == model.PaymentCash {
		return model.RefundMethodCash
	}
	return model.RefundMethodCardReversal
}
