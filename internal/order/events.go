package order

import "github.com/sahanw/restopos/internal/model"

// ChangePayload rides on ordersForceUpdate / newOrderCreated bus events.
// Fallback marks orders that only reached the local ledger.
type ChangePayload struct {
	Order    *model.Order
	Fallback bool
}

// RefundPayload rides on refundProcessed bus events.
type RefundPayload struct {
	OrderID      string
	RefundStatus model.RefundStatus
}
