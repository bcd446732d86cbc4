package model

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
)

// NextStatus returns the single allowed forward transition. Completed is
// terminal and maps to itself; unknown values also map to themselves so a
// bad row can never be advanced into a valid state.
func NextStatus(s OrderStatus) OrderStatus {
	switch s {
	case StatusPending:
		return StatusPreparing
	case StatusPreparing:
		return StatusReady
	case StatusReady:
		return StatusCompleted
	default:
		return s
	}
}

type RefundStatus string

const (
	RefundNone      RefundStatus = "none"
	RefundFull      RefundStatus = "full_refund"
	RefundPartial   RefundStatus = "partial_refund"
	RefundExchanged RefundStatus = "exchanged"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// OrderItem embeds a full snapshot of the menu item at order time. Totals are
// computed from the snapshot price and are immune to later menu edits.
type OrderItem struct {
	MenuItem MenuItem `json:"menuItem"`
	Quantity int      `json:"quantity"`
	Notes    string   `json:"notes,omitempty"`
}

func (i OrderItem) Subtotal() float64 {
	return i.MenuItem.Price * float64(i.Quantity)
}

// Order is identified by its terminal-generated short code (the
// order_number column), not the internal row id.
type Order struct {
	ID            string        `json:"id"`
	Items         []OrderItem   `json:"items"`
	Total         float64       `json:"total"`
	Status        OrderStatus   `json:"status"`
	RefundStatus  RefundStatus  `json:"refund_status"`
	Timestamp     time.Time     `json:"timestamp"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TableNumber   string        `json:"tableNumber"`

	// Unsynced marks orders that only exist in the local fallback ledger.
	Unsynced bool `json:"unsynced,omitempty"`
}

func (o *Order) Refundable() bool {
	return o.Status == StatusCompleted && (o.RefundStatus == "" || o.RefundStatus == RefundNone)
}
