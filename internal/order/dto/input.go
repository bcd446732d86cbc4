package dto

import "github.com/sahanw/restopos/internal/model"

type CreateOrderInput struct {
	Items         []model.OrderItem
	PaymentMethod model.PaymentMethod
	TableNumber   string

	// ServiceChargePct is applied on top of the item subtotal when > 0,
	// taken from restaurant settings at creation time.
	ServiceChargePct float64
}
