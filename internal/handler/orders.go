package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahanw/restopos/internal/model"
	"github.com/sahanw/restopos/internal/order"
	"github.com/sahanw/restopos/internal/order/dto"
	orderusecase "github.com/sahanw/restopos/internal/order/usecase"
	"github.com/sahanw/restopos/internal/refund"
	"github.com/sahanw/restopos/internal/settings"
)

type OrdersHandler struct {
	orders   order.UseCase
	refunds  *refund.Processor
	settings *settings.Service
}

func NewOrdersHandler(orders order.UseCase, refunds *refund.Processor, s *settings.Service) *OrdersHandler {
	return &OrdersHandler{orders: orders, refunds: refunds, settings: s}
}

func (h *OrdersHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": h.orders.GetAll(c.Request.Context())})
}

type createOrderRequest struct {
	Items         []model.OrderItem   `json:"items" binding:"required"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	TableNumber   string              `json:"tableNumber"`
}

func (h *OrdersHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order payload"})
		return
	}

	ctx := c.Request.Context()
	input := &dto.CreateOrderInput{
		Items:         req.Items,
		PaymentMethod: req.PaymentMethod,
		TableNumber:   req.TableNumber,
	}
	if restaurant := h.settings.Restaurant(ctx); restaurant.AutoServiceCharge {
		input.ServiceChargePct = restaurant.ServiceCharge
	}

	o, err := h.orders.Create(ctx, input)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, orderusecase.ErrNoItems) || errors.Is(err, orderusecase.ErrInvalidQuantity) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *OrdersHandler) Advance(c *gin.Context) {
	status, err := h.orders.Advance(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, order.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update order status"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}

type refundRequest struct {
	Type   model.RefundType   `json:"type" binding:"required"`
	Amount float64            `json:"amount"`
	Reason string             `json:"reason"`
	Method model.RefundMethod `json:"method"`
}

func (h *OrdersHandler) Refund(c *gin.Context) {
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refund payload"})
		return
	}

	ctx := c.Request.Context()
	o := h.findOrder(ctx, c.Param("id"))
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	claims := claimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	tx, err := h.refunds.Process(ctx, refund.Input{
		Order:  o,
		Type:   req.Type,
		Amount: req.Amount,
		Reason: req.Reason,
		Method: req.Method,
		Actor:  refund.Actor{ID: claims.UserID, Name: claims.Name, Role: claims.Role},
	})
	if err != nil {
		c.JSON(refundStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *OrdersHandler) findOrder(ctx context.Context, code string) *model.Order {
	for _, o := range h.orders.GetAll(ctx) {
		if o.ID == code {
			cp := o
			return &cp
		}
	}
	return nil
}

func refundStatus(err error) int {
	switch {
	case errors.Is(err, refund.ErrNotCompleted), errors.Is(err, refund.ErrAlreadyRefunded):
		return http.StatusConflict
	case errors.Is(err, refund.ErrReasonRequired), errors.Is(err, refund.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, refund.ErrCeilingExceeded):
		return http.StatusForbidden
	case errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
