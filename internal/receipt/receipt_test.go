package receipt

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahanw/restopos/internal/model"
)

var fixedTime = time.Date(2024, 3, 14, 12, 4, 0, 0, time.UTC)

func sampleOrder() *model.Order {
	return &model.Order{
		ID: "k3x9mwq2z",
		Items: []model.OrderItem{
			{MenuItem: model.MenuItem{Name: "Rice & Curry", Price: 850}, Quantity: 2},
			{MenuItem: model.MenuItem{Name: "Iced Tea", Price: 300}, Quantity: 1},
		},
		Total:         2170.0,
		Status:        model.StatusCompleted,
		Timestamp:     fixedTime,
		PaymentMethod: model.PaymentCash,
		TableNumber:   "7",
	}
}

func sampleRestaurant() model.RestaurantSettings {
	return model.RestaurantSettings{
		Name:     "Spice Garden",
		Address:  "12 Galle Road",
		Phone:    "011-2345678",
		Currency: "LKR",
	}
}

func TestRenderOrder(t *testing.T) {
	rs := model.ReceiptSettings{
		HeaderText: "Welcome!",
		FooterText: "Thank you, come again",
	}
	got := RenderOrder(sampleOrder(), sampleRestaurant(), rs)

	g := goldie.New(t)
	g.Assert(t, "order", []byte(got))
}

func TestRenderRefund(t *testing.T) {
	tx := &model.RefundTransaction{
		ID:              "REF-5f2c",
		OriginalOrderID: "k3x9mwq2z",
		RefundType:      model.RefundTypePartial,
		RefundedItems: []model.OrderItem{
			{MenuItem: model.MenuItem{Name: "Iced Tea", Price: 300}, Quantity: 1},
		},
		RefundAmount: 650,
		Reason:       "Wrong order delivered",
		ProcessedBy:  "Nimal",
		Timestamp:    fixedTime,
		RefundMethod: model.RefundMethodCash,
	}
	got := RenderRefund(tx, sampleRestaurant())

	g := goldie.New(t)
	g.Assert(t, "refund", []byte(got))
}

func TestRenderOrderDefaultsToUSD(t *testing.T) {
	restaurant := sampleRestaurant()
	restaurant.Currency = ""
	o := sampleOrder()
	o.Total = 2000.0 // no service charge line

	got := RenderOrder(o, restaurant, model.ReceiptSettings{})
	assert.Contains(t, got, "$2,000.00")
	assert.NotContains(t, got, "Service charge")
}

func TestTextPrinterWritesToOut(t *testing.T) {
	var buf bytes.Buffer
	p := NewTextPrinter(&buf, sampleRestaurant(), model.ReceiptSettings{})

	require.NoError(t, p.PrintOrder(sampleOrder()))
	assert.Contains(t, buf.String(), "Order #k3x9mwq2z")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("printer offline") }

func TestTextPrinterSurfacesWriteError(t *testing.T) {
	p := NewTextPrinter(failingWriter{}, sampleRestaurant(), model.ReceiptSettings{})
	err := p.PrintOrder(sampleOrder())
	require.Error(t, err)
}
