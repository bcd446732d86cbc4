package refund

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sahanw/restopos/internal/model"
	"github.com/sahanw/restopos/internal/order/dto"
)

// fakeOrders records refund status writes and can be told to fail them.
type fakeOrders struct {
	writes     int
	lastCode   string
	lastStatus model.RefundStatus
	failUpdate bool
}

func (f *fakeOrders) Create(context.Context, *dto.CreateOrderInput) (*model.Order, error) {
	panic("not used")
}

func (f *fakeOrders) GetAll(context.Context) []model.Order { return nil }

func (f *fakeOrders) Advance(context.Context, string) (model.OrderStatus, error) {
	panic("not used")
}

func (f *fakeOrders) UpdateStatus(context.Context, string, model.OrderStatus) error {
	panic("not used")
}

func (f *fakeOrders) UpdateRefundStatus(_ context.Context, code string, status model.RefundStatus) error {
	if f.failUpdate {
		return errors.New("update failed")
	}
	f.writes++
	f.lastCode = code
	f.lastStatus = status
	return nil
}

type fakePrinter struct {
	printed int
	fail    bool
}

func (f *fakePrinter) PrintOrder(*model.Order) error { return nil }

func (f *fakePrinter) PrintRefund(*model.RefundTransaction, *model.Order) error {
	f.printed++
	if f.fail {
		return errors.New("printer offline")
	}
	return nil
}

func completedOrder(total float64) *model.Order {
	return &model.Order{
		ID:            "k3x9mwq2z",
		Total:         total,
		Status:        model.StatusCompleted,
		RefundStatus:  model.RefundNone,
		PaymentMethod: model.PaymentCash,
		Items: []model.OrderItem{
			{MenuItem: model.MenuItem{Name: "Rice & Curry", Price: total}, Quantity: 1},
		},
	}
}

func manager() Actor { return Actor{ID: "u2", Name: "Nimal", Role: model.RoleManager} }

func newProcessor(orders *fakeOrders, printer *fakePrinter) *Processor {
	return NewProcessor(orders, printer, zap.NewNop())
}

func TestPartialRefundByManager(t *testing.T) {
	orders := &fakeOrders{}
	printer := &fakePrinter{}
	p := newProcessor(orders, printer)

	tx, err := p.Process(context.Background(), Input{
		Order:  completedOrder(100),
		Type:   model.RefundTypePartial,
		Amount: 40,
		Reason: "cold food",
		Actor:  manager(),
	})
	require.NoError(t, err)

	assert.Equal(t, model.RefundPartial, orders.lastStatus)
	assert.Equal(t, "k3x9mwq2z", orders.lastCode)
	assert.Equal(t, 40.0, tx.RefundAmount)
	assert.Equal(t, model.RefundTypePartial, tx.RefundType)
	assert.Equal(t, "Nimal", tx.ProcessedBy)
	assert.Equal(t, 1, printer.printed)
}

func TestFullRefundPinsAmountToTotal(t *testing.T) {
	orders := &fakeOrders{}
	p := newProcessor(orders, &fakePrinter{})

	tx, err := p.Process(context.Background(), Input{
		Order:  completedOrder(62.5),
		Type:   model.RefundTypeFull,
		Amount: 10, // ignored for full refunds
		Reason: "order cancelled",
		Actor:  manager(),
	})
	require.NoError(t, err)

	assert.Equal(t, 62.5, tx.RefundAmount)
	assert.Equal(t, model.RefundFull, orders.lastStatus)
}

func TestRefundedOrderCannotBeRefundedAgain(t *testing.T) {
	orders := &fakeOrders{}
	p := newProcessor(orders, &fakePrinter{})

	o := completedOrder(100)
	_, err := p.Process(context.Background(), Input{
		Order: o, Type: model.RefundTypePartial, Amount: 40,
		Reason: "cold food", Actor: manager(),
	})
	require.NoError(t, err)

	// The caller sees the committed status on its copy of the order.
	o.RefundStatus = orders.lastStatus

	_, err = p.Process(context.Background(), Input{
		Order: o, Type: model.RefundTypeFull,
		Reason: "trying again", Actor: manager(),
	})
	require.ErrorIs(t, err, ErrAlreadyRefunded)
	assert.Equal(t, 1, orders.writes)
}

func TestRejectionIsSideEffectFree(t *testing.T) {
	cases := []struct {
		name  string
		input Input
		want  error
	}{
		{
			name: "not completed",
			input: Input{
				Order: &model.Order{ID: "a", Total: 50, Status: model.StatusReady},
				Type:  model.RefundTypeFull, Reason: "x", Actor: manager(),
			},
			want: ErrNotCompleted,
		},
		{
			name: "blank reason",
			input: Input{
				Order: completedOrder(50), Type: model.RefundTypeFull,
				Reason: "   ", Actor: manager(),
			},
			want: ErrReasonRequired,
		},
		{
			name: "zero amount",
			input: Input{
				Order: completedOrder(50), Type: model.RefundTypePartial,
				Amount: 0, Reason: "x", Actor: manager(),
			},
			want: ErrInvalidAmount,
		},
		{
			name: "amount above total",
			input: Input{
				Order: completedOrder(50), Type: model.RefundTypePartial,
				Amount: 50.01, Reason: "x", Actor: manager(),
			},
			want: ErrInvalidAmount,
		},
		{
			name: "staff over ceiling",
			input: Input{
				Order: completedOrder(100), Type: model.RefundTypePartial,
				Amount: 21, Reason: "x",
				Actor: Actor{ID: "u3", Name: "Kasun", Role: model.RoleStaff},
			},
			want: ErrCeilingExceeded,
		},
		{
			name: "manager over ceiling",
			input: Input{
				Order: completedOrder(150), Type: model.RefundTypeFull,
				Reason: "x", Actor: manager(),
			},
			want: ErrCeilingExceeded,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := &fakeOrders{}
			printer := &fakePrinter{}
			p := newProcessor(orders, printer)

			_, err := p.Process(context.Background(), tc.input)
			require.ErrorIs(t, err, tc.want)
			assert.Zero(t, orders.writes, "rejected refund must not write")
			assert.Zero(t, printer.printed, "rejected refund must not print")
		})
	}
}

func TestStaffWithinCeiling(t *testing.T) {
	orders := &fakeOrders{}
	p := newProcessor(orders, &fakePrinter{})

	tx, err := p.Process(context.Background(), Input{
		Order: completedOrder(100), Type: model.RefundTypePartial,
		Amount: 20, Reason: "wrong item",
		Actor: Actor{ID: "u3", Name: "Kasun", Role: model.RoleStaff},
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, tx.RefundAmount)
}

func TestAdminHasNoCeiling(t *testing.T) {
	orders := &fakeOrders{}
	p := newProcessor(orders, &fakePrinter{})

	_, err := p.Process(context.Background(), Input{
		Order: completedOrder(5000), Type: model.RefundTypeFull,
		Reason: "event cancelled",
		Actor:  Actor{ID: "u1", Name: "Admin", Role: model.RoleAdmin},
	})
	require.NoError(t, err)
	assert.Equal(t, model.RefundFull, orders.lastStatus)
}

func TestExchangeSkipsCeiling(t *testing.T) {
	orders := &fakeOrders{}
	p := newProcessor(orders, &fakePrinter{})

	tx, err := p.Process(context.Background(), Input{
		Order: completedOrder(500), Type: model.RefundTypeExchange,
		Reason: "wrong dish",
		Actor:  Actor{ID: "u3", Name: "Kasun", Role: model.RoleStaff},
	})
	require.NoError(t, err)
	assert.Equal(t, model.RefundExchanged, orders.lastStatus)
	assert.Equal(t, model.RefundTypeExchange, tx.RefundType)
}

func TestPartialEqualToTotalRecordsFullRefund(t *testing.T) {
	orders := &fakeOrders{}
	p := newProcessor(orders, &fakePrinter{})

	_, err := p.Process(context.Background(), Input{
		Order: completedOrder(80), Type: model.RefundTypePartial,
		Amount: 80, Reason: "everything wrong", Actor: manager(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.RefundFull, orders.lastStatus)
}

func TestUpdateFailureSurfacesAndSkipsPrint(t *testing.T) {
	orders := &fakeOrders{failUpdate: true}
	printer := &fakePrinter{}
	p := newProcessor(orders, printer)

	_, err := p.Process(context.Background(), Input{
		Order: completedOrder(100), Type: model.RefundTypeFull,
		Reason: "x", Actor: Actor{ID: "u1", Name: "Admin", Role: model.RoleAdmin},
	})
	require.Error(t, err)
	assert.Zero(t, printer.printed)
}

func TestPrinterFailureDoesNotFailRefund(t *testing.T) {
	orders := &fakeOrders{}
	printer := &fakePrinter{fail: true}
	p := newProcessor(orders, printer)

	tx, err := p.Process(context.Background(), Input{
		Order: completedOrder(30), Type: model.RefundTypeFull,
		Reason: "burnt", Actor: manager(),
	})
	require.NoError(t, err)
	assert.NotNil(t, tx)
	assert.Equal(t, 1, orders.writes)
}

func TestMethodDefaultsFromPaymentMethod(t *testing.T) {
	orders := &fakeOrders{}
	p := newProcessor(orders, &fakePrinter{})

	o := completedOrder(25)
	o.PaymentMethod = model.PaymentCard
	tx, err := p.Process(context.Background(), Input{
		Order: o, Type: model.RefundTypeFull, Reason: "x", Actor: manager(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.RefundMethodCardReversal, tx.RefundMethod)
}
