// Package receipt renders orders and refunds into printable text. It is a
// consumer of committed records: rendering or printing failures never
// propagate back into the state that produced them.
package receipt

import (
	"fmt"
	"io"
	"strings"

	"github.com/sahanw/restopos/internal/currency"
	"github.com/sahanw/restopos/internal/model"
)

const width = 36

type Printer interface {
	PrintOrder(o *model.Order) error
	PrintRefund(tx *model.RefundTransaction, o *model.Order) error
}

// TextPrinter renders receipts and writes them to out (a printer spool, a
// file, a preview buffer).
type TextPrinter struct {
	out        io.Writer
	restaurant model.RestaurantSettings
	receipt    model.ReceiptSettings
}

func NewTextPrinter(out io.Writer, restaurant model.RestaurantSettings, receipt model.ReceiptSettings) *TextPrinter {
	return &TextPrinter{out: out, restaurant: restaurant, receipt: receipt}
}

func (p *TextPrinter) PrintOrder(o *model.Order) error {
	_, err := io.WriteString(p.out, RenderOrder(o, p.restaurant, p.receipt))
	return err
}

func (p *TextPrinter) PrintRefund(tx *model.RefundTransaction, o *model.Order) error {
	_, err := io.WriteString(p.out, RenderRefund(tx, p.restaurant))
	return err
}

func RenderOrder(o *model.Order, restaurant model.RestaurantSettings, rs model.ReceiptSettings) string {
	cur := currency.Code(restaurant.Currency)
	if cur == "" {
		cur = currency.USD
	}

	var b strings.Builder
	rule := strings.Repeat("=", width)
	thin := strings.Repeat("-", width)

	b.WriteString(rule + "\n")
	if restaurant.Name != "" {
		b.WriteString(center(restaurant.Name) + "\n")
	}
	if restaurant.Address != "" {
		b.WriteString(center(restaurant.Address) + "\n")
	}
	if restaurant.Phone != "" {
		b.WriteString(center(restaurant.Phone) + "\n")
	}
	b.WriteString(rule + "\n")
	if rs.HeaderText != "" {
		b.WriteString(center(rs.HeaderText) + "\n")
	}

	b.WriteString(fmt.Sprintf("Order #%s\n", o.ID))
	if o.TableNumber != "" {
		b.WriteString(fmt.Sprintf("Table: %s\n", o.TableNumber))
	}
	b.WriteString(o.Timestamp.Format("2006-01-02 15:04") + "\n")
	b.WriteString(thin + "\n")

	subtotal := 0.0
	for _, it := range o.Items {
		subtotal += it.Subtotal()
		b.WriteString(line(
			fmt.Sprintf("%d x %s", it.Quantity, it.MenuItem.Name),
			fmt.Sprintf("%.2f", it.Subtotal()),
		))
		if it.Notes != "" {
			b.WriteString("  (" + it.Notes + ")\n")
		}
	}
	b.WriteString(thin + "\n")

	if o.Total > subtotal {
		b.WriteString(line("Service charge", fmt.Sprintf("%.2f", o.Total-subtotal)))
	}
	b.WriteString(line("TOTAL", currency.Format(o.Total, cur)))
	if o.PaymentMethod != "" {
		b.WriteString(fmt.Sprintf("Paid by %s\n", o.PaymentMethod))
	}
	if rs.FooterText != "" {
		b.WriteString(center(rs.FooterText) + "\n")
	}
	b.WriteString(rule + "\n")
	return b.String()
}

func RenderRefund(tx *model.RefundTransaction, restaurant model.RestaurantSettings) string {
	cur := currency.Code(restaurant.Currency)
	if cur == "" {
		cur = currency.USD
	}

	var b strings.Builder
	rule := strings.Repeat("=", width)

	b.WriteString(rule + "\n")
	b.WriteString(center("REFUND RECEIPT") + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("Refund:  %s\n", tx.ID))
	b.WriteString(fmt.Sprintf("Order:   #%s\n", tx.OriginalOrderID))
	b.WriteString(fmt.Sprintf("Type:    %s\n", tx.RefundType))
	b.WriteString(fmt.Sprintf("Amount:  %s\n", currency.Format(tx.RefundAmount, cur)))
	b.WriteString(fmt.Sprintf("Reason:  %s\n", tx.Reason))
	b.WriteString(fmt.Sprintf("Method:  %s\n", tx.RefundMethod))
	b.WriteString(fmt.Sprintf("By:      %s\n", tx.ProcessedBy))
	b.WriteString(fmt.Sprintf("Date:    %s\n", tx.Timestamp.Format("2006-01-02 15:04")))

	if len(tx.RefundedItems) > 0 {
		b.WriteString(strings.Repeat("-", width) + "\n")
		b.WriteString("Items refunded:\n")
		for _, it := range tx.RefundedItems {
			b.WriteString(fmt.Sprintf("  %d x %s\n", it.Quantity, it.MenuItem.Name))
		}
	}
	b.WriteString(rule + "\n")
	return b.String()
}

func center(s string) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func line(label, value string) string {
	gap := width - len(label) - len(value)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + value + "\n"
}
