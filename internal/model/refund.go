package model

import "time"

type RefundType string

const (
	RefundTypeFull     RefundType = "full"
	RefundTypePartial  RefundType = "partial"
	RefundTypeExchange RefundType = "exchange"
)

type RefundMethod string

const (
	RefundMethodCash         RefundMethod = "cash"
	RefundMethodCardReversal RefundMethod = "card_reversal"
	RefundMethodStoreCredit  RefundMethod = "store_credit"
)

// RefundTransaction is the ephemeral record of a processed refund. Only its
// effect (Order.RefundStatus) is persisted; the transaction itself exists for
// the print/notify pipeline and the caller.
type RefundTransaction struct {
	ID              string       `json:"id"`
	OriginalOrderID string       `json:"originalOrderId"`
	RefundType      RefundType   `json:"refundType"`
	RefundedItems   []OrderItem  `json:"refundedItems"`
	RefundAmount    float64      `json:"refundAmount"`
	Reason          string       `json:"reason"`
	ProcessedBy     string       `json:"processedBy"`
	Timestamp       time.Time    `json:"timestamp"`
	RefundMethod    RefundMethod `json:"refundMethod"`
}
