package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft       InvoiceStatus = "draft"
	InvoiceStatusSent        InvoiceStatus = "sent"
	InvoiceStatusViewed      InvoiceStatus = "viewed"
	InvoiceStatusPaid        InvoiceStatus = "paid"
	InvoiceStatusPartialPaid InvoiceStatus = "partial_paid"
	InvoiceStatusOverdue     InvoiceStatus = "overdue"
	InvoiceStatusVoid        InvoiceStatus = "void"
	InvoiceStatusRefunded    InvoiceStatus = "refunded"
)

type Invoice struct {
	Number       DocumentNumber
	OrderNumber  DocumentNumber
	CustomerID   string
	Items        []LineItem
	Subtotal     decimal.Decimal
	DiscountAmt  decimal.Decimal
	TaxAmount    decimal.Decimal
	ShippingCost decimal.Decimal
	TotalAmount  decimal.Decimal
	Status       InvoiceStatus
	IssueDate    time.Time
	DueDate      time.Time
	PaidAmount   decimal.Decimal
	BalanceDue   decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Voidable: an invoice with any recorded payment cannot be voided.
func (i *Invoice) Voidable() bool {
	return i.PaidAmount.Sign() == 0 && i.Status != InvoiceStatusVoid
}

// Overdue reports whether the invoice is past due and still carries a balance.
func (i *Invoice) Overdue(now time.Time) bool {
	return i.BalanceDue.Sign() > 0 && now.After(i.DueDate) &&
		i.Status != InvoiceStatusVoid && i.Status != InvoiceStatusRefunded
}
