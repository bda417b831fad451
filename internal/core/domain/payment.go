package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodOther      PaymentMethod = "other"
)

func (m PaymentMethod) IsCard() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodDebitCard
}

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusProcessing        PaymentStatus = "processing"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusCancelled         PaymentStatus = "cancelled"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusAuthorized        PaymentStatus = "authorized"
	PaymentStatusCaptured          PaymentStatus = "captured"
)

// CashDetails carries the cash-drawer part of a payment.
type CashDetails struct {
	Tendered decimal.Decimal `json:"tendered"`
	Change   decimal.Decimal `json:"change"`
}

// CardDetails carries what the gateway returned for a card payment.
type CardDetails struct {
	LastFour      string `json:"last_four"`
	AuthCode      string `json:"auth_code"`
	TransactionID string `json:"transaction_id"`
}

type Payment struct {
	Number         DocumentNumber
	Method         PaymentMethod
	Amount         decimal.Decimal
	Currency       string
	Status         PaymentStatus
	Cash           *CashDetails
	Card           *CardDetails
	OrderNumber    DocumentNumber
	InvoiceNumber  DocumentNumber
	CustomerID     string
	RefundedAmount decimal.Decimal
	RefundNumbers  []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Refundable is the amount still open for refunds on this payment.
func (p *Payment) Refundable() (decimal.Decimal, error) {
	return p.Amount.Sub(p.RefundedAmount)
}

// ApplyRefund accumulates a refund and derives the payment status:
// refunded when the full amount came back, partially_refunded otherwise.
func (p *Payment) ApplyRefund(amount decimal.Decimal, refundNumber DocumentNumber) error {
	refunded, err := p.RefundedAmount.Add(amount)
	if err != nil {
		return err
	}
	if refunded.Cmp(p.Amount) > 0 {
		return ErrRefundExceedsPayment
	}

	p.RefundedAmount = refunded
	p.RefundNumbers = append(p.RefundNumbers, string(refundNumber))
	if refunded.Cmp(p.Amount) == 0 {
		p.Status = PaymentStatusRefunded
	} else {
		p.Status = PaymentStatusPartiallyRefunded
	}
	return nil
}

type Refund struct {
	Number        DocumentNumber
	PaymentNumber DocumentNumber
	Amount        decimal.Decimal
	Reason        string
	CreatedAt     time.Time
}
