package domain_test

import (
	"testing"
	"time"

	"github.com/govalues/decimal"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.Parse(s)
	assert.NoError(t, err)
	return d
}

func TestReconcileBalance(t *testing.T) {
	tests := []struct {
		name       string
		total      string
		paid       string
		expBalance string
		expState   domain.PaymentState
	}{
		{"Nothing paid", "27.00", "0", "27.00", domain.PaymentStatePending},
		{"Partially paid", "27.00", "10.00", "17.00", domain.PaymentStatePartial},
		{"Paid exactly", "27.00", "27.00", "0.00", domain.PaymentStatePaid},
		{"Overpaid", "27.00", "30.00", "-3.00", domain.PaymentStatePaid},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			balance, state, err := domain.ReconcileBalance(dec(t, test.total), dec(t, test.paid))

			assert.NoError(t, err)
			assert.Equal(t, test.expState, state)
			assert.Zero(t, dec(t, test.expBalance).Cmp(balance))
		})
	}
}

func TestInvoiceStatusForPayment(t *testing.T) {
	assert.Equal(t, domain.InvoiceStatusPaid,
		domain.InvoiceStatusForPayment(domain.PaymentStatePaid, domain.InvoiceStatusSent))
	assert.Equal(t, domain.InvoiceStatusPartialPaid,
		domain.InvoiceStatusForPayment(domain.PaymentStatePartial, domain.InvoiceStatusDraft))
	// Pending leaves the lifecycle status alone.
	assert.Equal(t, domain.InvoiceStatusSent,
		domain.InvoiceStatusForPayment(domain.PaymentStatePending, domain.InvoiceStatusSent))
}

func TestPayment_ApplyRefund(t *testing.T) {
	payment := domain.Payment{
		Number:         "PAY-000001",
		Amount:         dec(t, "27.00"),
		Status:         domain.PaymentStatusCompleted,
		RefundedAmount: decimal.Zero,
	}

	assert.NoError(t, payment.ApplyRefund(dec(t, "10.00"), "REF-000001"))
	assert.Equal(t, domain.PaymentStatusPartiallyRefunded, payment.Status)

	assert.NoError(t, payment.ApplyRefund(dec(t, "17.00"), "REF-000002"))
	assert.Equal(t, domain.PaymentStatusRefunded, payment.Status)
	assert.Equal(t, []string{"REF-000001", "REF-000002"}, payment.RefundNumbers)

	err := payment.ApplyRefund(dec(t, "0.01"), "REF-000003")
	assert.ErrorIs(t, err, domain.ErrRefundExceedsPayment)
}

func TestOrderStatus_CanTransition(t *testing.T) {
	assert.True(t, domain.OrderStatusDraft.CanTransition(domain.OrderStatusConfirmed))
	assert.True(t, domain.OrderStatusConfirmed.CanTransition(domain.OrderStatusProcessing))
	assert.True(t, domain.OrderStatusShipped.CanTransition(domain.OrderStatusDelivered))

	assert.False(t, domain.OrderStatusDraft.CanTransition(domain.OrderStatusShipped))
	assert.False(t, domain.OrderStatusDelivered.CanTransition(domain.OrderStatusCancelled))
	assert.False(t, domain.OrderStatusCancelled.CanTransition(domain.OrderStatusDraft))
}

func TestInvoice_Overdue(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	open := domain.Invoice{
		Status:     domain.InvoiceStatusSent,
		DueDate:    now.AddDate(0, 0, -1),
		BalanceDue: dec(t, "10.00"),
	}
	assert.True(t, open.Overdue(now))

	settled := open
	settled.BalanceDue = decimal.Zero
	assert.False(t, settled.Overdue(now))

	void := open
	void.Status = domain.InvoiceStatusVoid
	assert.False(t, void.Overdue(now))

	notDue := open
	notDue.DueDate = now.AddDate(0, 0, 5)
	assert.False(t, notDue.Overdue(now))
}
