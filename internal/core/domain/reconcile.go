package domain

import (
	"fmt"

	"github.com/govalues/decimal"
)

// MoneyScale is the number of decimal places every stored currency
// amount is rounded to at the point of computation.
const MoneyScale = 2

func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// ReconcileBalance is the single authority for deriving the open balance
// and payment state of an order or invoice from its total and the
// cumulative paid amount. Both aggregates call it; the logic exists once.
func ReconcileBalance(total, paid decimal.Decimal) (decimal.Decimal, PaymentState, error) {
	balance, err := total.Sub(paid)
	if err != nil {
		return decimal.Decimal{}, "", fmt.Errorf("math error:%w", err)
	}
	balance = RoundMoney(balance)

	var state PaymentState
	switch {
	case paid.Sign() == 0:
		state = PaymentStatePending
	case paid.Cmp(total) < 0:
		state = PaymentStatePartial
	default:
		state = PaymentStatePaid
	}

	return balance, state, nil
}

// InvoiceStatusForPayment maps the shared payment state onto invoice
// statuses, so invoices and orders cannot drift apart.
func InvoiceStatusForPayment(state PaymentState, current InvoiceStatus) InvoiceStatus {
	switch state {
	case PaymentStatePaid:
		return InvoiceStatusPaid
	case PaymentStatePartial:
		return InvoiceStatusPartialPaid
	default:
		return current
	}
}
