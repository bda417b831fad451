package service

import (
	"fmt"

	"github.com/govalues/decimal"
	"github.com/salescore/backend/internal/core/domain"
)

// PricingEngine computes line and document totals. It is pure: no
// repository, no collaborators, deterministic for a given input.
type PricingEngine struct{}

// OrderTotals is the result of pricing a set of already-priced lines
// together with document-level discount and shipping.
type OrderTotals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// PriceLine validates a line and fills its computed fields.
// line_total is pre-tax: quantity*unit_price minus the line discount,
// where a positive discount percent wins over a flat discount amount.
// Amounts are rounded to the money scale at computation time.
func (PricingEngine) PriceLine(item *domain.LineItem) error {
	if item.Quantity <= 0 {
		return domain.ErrValidation
	}
	if item.UnitPrice.IsNeg() {
		return domain.ErrValidation
	}
	if item.DiscountPercent.IsNeg() || item.DiscountPercent.Cmp(decimal.Hundred) > 0 {
		return domain.ErrValidation
	}
	if item.DiscountAmount.IsNeg() {
		return domain.ErrValidation
	}

	qty, err := decimal.New(item.Quantity, 0)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}
	gross, err := qty.Mul(item.UnitPrice)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}

	discount := item.DiscountAmount
	if item.DiscountPercent.IsPos() {
		d, err := gross.Mul(item.DiscountPercent)
		if err != nil {
			return fmt.Errorf("math error:%w", err)
		}
		discount, err = d.Quo(decimal.Hundred)
		if err != nil {
			return fmt.Errorf("math error:%w", err)
		}
	}
	if discount.Cmp(gross) > 0 {
		return domain.ErrValidation
	}

	lineTotal, err := gross.Sub(discount)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}
	lineTotal = domain.RoundMoney(lineTotal)

	tax, err := lineTotal.Mul(item.TaxRate)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}

	item.DiscountAmount = domain.RoundMoney(discount)
	item.LineTotal = lineTotal
	item.TaxAmount = domain.RoundMoney(tax)

	return nil
}

// PriceTotals folds priced lines into document totals:
// subtotal = Σ line pre-tax totals, document discount (percent wins over
// flat amount), total = subtotal - discount + Σ tax + shipping.
func (PricingEngine) PriceTotals(items []domain.LineItem,
	discountPercent, discountAmount, shipping decimal.Decimal) (*OrderTotals, error) {
	if discountPercent.IsNeg() || discountPercent.Cmp(decimal.Hundred) > 0 {
		return nil, domain.ErrValidation
	}
	if discountAmount.IsNeg() || shipping.IsNeg() {
		return nil, domain.ErrValidation
	}

	subtotal := decimal.Zero
	taxSum := decimal.Zero
	var err error
	for _, item := range items {
		subtotal, err = subtotal.Add(item.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("math error:%w", err)
		}
		taxSum, err = taxSum.Add(item.TaxAmount)
		if err != nil {
			return nil, fmt.Errorf("math error:%w", err)
		}
	}

	discount := discountAmount
	if discountPercent.IsPos() {
		d, err := subtotal.Mul(discountPercent)
		if err != nil {
			return nil, fmt.Errorf("math error:%w", err)
		}
		discount, err = d.Quo(decimal.Hundred)
		if err != nil {
			return nil, fmt.Errorf("math error:%w", err)
		}
	}
	discount = domain.RoundMoney(discount)

	total, err := subtotal.Sub(discount)
	if err != nil {
		return nil, fmt.Errorf("math error:%w", err)
	}
	total, err = total.Add(taxSum)
	if err != nil {
		return nil, fmt.Errorf("math error:%w", err)
	}
	total, err = total.Add(shipping)
	if err != nil {
		return nil, fmt.Errorf("math error:%w", err)
	}

	return &OrderTotals{
		Subtotal:       domain.RoundMoney(subtotal),
		DiscountAmount: discount,
		TaxAmount:      domain.RoundMoney(taxSum),
		Total:          domain.RoundMoney(total),
	}, nil
}
