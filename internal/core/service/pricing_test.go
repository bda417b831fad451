package service_test

import (
	"testing"

	"github.com/govalues/decimal"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/service"
	"github.com/stretchr/testify/assert"
)

func money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.Parse(s)
	assert.NoError(t, err)
	return d
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Zero(t, money(t, want).Cmp(got), "want %s, got %s", want, got)
}

func TestPricing_PriceLine(t *testing.T) {
	pricing := service.PricingEngine{}

	tests := []struct {
		name         string
		item         domain.LineItem
		expError     error
		expLineTotal string
		expTax       string
	}{
		{
			name: "Plain line with tax",
			item: domain.LineItem{
				Quantity:  2,
				UnitPrice: money(t, "10.00"),
				TaxRate:   money(t, "0.10"),
			},
			expLineTotal: "20.00",
			expTax:       "2.00",
		},
		{
			name: "Percent discount wins over flat amount",
			item: domain.LineItem{
				Quantity:        4,
				UnitPrice:       money(t, "25.00"),
				DiscountPercent: money(t, "10"),
				DiscountAmount:  money(t, "99.00"),
			},
			expLineTotal: "90.00",
			expTax:       "0.00",
		},
		{
			name: "Flat discount",
			item: domain.LineItem{
				Quantity:       1,
				UnitPrice:      money(t, "50.00"),
				DiscountAmount: money(t, "5.00"),
			},
			expLineTotal: "45.00",
			expTax:       "0.00",
		},
		{
			name:     "Zero quantity",
			item:     domain.LineItem{Quantity: 0, UnitPrice: money(t, "10.00")},
			expError: domain.ErrValidation,
		},
		{
			name:     "Negative unit price",
			item:     domain.LineItem{Quantity: 1, UnitPrice: money(t, "-1.00")},
			expError: domain.ErrValidation,
		},
		{
			name: "Discount percent above hundred",
			item: domain.LineItem{
				Quantity:        1,
				UnitPrice:       money(t, "10.00"),
				DiscountPercent: money(t, "101"),
			},
			expError: domain.ErrValidation,
		},
		{
			name: "Flat discount exceeds gross",
			item: domain.LineItem{
				Quantity:       1,
				UnitPrice:      money(t, "10.00"),
				DiscountAmount: money(t, "11.00"),
			},
			expError: domain.ErrValidation,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			item := test.item
			err := pricing.PriceLine(&item)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				return
			}
			assert.NoError(t, err)
			assertMoney(t, test.expLineTotal, item.LineTotal)
			assertMoney(t, test.expTax, item.TaxAmount)
		})
	}
}

func TestPricing_PriceTotals(t *testing.T) {
	pricing := service.PricingEngine{}

	taxed := domain.LineItem{Quantity: 2, UnitPrice: money(t, "10.00"), TaxRate: money(t, "0.10")}
	assert.NoError(t, pricing.PriceLine(&taxed))
	plain := domain.LineItem{Quantity: 1, UnitPrice: money(t, "5.00")}
	assert.NoError(t, pricing.PriceLine(&plain))

	totals, err := pricing.PriceTotals([]domain.LineItem{taxed, plain},
		decimal.Zero, decimal.Zero, decimal.Zero)
	assert.NoError(t, err)

	assertMoney(t, "25.00", totals.Subtotal)
	assertMoney(t, "0.00", totals.DiscountAmount)
	assertMoney(t, "2.00", totals.TaxAmount)
	assertMoney(t, "27.00", totals.Total)
}

func TestPricing_PriceTotalsDocumentDiscountAndShipping(t *testing.T) {
	pricing := service.PricingEngine{}

	item := domain.LineItem{Quantity: 10, UnitPrice: money(t, "10.00")}
	assert.NoError(t, pricing.PriceLine(&item))

	// Percent discount wins over the flat amount at document level too.
	totals, err := pricing.PriceTotals([]domain.LineItem{item},
		money(t, "10"), money(t, "50.00"), money(t, "7.50"))
	assert.NoError(t, err)

	assertMoney(t, "100.00", totals.Subtotal)
	assertMoney(t, "10.00", totals.DiscountAmount)
	assertMoney(t, "97.50", totals.Total)
}

func TestPricing_PriceTotalsValidation(t *testing.T) {
	pricing := service.PricingEngine{}

	_, err := pricing.PriceTotals(nil, money(t, "-1"), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = pricing.PriceTotals(nil, decimal.Zero, decimal.Zero, money(t, "-0.01"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPricing_Rounding(t *testing.T) {
	pricing := service.PricingEngine{}

	// 3 * 0.33 with a 7.7% tax: tax rounds half to even at the money scale.
	item := domain.LineItem{Quantity: 3, UnitPrice: money(t, "0.33"), TaxRate: money(t, "0.077")}
	assert.NoError(t, pricing.PriceLine(&item))

	assertMoney(t, "0.99", item.LineTotal)
	assertMoney(t, "0.08", item.TaxAmount)
}
