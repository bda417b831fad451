package domain

import "github.com/govalues/decimal"

// Product is the read model served by the inventory collaborator.
type Product struct {
	ID      string
	SKU     string
	Name    string
	Price   decimal.Decimal
	TaxRate decimal.Decimal
}
