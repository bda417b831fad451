package domain

import (
	"time"

	"github.com/govalues/decimal"
)

// CustomerLookupKind tags which identifier a caller resolved a customer by.
// The resolution is explicit: there is no id-then-email-then-code fallback.
type CustomerLookupKind string

const (
	CustomerByID    CustomerLookupKind = "id"
	CustomerByEmail CustomerLookupKind = "email"
	CustomerByCode  CustomerLookupKind = "code"
)

type CustomerLookup struct {
	Kind  CustomerLookupKind
	Value string
}

func LookupCustomerByID(id string) CustomerLookup {
	return CustomerLookup{Kind: CustomerByID, Value: id}
}

func LookupCustomerByEmail(email string) CustomerLookup {
	return CustomerLookup{Kind: CustomerByEmail, Value: email}
}

func LookupCustomerByCode(code string) CustomerLookup {
	return CustomerLookup{Kind: CustomerByCode, Value: code}
}

type Customer struct {
	ID            string
	Code          string
	Email         string
	Name          string
	PaymentTerms  int
	OrderCount    int64
	LifetimeSpend decimal.Decimal
	CreatedAt     time.Time
}
