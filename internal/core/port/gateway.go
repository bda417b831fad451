package port

import (
	"context"

	"github.com/govalues/decimal"
)

type ChargeRequest struct {
	Amount     decimal.Decimal
	Currency   string
	CardNumber string
	CardHolder string
	Expiry     string
	CVV        string
}

type ChargeResult struct {
	TransactionID string
	AuthCode      string
	LastFour      string
}

// PaymentGateway is the pluggable card-processing capability. A declined
// charge surfaces as an error; the caller must not persist anything for it.
//
//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
