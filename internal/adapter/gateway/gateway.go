package gateway

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"go.uber.org/zap"
)

// SimulatedGateway stands in for a real card processor behind the
// PaymentGateway port. It validates the card shape and mints
// transaction ids; swapping in a production processor only touches the
// wiring in main.
type SimulatedGateway struct {
	logger *zap.Logger
}

func NewSimulatedGateway(log *zap.Logger) (*SimulatedGateway, error) {
	return &SimulatedGateway{logger: log}, nil
}

func (g *SimulatedGateway) Charge(ctx context.Context, req port.ChargeRequest) (*port.ChargeResult, error) {
	number := strings.ReplaceAll(req.CardNumber, " ", "")
	if len(number) < 12 || !req.Amount.IsPos() {
		return nil, domain.ErrPaymentDeclined
	}
	// Processor test convention: cards ending in 0000 decline.
	if strings.HasSuffix(number, "0000") {
		return nil, domain.ErrPaymentDeclined
	}

	result := &port.ChargeResult{
		TransactionID: uuid.NewString(),
		AuthCode:      strings.ToUpper(uuid.NewString()[:6]),
		LastFour:      number[len(number)-4:],
	}

	g.logger.Debug("charge approved",
		zap.String("transaction", result.TransactionID),
		zap.String("last_four", result.LastFour))

	return result, nil
}
