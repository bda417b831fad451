package service

import (
	"context"
	"fmt"

	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"go.uber.org/zap"
)

// Document number families.
const (
	FamilyOrder   = "SO"
	FamilyQuote   = "QT"
	FamilyInvoice = "INV"
	FamilyPayment = "PAY"
	FamilyRefund  = "REF"
)

const maxSequenceRetries = 5

// SequenceAllocator hands out human-readable document numbers backed by
// an atomic per-family counter. The counter never decrements, so numbers
// stay unique even after deletions. Collisions are still possible
// against rows imported from elsewhere; those are retried a bounded
// number of times and then the allocator fails closed. There is no
// timestamp fallback.
type SequenceAllocator struct {
	repo   port.Repository
	logger *zap.Logger
}

func NewSequenceAllocator(repo port.Repository, logger *zap.Logger) *SequenceAllocator {
	return &SequenceAllocator{repo: repo, logger: logger}
}

func (a *SequenceAllocator) Next(ctx context.Context, family string) (domain.DocumentNumber, error) {
	for attempt := 0; attempt < maxSequenceRetries; attempt++ {
		value, err := a.repo.NextSequence(ctx, family)
		if err != nil {
			a.logger.Error("sequence increment failed", zap.String("family", family), zap.Error(err))
			return "", domain.ErrInternal
		}

		number := domain.DocumentNumber(fmt.Sprintf("%s-%06d", family, value))

		exists, err := a.repo.NumberExists(ctx, family, number)
		if err != nil {
			a.logger.Error("sequence uniqueness check failed", zap.String("family", family), zap.Error(err))
			return "", domain.ErrInternal
		}
		if !exists {
			return number, nil
		}

		a.logger.Warn("document number collision, retrying",
			zap.String("family", family), zap.String("number", string(number)))
	}

	return "", domain.ErrSequenceExhausted
}
