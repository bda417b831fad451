package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port/mock"
	"github.com/salescore/backend/internal/core/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSequenceAllocator_Next(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger := zap.NewNop()

	t.Run("First number of a family", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		repo.EXPECT().NextSequence(gomock.Any(), service.FamilyOrder).Return(uint64(1), nil)
		repo.EXPECT().NumberExists(gomock.Any(), service.FamilyOrder, domain.DocumentNumber("SO-000001")).Return(false, nil)

		a := service.NewSequenceAllocator(repo, logger)
		number, err := a.Next(context.Background(), service.FamilyOrder)

		assert.NoError(t, err)
		assert.Equal(t, domain.DocumentNumber("SO-000001"), number)
	})

	t.Run("Collision retries with the next counter value", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		repo.EXPECT().NextSequence(gomock.Any(), service.FamilyInvoice).Return(uint64(7), nil)
		repo.EXPECT().NumberExists(gomock.Any(), service.FamilyInvoice, domain.DocumentNumber("INV-000007")).Return(true, nil)
		repo.EXPECT().NextSequence(gomock.Any(), service.FamilyInvoice).Return(uint64(8), nil)
		repo.EXPECT().NumberExists(gomock.Any(), service.FamilyInvoice, domain.DocumentNumber("INV-000008")).Return(false, nil)

		a := service.NewSequenceAllocator(repo, logger)
		number, err := a.Next(context.Background(), service.FamilyInvoice)

		assert.NoError(t, err)
		assert.Equal(t, domain.DocumentNumber("INV-000008"), number)
	})

	t.Run("Fails closed after bounded retries", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		repo.EXPECT().NextSequence(gomock.Any(), service.FamilyPayment).Return(uint64(1), nil).Times(5)
		repo.EXPECT().NumberExists(gomock.Any(), service.FamilyPayment, gomock.Any()).Return(true, nil).Times(5)

		a := service.NewSequenceAllocator(repo, logger)
		_, err := a.Next(context.Background(), service.FamilyPayment)

		assert.ErrorIs(t, err, domain.ErrSequenceExhausted)
	})

	t.Run("Counter failure", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		repo.EXPECT().NextSequence(gomock.Any(), service.FamilyRefund).Return(uint64(0), domain.ErrInternal)

		a := service.NewSequenceAllocator(repo, logger)
		_, err := a.Next(context.Background(), service.FamilyRefund)

		assert.ErrorIs(t, err, domain.ErrInternal)
	})
}
