package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port/mock"
	"github.com/salescore/backend/internal/core/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStockCoordinator_FulfillOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	order := &domain.SalesOrder{
		Number: "SO-000042",
		Items: []domain.LineItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
			{ProductID: "p3", Quantity: 4},
		},
	}

	t.Run("All lines acknowledged", func(t *testing.T) {
		inventory := mock.NewMockInventoryClient(mockCtrl)
		inventory.EXPECT().Fulfill(gomock.Any(), "p1", int64(2), order.Number, "emp-1").Return(true, nil)
		inventory.EXPECT().Fulfill(gomock.Any(), "p2", int64(1), order.Number, "emp-1").Return(true, nil)
		inventory.EXPECT().Fulfill(gomock.Any(), "p3", int64(4), order.Number, "emp-1").Return(true, nil)

		c := service.NewStockCoordinator(inventory, zap.NewNop())
		fulfilled := c.FulfillOrder(context.Background(), order, "emp-1")

		assert.Equal(t, []string{"p1", "p2", "p3"}, fulfilled)
	})

	t.Run("Failed and rejected lines are skipped, the rest proceed", func(t *testing.T) {
		inventory := mock.NewMockInventoryClient(mockCtrl)
		inventory.EXPECT().Fulfill(gomock.Any(), "p1", int64(2), order.Number, "emp-1").Return(true, nil)
		inventory.EXPECT().Fulfill(gomock.Any(), "p2", int64(1), order.Number, "emp-1").Return(false, errors.New("timeout"))
		inventory.EXPECT().Fulfill(gomock.Any(), "p3", int64(4), order.Number, "emp-1").Return(false, nil)

		c := service.NewStockCoordinator(inventory, zap.NewNop())
		fulfilled := c.FulfillOrder(context.Background(), order, "emp-1")

		assert.Equal(t, []string{"p1"}, fulfilled)
	})
}

func TestStockCoordinator_ReleaseOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	order := &domain.SalesOrder{
		Number: "SO-000042",
		Items: []domain.LineItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	}

	inventory := mock.NewMockInventoryClient(mockCtrl)
	inventory.EXPECT().Release(gomock.Any(), "p1", int64(2), order.Number).Return(false, errors.New("boom"))
	inventory.EXPECT().Release(gomock.Any(), "p2", int64(1), order.Number).Return(true, nil)

	c := service.NewStockCoordinator(inventory, zap.NewNop())
	released := c.ReleaseOrder(context.Background(), order)

	assert.Equal(t, []string{"p2"}, released)
}
