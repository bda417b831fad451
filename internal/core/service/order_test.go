package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"github.com/salescore/backend/internal/core/port/mock"
	"github.com/salescore/backend/internal/core/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newOrderService(t *testing.T, repo *mock.MockRepository,
	inventory *mock.MockInventoryClient, policy service.OrderPolicy) *service.OrderService {
	t.Helper()
	logger := zap.NewNop()
	sequences := service.NewSequenceAllocator(repo, logger)
	stock := service.NewStockCoordinator(inventory, logger)
	s, err := service.NewOrderService(repo, inventory, sequences, stock, policy, logger)
	assert.NoError(t, err)
	return s
}

func passThroughOrder(ctx context.Context, order *domain.SalesOrder) (*domain.SalesOrder, error) {
	return order, nil
}

func TestOrderService_CreateOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	customer := &domain.Customer{ID: "cust-1", Code: "C42"}
	lookup := domain.LookupCustomerByCode("C42")

	input := port.CreateOrderInput{
		Customer: lookup,
		Items: []port.LineItemInput{
			{ProductRef: "widget", Quantity: 2},
			{ProductRef: "gadget", Quantity: 1},
		},
	}

	t.Run("Prices, numbers and persists a draft", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)

		repo.EXPECT().GetCustomer(gomock.Any(), lookup).Return(customer, nil)
		inventory.EXPECT().GetProduct(gomock.Any(), "widget").
			Return(&domain.Product{ID: "p1", SKU: "W-1", Name: "Widget", Price: money(t, "10.00"), TaxRate: money(t, "0.10")}, nil)
		inventory.EXPECT().GetProduct(gomock.Any(), "gadget").
			Return(&domain.Product{ID: "p2", SKU: "G-1", Name: "Gadget", Price: money(t, "5.00")}, nil)
		repo.EXPECT().NextSequence(gomock.Any(), service.FamilyOrder).Return(uint64(1), nil)
		repo.EXPECT().NumberExists(gomock.Any(), service.FamilyOrder, domain.DocumentNumber("SO-000001")).Return(false, nil)
		repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passThroughOrder)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		order, err := s.CreateOrder(context.Background(), input)

		assert.NoError(t, err)
		assert.Equal(t, domain.DocumentNumber("SO-000001"), order.Number)
		assert.Equal(t, "cust-1", order.CustomerID)
		assert.Equal(t, domain.OrderStatusDraft, order.Status)
		assert.Equal(t, domain.PaymentStatePending, order.PaymentState)
		assertMoney(t, "25.00", order.Subtotal)
		assertMoney(t, "2.00", order.TaxAmount)
		assertMoney(t, "27.00", order.TotalAmount)
		assertMoney(t, "27.00", order.BalanceDue)
	})

	t.Run("Unknown customer", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().GetCustomer(gomock.Any(), lookup).Return(nil, domain.ErrDataNotFound)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		_, err := s.CreateOrder(context.Background(), input)

		assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	})

	t.Run("Unknown product", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().GetCustomer(gomock.Any(), lookup).Return(customer, nil)
		inventory.EXPECT().GetProduct(gomock.Any(), "widget").Return(nil, domain.ErrDataNotFound)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		_, err := s.CreateOrder(context.Background(), input)

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("Inventory collaborator down", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().GetCustomer(gomock.Any(), lookup).Return(customer, nil)
		inventory.EXPECT().GetProduct(gomock.Any(), "widget").Return(nil, errors.New("connection refused"))

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		_, err := s.CreateOrder(context.Background(), input)

		assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
	})

	t.Run("No items", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		_, err := s.CreateOrder(context.Background(), port.CreateOrderInput{Customer: lookup})

		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestOrderService_ConfirmOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("Partial stock acknowledgement still confirms", func(t *testing.T) {
		order := &domain.SalesOrder{
			Number:     "SO-000001",
			CustomerID: "cust-1",
			Status:     domain.OrderStatusDraft,
			Items: []domain.LineItem{
				{ProductID: "p1", Quantity: 2},
				{ProductID: "p2", Quantity: 1},
			},
			TotalAmount: money(t, "27.00"),
		}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)
		inventory.EXPECT().Fulfill(gomock.Any(), "p1", int64(2), order.Number, "emp-1").Return(true, nil)
		inventory.EXPECT().Fulfill(gomock.Any(), "p2", int64(1), order.Number, "emp-1").Return(false, errors.New("timeout"))
		repo.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passThroughOrder)
		repo.EXPECT().UpdateCustomerStats(gomock.Any(), "cust-1", order.TotalAmount).Return(nil)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		confirmed, err := s.ConfirmOrder(context.Background(), order.Number, "emp-1")

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, confirmed.Status)
		assert.Equal(t, []string{"p1"}, confirmed.FulfilledItems)
	})

	t.Run("Stats update failure does not fail confirmation", func(t *testing.T) {
		order := &domain.SalesOrder{
			Number:      "SO-000002",
			CustomerID:  "cust-1",
			Status:      domain.OrderStatusDraft,
			Items:       []domain.LineItem{{ProductID: "p1", Quantity: 1}},
			TotalAmount: money(t, "10.00"),
		}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)
		inventory.EXPECT().Fulfill(gomock.Any(), "p1", int64(1), order.Number, "emp-1").Return(true, nil)
		repo.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passThroughOrder)
		repo.EXPECT().UpdateCustomerStats(gomock.Any(), "cust-1", gomock.Any()).Return(errors.New("deadlock"))

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		confirmed, err := s.ConfirmOrder(context.Background(), order.Number, "emp-1")

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, confirmed.Status)
	})

	t.Run("Only drafts confirm", func(t *testing.T) {
		order := &domain.SalesOrder{Number: "SO-000003", Status: domain.OrderStatusConfirmed}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		_, err := s.ConfirmOrder(context.Background(), order.Number, "emp-1")

		assert.ErrorIs(t, err, domain.ErrOrderStateConflict)
	})
}

func TestOrderService_CancelOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("Draft cancels without a stock release", func(t *testing.T) {
		order := &domain.SalesOrder{
			Number: "SO-000001",
			Status: domain.OrderStatusDraft,
			Items:  []domain.LineItem{{ProductID: "p1", Quantity: 1}},
		}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)
		repo.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passThroughOrder)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		cancelled, err := s.CancelOrder(context.Background(), order.Number)

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	})

	t.Run("Confirmed releases held stock", func(t *testing.T) {
		order := &domain.SalesOrder{
			Number: "SO-000002",
			Status: domain.OrderStatusConfirmed,
			Items: []domain.LineItem{
				{ProductID: "p1", Quantity: 2},
				{ProductID: "p2", Quantity: 1},
			},
		}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)
		inventory.EXPECT().Release(gomock.Any(), "p1", int64(2), order.Number).Return(true, nil)
		inventory.EXPECT().Release(gomock.Any(), "p2", int64(1), order.Number).Return(true, nil)
		repo.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passThroughOrder)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		cancelled, err := s.CancelOrder(context.Background(), order.Number)

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	})

	t.Run("Delivered orders are not cancellable", func(t *testing.T) {
		order := &domain.SalesOrder{Number: "SO-000003", Status: domain.OrderStatusDelivered}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		_, err := s.CancelOrder(context.Background(), order.Number)

		assert.ErrorIs(t, err, domain.ErrOrderStateConflict)
	})
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("Pipeline transition", func(t *testing.T) {
		order := &domain.SalesOrder{Number: "SO-000001", Status: domain.OrderStatusConfirmed}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)
		repo.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passThroughOrder)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		updated, err := s.UpdateOrderStatus(context.Background(), order.Number, domain.OrderStatusProcessing)

		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusProcessing, updated.Status)
	})

	t.Run("Confirmation is not reachable here", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		_, err := s.UpdateOrderStatus(context.Background(), "SO-000001", domain.OrderStatusConfirmed)

		assert.ErrorIs(t, err, domain.ErrOrderStateConflict)
	})

	t.Run("Status machine rejects a skipped stage", func(t *testing.T) {
		order := &domain.SalesOrder{Number: "SO-000001", Status: domain.OrderStatusDraft}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		_, err := s.UpdateOrderStatus(context.Background(), order.Number, domain.OrderStatusShipped)

		assert.ErrorIs(t, err, domain.ErrOrderStateConflict)
	})
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("Partial payment", func(t *testing.T) {
		order := &domain.SalesOrder{
			Number:      "SO-000001",
			Status:      domain.OrderStatusConfirmed,
			TotalAmount: money(t, "27.00"),
			PaidAmount:  decimal.Zero,
		}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)
		repo.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passThroughOrder)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		updated, err := s.UpdatePaymentStatus(context.Background(), order.Number, money(t, "10.00"), false)

		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatePartial, updated.PaymentState)
		assertMoney(t, "17.00", updated.BalanceDue)
	})

	t.Run("Paid in full", func(t *testing.T) {
		order := &domain.SalesOrder{
			Number:      "SO-000001",
			TotalAmount: money(t, "27.00"),
			PaidAmount:  money(t, "10.00"),
		}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)
		repo.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passThroughOrder)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		updated, err := s.UpdatePaymentStatus(context.Background(), order.Number, money(t, "27.00"), false)

		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatePaid, updated.PaymentState)
		assertMoney(t, "0.00", updated.BalanceDue)
	})

	t.Run("Paid amount cannot shrink outside a refund", func(t *testing.T) {
		order := &domain.SalesOrder{
			Number:      "SO-000001",
			TotalAmount: money(t, "27.00"),
			PaidAmount:  money(t, "20.00"),
		}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		_, err := s.UpdatePaymentStatus(context.Background(), order.Number, money(t, "10.00"), false)

		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Full refund lands on refunded", func(t *testing.T) {
		order := &domain.SalesOrder{
			Number:      "SO-000001",
			TotalAmount: money(t, "27.00"),
			PaidAmount:  money(t, "27.00"),
		}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)
		repo.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passThroughOrder)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		updated, err := s.UpdatePaymentStatus(context.Background(), order.Number, decimal.Zero, true)

		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStateRefunded, updated.PaymentState)
	})
}

func TestOrderService_DeleteOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	t.Run("Draft soft-deletes", func(t *testing.T) {
		order := &domain.SalesOrder{Number: "SO-000001", Status: domain.OrderStatusDraft}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)
		repo.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, o *domain.SalesOrder) (*domain.SalesOrder, error) {
				assert.True(t, o.Deleted)
				assert.Equal(t, domain.OrderStatusCancelled, o.Status)
				return o, nil
			})

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		err := s.DeleteOrder(context.Background(), order.Number)

		assert.NoError(t, err)
	})

	t.Run("Finalized orders refuse deletion by default", func(t *testing.T) {
		order := &domain.SalesOrder{Number: "SO-000002", Status: domain.OrderStatusShipped}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{})
		err := s.DeleteOrder(context.Background(), order.Number)

		assert.ErrorIs(t, err, domain.ErrOrderStateConflict)
	})

	t.Run("Policy knob admits finalized deletions", func(t *testing.T) {
		order := &domain.SalesOrder{Number: "SO-000003", Status: domain.OrderStatusDelivered}

		repo := mock.NewMockRepository(mockCtrl)
		inventory := mock.NewMockInventoryClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.Number).Return(order, nil)
		repo.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).DoAndReturn(passThroughOrder)

		s := newOrderService(t, repo, inventory, service.OrderPolicy{DeleteFinalized: true})
		err := s.DeleteOrder(context.Background(), order.Number)

		assert.NoError(t, err)
	})
}
