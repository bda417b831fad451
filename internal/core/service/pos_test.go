package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"github.com/salescore/backend/internal/core/port/mock"
	"github.com/salescore/backend/internal/core/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type posMocks struct {
	repo     *mock.MockRepository
	orders   *mock.MockOrderService
	payments *mock.MockPaymentService
	invoices *mock.MockInvoiceService
}

func newPOSOrchestrator(t *testing.T, m posMocks) *service.POSOrchestrator {
	t.Helper()
	logger := zap.NewNop()
	saga := service.NewSagaCoordinator(m.repo, logger)
	p, err := service.NewPOSOrchestrator(m.repo, m.orders, m.payments, m.invoices, saga, logger)
	assert.NoError(t, err)
	return p
}

func expectSagaLog(repo *mock.MockRepository) {
	repo.EXPECT().CreateSagaLog(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, log *domain.SagaLog) (*domain.SagaLog, error) {
			return log, nil
		})
	repo.EXPECT().UpdateSagaLog(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, log *domain.SagaLog) (*domain.SagaLog, error) {
			return log, nil
		}).AnyTimes()
}

func TestPOSOrchestrator_QuickSale(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	lookup := domain.LookupCustomerByCode("C42")
	saleInput := func() port.POSSaleInput {
		return port.POSSaleInput{
			Customer: lookup,
			Order: port.CreateOrderInput{
				Items: []port.LineItemInput{{ProductRef: "widget", Quantity: 2}},
			},
			Payments: []port.PaymentInput{{
				Method:   domain.PaymentMethodCash,
				Amount:   money(t, "27.00"),
				Tendered: money(t, "30.00"),
			}},
			PerformedBy: "emp-1",
		}
	}

	t.Run("Complete sale", func(t *testing.T) {
		m := posMocks{
			repo:     mock.NewMockRepository(mockCtrl),
			orders:   mock.NewMockOrderService(mockCtrl),
			payments: mock.NewMockPaymentService(mockCtrl),
			invoices: mock.NewMockInvoiceService(mockCtrl),
		}

		priced := &domain.SalesOrder{TotalAmount: money(t, "27.00")}
		draft := &domain.SalesOrder{Number: "SO-000001", Status: domain.OrderStatusDraft}
		confirmed := &domain.SalesOrder{Number: "SO-000001", Status: domain.OrderStatusConfirmed}
		paid := &domain.SalesOrder{Number: "SO-000001", Status: domain.OrderStatusConfirmed, PaymentState: domain.PaymentStatePaid}
		payment := &domain.Payment{Number: "PAY-000001", Amount: money(t, "27.00")}
		invoice := &domain.Invoice{Number: "INV-000001", OrderNumber: "SO-000001"}

		var sagaLog *domain.SagaLog
		m.orders.EXPECT().PriceOrder(gomock.Any(), gomock.Any()).Return(priced, nil)
		m.repo.EXPECT().CreateSagaLog(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, log *domain.SagaLog) (*domain.SagaLog, error) {
				sagaLog = log
				return log, nil
			})
		m.repo.EXPECT().UpdateSagaLog(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, log *domain.SagaLog) (*domain.SagaLog, error) {
				return log, nil
			}).AnyTimes()
		m.orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(draft, nil)
		m.payments.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, in port.PaymentInput) (*domain.Payment, error) {
				assert.Equal(t, draft.Number, in.OrderNumber)
				return payment, nil
			})
		m.orders.EXPECT().ConfirmOrder(gomock.Any(), draft.Number, "emp-1").Return(confirmed, nil)
		m.invoices.EXPECT().CreateInvoice(gomock.Any(), port.CreateInvoiceInput{OrderNumber: draft.Number}).Return(invoice, nil)
		m.orders.EXPECT().GetOrder(gomock.Any(), draft.Number).Return(paid, nil)

		p := newPOSOrchestrator(t, m)
		result, err := p.QuickSale(context.Background(), saleInput())

		assert.NoError(t, err)
		assert.Equal(t, paid, result.Order)
		assert.Equal(t, []*domain.Payment{payment}, result.Payments)
		assert.Equal(t, invoice, result.Invoice)
		// Runs share the saga name; the generated id tells them apart.
		assert.Equal(t, "pos_sale", sagaLog.Name)
		assert.NotEmpty(t, sagaLog.ID)
	})

	t.Run("Split payments must match the priced total before side effects", func(t *testing.T) {
		m := posMocks{
			repo:     mock.NewMockRepository(mockCtrl),
			orders:   mock.NewMockOrderService(mockCtrl),
			payments: mock.NewMockPaymentService(mockCtrl),
			invoices: mock.NewMockInvoiceService(mockCtrl),
		}

		m.orders.EXPECT().PriceOrder(gomock.Any(), gomock.Any()).
			Return(&domain.SalesOrder{TotalAmount: money(t, "27.00")}, nil)

		in := saleInput()
		in.Payments[0].Amount = money(t, "20.00")

		p := newPOSOrchestrator(t, m)
		_, err := p.QuickSale(context.Background(), in)

		assert.ErrorIs(t, err, domain.ErrSplitPaymentMismatch)
	})

	t.Run("Declined payment rolls the order back", func(t *testing.T) {
		m := posMocks{
			repo:     mock.NewMockRepository(mockCtrl),
			orders:   mock.NewMockOrderService(mockCtrl),
			payments: mock.NewMockPaymentService(mockCtrl),
			invoices: mock.NewMockInvoiceService(mockCtrl),
		}

		draft := &domain.SalesOrder{Number: "SO-000001", Status: domain.OrderStatusDraft}

		m.orders.EXPECT().PriceOrder(gomock.Any(), gomock.Any()).
			Return(&domain.SalesOrder{TotalAmount: money(t, "27.00")}, nil)
		expectSagaLog(m.repo)
		m.orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(draft, nil)
		m.payments.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(nil, domain.ErrPaymentDeclined)
		m.orders.EXPECT().CancelOrder(gomock.Any(), draft.Number).
			Return(&domain.SalesOrder{Number: draft.Number, Status: domain.OrderStatusCancelled}, nil)

		p := newPOSOrchestrator(t, m)
		_, err := p.QuickSale(context.Background(), saleInput())

		assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	})

	t.Run("Walk-in customer is created once", func(t *testing.T) {
		m := posMocks{
			repo:     mock.NewMockRepository(mockCtrl),
			orders:   mock.NewMockOrderService(mockCtrl),
			payments: mock.NewMockPaymentService(mockCtrl),
			invoices: mock.NewMockInvoiceService(mockCtrl),
		}

		emailLookup := domain.LookupCustomerByEmail("walkin@example.com")
		m.repo.EXPECT().GetCustomer(gomock.Any(), emailLookup).Return(nil, domain.ErrDataNotFound)
		m.repo.EXPECT().CreateCustomer(gomock.Any(), gomock.Any()).
			Return(&domain.Customer{ID: "cust-9", Email: "walkin@example.com"}, nil)
		m.orders.EXPECT().PriceOrder(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, in port.CreateOrderInput) (*domain.SalesOrder, error) {
				assert.Equal(t, domain.LookupCustomerByID("cust-9"), in.Customer)
				// Fail the pricing pass to keep the test focused on resolution.
				return nil, domain.ErrProductNotFound
			})

		in := saleInput()
		in.Customer = domain.CustomerLookup{}
		in.NewCustomer = &domain.Customer{Email: "walkin@example.com", Name: "Walk In"}

		p := newPOSOrchestrator(t, m)
		_, err := p.QuickSale(context.Background(), in)

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("No payments", func(t *testing.T) {
		m := posMocks{
			repo:     mock.NewMockRepository(mockCtrl),
			orders:   mock.NewMockOrderService(mockCtrl),
			payments: mock.NewMockPaymentService(mockCtrl),
			invoices: mock.NewMockInvoiceService(mockCtrl),
		}

		in := saleInput()
		in.Payments = nil

		p := newPOSOrchestrator(t, m)
		_, err := p.QuickSale(context.Background(), in)

		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
