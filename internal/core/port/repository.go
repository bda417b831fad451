package port

import (
	"context"

	"github.com/govalues/decimal"
	"github.com/salescore/backend/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// Customer
	GetCustomer(ctx context.Context, lookup domain.CustomerLookup) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	UpdateCustomerStats(ctx context.Context, customerID string, orderTotal decimal.Decimal) error

	// Order
	CreateOrder(ctx context.Context, order *domain.SalesOrder) (*domain.SalesOrder, error)
	ReadOrder(ctx context.Context, number domain.DocumentNumber) (*domain.SalesOrder, error)
	UpdateOrder(ctx context.Context, order *domain.SalesOrder) (*domain.SalesOrder, error)
	ListOrders(ctx context.Context) ([]*domain.SalesOrder, error)

	// Payment
	CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	ReadPayment(ctx context.Context, number domain.DocumentNumber) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	ListPaymentsByOrder(ctx context.Context, orderNumber domain.DocumentNumber) ([]*domain.Payment, error)

	// Invoice
	CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
	ReadInvoice(ctx context.Context, number domain.DocumentNumber) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)

	// Refund
	CreateRefund(ctx context.Context, refund *domain.Refund) (*domain.Refund, error)

	// Sequence counters, one row per document family, atomic increment.
	NextSequence(ctx context.Context, family string) (uint64, error)
	NumberExists(ctx context.Context, family string, number domain.DocumentNumber) (bool, error)

	// Saga log
	CreateSagaLog(ctx context.Context, log *domain.SagaLog) (*domain.SagaLog, error)
	UpdateSagaLog(ctx context.Context, log *domain.SagaLog) (*domain.SagaLog, error)
}
