package port

import (
	"context"
	"time"

	"github.com/govalues/decimal"
	"github.com/salescore/backend/internal/core/domain"
)

type LineItemInput struct {
	ProductRef      string
	Quantity        int64
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
}

type CreateOrderInput struct {
	Customer        domain.CustomerLookup
	Items           []LineItemInput
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	ShippingCost    decimal.Decimal
}

type CardInput struct {
	Number string
	Holder string
	Expiry string
	CVV    string
}

type PaymentInput struct {
	Method        domain.PaymentMethod
	Amount        decimal.Decimal
	Currency      string
	Tendered      decimal.Decimal
	Card          CardInput
	OrderNumber   domain.DocumentNumber
	InvoiceNumber domain.DocumentNumber
	CustomerID    string
}

type InvoiceLineInput struct {
	ProductID       string
	SKU             string
	Name            string
	Quantity        int64
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxRate         decimal.Decimal
}

type CreateInvoiceInput struct {
	OrderNumber domain.DocumentNumber
	CustomerID  string
	Items       []InvoiceLineInput
	DueDate     *time.Time
	TermDays    int
}

type POSSaleInput struct {
	Customer    domain.CustomerLookup
	NewCustomer *domain.Customer
	Order       CreateOrderInput
	Payments    []PaymentInput
	PerformedBy string
}

type POSSaleResult struct {
	Order    *domain.SalesOrder
	Payments []*domain.Payment
	Invoice  *domain.Invoice
}

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.SalesOrder, error)
	PriceOrder(ctx context.Context, in CreateOrderInput) (*domain.SalesOrder, error)
	GetOrder(ctx context.Context, number domain.DocumentNumber) (*domain.SalesOrder, error)
	ListOrders(ctx context.Context) ([]*domain.SalesOrder, error)
	ConfirmOrder(ctx context.Context, number domain.DocumentNumber, performedBy string) (*domain.SalesOrder, error)
	CancelOrder(ctx context.Context, number domain.DocumentNumber) (*domain.SalesOrder, error)
	UpdateOrderStatus(ctx context.Context, number domain.DocumentNumber, status domain.OrderStatus) (*domain.SalesOrder, error)
	DeleteOrder(ctx context.Context, number domain.DocumentNumber) error
}

// OrderPaymentUpdater is the narrow slice of the order service the
// payment side calls back into. Paid amounts only decrease via refund.
type OrderPaymentUpdater interface {
	GetOrder(ctx context.Context, number domain.DocumentNumber) (*domain.SalesOrder, error)
	UpdatePaymentStatus(ctx context.Context, number domain.DocumentNumber,
		paid decimal.Decimal, viaRefund bool) (*domain.SalesOrder, error)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, in PaymentInput) (*domain.Payment, error)
	GetPayment(ctx context.Context, number domain.DocumentNumber) (*domain.Payment, error)
	CreateRefund(ctx context.Context, paymentNumber domain.DocumentNumber,
		amount decimal.Decimal, reason string) (*domain.Refund, error)
}

type InvoiceService interface {
	CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, number domain.DocumentNumber) (*domain.Invoice, error)
	RecordPayment(ctx context.Context, number domain.DocumentNumber, in PaymentInput) (*domain.Invoice, error)
	MarkSent(ctx context.Context, number domain.DocumentNumber) (*domain.Invoice, error)
	VoidInvoice(ctx context.Context, number domain.DocumentNumber) (*domain.Invoice, error)
}

type POSService interface {
	QuickSale(ctx context.Context, in POSSaleInput) (*POSSaleResult, error)
}
