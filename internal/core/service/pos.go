package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/govalues/decimal"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"go.uber.org/zap"
)

// POSOrchestrator composes order, payments and invoice into one logical
// sale, executed as a saga: resolve-or-create customer, create order,
// one payment step per tender, confirm (the fulfillment trigger),
// invoice. A failing step rolls the earlier ones back.
type POSOrchestrator struct {
	repo     port.Repository
	orders   port.OrderService
	payments port.PaymentService
	invoices port.InvoiceService
	saga     *SagaCoordinator
	logger   *zap.Logger
}

func NewPOSOrchestrator(repo port.Repository, orders port.OrderService,
	payments port.PaymentService, invoices port.InvoiceService,
	saga *SagaCoordinator, logger *zap.Logger) (*POSOrchestrator, error) {
	return &POSOrchestrator{
		repo:     repo,
		orders:   orders,
		payments: payments,
		invoices: invoices,
		saga:     saga,
		logger:   logger,
	}, nil
}

func (p *POSOrchestrator) QuickSale(ctx context.Context, in port.POSSaleInput) (*port.POSSaleResult, error) {
	if len(in.Payments) == 0 {
		return nil, domain.ErrValidation
	}

	lookup := in.Customer
	if in.NewCustomer != nil {
		// Walk-in customer: accept an existing match by email, create otherwise.
		lookup = domain.LookupCustomerByEmail(in.NewCustomer.Email)
		if _, err := p.repo.GetCustomer(ctx, lookup); err != nil {
			if !errors.Is(err, domain.ErrDataNotFound) {
				p.logger.Error("resolve pos customer", zap.Error(err))
				return nil, domain.ErrInternal
			}
			created, err := p.repo.CreateCustomer(ctx, in.NewCustomer)
			if err != nil {
				p.logger.Error("create pos customer", zap.Error(err))
				return nil, domain.ErrInternal
			}
			lookup = domain.LookupCustomerByID(created.ID)
		}
	}

	orderInput := in.Order
	orderInput.Customer = lookup

	// Split payments must cover the order total exactly, checked
	// against a side-effect-free pricing pass before anything commits.
	priced, err := p.orders.PriceOrder(ctx, orderInput)
	if err != nil {
		return nil, err
	}
	sum := decimal.Zero
	for _, payment := range in.Payments {
		sum, err = sum.Add(payment.Amount)
		if err != nil {
			p.logger.Error("sum pos payments", zap.Error(err))
			return nil, domain.ErrInternal
		}
	}
	if domain.RoundMoney(sum).Cmp(priced.TotalAmount) != 0 {
		return nil, domain.ErrSplitPaymentMismatch
	}

	result := &port.POSSaleResult{}

	steps := []SagaStep{
		&sagaStep{
			name: "create_order",
			execute: func(ctx context.Context) error {
				order, err := p.orders.CreateOrder(ctx, orderInput)
				if err != nil {
					return err
				}
				result.Order = order
				return nil
			},
			compensate: func(ctx context.Context) error {
				// A later compensation may have cancelled the order already.
				_, err := p.orders.CancelOrder(ctx, result.Order.Number)
				if errors.Is(err, domain.ErrOrderStateConflict) {
					return nil
				}
				return err
			},
		},
	}

	for i := range in.Payments {
		payment := in.Payments[i]
		steps = append(steps, &sagaStep{
			name: fmt.Sprintf("collect_payment_%d", i+1),
			execute: func(ctx context.Context) error {
				payment.OrderNumber = result.Order.Number
				created, err := p.payments.CreatePayment(ctx, payment)
				if err != nil {
					return err
				}
				result.Payments = append(result.Payments, created)
				return nil
			},
			compensate: func(ctx context.Context) error {
				collected := result.Payments[len(result.Payments)-1]
				result.Payments = result.Payments[:len(result.Payments)-1]
				_, err := p.payments.CreateRefund(ctx, collected.Number,
					collected.Amount, "pos sale rolled back")
				return err
			},
		})
	}

	steps = append(steps,
		&sagaStep{
			name: "confirm_order",
			execute: func(ctx context.Context) error {
				order, err := p.orders.ConfirmOrder(ctx, result.Order.Number, in.PerformedBy)
				if err != nil {
					return err
				}
				result.Order = order
				return nil
			},
			compensate: func(ctx context.Context) error {
				order, err := p.orders.CancelOrder(ctx, result.Order.Number)
				if err != nil {
					return err
				}
				result.Order = order
				return nil
			},
		},
		&sagaStep{
			name: "create_invoice",
			execute: func(ctx context.Context) error {
				invoice, err := p.invoices.CreateInvoice(ctx, port.CreateInvoiceInput{
					OrderNumber: result.Order.Number,
				})
				if err != nil {
					return err
				}
				result.Invoice = invoice
				return nil
			},
		},
	)

	if err := p.saga.Run(ctx, "pos_sale", steps); err != nil {
		return nil, err
	}

	// Reflect the payment updates applied during the saga.
	order, err := p.orders.GetOrder(ctx, result.Order.Number)
	if err != nil {
		return nil, err
	}
	result.Order = order

	return result, nil
}
