package service

import (
	"context"
	"errors"
	"time"

	"github.com/govalues/decimal"
	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"go.uber.org/zap"
)

// InvoiceService derives invoices from orders or prices standalone
// lines. Balance updates go through PaymentService so order and invoice
// reconciliation cannot drift.
type InvoiceService struct {
	repo            port.Repository
	pricing         PricingEngine
	payments        port.PaymentService
	sequences       *SequenceAllocator
	defaultTermDays int
	logger          *zap.Logger
}

func NewInvoiceService(repo port.Repository, payments port.PaymentService,
	sequences *SequenceAllocator, defaultTermDays int,
	logger *zap.Logger) (*InvoiceService, error) {
	return &InvoiceService{
		repo:            repo,
		payments:        payments,
		sequences:       sequences,
		defaultTermDays: defaultTermDays,
		logger:          logger,
	}, nil
}

func (s *InvoiceService) CreateInvoice(ctx context.Context, in port.CreateInvoiceInput) (*domain.Invoice, error) {
	now := time.Now()
	invoice := &domain.Invoice{
		Status:     domain.InvoiceStatusDraft,
		IssueDate:  now,
		PaidAmount: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if in.OrderNumber != "" {
		order, err := s.repo.ReadOrder(ctx, in.OrderNumber)
		if err != nil {
			if errors.Is(err, domain.ErrDataNotFound) {
				return nil, domain.ErrOrderNotFound
			}
			s.logger.Error("read source order", zap.String("number", string(in.OrderNumber)), zap.Error(err))
			return nil, domain.ErrInternal
		}

		invoice.OrderNumber = order.Number
		invoice.CustomerID = order.CustomerID
		invoice.Items = order.Items
		invoice.Subtotal = order.Subtotal
		invoice.DiscountAmt = order.DiscountAmount
		invoice.TaxAmount = order.TaxAmount
		invoice.ShippingCost = order.ShippingCost
		invoice.TotalAmount = order.TotalAmount
		invoice.PaidAmount = order.PaidAmount
	} else {
		if len(in.Items) == 0 {
			return nil, domain.ErrValidation
		}

		items := make([]domain.LineItem, 0, len(in.Items))
		for _, line := range in.Items {
			item := domain.LineItem{
				ProductID:       line.ProductID,
				SKU:             line.SKU,
				Name:            line.Name,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				DiscountPercent: line.DiscountPercent,
				DiscountAmount:  line.DiscountAmount,
				TaxRate:         line.TaxRate,
			}
			if err := s.pricing.PriceLine(&item); err != nil {
				return nil, err
			}
			items = append(items, item)
		}

		totals, err := s.pricing.PriceTotals(items, decimal.Zero, decimal.Zero, decimal.Zero)
		if err != nil {
			return nil, err
		}

		invoice.CustomerID = in.CustomerID
		invoice.Items = items
		invoice.Subtotal = totals.Subtotal
		invoice.DiscountAmt = totals.DiscountAmount
		invoice.TaxAmount = totals.TaxAmount
		invoice.ShippingCost = decimal.Zero
		invoice.TotalAmount = totals.Total
	}

	balance, state, err := domain.ReconcileBalance(invoice.TotalAmount, invoice.PaidAmount)
	if err != nil {
		s.logger.Error("reconcile new invoice", zap.Error(err))
		return nil, domain.ErrInternal
	}
	invoice.BalanceDue = balance
	invoice.Status = domain.InvoiceStatusForPayment(state, invoice.Status)

	invoice.DueDate = s.dueDate(ctx, invoice, in)

	number, err := s.sequences.Next(ctx, FamilyInvoice)
	if err != nil {
		return nil, err
	}
	invoice.Number = number

	created, err := s.repo.CreateInvoice(ctx, invoice)
	if err != nil {
		s.logger.Error("create invoice", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return created, nil
}

// dueDate resolves, in order: explicit due date, explicit term days,
// the customer's payment terms, the configured default.
func (s *InvoiceService) dueDate(ctx context.Context, invoice *domain.Invoice, in port.CreateInvoiceInput) time.Time {
	if in.DueDate != nil {
		return *in.DueDate
	}

	days := in.TermDays
	if days <= 0 && invoice.CustomerID != "" {
		customer, err := s.repo.GetCustomer(ctx, domain.LookupCustomerByID(invoice.CustomerID))
		if err == nil && customer.PaymentTerms > 0 {
			days = customer.PaymentTerms
		}
	}
	if days <= 0 {
		days = s.defaultTermDays
	}

	return invoice.IssueDate.AddDate(0, 0, days)
}

func (s *InvoiceService) GetInvoice(ctx context.Context, number domain.DocumentNumber) (*domain.Invoice, error) {
	invoice, err := s.repo.ReadInvoice(ctx, number)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		s.logger.Error("read invoice", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return invoice, nil
}

// RecordPayment delegates to the payment service with the invoice link
// set, so the reconciliation logic runs exactly once, in one place.
func (s *InvoiceService) RecordPayment(ctx context.Context, number domain.DocumentNumber, in port.PaymentInput) (*domain.Invoice, error) {
	if _, err := s.GetInvoice(ctx, number); err != nil {
		return nil, err
	}

	in.InvoiceNumber = number
	if _, err := s.payments.CreatePayment(ctx, in); err != nil {
		return nil, err
	}

	return s.GetInvoice(ctx, number)
}

func (s *InvoiceService) MarkSent(ctx context.Context, number domain.DocumentNumber) (*domain.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, number)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceStatusDraft {
		return nil, domain.ErrInvoiceStateConflict
	}

	invoice.Status = domain.InvoiceStatusSent
	invoice.UpdatedAt = time.Now()

	updated, err := s.repo.UpdateInvoice(ctx, invoice)
	if err != nil {
		s.logger.Error("mark invoice sent", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return updated, nil
}

func (s *InvoiceService) VoidInvoice(ctx context.Context, number domain.DocumentNumber) (*domain.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, number)
	if err != nil {
		return nil, err
	}
	if !invoice.Voidable() {
		return nil, domain.ErrInvoiceStateConflict
	}

	invoice.Status = domain.InvoiceStatusVoid
	invoice.UpdatedAt = time.Now()

	updated, err := s.repo.UpdateInvoice(ctx, invoice)
	if err != nil {
		s.logger.Error("void invoice", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return updated, nil
}
