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

// PaymentService owns Payment and Refund. Completed payments linked to
// an order or invoice push the new cumulative paid amount through the
// shared balance reconciliation.
type PaymentService struct {
	repo      port.Repository
	gateway   port.PaymentGateway
	orders    port.OrderPaymentUpdater
	sequences *SequenceAllocator
	logger    *zap.Logger
}

func NewPaymentService(repo port.Repository, gateway port.PaymentGateway,
	orders port.OrderPaymentUpdater, sequences *SequenceAllocator,
	logger *zap.Logger) (*PaymentService, error) {
	return &PaymentService{
		repo:      repo,
		gateway:   gateway,
		orders:    orders,
		sequences: sequences,
		logger:    logger,
	}, nil
}

func (s *PaymentService) CreatePayment(ctx context.Context, in port.PaymentInput) (*domain.Payment, error) {
	if !in.Amount.IsPos() {
		return nil, domain.ErrValidation
	}

	// Validate links before any side effect.
	var order *domain.SalesOrder
	if in.OrderNumber != "" {
		var err error
		order, err = s.orders.GetOrder(ctx, in.OrderNumber)
		if err != nil {
			return nil, err
		}
	}
	var invoice *domain.Invoice
	if in.InvoiceNumber != "" {
		var err error
		invoice, err = s.readInvoice(ctx, in.InvoiceNumber)
		if err != nil {
			return nil, err
		}
	}

	payment := &domain.Payment{
		Method:         in.Method,
		Amount:         domain.RoundMoney(in.Amount),
		Currency:       in.Currency,
		OrderNumber:    in.OrderNumber,
		InvoiceNumber:  in.InvoiceNumber,
		CustomerID:     in.CustomerID,
		RefundedAmount: decimal.Zero,
	}

	switch {
	case in.Method == domain.PaymentMethodCash:
		if in.Tendered.Cmp(in.Amount) < 0 {
			return nil, domain.ErrInsufficientTender
		}
		change, err := in.Tendered.Sub(in.Amount)
		if err != nil {
			s.logger.Error("cash change", zap.Error(err))
			return nil, domain.ErrInternal
		}
		payment.Cash = &domain.CashDetails{
			Tendered: domain.RoundMoney(in.Tendered),
			Change:   domain.RoundMoney(change),
		}
		payment.Status = domain.PaymentStatusCompleted

	case in.Method.IsCard():
		// A declined charge leaves no payment record behind.
		result, err := s.gateway.Charge(ctx, port.ChargeRequest{
			Amount:     payment.Amount,
			Currency:   in.Currency,
			CardNumber: in.Card.Number,
			CardHolder: in.Card.Holder,
			Expiry:     in.Card.Expiry,
			CVV:        in.Card.CVV,
		})
		if err != nil {
			s.logger.Warn("card charge declined", zap.Error(err))
			return nil, domain.ErrPaymentDeclined
		}
		payment.Card = &domain.CardDetails{
			LastFour:      result.LastFour,
			AuthCode:      result.AuthCode,
			TransactionID: result.TransactionID,
		}
		payment.Status = domain.PaymentStatusCompleted

	default:
		payment.Status = domain.PaymentStatusPending
	}

	number, err := s.sequences.Next(ctx, FamilyPayment)
	if err != nil {
		return nil, err
	}
	payment.Number = number
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt

	created, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		s.logger.Error("create payment", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}

	// The payment row is committed before the balance update. When the
	// update fails, the completed payment stays on record and the error
	// surfaces; the caller's saga log holds the failed step for replay.
	if payment.Status == domain.PaymentStatusCompleted {
		if order != nil {
			paid, err := order.PaidAmount.Add(payment.Amount)
			if err != nil {
				s.logger.Error("cumulative paid", zap.Error(err))
				return nil, domain.ErrInternal
			}
			if _, err := s.orders.UpdatePaymentStatus(ctx, order.Number, paid, false); err != nil {
				return nil, err
			}
		}
		if invoice != nil {
			if err := s.applyToInvoice(ctx, invoice, payment.Amount); err != nil {
				return nil, err
			}
		}
	}

	return created, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, number domain.DocumentNumber) (*domain.Payment, error) {
	payment, err := s.repo.ReadPayment(ctx, number)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		s.logger.Error("read payment", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return payment, nil
}

func (s *PaymentService) CreateRefund(ctx context.Context, paymentNumber domain.DocumentNumber,
	amount decimal.Decimal, reason string) (*domain.Refund, error) {
	if reason == "" {
		return nil, domain.ErrValidation
	}
	if !amount.IsPos() {
		return nil, domain.ErrValidation
	}

	payment, err := s.GetPayment(ctx, paymentNumber)
	if err != nil {
		return nil, err
	}

	refundable, err := payment.Refundable()
	if err != nil {
		s.logger.Error("refundable amount", zap.Error(err))
		return nil, domain.ErrInternal
	}
	if amount.Cmp(refundable) > 0 {
		return nil, domain.ErrRefundExceedsPayment
	}

	number, err := s.sequences.Next(ctx, FamilyRefund)
	if err != nil {
		return nil, err
	}

	refund := &domain.Refund{
		Number:        number,
		PaymentNumber: payment.Number,
		Amount:        domain.RoundMoney(amount),
		Reason:        reason,
		CreatedAt:     time.Now(),
	}

	if err := payment.ApplyRefund(refund.Amount, number); err != nil {
		if errors.Is(err, domain.ErrRefundExceedsPayment) {
			return nil, err
		}
		s.logger.Error("apply refund", zap.Error(err))
		return nil, domain.ErrInternal
	}
	payment.UpdatedAt = time.Now()

	created, err := s.repo.CreateRefund(ctx, refund)
	if err != nil {
		s.logger.Error("create refund", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	if _, err := s.repo.UpdatePayment(ctx, payment); err != nil {
		s.logger.Error("update refunded payment", zap.String("number", string(payment.Number)), zap.Error(err))
		return nil, domain.ErrInternal
	}

	// The one place a paid amount is allowed to go down.
	if payment.OrderNumber != "" {
		order, err := s.orders.GetOrder(ctx, payment.OrderNumber)
		if err != nil {
			return nil, err
		}
		paid, err := order.PaidAmount.Sub(refund.Amount)
		if err != nil {
			s.logger.Error("refund cumulative paid", zap.Error(err))
			return nil, domain.ErrInternal
		}
		if _, err := s.orders.UpdatePaymentStatus(ctx, order.Number, paid, true); err != nil {
			return nil, err
		}
	}
	if payment.InvoiceNumber != "" {
		invoice, err := s.readInvoice(ctx, payment.InvoiceNumber)
		if err != nil {
			return nil, err
		}
		if err := s.applyToInvoice(ctx, invoice, refund.Amount.Neg()); err != nil {
			return nil, err
		}
	}

	return created, nil
}

func (s *PaymentService) readInvoice(ctx context.Context, number domain.DocumentNumber) (*domain.Invoice, error) {
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

// applyToInvoice adds delta (negative for refunds) to the invoice paid
// amount and runs the same reconciliation the order side uses.
func (s *PaymentService) applyToInvoice(ctx context.Context, invoice *domain.Invoice, delta decimal.Decimal) error {
	paid, err := invoice.PaidAmount.Add(delta)
	if err != nil {
		s.logger.Error("invoice cumulative paid", zap.Error(err))
		return domain.ErrInternal
	}

	balance, state, err := domain.ReconcileBalance(invoice.TotalAmount, paid)
	if err != nil {
		s.logger.Error("reconcile invoice balance", zap.Error(err))
		return domain.ErrInternal
	}

	invoice.PaidAmount = domain.RoundMoney(paid)
	invoice.BalanceDue = balance
	invoice.Status = domain.InvoiceStatusForPayment(state, invoice.Status)
	if delta.IsNeg() && paid.Sign() == 0 {
		invoice.Status = domain.InvoiceStatusRefunded
	}
	invoice.UpdatedAt = time.Now()

	if _, err := s.repo.UpdateInvoice(ctx, invoice); err != nil {
		s.logger.Error("update invoice balance", zap.String("number", string(invoice.Number)), zap.Error(err))
		return domain.ErrInternal
	}
	return nil
}
