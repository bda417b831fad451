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

// OrderPolicy carries business knobs injected at startup.
type OrderPolicy struct {
	// DeleteFinalized permits soft-deleting shipped/delivered/returned
	// orders. Off by default.
	DeleteFinalized bool
}

// OrderService owns the SalesOrder aggregate and its status machine.
type OrderService struct {
	repo      port.Repository
	inventory port.InventoryClient
	pricing   PricingEngine
	sequences *SequenceAllocator
	stock     *StockCoordinator
	policy    OrderPolicy
	logger    *zap.Logger
}

func NewOrderService(repo port.Repository, inventory port.InventoryClient,
	sequences *SequenceAllocator, stock *StockCoordinator,
	policy OrderPolicy, logger *zap.Logger) (*OrderService, error) {
	return &OrderService{
		repo:      repo,
		inventory: inventory,
		sequences: sequences,
		stock:     stock,
		policy:    policy,
		logger:    logger,
	}, nil
}

// PriceOrder resolves references and prices the order without
// persisting anything. CreateOrder builds on it; the POS flow uses it
// to validate split payments before any side effect.
func (s *OrderService) PriceOrder(ctx context.Context, in port.CreateOrderInput) (*domain.SalesOrder, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrValidation
	}

	customer, err := s.repo.GetCustomer(ctx, in.Customer)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		s.logger.Error("resolve customer", zap.Error(err))
		return nil, domain.ErrInternal
	}

	items := make([]domain.LineItem, 0, len(in.Items))
	for _, line := range in.Items {
		product, err := s.inventory.GetProduct(ctx, line.ProductRef)
		if err != nil {
			if errors.Is(err, domain.ErrDataNotFound) {
				return nil, domain.ErrProductNotFound
			}
			s.logger.Error("resolve product", zap.String("ref", line.ProductRef), zap.Error(err))
			return nil, domain.ErrCollaboratorUnavailable
		}

		item := domain.LineItem{
			ProductID:       product.ID,
			SKU:             product.SKU,
			Name:            product.Name,
			Quantity:        line.Quantity,
			UnitPrice:       product.Price,
			DiscountPercent: line.DiscountPercent,
			DiscountAmount:  line.DiscountAmount,
			TaxRate:         product.TaxRate,
		}
		if err := s.pricing.PriceLine(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	totals, err := s.pricing.PriceTotals(items, in.DiscountPercent, in.DiscountAmount, in.ShippingCost)
	if err != nil {
		return nil, err
	}

	balance, state, err := domain.ReconcileBalance(totals.Total, decimal.Zero)
	if err != nil {
		s.logger.Error("reconcile new order", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return &domain.SalesOrder{
		CustomerID:      customer.ID,
		Items:           items,
		Subtotal:        totals.Subtotal,
		DiscountPercent: in.DiscountPercent,
		DiscountAmount:  totals.DiscountAmount,
		TaxAmount:       totals.TaxAmount,
		ShippingCost:    domain.RoundMoney(in.ShippingCost),
		TotalAmount:     totals.Total,
		Status:          domain.OrderStatusDraft,
		PaymentState:    state,
		PaidAmount:      decimal.Zero,
		BalanceDue:      balance,
	}, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, in port.CreateOrderInput) (*domain.SalesOrder, error) {
	order, err := s.PriceOrder(ctx, in)
	if err != nil {
		return nil, err
	}

	number, err := s.sequences.Next(ctx, FamilyOrder)
	if err != nil {
		return nil, err
	}
	order.Number = number
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("create order", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}

	return created, nil
}

func (s *OrderService) GetOrder(ctx context.Context, number domain.DocumentNumber) (*domain.SalesOrder, error) {
	order, err := s.repo.ReadOrder(ctx, number)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		s.logger.Error("read order", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.SalesOrder, error) {
	list, err := s.repo.ListOrders(ctx)
	if err != nil {
		s.logger.Error("list orders", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

// ConfirmOrder is the single authoritative fulfillment trigger. Stock
// is fulfilled per line best-effort; the order becomes confirmed even
// when some lines failed, with the acknowledged product ids recorded
// for reconciliation.
func (s *OrderService) ConfirmOrder(ctx context.Context, number domain.DocumentNumber, performedBy string) (*domain.SalesOrder, error) {
	order, err := s.GetOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusDraft {
		return nil, domain.ErrOrderStateConflict
	}

	order.FulfilledItems = s.stock.FulfillOrder(ctx, order, performedBy)
	order.Status = domain.OrderStatusConfirmed
	order.UpdatedAt = time.Now()

	updated, err := s.repo.UpdateOrder(ctx, order)
	if err != nil {
		s.logger.Error("confirm order", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}

	if err := s.repo.UpdateCustomerStats(ctx, order.CustomerID, order.TotalAmount); err != nil {
		s.logger.Warn("update customer stats",
			zap.String("customer", order.CustomerID), zap.Error(err))
	}

	return updated, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, number domain.DocumentNumber) (*domain.SalesOrder, error) {
	order, err := s.GetOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	if !order.Cancellable() {
		return nil, domain.ErrOrderStateConflict
	}

	// Draft orders never triggered fulfillment, so there is nothing to
	// release. Release failures are logged and cancellation proceeds.
	if order.HoldsStock() {
		s.stock.ReleaseOrder(ctx, order)
	}

	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = time.Now()

	updated, err := s.repo.UpdateOrder(ctx, order)
	if err != nil {
		s.logger.Error("cancel order", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return updated, nil
}

// UpdateOrderStatus moves an order along the post-confirmation pipeline
// (processing, shipped, delivered, returned). Confirmation and
// cancellation have dedicated operations with side effects and are not
// reachable here.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, number domain.DocumentNumber, status domain.OrderStatus) (*domain.SalesOrder, error) {
	switch status {
	case domain.OrderStatusProcessing, domain.OrderStatusShipped,
		domain.OrderStatusDelivered, domain.OrderStatusReturned, domain.OrderStatusPending:
	default:
		return nil, domain.ErrOrderStateConflict
	}

	order, err := s.GetOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(status) {
		return nil, domain.ErrOrderStateConflict
	}

	order.Status = status
	order.UpdatedAt = time.Now()

	updated, err := s.repo.UpdateOrder(ctx, order)
	if err != nil {
		s.logger.Error("update order status", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return updated, nil
}

// UpdatePaymentStatus recomputes the order balance from the cumulative
// paid amount. It is called by the payment side, never by the HTTP
// layer. The paid amount may only decrease via refund.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, number domain.DocumentNumber,
	paid decimal.Decimal, viaRefund bool) (*domain.SalesOrder, error) {
	order, err := s.GetOrder(ctx, number)
	if err != nil {
		return nil, err
	}

	if !viaRefund && paid.Cmp(order.PaidAmount) < 0 {
		return nil, domain.ErrValidation
	}

	balance, state, err := domain.ReconcileBalance(order.TotalAmount, paid)
	if err != nil {
		s.logger.Error("reconcile order balance", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}

	order.PaidAmount = domain.RoundMoney(paid)
	order.BalanceDue = balance
	order.PaymentState = state
	if viaRefund && paid.Sign() == 0 {
		order.PaymentState = domain.PaymentStateRefunded
	}
	order.UpdatedAt = time.Now()

	updated, err := s.repo.UpdateOrder(ctx, order)
	if err != nil {
		s.logger.Error("update order payment status", zap.String("number", string(number)), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return updated, nil
}

// DeleteOrder soft-deletes: the row stays, marked deleted and
// cancelled. Whether finalized orders may be deleted is policy.
func (s *OrderService) DeleteOrder(ctx context.Context, number domain.DocumentNumber) error {
	order, err := s.GetOrder(ctx, number)
	if err != nil {
		return err
	}

	if order.Finalized() && !s.policy.DeleteFinalized {
		return domain.ErrOrderStateConflict
	}

	order.Deleted = true
	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = time.Now()

	if _, err := s.repo.UpdateOrder(ctx, order); err != nil {
		s.logger.Error("delete order", zap.String("number", string(number)), zap.Error(err))
		return domain.ErrInternal
	}
	return nil
}
