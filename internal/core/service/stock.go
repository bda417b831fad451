package service

import (
	"context"

	"github.com/salescore/backend/internal/core/domain"
	"github.com/salescore/backend/internal/core/port"
	"go.uber.org/zap"
)

// StockCoordinator drives the inventory collaborator per line item,
// sequentially and best-effort: a failed call is logged and the loop
// moves on. It returns the product ids the collaborator acknowledged,
// which callers persist for later reconciliation. It never fails the
// surrounding order operation.
type StockCoordinator struct {
	inventory port.InventoryClient
	logger    *zap.Logger
}

func NewStockCoordinator(inventory port.InventoryClient, logger *zap.Logger) *StockCoordinator {
	return &StockCoordinator{inventory: inventory, logger: logger}
}

func (c *StockCoordinator) FulfillOrder(ctx context.Context, order *domain.SalesOrder, performedBy string) []string {
	fulfilled := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ok, err := c.inventory.Fulfill(ctx, item.ProductID, item.Quantity, order.Number, performedBy)
		if err != nil {
			c.logger.Warn("stock fulfill call failed",
				zap.String("order", string(order.Number)),
				zap.String("product", item.ProductID),
				zap.Error(err))
			continue
		}
		if !ok {
			c.logger.Warn("stock fulfill rejected",
				zap.String("order", string(order.Number)),
				zap.String("product", item.ProductID))
			continue
		}
		fulfilled = append(fulfilled, item.ProductID)
	}
	return fulfilled
}

func (c *StockCoordinator) ReleaseOrder(ctx context.Context, order *domain.SalesOrder) []string {
	released := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ok, err := c.inventory.Release(ctx, item.ProductID, item.Quantity, order.Number)
		if err != nil {
			c.logger.Warn("stock release call failed",
				zap.String("order", string(order.Number)),
				zap.String("product", item.ProductID),
				zap.Error(err))
			continue
		}
		if !ok {
			c.logger.Warn("stock release rejected",
				zap.String("order", string(order.Number)),
				zap.String("product", item.ProductID))
			continue
		}
		released = append(released, item.ProductID)
	}
	return released
}

func (c *StockCoordinator) ReserveOrder(ctx context.Context, order *domain.SalesOrder) []string {
	reserved := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ok, err := c.inventory.Reserve(ctx, item.ProductID, item.Quantity, order.Number)
		if err != nil {
			c.logger.Warn("stock reserve call failed",
				zap.String("order", string(order.Number)),
				zap.String("product", item.ProductID),
				zap.Error(err))
			continue
		}
		if !ok {
			c.logger.Warn("stock reserve rejected",
				zap.String("order", string(order.Number)),
				zap.String("product", item.ProductID))
			continue
		}
		reserved = append(reserved, item.ProductID)
	}
	return reserved
}
