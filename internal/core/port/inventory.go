package port

import (
	"context"

	"github.com/salescore/backend/internal/core/domain"
)

// InventoryClient is the capability surface of the external inventory
// collaborator. Reserve places a soft hold, Release drops it, Fulfill
// durably decrements stock. Product lookups resolve by id or SKU.
//
//go:generate mockgen -source=inventory.go -destination=mock/inventory.go -package=mock
type InventoryClient interface {
	Reserve(ctx context.Context, productID string, quantity int64, orderNumber domain.DocumentNumber) (bool, error)
	Release(ctx context.Context, productID string, quantity int64, orderNumber domain.DocumentNumber) (bool, error)
	Fulfill(ctx context.Context, productID string, quantity int64, orderNumber domain.DocumentNumber, performedBy string) (bool, error)
	GetProduct(ctx context.Context, ref string) (*domain.Product, error)
}
