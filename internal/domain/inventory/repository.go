package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/greatnexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockMovementRepository persists the append-only movement ledger.
// There are no update or delete operations.
type StockMovementRepository interface {
	Append(ctx context.Context, movement *StockMovement) error
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
}

// StockLevelRepository maintains derived stock levels. The quantity
// mutations must be atomic with respect to the current stored value;
// implementations use single-statement deltas, never read-then-write.
type StockLevelRepository interface {
	FindByProductAndWarehouse(ctx context.Context, tenantID, productID uuid.UUID, warehouseID *uuid.UUID) (*StockLevel, error)
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]StockLevel, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockLevel, error)

	// IncreaseQuantity adds qty to the level, creating it at qty if absent.
	IncreaseQuantity(ctx context.Context, tenantID, productID uuid.UUID, warehouseID *uuid.UUID, qty decimal.Decimal) error
	// DecreaseQuantityClamped subtracts qty from the level, clamping the
	// result at zero; creates the level at zero if absent.
	DecreaseQuantityClamped(ctx context.Context, tenantID, productID uuid.UUID, warehouseID *uuid.UUID, qty decimal.Decimal) error
	// OverrideQuantity sets the level to qty (absolute adjustment).
	OverrideQuantity(ctx context.Context, tenantID, productID uuid.UUID, warehouseID *uuid.UUID, qty decimal.Decimal) error

	// RecomputeProductStockTotal refreshes the denormalized product total
	// from a fresh aggregate over all stock levels of the product.
	RecomputeProductStockTotal(ctx context.Context, productID uuid.UUID) error
}
