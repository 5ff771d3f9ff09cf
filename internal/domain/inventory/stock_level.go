package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/greatnexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockLevel is the derived current quantity of a product at a warehouse.
// It is a cache over the movement ledger: after every movement it must equal
// the fold of all movement effects for its (product, warehouse) pair. It is
// mutated only by the stock ledger, in the same transaction as the movement.
type StockLevel struct {
	shared.BaseEntity
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_product_warehouse,priority:1"`
	// WarehouseID is the zero UUID for stock not assigned to a warehouse.
	// Stored non-null so the (product, warehouse) unique index upserts
	// reliably; NULL values would never conflict.
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;default:'00000000-0000-0000-0000-000000000000';uniqueIndex:idx_stock_level_product_warehouse,priority:2"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reserved    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates an empty stock level for a product-warehouse pair
func NewStockLevel(tenantID, productID, warehouseID uuid.UUID) *StockLevel {
	return &StockLevel{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.Zero,
		Reserved:    decimal.Zero,
	}
}

// Apply folds one movement effect into the level:
// IN adds, OUT subtracts clamped at zero, ADJUSTMENT overrides.
// TRANSFER never reaches a single level; the ledger decomposes it into an
// OUT at the source and an IN at the destination.
func (l *StockLevel) Apply(movementType MovementType, qty decimal.Decimal) error {
	switch movementType {
	case MovementIn:
		l.Quantity = l.Quantity.Add(qty)
	case MovementOut:
		// Over-withdrawal clamps to zero instead of failing; an OUT for more
		// than available silently under-delivers.
		next := l.Quantity.Sub(qty)
		if next.IsNegative() {
			next = decimal.Zero
		}
		l.Quantity = next
	case MovementAdjustment:
		l.Quantity = qty
	default:
		return shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Cannot apply movement type "+movementType.String()+" to a stock level")
	}
	l.UpdatedAt = time.Now()
	return nil
}
