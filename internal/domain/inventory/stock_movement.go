package inventory

import (
	"github.com/google/uuid"
	"github.com/greatnexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement. The type, not the sign of the
// quantity, determines the effect on the stock level.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementTransfer   MovementType = "TRANSFER"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// IsValid checks if the type is a known MovementType
func (t MovementType) IsValid() bool {
	switch t {
	case MovementIn, MovementOut, MovementTransfer, MovementAdjustment:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// StockMovement is one immutable entry in the append-only movement ledger.
// Movements are never updated or deleted; the current stock level for any
// (product, warehouse) pair must always equal the fold of its movements.
type StockMovement struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID *uuid.UUID      `gorm:"type:uuid;index"`
	Type        MovementType    `gorm:"size:20;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference   string          `gorm:"size:200"`
	Reason      string          `gorm:"size:500"`
	CreatedBy   *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new ledger entry.
// Quantity must be positive regardless of type: the effect direction comes
// from the movement type.
func NewStockMovement(tenantID, productID uuid.UUID, warehouseID *uuid.UUID, movementType MovementType, qty decimal.Decimal, reference, reason string, createdBy *uuid.UUID) (*StockMovement, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type must be one of IN, OUT, TRANSFER, ADJUSTMENT")
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &StockMovement{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Type:        movementType,
		Quantity:    qty,
		Reference:   reference,
		Reason:      reason,
		CreatedBy:   createdBy,
	}, nil
}
