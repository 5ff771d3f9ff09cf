package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/greatnexus/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ApplyMovementRequest represents a request to record one stock movement
type ApplyMovementRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID *uuid.UUID      `json:"warehouse_id"`
	Type        string          `json:"type" binding:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reference   string          `json:"reference"`
	Reason      string          `json:"reason"`
	OperatorID  *uuid.UUID      `json:"operator_id"`
}

// TransferRequest represents a request to move stock between warehouses
type TransferRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	FromWarehouseID *uuid.UUID      `json:"from_warehouse_id"`
	ToWarehouseID   *uuid.UUID      `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Reference       string          `json:"reference"`
	Reason          string          `json:"reason"`
	OperatorID      *uuid.UUID      `json:"operator_id"`
}

// MovementResponse represents a recorded stock movement in API responses
type MovementResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID *uuid.UUID      `json:"warehouse_id,omitempty"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reference   string          `json:"reference,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StockLevelResponse represents a derived stock level
type StockLevelResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID *uuid.UUID      `json:"warehouse_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reserved    decimal.Decimal `json:"reserved"`
	Available   decimal.Decimal `json:"available"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MovementListFilter narrows movement history queries
type MovementListFilter struct {
	ProductID *uuid.UUID `form:"product_id"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// LevelListFilter narrows stock level queries
type LevelListFilter struct {
	ProductID   *uuid.UUID `form:"product_id"`
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToMovementResponse converts a domain movement to its API representation
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Type:        m.Type.String(),
		Quantity:    m.Quantity,
		Reference:   m.Reference,
		Reason:      m.Reason,
		CreatedAt:   m.CreatedAt,
	}
}

// ToStockLevelResponse converts a domain stock level to its API representation
func ToStockLevelResponse(l *inventory.StockLevel) StockLevelResponse {
	var warehouseID *uuid.UUID
	if l.WarehouseID != uuid.Nil {
		id := l.WarehouseID
		warehouseID = &id
	}
	return StockLevelResponse{
		ProductID:   l.ProductID,
		WarehouseID: warehouseID,
		Quantity:    l.Quantity,
		Reserved:    l.Reserved,
		Available:   l.Quantity.Sub(l.Reserved),
		UpdatedAt:   l.UpdatedAt,
	}
}
