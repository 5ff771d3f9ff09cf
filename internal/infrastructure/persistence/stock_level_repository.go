package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/greatnexus/backend/internal/domain/catalog"
	"github.com/greatnexus/backend/internal/domain/inventory"
	"github.com/greatnexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockLevelRepository implements inventory.StockLevelRepository using
// GORM. Quantity mutations are single-statement upserts so concurrent
// movements against the same level serialize on the row instead of racing
// through read-then-write.
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// levelConflictTarget is the unique key the quantity upserts resolve on.
// Warehouse-less stock is stored under the zero UUID, never NULL, so the
// conflict target always matches.
var levelConflictTarget = []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}}

func normalizeWarehouse(warehouseID *uuid.UUID) uuid.UUID {
	if warehouseID == nil {
		return uuid.Nil
	}
	return *warehouseID
}

// FindByProductAndWarehouse finds the level for a product-warehouse pair
func (r *GormStockLevelRepository) FindByProductAndWarehouse(ctx context.Context, tenantID, productID uuid.UUID, warehouseID *uuid.UUID) (*inventory.StockLevel, error) {
	var level inventory.StockLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND warehouse_id = ?", tenantID, productID, normalizeWarehouse(warehouseID)).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByProduct finds all levels of a product across warehouses
func (r *GormStockLevelRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]inventory.StockLevel, error) {
	var levels []inventory.StockLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("warehouse_id").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindAllForTenant finds all stock levels for a tenant
func (r *GormStockLevelRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockLevel, error) {
	var levels []inventory.StockLevel
	query := r.db.WithContext(ctx).Model(&inventory.StockLevel{}).
		Where("tenant_id = ?", tenantID).
		Order("product_id, warehouse_id")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// IncreaseQuantity adds qty to the level, creating it at qty if absent
func (r *GormStockLevelRepository) IncreaseQuantity(ctx context.Context, tenantID, productID uuid.UUID, warehouseID *uuid.UUID, qty decimal.Decimal) error {
	level := inventory.NewStockLevel(tenantID, productID, normalizeWarehouse(warehouseID))
	level.Quantity = qty

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: levelConflictTarget,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("stock_levels.quantity + ?", qty),
			"updated_at": time.Now(),
		}),
	}).Create(level).Error
}

// DecreaseQuantityClamped subtracts qty from the level, clamping at zero.
// An absent level is created at zero: withdrawing from nothing leaves nothing.
func (r *GormStockLevelRepository) DecreaseQuantityClamped(ctx context.Context, tenantID, productID uuid.UUID, warehouseID *uuid.UUID, qty decimal.Decimal) error {
	level := inventory.NewStockLevel(tenantID, productID, normalizeWarehouse(warehouseID))

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: levelConflictTarget,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("CASE WHEN stock_levels.quantity > ? THEN stock_levels.quantity - ? ELSE 0 END", qty, qty),
			"updated_at": time.Now(),
		}),
	}).Create(level).Error
}

// OverrideQuantity sets the level to qty regardless of its current value
func (r *GormStockLevelRepository) OverrideQuantity(ctx context.Context, tenantID, productID uuid.UUID, warehouseID *uuid.UUID, qty decimal.Decimal) error {
	level := inventory.NewStockLevel(tenantID, productID, normalizeWarehouse(warehouseID))
	level.Quantity = qty

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: levelConflictTarget,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   qty,
			"updated_at": time.Now(),
		}),
	}).Create(level).Error
}

// RecomputeProductStockTotal refreshes the denormalized product total from a
// fresh SUM over the product's levels. Always a full aggregate, never an
// incremental patch of the cached value.
func (r *GormStockLevelRepository) RecomputeProductStockTotal(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("id = ?", productID).
		Update("stock_total", gorm.Expr(
			"(SELECT COALESCE(SUM(quantity), 0) FROM stock_levels WHERE product_id = ?)", productID,
		)).Error
}

var _ inventory.StockLevelRepository = (*GormStockLevelRepository)(nil)
