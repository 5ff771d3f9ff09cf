package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/greatnexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog.
// StockTotal is a denormalized cache of the product's quantity across all
// warehouses; it is recomputed by the stock ledger after every movement and
// must never be edited directly.
type Product struct {
	shared.TenantAggregateRoot
	// SKU is unique per tenant, not globally. The (tenant_id, sku) unique
	// index is created in the migration; gorm tags cannot add the embedded
	// tenant_id column to a composite index declared here.
	SKU            string          `gorm:"size:100;not null;index:idx_product_sku"`
	Name           string          `gorm:"size:200;not null"`
	Description    string          `gorm:"type:text"`
	Category       string          `gorm:"size:100"`
	CostPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WholesalePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Archived       bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product for a tenant
func NewProduct(tenantID uuid.UUID, sku, name string, salePrice decimal.Decimal) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if salePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		SalePrice:           salePrice,
		CostPrice:           decimal.Zero,
		WholesalePrice:      decimal.Zero,
		StockTotal:          decimal.Zero,
		ReorderLevel:        decimal.Zero,
	}, nil
}

// Archive marks the product as no longer sellable
func (p *Product) Archive() {
	p.Archived = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// BelowReorderLevel reports whether the cached stock total has fallen
// under the configured reorder threshold
func (p *Product) BelowReorderLevel() bool {
	return p.ReorderLevel.IsPositive() && p.StockTotal.LessThan(p.ReorderLevel)
}
