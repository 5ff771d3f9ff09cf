package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/greatnexus/backend/internal/domain/sales"
	"github.com/greatnexus/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements sales.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create persists a new invoice with its items and the initial payment, if any.
// Items and payments are written through the association so the whole aggregate
// lands in one transaction.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *sales.Invoice) error {
	err := r.db.WithContext(ctx).Create(invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save persists a status change and any newly appended payments with optimistic
// locking. Domain mutations bump the aggregate version exactly once, so the
// row must still carry the previous version for the update to apply.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *sales.Invoice) error {
	expectedVersion := invoice.GetVersion() - 1

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&sales.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":     invoice.Status,
				"notes":      invoice.Notes,
				"version":    invoice.Version,
				"updated_at": invoice.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		// Payments are append-only; existing rows are never touched.
		if len(invoice.Payments) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&invoice.Payments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByIDForTenant loads an invoice with its items and payments
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*sales.Invoice, error) {
	var invoice sales.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber loads an invoice by its invoice number for a tenant
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*sales.Invoice, error) {
	var invoice sales.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("tenant_id = ? AND invoice_number = ?", tenantID, invoiceNumber).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

const maxInvoiceListLimit = 1000

// FindAllForTenant returns invoices for a tenant, newest first
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.ListFilter) ([]sales.Invoice, error) {
	limit := filter.Limit
	if limit <= 0 || limit > maxInvoiceListLimit {
		limit = maxInvoiceListLimit
	}

	query := r.db.WithContext(ctx).Model(&sales.Invoice{}).
		Preload("Items").
		Preload("Payments").
		Where("tenant_id = ?", tenantID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var invoices []sales.Invoice
	if err := query.Order("created_at DESC").Limit(limit).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

var _ sales.InvoiceRepository = (*GormInvoiceRepository)(nil)
