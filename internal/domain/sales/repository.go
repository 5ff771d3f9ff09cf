package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows invoice listings. Zero values mean "no constraint";
// Limit is capped by the repository.
type ListFilter struct {
	Status *InvoiceStatus
	From   *time.Time
	To     *time.Time
	Limit  int
}

// InvoiceRepository defines the persistence contract for invoices
type InvoiceRepository interface {
	// Create persists a new invoice with its items in one transaction
	Create(ctx context.Context, invoice *Invoice) error

	// Save persists status changes and newly appended payments.
	// Uses optimistic locking on the aggregate version.
	Save(ctx context.Context, invoice *Invoice) error

	// FindByIDForTenant loads an invoice with items and payments
	FindByIDForTenant(ctx context.Context, id, tenantID uuid.UUID) (*Invoice, error)

	// FindByNumber loads an invoice by its immutable invoice number
	FindByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*Invoice, error)

	// FindAllForTenant returns invoices newest first, capped by filter.Limit
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]Invoice, error)
}
