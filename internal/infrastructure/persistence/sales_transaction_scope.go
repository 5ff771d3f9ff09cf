package persistence

import (
	"context"

	appsales "github.com/greatnexus/backend/internal/application/sales"
	"github.com/greatnexus/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormSalesTransactionScope implements the sales TransactionScope using GORM
// transactions. Invoice number allocation and invoice persistence share the
// transaction, so a rolled back create also rolls back the counter bump.
type GormSalesTransactionScope struct {
	db *gorm.DB
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSalesRepositories{tx: tx})
	})
}

// gormSalesRepositories provides the sales repositories bound to one transaction
type gormSalesRepositories struct {
	tx *gorm.DB
}

// Invoices returns the invoice repository scoped to the current transaction
func (r *gormSalesRepositories) Invoices() sales.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Sequences returns the sequence allocator scoped to the current transaction
func (r *gormSalesRepositories) Sequences() sales.SequenceAllocator {
	return NewGormSequenceAllocator(r.tx)
}

var _ appsales.TransactionScope = (*GormSalesTransactionScope)(nil)
var _ appsales.TransactionalRepositories = (*gormSalesRepositories)(nil)
