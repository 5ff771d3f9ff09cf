package sales

import (
	"context"

	"github.com/greatnexus/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the sales repositories.
// Invoice number allocation and invoice persistence must share one database
// transaction: a rolled back create must also roll back the counter bump so
// no allocated number is left without a matching invoice.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the sales repositories within
// a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Invoices returns the invoice repository scoped to the current transaction
	Invoices() sales.InvoiceRepository
	// Sequences returns the sequence allocator scoped to the current transaction
	Sequences() sales.SequenceAllocator
}

// NoOpTransactionScope runs the function without a real transaction
type NoOpTransactionScope struct {
	invoices  sales.InvoiceRepository
	sequences sales.SequenceAllocator
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(invoices sales.InvoiceRepository, sequences sales.SequenceAllocator) *NoOpTransactionScope {
	return &NoOpTransactionScope{invoices: invoices, sequences: sequences}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Invoices returns the invoice repository
func (s *NoOpTransactionScope) Invoices() sales.InvoiceRepository {
	return s.invoices
}

// Sequences returns the sequence allocator
func (s *NoOpTransactionScope) Sequences() sales.SequenceAllocator {
	return s.sequences
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
