package inventory

import (
	"context"

	"github.com/greatnexus/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. The ledger depends on this: a movement row and its stock
// level effect must never be visible separately.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Movements returns the stock movement repository scoped to the current transaction
	Movements() inventory.StockMovementRepository
	// Levels returns the stock level repository scoped to the current transaction
	Levels() inventory.StockLevelRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests where repositories are mocks or in-memory.
type NoOpTransactionScope struct {
	movements inventory.StockMovementRepository
	levels    inventory.StockLevelRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(movements inventory.StockMovementRepository, levels inventory.StockLevelRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{movements: movements, levels: levels}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Movements returns the stock movement repository
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository {
	return s.movements
}

// Levels returns the stock level repository
func (s *NoOpTransactionScope) Levels() inventory.StockLevelRepository {
	return s.levels
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
