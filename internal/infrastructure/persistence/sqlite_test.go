package persistence

import (
	"path/filepath"
	"testing"

	"github.com/greatnexus/backend/internal/domain/catalog"
	"github.com/greatnexus/backend/internal/domain/inventory"
	"github.com/greatnexus/backend/internal/domain/sales"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a file-backed SQLite database in a per-test temp directory
// and migrates the full schema. SQLite 3.35+ supports the same upsert and
// RETURNING statements the repositories issue against PostgreSQL.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Product{},
		&inventory.StockMovement{},
		&inventory.StockLevel{},
		&sales.Invoice{},
		&sales.InvoiceItem{},
		&sales.Payment{},
		&SequenceCounter{},
	)
	require.NoError(t, err)

	return db
}
