package handler

import (
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	inventoryapp "github.com/greatnexus/backend/internal/application/inventory"
	salesapp "github.com/greatnexus/backend/internal/application/sales"
	"github.com/greatnexus/backend/internal/domain/catalog"
	"github.com/greatnexus/backend/internal/domain/inventory"
	"github.com/greatnexus/backend/internal/domain/sales"
	"github.com/greatnexus/backend/internal/infrastructure/persistence"
	"github.com/greatnexus/backend/internal/interfaces/http/middleware"
	"github.com/greatnexus/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv wires the full HTTP stack over a throwaway sqlite database
type testEnv struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Product{},
		&inventory.StockMovement{},
		&inventory.StockLevel{},
		&sales.Invoice{},
		&sales.InvoiceItem{},
		&sales.Payment{},
		&persistence.SequenceCounter{},
	)
	require.NoError(t, err)

	movementRepo := persistence.NewGormStockMovementRepository(db)
	levelRepo := persistence.NewGormStockLevelRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)

	ledgerService := inventoryapp.NewStockLedgerService(
		persistence.NewGormInventoryTransactionScope(db), movementRepo, levelRepo)
	invoiceService := salesapp.NewInvoiceService(
		persistence.NewGormSalesTransactionScope(db), invoiceRepo, productRepo, ledgerService)

	invoiceHandler := NewInvoiceHandler(invoiceService)
	inventoryHandler := NewInventoryHandler(ledgerService)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/healthz", NewSystemHandler(db, "test").Health)

	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.POST("/invoices", invoiceHandler.Create)
	salesRoutes.POST("/invoices/pos", invoiceHandler.CreatePointOfSale)
	salesRoutes.GET("/invoices", invoiceHandler.List)
	salesRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	salesRoutes.POST("/invoices/:id/payments", invoiceHandler.Pay)
	salesRoutes.POST("/invoices/:id/cancel", invoiceHandler.Cancel)
	salesRoutes.POST("/invoices/:id/refund", invoiceHandler.Refund)

	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.POST("/movements", inventoryHandler.CreateMovement)
	inventoryRoutes.POST("/transfers", inventoryHandler.CreateTransfer)
	inventoryRoutes.GET("/movements", inventoryHandler.ListMovements)
	inventoryRoutes.GET("/levels", inventoryHandler.ListLevels)

	router.NewRouter(engine).
		Register(salesRoutes).
		Register(inventoryRoutes).
		Setup()

	return &testEnv{engine: engine, db: db}
}

func (e *testEnv) seedProduct(t *testing.T, tenantID uuid.UUID, sku string, price decimal.Decimal) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(tenantID, sku, "Product "+sku, price)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(product).Error)
	return product
}
