package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/greatnexus/backend/internal/domain/inventory"
	"github.com/greatnexus/backend/internal/domain/shared"
)

// StockLedgerService records stock movements and keeps the derived stock
// levels and product totals consistent with the ledger. Every public
// operation appends to the ledger and updates the affected levels inside a
// single transaction.
type StockLedgerService struct {
	scope          TransactionScope
	movementRepo   inventory.StockMovementRepository
	stockLevelRepo inventory.StockLevelRepository
}

// NewStockLedgerService creates a new StockLedgerService. The standalone
// repositories serve read paths; writes always go through the scope.
func NewStockLedgerService(scope TransactionScope, movementRepo inventory.StockMovementRepository, stockLevelRepo inventory.StockLevelRepository) *StockLedgerService {
	return &StockLedgerService{
		scope:          scope,
		movementRepo:   movementRepo,
		stockLevelRepo: stockLevelRepo,
	}
}

// ApplyMovement validates and records one IN, OUT or ADJUSTMENT movement,
// applies its effect to the stock level and refreshes the product's
// denormalized total, all in one transaction. TRANSFER must go through
// Transfer; a single ledger entry cannot touch two warehouses.
func (s *StockLedgerService) ApplyMovement(ctx context.Context, tenantID uuid.UUID, req ApplyMovementRequest) (*MovementResponse, error) {
	movementType := inventory.MovementType(req.Type)
	if movementType == inventory.MovementTransfer {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Use the transfer operation for TRANSFER movements")
	}

	movement, err := inventory.NewStockMovement(tenantID, req.ProductID, req.WarehouseID, movementType, req.Quantity, req.Reference, req.Reason, req.OperatorID)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Movements().Append(ctx, movement); err != nil {
			return err
		}
		if err := s.applyLevelEffect(ctx, repos.Levels(), movement); err != nil {
			return err
		}
		return repos.Levels().RecomputeProductStockTotal(ctx, movement.ProductID)
	})
	if err != nil {
		return nil, err
	}

	response := ToMovementResponse(movement)
	return &response, nil
}

// Transfer moves stock between warehouses as an OUT at the source and an IN
// at the destination, recorded atomically. The OUT leg clamps at zero like
// any other outbound movement, so a transfer can deliver less than requested
// into the destination level only via the source under-delivering; the IN
// leg always adds the full requested quantity.
func (s *StockLedgerService) Transfer(ctx context.Context, tenantID uuid.UUID, req TransferRequest) ([]MovementResponse, error) {
	if req.FromWarehouseID == nil || req.ToWarehouseID == nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Transfer requires both source and destination warehouses")
	}
	if sameWarehouse(req.FromWarehouseID, req.ToWarehouseID) {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source and destination warehouses must differ")
	}

	out, err := inventory.NewStockMovement(tenantID, req.ProductID, req.FromWarehouseID, inventory.MovementTransfer, req.Quantity, req.Reference, req.Reason, req.OperatorID)
	if err != nil {
		return nil, err
	}
	in, err := inventory.NewStockMovement(tenantID, req.ProductID, req.ToWarehouseID, inventory.MovementTransfer, req.Quantity, req.Reference, req.Reason, req.OperatorID)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Movements().Append(ctx, out); err != nil {
			return err
		}
		if err := repos.Movements().Append(ctx, in); err != nil {
			return err
		}
		if err := repos.Levels().DecreaseQuantityClamped(ctx, tenantID, req.ProductID, req.FromWarehouseID, req.Quantity); err != nil {
			return err
		}
		if err := repos.Levels().IncreaseQuantity(ctx, tenantID, req.ProductID, req.ToWarehouseID, req.Quantity); err != nil {
			return err
		}
		return repos.Levels().RecomputeProductStockTotal(ctx, req.ProductID)
	})
	if err != nil {
		return nil, err
	}

	return []MovementResponse{ToMovementResponse(out), ToMovementResponse(in)}, nil
}

// ListMovements returns movement history for the tenant, newest first
func (s *StockLedgerService) ListMovements(ctx context.Context, tenantID uuid.UUID, filter MovementListFilter) ([]MovementResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	var movements []inventory.StockMovement
	var err error
	if filter.ProductID != nil {
		movements, err = s.movementRepo.FindByProduct(ctx, tenantID, *filter.ProductID, domainFilter)
	} else {
		movements, err = s.movementRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToMovementResponse(&movements[i]))
	}
	return responses, nil
}

// ListLevels returns current stock levels for the tenant
func (s *StockLedgerService) ListLevels(ctx context.Context, tenantID uuid.UUID, filter LevelListFilter) ([]StockLevelResponse, error) {
	var levels []inventory.StockLevel
	var err error

	switch {
	case filter.ProductID != nil && filter.WarehouseID != nil:
		var level *inventory.StockLevel
		level, err = s.stockLevelRepo.FindByProductAndWarehouse(ctx, tenantID, *filter.ProductID, filter.WarehouseID)
		if err == nil && level != nil {
			levels = []inventory.StockLevel{*level}
		}
	case filter.ProductID != nil:
		levels, err = s.stockLevelRepo.FindByProduct(ctx, tenantID, *filter.ProductID)
	default:
		domainFilter := shared.DefaultFilter()
		if filter.Page > 0 {
			domainFilter.Page = filter.Page
		}
		if filter.PageSize > 0 {
			domainFilter.PageSize = filter.PageSize
		}
		levels, err = s.stockLevelRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]StockLevelResponse, 0, len(levels))
	for i := range levels {
		responses = append(responses, ToStockLevelResponse(&levels[i]))
	}
	return responses, nil
}

func (s *StockLedgerService) applyLevelEffect(ctx context.Context, levels inventory.StockLevelRepository, m *inventory.StockMovement) error {
	switch m.Type {
	case inventory.MovementIn:
		return levels.IncreaseQuantity(ctx, m.TenantID, m.ProductID, m.WarehouseID, m.Quantity)
	case inventory.MovementOut:
		return levels.DecreaseQuantityClamped(ctx, m.TenantID, m.ProductID, m.WarehouseID, m.Quantity)
	case inventory.MovementAdjustment:
		return levels.OverrideQuantity(ctx, m.TenantID, m.ProductID, m.WarehouseID, m.Quantity)
	}
	return shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Cannot apply movement type "+m.Type.String())
}

func sameWarehouse(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
