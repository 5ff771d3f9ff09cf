package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/greatnexus/backend/internal/application/inventory"
)

// InventoryHandler handles stock ledger API endpoints
type InventoryHandler struct {
	BaseHandler
	ledgerService *inventoryapp.StockLedgerService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledgerService *inventoryapp.StockLedgerService) *InventoryHandler {
	return &InventoryHandler{
		ledgerService: ledgerService,
	}
}

// CreateMovement records one IN, OUT or ADJUSTMENT movement
func (h *InventoryHandler) CreateMovement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req inventoryapp.ApplyMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.OperatorID == nil {
		req.OperatorID = getActorID(c)
	}

	movement, err := h.ledgerService.ApplyMovement(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// CreateTransfer moves stock between two warehouses atomically
func (h *InventoryHandler) CreateTransfer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req inventoryapp.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.OperatorID == nil {
		req.OperatorID = getActorID(c)
	}

	movements, err := h.ledgerService.Transfer(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movements)
}

// ListMovements returns movement history, newest first
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter inventoryapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.ledgerService.ListMovements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// ListLevels returns current stock levels
func (h *InventoryHandler) ListLevels(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter inventoryapp.LevelListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	levels, err := h.ledgerService.ListLevels(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, levels)
}
