package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/greatnexus/backend/internal/application/sales"
	"github.com/greatnexus/backend/internal/interfaces/http/dto"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *salesapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *salesapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// Create issues a new invoice. When stock movements for some lines fail
// after the invoice is persisted, the response is 207 with the partial
// failure code; the invoice itself is committed and returned.
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req salesapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), tenantID, getActorID(c), req)
	if err != nil {
		h.handleInvoiceError(c, err)
		return
	}

	h.Created(c, invoice)
}

// CreatePointOfSale issues an invoice that is paid at the counter
func (h *InvoiceHandler) CreatePointOfSale(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req salesapp.PointOfSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.CreatePointOfSaleInvoice(c.Request.Context(), tenantID, getActorID(c), req)
	if err != nil {
		h.handleInvoiceError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByID returns one invoice with its items and payments
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List returns the tenant's invoices, newest first
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query salesapp.ListInvoicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), tenantID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoices)
}

// Pay records a payment against the invoice and derives the new status
func (h *InvoiceHandler) Pay(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req salesapp.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.PayInvoice(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Cancel moves the invoice to cancelled. Stock recorded at issuance stays
// decremented.
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Refund moves a paid invoice to refunded
func (h *InvoiceHandler) Refund(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.RefundInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// handleInvoiceError maps creation errors, surfacing partial stock failures
// as 207 with the committed invoice identifiers in the payload
func (h *InvoiceHandler) handleInvoiceError(c *gin.Context, err error) {
	var partial *salesapp.PartialFailureError
	if errors.As(err, &partial) {
		requestID := getRequestID(c)
		response := dto.NewErrorResponseWithRequestID(dto.ErrCodePartialFailure, partial.Error(), requestID)
		response.Data = gin.H{
			"invoice_id":     partial.InvoiceID,
			"invoice_number": partial.InvoiceNumber,
			"failed_line":    partial.LineIndex,
			"product_id":     partial.ProductID,
		}
		c.JSON(http.StatusMultiStatus, response)
		return
	}
	h.HandleError(c, err)
}
