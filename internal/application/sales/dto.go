package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/greatnexus/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CustomerRequest carries the customer details to snapshot onto the invoice
type CustomerRequest struct {
	Name      string     `json:"name"`
	Email     string     `json:"email" binding:"omitempty,email"`
	Phone     string     `json:"phone"`
	ContactID *uuid.UUID `json:"contact_id"`
}

// InvoiceLineRequest is one requested invoice line. When ProductID is set,
// SKU, name and unit price default from the product snapshot unless the
// caller overrides them; free-text lines must carry their own name and price.
type InvoiceLineRequest struct {
	ProductID *uuid.UUID       `json:"product_id"`
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal  `json:"discount"`
	TaxRate   decimal.Decimal  `json:"tax_rate"`
}

// CreateInvoiceRequest represents a request to issue an invoice
type CreateInvoiceRequest struct {
	Customer    CustomerRequest      `json:"customer"`
	Lines       []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	Status      string               `json:"status" binding:"omitempty,oneof=draft pending paid"`
	Currency    string               `json:"currency" binding:"omitempty,len=3"`
	WarehouseID *uuid.UUID           `json:"warehouse_id"`
	Notes       string               `json:"notes"`
	Meta        map[string]any       `json:"meta"`
}

// PointOfSaleRequest issues an invoice that is paid on the spot. The payment
// amount defaults to the computed invoice total when omitted.
type PointOfSaleRequest struct {
	CreateInvoiceRequest
	PaymentMethod    string           `json:"payment_method"`
	PaymentReference string           `json:"payment_reference"`
	PaymentAmount    *decimal.Decimal `json:"payment_amount"`
}

// PaymentRequest records one payment against an invoice. A zero or omitted
// amount is accepted and recorded as a zero payment; only negative amounts
// are rejected, by the domain.
type PaymentRequest struct {
	Method     string          `json:"method" binding:"required"`
	Reference  string          `json:"reference"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency" binding:"omitempty,len=3"`
	ReceivedBy *uuid.UUID      `json:"received_by"`
}

// ListInvoicesQuery narrows invoice listings
type ListInvoicesQuery struct {
	Status string     `form:"status" binding:"omitempty,oneof=draft pending paid cancelled refunded"`
	From   *time.Time `form:"from" time_format:"2006-01-02"`
	To     *time.Time `form:"to" time_format:"2006-01-02"`
	Limit  int        `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	SKU       string          `json:"sku,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Total     decimal.Decimal `json:"total"`
}

// PaymentResponse represents a recorded payment
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	PaidAt    time.Time       `json:"paid_at"`
}

// CustomerResponse represents the customer snapshot on an invoice
type CustomerResponse struct {
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	ContactID *uuid.UUID `json:"contact_id,omitempty"`
}

// InvoiceResponse represents an invoice in API responses. All money fields
// serialize as decimal strings.
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	Status        string                `json:"status"`
	Customer      CustomerResponse      `json:"customer"`
	Items         []InvoiceItemResponse `json:"items"`
	Payments      []PaymentResponse     `json:"payments"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TotalDiscount decimal.Decimal       `json:"total_discount"`
	TotalTax      decimal.Decimal       `json:"total_tax"`
	Total         decimal.Decimal       `json:"total"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"`
	Currency      string                `json:"currency"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Version       int                   `json:"version"`
}

// ToInvoiceResponse converts a domain invoice to its API representation
func ToInvoiceResponse(inv *sales.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			TaxRate:   item.TaxRate,
			Total:     item.Total,
		})
	}

	payments := make([]PaymentResponse, 0, len(inv.Payments))
	for _, p := range inv.Payments {
		payments = append(payments, PaymentResponse{
			ID:        p.ID,
			Method:    p.Method,
			Reference: p.Reference,
			Amount:    p.Amount,
			Currency:  string(p.Currency),
			PaidAt:    p.PaidAt,
		})
	}

	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status.String(),
		Customer: CustomerResponse{
			Name:      inv.Customer.Name,
			Email:     inv.Customer.Email,
			Phone:     inv.Customer.Phone,
			ContactID: inv.Customer.ContactID,
		},
		Items:         items,
		Payments:      payments,
		Subtotal:      inv.Subtotal,
		TotalDiscount: inv.TotalDiscount,
		TotalTax:      inv.TotalTax,
		Total:         inv.Total,
		PaidAmount:    inv.PaidAmount(),
		Currency:      string(inv.Currency),
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Version:       inv.Version,
	}
}
