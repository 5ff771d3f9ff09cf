package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/greatnexus/backend/internal/domain/shared"
	"github.com/greatnexus/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusRefunded  InvoiceStatus = "refunded"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled, InvoiceStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusCancelled || s == InvoiceStatusRefunded
}

// AffectsStock reports whether invoices in this status have emitted
// outbound stock movements at creation time
func (s InvoiceStatus) AffectsStock() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// CanTransitionTo checks if the status can transition to the target status.
// cancelled is reachable from any non-terminal state; refunded only from paid.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusPending || target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPending:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid:
		return target == InvoiceStatusRefunded || target == InvoiceStatusCancelled
	case InvoiceStatusCancelled, InvoiceStatusRefunded:
		return false
	}
	return false
}

// CustomerSnapshot captures customer details at the time of sale.
// It is a copy, not a live link: later edits to the contact never
// change an issued invoice.
type CustomerSnapshot struct {
	Name      string     `gorm:"column:customer_name;size:200" json:"name"`
	Email     string     `gorm:"column:customer_email;size:200" json:"email"`
	Phone     string     `gorm:"column:customer_phone;size:50" json:"phone"`
	ContactID *uuid.UUID `gorm:"column:customer_contact_id;type:uuid" json:"contact_id,omitempty"`
}

// InvoiceItem is one line of an invoice. Items are immutable after the
// invoice is created; prices and names are snapshots taken at sale time.
type InvoiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID      `gorm:"type:uuid;index"` // nil for free-text lines
	SKU       string          `gorm:"size:100"`
	Name      string          `gorm:"size:200"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // absolute, pre-tax
	TaxRate   decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`  // percentage
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // net + tax
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Payment is one entry in an invoice's append-only payment list.
// Payments are never edited or removed once recorded.
type Payment struct {
	ID         uuid.UUID            `gorm:"type:uuid;primaryKey"`
	InvoiceID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Method     string               `gorm:"size:50;not null"`
	Reference  string               `gorm:"size:200"`
	Amount     decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency   valueobject.Currency `gorm:"size:3;not null"`
	PaidAt     time.Time            `gorm:"not null"`
	ReceivedBy *uuid.UUID           `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "invoice_payments"
}

// Invoice is the sales invoice aggregate root. Totals are computed from the
// items at creation and never independently edited; the invoice number is
// immutable once assigned. Invoices are never physically deleted.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string               `gorm:"size:50;not null;uniqueIndex"`
	Customer      CustomerSnapshot     `gorm:"embedded"`
	Items         []InvoiceItem        `gorm:"foreignKey:InvoiceID;references:ID"`
	Subtotal      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	TotalDiscount decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Currency      valueobject.Currency `gorm:"size:3;not null;default:'MZN'"`
	Status        InvoiceStatus        `gorm:"size:20;not null;default:'draft'"`
	Payments      []Payment            `gorm:"foreignKey:InvoiceID;references:ID"`
	Notes         string               `gorm:"type:text"`
	Meta          map[string]any       `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice shell. Items and totals are attached via
// SetLines; the caller computes them with ComputeLine/ComputeInvoiceTotals.
func NewInvoice(tenantID uuid.UUID, invoiceNumber string, customer CustomerSnapshot, currency valueobject.Currency, status InvoiceStatus) (*Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if status == "" {
		status = InvoiceStatusPending
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown invoice status "+status.String())
	}
	if status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invoice cannot be created in a terminal status")
	}

	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		Customer:            customer,
		Currency:            currency,
		Status:              status,
		Subtotal:            decimal.Zero,
		TotalDiscount:       decimal.Zero,
		TotalTax:            decimal.Zero,
		Total:               decimal.Zero,
		Items:               make([]InvoiceItem, 0),
		Payments:            make([]Payment, 0),
		Meta:                map[string]any{},
	}, nil
}

// SetLines attaches the computed items and totals to the invoice.
// Rejects empty item lists; items are immutable afterwards.
func (inv *Invoice) SetLines(items []InvoiceItem, totals InvoiceTotals) error {
	if len(items) == 0 {
		return shared.NewDomainError("ITEMS_REQUIRED", "Invoice must have at least one line item")
	}
	for i := range items {
		items[i].InvoiceID = inv.ID
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = time.Now()
		}
	}
	inv.Items = items
	inv.Subtotal = totals.Subtotal
	inv.TotalDiscount = totals.TotalDiscount
	inv.TotalTax = totals.TotalTax
	inv.Total = totals.Total
	inv.UpdatedAt = time.Now()
	return nil
}

// AddPayment appends a payment. The payment list is append-only; recording
// a payment never mutates previous entries. Overpayment is accepted.
func (inv *Invoice) AddPayment(method, reference string, amount decimal.Decimal, currency valueobject.Currency, receivedBy *uuid.UUID, paidAt time.Time) (*Payment, error) {
	if inv.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot record a payment on a "+inv.Status.String()+" invoice")
	}
	if method == "" {
		method = "unknown"
	}
	if currency == "" {
		currency = inv.currencyOrDefault()
	}
	tendered, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}
	if tendered.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	payment := Payment{
		ID:         uuid.New(),
		InvoiceID:  inv.ID,
		Method:     method,
		Reference:  reference,
		Amount:     amount,
		Currency:   currency,
		PaidAt:     paidAt,
		ReceivedBy: receivedBy,
	}
	inv.Payments = append(inv.Payments, payment)
	inv.refreshPaymentStatus()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return &inv.Payments[len(inv.Payments)-1], nil
}

// TotalMoney returns the invoice total as Money in the invoice currency
func (inv *Invoice) TotalMoney() valueobject.Money {
	return inv.money(inv.Total)
}

// PaidMoney returns the cumulative paid amount as Money in the invoice
// currency. Payment rows keep their own currency column; amounts are
// summed at face value.
func (inv *Invoice) PaidMoney() valueobject.Money {
	sum := valueobject.Zero(inv.currencyOrDefault())
	for _, p := range inv.Payments {
		sum = sum.MustAdd(inv.money(p.Amount))
	}
	return sum
}

// PaidAmount returns the cumulative sum of all recorded payments
func (inv *Invoice) PaidAmount() decimal.Decimal {
	return inv.PaidMoney().Amount()
}

// refreshPaymentStatus derives the status from the cumulative paid amount:
// paid once cumulative >= total, pending while partially paid, and it stays
// paid on further overpayment.
func (inv *Invoice) refreshPaymentStatus() {
	paid := inv.PaidMoney()
	covered, _ := paid.GreaterThanOrEqual(inv.TotalMoney())
	switch {
	case covered:
		inv.Status = InvoiceStatusPaid
	case !paid.IsZero() && !paid.IsNegative():
		inv.Status = InvoiceStatusPending
	}
}

func (inv *Invoice) currencyOrDefault() valueobject.Currency {
	if inv.Currency == "" {
		return valueobject.DefaultCurrency
	}
	return inv.Currency
}

func (inv *Invoice) money(amount decimal.Decimal) valueobject.Money {
	m, err := valueobject.NewMoney(amount, inv.currencyOrDefault())
	if err != nil {
		return valueobject.NewMoneyMZN(amount)
	}
	return m
}

// Cancel moves the invoice to cancelled. Stock movements emitted at creation
// are NOT reversed: inventory keeps the decrement from the original sale.
func (inv *Invoice) Cancel() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a "+inv.Status.String()+" invoice")
	}
	inv.Status = InvoiceStatusCancelled
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// Refund moves a paid invoice to refunded
func (inv *Invoice) Refund() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusRefunded) {
		return shared.NewDomainError("INVALID_STATE", "Only paid invoices can be refunded")
	}
	inv.Status = InvoiceStatusRefunded
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}
