package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/greatnexus/backend/internal/application/inventory"
	"github.com/greatnexus/backend/internal/domain/catalog"
	"github.com/greatnexus/backend/internal/domain/sales"
	"github.com/greatnexus/backend/internal/domain/shared"
	"github.com/greatnexus/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// outReason is the ledger reason recorded on invoice-driven stock movements
const outReason = "Sale created"

// InvoiceService orchestrates invoice issuance: snapshot resolution, money
// calculation, atomic number allocation plus persistence, and the per-line
// stock side effects.
type InvoiceService struct {
	scope       TransactionScope
	invoiceRepo sales.InvoiceRepository
	productRepo catalog.ProductRepository
	ledger      *appinventory.StockLedgerService
	now         func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(scope TransactionScope, invoiceRepo sales.InvoiceRepository, productRepo catalog.ProductRepository, ledger *appinventory.StockLedgerService) *InvoiceService {
	return &InvoiceService{
		scope:       scope,
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
		ledger:      ledger,
		now:         time.Now,
	}
}

// resolvedLine pairs the computed amounts with the snapshot taken from the
// product at issuance time
type resolvedLine struct {
	input     sales.LineInput
	productID *uuid.UUID
	sku       string
	name      string
}

// CreateInvoice issues an invoice: resolves product snapshots, computes
// totals, allocates the invoice number and persists invoice plus items in
// one transaction, then emits one OUT movement per product-backed line when
// the invoice lands in a stock-affecting status.
//
// The movements are applied per line after the commit. If one fails the
// invoice stays persisted and earlier lines' stock stays decremented; the
// returned PartialFailureError names the failed line.
func (s *InvoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("ITEMS_REQUIRED", "Invoice must have at least one line item")
	}

	lines, err := s.resolveLines(ctx, tenantID, req.Lines)
	if err != nil {
		return nil, err
	}

	inputs := make([]sales.LineInput, len(lines))
	for i, line := range lines {
		inputs[i] = line.input
	}
	totals, err := sales.ComputeInvoiceTotals(inputs)
	if err != nil {
		return nil, err
	}

	invoice, err := s.persistInvoice(ctx, tenantID, actorID, req, lines, totals, nil)
	if err != nil {
		return nil, err
	}

	if err := s.emitOutMovements(ctx, invoice, actorID, req.WarehouseID); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// CreatePointOfSaleInvoice issues an invoice that is paid at the counter:
// status is forced to paid and a payment equal to the invoice total (or the
// caller-supplied amount) is recorded at creation time.
func (s *InvoiceService) CreatePointOfSaleInvoice(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req PointOfSaleRequest) (*InvoiceResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("ITEMS_REQUIRED", "Invoice must have at least one line item")
	}

	lines, err := s.resolveLines(ctx, tenantID, req.Lines)
	if err != nil {
		return nil, err
	}

	inputs := make([]sales.LineInput, len(lines))
	for i, line := range lines {
		inputs[i] = line.input
	}
	totals, err := sales.ComputeInvoiceTotals(inputs)
	if err != nil {
		return nil, err
	}

	req.Status = sales.InvoiceStatusPaid.String()
	payment := &posPayment{
		method:    req.PaymentMethod,
		reference: req.PaymentReference,
		amount:    totals.Total,
	}
	if req.PaymentAmount != nil {
		payment.amount = *req.PaymentAmount
	}

	invoice, err := s.persistInvoice(ctx, tenantID, actorID, req.CreateInvoiceRequest, lines, totals, payment)
	if err != nil {
		return nil, err
	}

	if err := s.emitOutMovements(ctx, invoice, actorID, req.WarehouseID); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// posPayment is the payment synthesized for point of sale invoices
type posPayment struct {
	method    string
	reference string
	amount    decimal.Decimal
}

// persistInvoice allocates the invoice number and writes the invoice with
// its items (and the optional point of sale payment) in one transaction
func (s *InvoiceService) persistInvoice(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req CreateInvoiceRequest, lines []resolvedLine, totals sales.InvoiceTotals, payment *posPayment) (*sales.Invoice, error) {
	currency := valueobject.Currency(req.Currency)
	status := sales.InvoiceStatus(req.Status)
	issuedAt := s.now()

	var invoice *sales.Invoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		seq, err := repos.Sequences().Next(ctx, sales.InvoiceSequenceKey(tenantID, issuedAt))
		if err != nil {
			return err
		}
		number := sales.FormatInvoiceNumber(tenantID, issuedAt, seq)

		inv, err := sales.NewInvoice(tenantID, number, sales.CustomerSnapshot{
			Name:      req.Customer.Name,
			Email:     req.Customer.Email,
			Phone:     req.Customer.Phone,
			ContactID: req.Customer.ContactID,
		}, currency, status)
		if err != nil {
			return err
		}
		inv.Notes = req.Notes
		if req.Meta != nil {
			inv.Meta = req.Meta
		}
		if actorID != nil {
			inv.SetCreatedBy(*actorID)
		}

		items := make([]sales.InvoiceItem, len(lines))
		for i, line := range lines {
			amounts, err := sales.ComputeLine(line.input)
			if err != nil {
				return err
			}
			items[i] = sales.InvoiceItem{
				ProductID: line.productID,
				SKU:       line.sku,
				Name:      line.name,
				Quantity:  line.input.Quantity,
				UnitPrice: line.input.UnitPrice,
				Discount:  line.input.Discount,
				TaxRate:   line.input.TaxRate,
				Total:     amounts.Total,
			}
		}
		if err := inv.SetLines(items, totals); err != nil {
			return err
		}

		if payment != nil {
			if _, err := inv.AddPayment(payment.method, payment.reference, payment.amount, inv.Currency, actorID, issuedAt); err != nil {
				return err
			}
			// point of sale always lands paid even when the tendered
			// amount is below the total
			inv.Status = sales.InvoiceStatusPaid
		}

		if err := repos.Invoices().Create(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// emitOutMovements records one OUT movement per product-backed line.
// Movements are independent: a mid-sequence failure is reported as a
// PartialFailureError, never rolled back.
func (s *InvoiceService) emitOutMovements(ctx context.Context, invoice *sales.Invoice, actorID *uuid.UUID, warehouseID *uuid.UUID) error {
	if !invoice.Status.AffectsStock() {
		return nil
	}
	for i, item := range invoice.Items {
		if item.ProductID == nil {
			continue
		}
		_, err := s.ledger.ApplyMovement(ctx, invoice.TenantID, appinventory.ApplyMovementRequest{
			ProductID:   *item.ProductID,
			WarehouseID: warehouseID,
			Type:        "OUT",
			Quantity:    item.Quantity,
			Reference:   invoice.ID.String(),
			Reason:      outReason,
			OperatorID:  actorID,
		})
		if err != nil {
			return &PartialFailureError{
				InvoiceID:     invoice.ID,
				InvoiceNumber: invoice.InvoiceNumber,
				LineIndex:     i,
				ProductID:     *item.ProductID,
				Err:           err,
			}
		}
	}
	return nil
}

// resolveLines fills in SKU, name and unit price from the referenced
// products where the caller did not override them
func (s *InvoiceService) resolveLines(ctx context.Context, tenantID uuid.UUID, reqLines []InvoiceLineRequest) ([]resolvedLine, error) {
	lines := make([]resolvedLine, len(reqLines))
	for i, rl := range reqLines {
		line := resolvedLine{
			productID: rl.ProductID,
			sku:       rl.SKU,
			name:      rl.Name,
			input: sales.LineInput{
				Quantity: rl.Quantity,
				Discount: rl.Discount,
				TaxRate:  rl.TaxRate,
			},
		}
		if rl.UnitPrice != nil {
			line.input.UnitPrice = *rl.UnitPrice
		}

		if rl.ProductID != nil {
			product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, *rl.ProductID)
			if err != nil {
				return nil, err
			}
			if line.sku == "" {
				line.sku = product.SKU
			}
			if line.name == "" {
				line.name = product.Name
			}
			if rl.UnitPrice == nil {
				line.input.UnitPrice = product.SalePrice
			}
		} else if rl.UnitPrice == nil {
			return nil, shared.NewDomainError("INVALID_PRICE", "Free-text lines must carry a unit price")
		}

		if line.name == "" {
			return nil, shared.NewDomainError("INVALID_ITEM", "Line items require a name")
		}
		lines[i] = line
	}
	return lines, nil
}

// PayInvoice appends a payment to the invoice and derives the status from
// the cumulative paid amount. Each call records a new payment; repeating the
// same amount accumulates, and overpayment is accepted.
func (s *InvoiceService) PayInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, req PaymentRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, invoiceID, tenantID)
	if err != nil {
		return nil, err
	}

	if _, err := invoice.AddPayment(req.Method, req.Reference, req.Amount, valueobject.Currency(req.Currency), req.ReceivedBy, s.now()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// CancelInvoice moves the invoice to cancelled. Stock movements emitted at
// creation are left in place; inventory keeps the decrement from the sale.
func (s *InvoiceService) CancelInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, invoiceID, tenantID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Cancel(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// RefundInvoice moves a paid invoice to refunded
func (s *InvoiceService) RefundInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, invoiceID, tenantID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Refund(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetInvoice loads one invoice with its items and payments
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, invoiceID, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ListInvoices returns the tenant's invoices newest first, capped at the
// repository page limit
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, query ListInvoicesQuery) ([]InvoiceResponse, error) {
	filter := sales.ListFilter{
		From:  query.From,
		To:    query.To,
		Limit: query.Limit,
	}
	if query.Status != "" {
		status := sales.InvoiceStatus(query.Status)
		filter.Status = &status
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[i]))
	}
	return responses, nil
}
