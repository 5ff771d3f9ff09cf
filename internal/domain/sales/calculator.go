package sales

import (
	"github.com/greatnexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineInput carries the raw figures for one invoice line. Discount is an
// absolute amount applied before tax; TaxRate is a percentage (17 means 17%).
type LineInput struct {
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal
}

// LineAmounts holds the computed amounts for one line
type LineAmounts struct {
	Net   decimal.Decimal // price*qty - discount
	Tax   decimal.Decimal // net * rate / 100
	Total decimal.Decimal // net + tax
}

// InvoiceTotals aggregates line amounts across an invoice
type InvoiceTotals struct {
	Subtotal      decimal.Decimal // sum of price*qty before discounts
	TotalDiscount decimal.Decimal
	TotalTax      decimal.Decimal
	Total         decimal.Decimal // subtotal - totalDiscount + totalTax
}

// ComputeLine computes the net, tax and total for a single line using exact
// decimal arithmetic. A discount larger than the gross amount yields a
// negative net, tax and total; the caller decides whether to accept such
// lines.
func ComputeLine(in LineInput) (LineAmounts, error) {
	if !in.Quantity.IsPositive() {
		return LineAmounts{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return LineAmounts{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if in.Discount.IsNegative() {
		return LineAmounts{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if in.TaxRate.IsNegative() {
		return LineAmounts{}, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	net := in.UnitPrice.Mul(in.Quantity).Sub(in.Discount)
	tax := net.Mul(in.TaxRate).Div(decimal.NewFromInt(100))

	return LineAmounts{
		Net:   net,
		Tax:   tax,
		Total: net.Add(tax),
	}, nil
}

// ComputeInvoiceTotals folds the line inputs into invoice-level totals.
// The grand total is derived as subtotal - totalDiscount + totalTax and
// equals the sum of the individual line totals.
func ComputeInvoiceTotals(lines []LineInput) (InvoiceTotals, error) {
	if len(lines) == 0 {
		return InvoiceTotals{}, shared.NewDomainError("ITEMS_REQUIRED", "At least one line is required")
	}

	totals := InvoiceTotals{
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
		TotalTax:      decimal.Zero,
		Total:         decimal.Zero,
	}
	for _, line := range lines {
		amounts, err := ComputeLine(line)
		if err != nil {
			return InvoiceTotals{}, err
		}
		totals.Subtotal = totals.Subtotal.Add(line.UnitPrice.Mul(line.Quantity))
		totals.TotalDiscount = totals.TotalDiscount.Add(line.Discount)
		totals.TotalTax = totals.TotalTax.Add(amounts.Tax)
	}
	totals.Total = totals.Subtotal.Sub(totals.TotalDiscount).Add(totals.TotalTax)
	return totals, nil
}
