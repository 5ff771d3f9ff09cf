package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/greatnexus/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T, status InvoiceStatus) *Invoice {
	t.Helper()

	inv, err := NewInvoice(uuid.New(), "INV-2026-abc123-000001", CustomerSnapshot{Name: "Walk-in"}, valueobject.MZN, status)
	require.NoError(t, err)

	line := LineInput{UnitPrice: dec("100"), Quantity: dec("3"), Discount: dec("50"), TaxRate: dec("17")}
	amounts, err := ComputeLine(line)
	require.NoError(t, err)
	totals, err := ComputeInvoiceTotals([]LineInput{line})
	require.NoError(t, err)

	err = inv.SetLines([]InvoiceItem{{
		Name:      "Widget",
		SKU:       "WID-1",
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
		Discount:  line.Discount,
		TaxRate:   line.TaxRate,
		Total:     amounts.Total,
	}}, totals)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		inv, err := NewInvoice(uuid.New(), "INV-2026-abc123-000001", CustomerSnapshot{}, "", "")
		require.NoError(t, err)

		assert.Equal(t, valueobject.MZN, inv.Currency)
		assert.Equal(t, InvoiceStatusPending, inv.Status)
		assert.NotEqual(t, uuid.Nil, inv.ID)
	})

	t.Run("requires tenant", func(t *testing.T) {
		_, err := NewInvoice(uuid.Nil, "INV-1", CustomerSnapshot{}, valueobject.MZN, InvoiceStatusDraft)
		assert.Error(t, err)
	})

	t.Run("requires invoice number", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "", CustomerSnapshot{}, valueobject.MZN, InvoiceStatusDraft)
		assert.Error(t, err)
	})

	t.Run("rejects terminal initial status", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "INV-1", CustomerSnapshot{}, valueobject.MZN, InvoiceStatusCancelled)
		assert.Error(t, err)
	})
}

func TestInvoiceStatusTransitions(t *testing.T) {
	cases := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{InvoiceStatusDraft, InvoiceStatusPending, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, true},
		{InvoiceStatusDraft, InvoiceStatusCancelled, true},
		{InvoiceStatusDraft, InvoiceStatusRefunded, false},
		{InvoiceStatusPending, InvoiceStatusPaid, true},
		{InvoiceStatusPending, InvoiceStatusCancelled, true},
		{InvoiceStatusPending, InvoiceStatusDraft, false},
		{InvoiceStatusPending, InvoiceStatusRefunded, false},
		{InvoiceStatusPaid, InvoiceStatusRefunded, true},
		{InvoiceStatusPaid, InvoiceStatusCancelled, true},
		{InvoiceStatusPaid, InvoiceStatusPending, false},
		{InvoiceStatusCancelled, InvoiceStatusPending, false},
		{InvoiceStatusCancelled, InvoiceStatusPaid, false},
		{InvoiceStatusRefunded, InvoiceStatusPaid, false},
		{InvoiceStatusRefunded, InvoiceStatusCancelled, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestInvoicePayments(t *testing.T) {
	t.Run("partial payment keeps invoice pending", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceStatusPending)

		_, err := inv.AddPayment("cash", "", dec("100"), valueobject.MZN, nil, time.Now())
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatusPending, inv.Status)
		assert.True(t, inv.PaidAmount().Equal(dec("100")))
	})

	t.Run("cumulative payments reach paid", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceStatusPending)

		_, err := inv.AddPayment("cash", "", dec("200"), valueobject.MZN, nil, time.Now())
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPending, inv.Status)

		_, err = inv.AddPayment("card", "ref-1", dec("92.5"), valueobject.MZN, nil, time.Now())
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.PaidAmount().Equal(dec("292.5")))
		assert.Len(t, inv.Payments, 2)
	})

	t.Run("each call appends a new payment", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceStatusPending)

		_, err := inv.AddPayment("cash", "", dec("292.5"), valueobject.MZN, nil, time.Now())
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)

		// same amount again is a second payment, status stays paid
		_, err = inv.AddPayment("cash", "", dec("292.5"), valueobject.MZN, nil, time.Now())
		require.NoError(t, err)

		assert.Len(t, inv.Payments, 2)
		assert.True(t, inv.PaidAmount().Equal(dec("585")))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("paid and total carry the invoice currency", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceStatusPending)

		_, err := inv.AddPayment("cash", "", dec("100"), valueobject.MZN, nil, time.Now())
		require.NoError(t, err)

		paid := inv.PaidMoney()
		assert.Equal(t, valueobject.MZN, paid.Currency())
		assert.True(t, paid.Amount().Equal(dec("100")))

		total := inv.TotalMoney()
		assert.Equal(t, valueobject.MZN, total.Currency())
		assert.True(t, total.Amount().Equal(inv.Total))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceStatusPending)

		_, err := inv.AddPayment("cash", "", dec("-1"), valueobject.MZN, nil, time.Now())
		assert.Error(t, err)
		assert.Empty(t, inv.Payments)
	})

	t.Run("rejects payment on cancelled invoice", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceStatusPending)
		require.NoError(t, inv.Cancel())

		_, err := inv.AddPayment("cash", "", dec("10"), valueobject.MZN, nil, time.Now())
		assert.Error(t, err)
	})
}

func TestInvoiceCancelAndRefund(t *testing.T) {
	t.Run("cancel pending", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceStatusPending)

		require.NoError(t, inv.Cancel())
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	})

	t.Run("cancel is not repeatable", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceStatusPending)

		require.NoError(t, inv.Cancel())
		assert.Error(t, inv.Cancel())
	})

	t.Run("refund requires paid", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceStatusPending)
		assert.Error(t, inv.Refund())

		_, err := inv.AddPayment("cash", "", dec("292.5"), valueobject.MZN, nil, time.Now())
		require.NoError(t, err)

		require.NoError(t, inv.Refund())
		assert.Equal(t, InvoiceStatusRefunded, inv.Status)
	})

	t.Run("refunded is terminal", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceStatusPending)
		_, err := inv.AddPayment("cash", "", dec("292.5"), valueobject.MZN, nil, time.Now())
		require.NoError(t, err)
		require.NoError(t, inv.Refund())

		assert.Error(t, inv.Cancel())
	})
}

func TestSetLines(t *testing.T) {
	t.Run("assigns item ids and invoice id", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceStatusDraft)

		require.Len(t, inv.Items, 1)
		assert.Equal(t, inv.ID, inv.Items[0].InvoiceID)
		assert.NotEqual(t, uuid.Nil, inv.Items[0].ID)
		assert.True(t, inv.Total.Equal(dec("292.5")))
	})

	t.Run("rejects empty items", func(t *testing.T) {
		inv, err := NewInvoice(uuid.New(), "INV-1", CustomerSnapshot{}, valueobject.MZN, InvoiceStatusDraft)
		require.NoError(t, err)

		assert.Error(t, inv.SetLines(nil, InvoiceTotals{Subtotal: decimal.Zero}))
	})
}
