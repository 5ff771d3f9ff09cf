package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceSequenceKey(t *testing.T) {
	tenantID := uuid.MustParse("a1b2c3d4-0000-0000-0000-00000000beef")
	at := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "invoice_2026_a1b2c3d4-0000-0000-0000-00000000beef", InvoiceSequenceKey(tenantID, at))
	assert.Equal(t, "invoice_2026_general", InvoiceSequenceKey(uuid.Nil, at))

	// year boundary starts a fresh counter scope
	nextYear := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.NotEqual(t, InvoiceSequenceKey(tenantID, at), InvoiceSequenceKey(tenantID, nextYear))
}

func TestFormatInvoiceNumber(t *testing.T) {
	tenantID := uuid.MustParse("a1b2c3d4-0000-0000-0000-00000000beef")
	at := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)

	t.Run("pads sequence to six digits", func(t *testing.T) {
		assert.Equal(t, "INV-2026-00beef-000042", FormatInvoiceNumber(tenantID, at, 42))
	})

	t.Run("wide sequences are not truncated", func(t *testing.T) {
		assert.Equal(t, "INV-2026-00beef-1000001", FormatInvoiceNumber(tenantID, at, 1000001))
	})

	t.Run("missing tenant falls back to GEN", func(t *testing.T) {
		assert.Equal(t, "INV-2026-GEN-000001", FormatInvoiceNumber(uuid.Nil, at, 1))
	})

	t.Run("distinct tenants yield distinct numbers", func(t *testing.T) {
		other := uuid.MustParse("a1b2c3d4-0000-0000-0000-00000000cafe")
		require.NotEqual(t, FormatInvoiceNumber(tenantID, at, 1), FormatInvoiceNumber(other, at, 1))
	})
}
