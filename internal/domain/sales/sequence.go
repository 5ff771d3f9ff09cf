package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SequenceAllocator hands out strictly increasing, gapless sequence numbers
// per scope key. Implementations must be safe under concurrent allocation:
// two callers on the same key never receive the same number.
type SequenceAllocator interface {
	Next(ctx context.Context, scopeKey string) (int64, error)
}

const generalScope = "general"

// InvoiceSequenceKey builds the counter key for invoice numbering. Counters
// are scoped per tenant and calendar year so numbering restarts at 1 each
// January without touching previous years' counters.
func InvoiceSequenceKey(tenantID uuid.UUID, at time.Time) string {
	scope := generalScope
	if tenantID != uuid.Nil {
		scope = tenantID.String()
	}
	return fmt.Sprintf("invoice_%d_%s", at.Year(), scope)
}

// TenantSuffix derives the short tenant marker embedded in invoice numbers:
// the last six characters of the tenant id, or GEN when no tenant is set.
func TenantSuffix(tenantID uuid.UUID) string {
	if tenantID == uuid.Nil {
		return "GEN"
	}
	s := tenantID.String()
	return s[len(s)-6:]
}

// FormatInvoiceNumber renders the human-facing invoice number, e.g.
// INV-2026-4f9a2b-000042. The sequence is zero-padded to six digits but
// grows past that width without truncation.
func FormatInvoiceNumber(tenantID uuid.UUID, at time.Time, seq int64) string {
	return fmt.Sprintf("INV-%d-%s-%06d", at.Year(), TenantSuffix(tenantID), seq)
}
