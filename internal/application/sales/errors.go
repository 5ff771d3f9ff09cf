package sales

import (
	"fmt"

	"github.com/google/uuid"
)

// PartialFailureError reports that an invoice was persisted but one of its
// per-line stock movements failed afterwards. Earlier lines' stock is
// already decremented and the invoice is NOT rolled back; the caller must
// reconcile using the line and product identified here.
type PartialFailureError struct {
	InvoiceID     uuid.UUID
	InvoiceNumber string
	LineIndex     int
	ProductID     uuid.UUID
	Err           error
}

// Error implements the error interface
func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("invoice %s persisted but stock movement for line %d (product %s) failed: %v",
		e.InvoiceNumber, e.LineIndex, e.ProductID, e.Err)
}

// Unwrap returns the underlying movement error
func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
