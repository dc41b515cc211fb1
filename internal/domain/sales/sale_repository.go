package sales

import (
	"context"
	"time"
)

// LineFilter narrows ledger queries
type LineFilter struct {
	From     *time.Time
	To       *time.Time
	Customer string // case-insensitive substring
	Page     int
	PageSize int // 0 selects every line
}

// SaleLineRepository defines the interface for ledger persistence.
// FindAll returns lines newest receipt first, lines of one receipt in
// line order.
type SaleLineRepository interface {
	// SaveAll appends lines to the ledger
	SaveAll(ctx context.Context, lines []SaleLine) error

	// FindAll returns ledger lines matching the filter
	FindAll(ctx context.Context, filter LineFilter) ([]SaleLine, int64, error)

	// FindByID finds one line
	FindByID(ctx context.Context, id string) (*SaleLine, error)

	// FindByReceipt returns every line whose receipt key equals receiptNumber
	FindByReceipt(ctx context.Context, receiptNumber string) ([]SaleLine, error)

	// DeleteByReceipt removes every line of a receipt and returns the count
	DeleteByReceipt(ctx context.Context, receiptNumber string) (int64, error)

	// Delete removes one line
	Delete(ctx context.Context, id string) error
}
