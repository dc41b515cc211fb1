package sales

import (
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeReceipt = "Receipt"

// Event type constants
const (
	EventTypeSaleCommitted      = "SaleCommitted"
	EventTypeTransactionDeleted = "TransactionDeleted"
	EventTypeSaleLineDeleted    = "SaleLineDeleted"
)

// SaleCommittedEvent is published after a sale is written to the ledger
type SaleCommittedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber string          `json:"receipt_number"`
	Customer      string          `json:"customer"`
	PaymentMethod string          `json:"payment_method"`
	LineCount     int             `json:"line_count"`
	ItemCount     int             `json:"item_count"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// NewSaleCommittedEvent creates a new SaleCommittedEvent from the receipt view
func NewSaleCommittedEvent(group ReceiptGroup) *SaleCommittedEvent {
	return &SaleCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCommitted, AggregateTypeReceipt, group.ReceiptNumber),
		ReceiptNumber:   group.ReceiptNumber,
		Customer:        group.Customer,
		PaymentMethod:   group.PaymentMethod,
		LineCount:       len(group.Lines),
		ItemCount:       group.ItemCount,
		Subtotal:        group.Subtotal,
		GrandTotal:      group.GrandTotal,
	}
}

// TransactionDeletedEvent is published when every line of a receipt is removed
type TransactionDeletedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber string `json:"receipt_number"`
	LinesDeleted  int    `json:"lines_deleted"`
	StockRestored bool   `json:"stock_restored"`
}

// NewTransactionDeletedEvent creates a new TransactionDeletedEvent
func NewTransactionDeletedEvent(receiptNumber string, linesDeleted int, stockRestored bool) *TransactionDeletedEvent {
	return &TransactionDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionDeleted, AggregateTypeReceipt, receiptNumber),
		ReceiptNumber:   receiptNumber,
		LinesDeleted:    linesDeleted,
		StockRestored:   stockRestored,
	}
}

// SaleLineDeletedEvent is published when a single line is removed
type SaleLineDeletedEvent struct {
	shared.BaseDomainEvent
	LineID        string `json:"line_id"`
	ReceiptNumber string `json:"receipt_number"`
}

// NewSaleLineDeletedEvent creates a new SaleLineDeletedEvent
func NewSaleLineDeletedEvent(line *SaleLine) *SaleLineDeletedEvent {
	return &SaleLineDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleLineDeleted, AggregateTypeReceipt, line.ReceiptKey()),
		LineID:          line.ID,
		ReceiptNumber:   line.ReceiptKey(),
	}
}
