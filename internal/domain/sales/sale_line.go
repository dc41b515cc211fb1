package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/lababil/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleStatus is the lifecycle state of a sale line
type SaleStatus string

// SaleStatusCompleted is the only status produced by a commit
const SaleStatusCompleted SaleStatus = "Completed"

// DefaultPaymentMethod is used when neither the request nor config names one
const DefaultPaymentMethod = "Bank Transfer"

// Sales errors
var (
	ErrEmptySale       = shared.NewDomainError("EMPTY_SALE", "Please add at least one product")
	ErrReceiptNotFound = shared.NewDomainError("NOT_FOUND", "Receipt not found")
	ErrLineNotFound    = shared.NewDomainError("NOT_FOUND", "Sale line not found")
)

// CustomerInfo is copied onto every line of a receipt
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// Validate checks the customer fields
func (c CustomerInfo) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	if len(c.Name) > 200 {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot exceed 200 characters")
	}
	return nil
}

// SaleLine is one product-quantity entry within a transaction.
// ProductName and UnitPrice are snapshots taken at commit time and do not
// follow later product edits or deletion.
type SaleLine struct {
	ID            string
	ReceiptNumber string
	ProductID     string
	ProductName   string
	Quantity      int
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal
	Customer      string
	CustomerEmail string
	CustomerPhone string
	Date          time.Time
	Status        SaleStatus
	PaymentMethod string
	CreatedAt     time.Time
}

// LineInput is the product snapshot needed to build a SaleLine
type LineInput struct {
	LineNo      int
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// NewSaleLine builds a completed line for receiptNumber at the commit time
// date. Date keeps the day, CreatedAt the full instant. The total is
// computed once here and stored.
func NewSaleLine(receiptNumber string, in LineInput, customer CustomerInfo, date time.Time, paymentMethod string) (*SaleLine, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT", "Receipt number is required")
	}
	if in.Quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if in.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	return &SaleLine{
		ID:            LineID(receiptNumber, in.LineNo),
		ReceiptNumber: receiptNumber,
		ProductID:     in.ProductID,
		ProductName:   in.ProductName,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		Total:         in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Customer:      strings.TrimSpace(customer.Name),
		CustomerEmail: strings.TrimSpace(customer.Email),
		CustomerPhone: strings.TrimSpace(customer.Phone),
		Date:          TruncateDay(date),
		Status:        SaleStatusCompleted,
		PaymentMethod: paymentMethod,
		CreatedAt:     date,
	}, nil
}

// LineID composes a line id from the receipt number and the 1-based line position
func LineID(receiptNumber string, lineNo int) string {
	return fmt.Sprintf("%s-%d", receiptNumber, lineNo)
}

// ReceiptKey returns the grouping key of the line
func (l *SaleLine) ReceiptKey() string {
	if l.ReceiptNumber != "" {
		return l.ReceiptNumber
	}
	return LegacyReceiptKey(l.ID)
}

// LegacyReceiptKey derives a grouping key for lines written before receipt
// numbers were stored: the id up to its first "/".
func LegacyReceiptKey(id string) string {
	key, _, _ := strings.Cut(id, "/")
	return key
}

// TruncateDay drops the time of day, keeping the location
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
