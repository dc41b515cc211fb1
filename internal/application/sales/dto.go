package sales

import (
	"time"

	"github.com/lababil/pos/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CustomerRequest identifies the buyer of a sale
type CustomerRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// SaleItemRequest is one requested product-quantity pair. Quantity is
// checked by the ledger so a zero quantity reports INVALID_QUANTITY.
type SaleItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// CommitSaleRequest is the input of a checkout
type CommitSaleRequest struct {
	Customer      CustomerRequest   `json:"customer"`
	Items         []SaleItemRequest `json:"items" binding:"dive"`
	PaymentMethod string            `json:"payment_method" binding:"max=50"`
}

// SaleLineResponse represents a ledger line in API responses. Date is the
// local sale day as YYYY-MM-DD.
type SaleLineResponse struct {
	ID            string          `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
	Customer      string          `json:"customer"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Date          string          `json:"date"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReceiptResponse is one transaction regrouped from its lines
type ReceiptResponse struct {
	ReceiptNumber string             `json:"receipt_number"`
	Lines         []SaleLineResponse `json:"lines"`
	ItemCount     int                `json:"item_count"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxRate       decimal.Decimal    `json:"tax_rate"`
	Tax           decimal.Decimal    `json:"tax"`
	GrandTotal    decimal.Decimal    `json:"grand_total"`
	Customer      string             `json:"customer"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Date          string             `json:"date"`
	Status        string             `json:"status"`
}

// DeleteTransactionResult reports what a transaction delete removed
type DeleteTransactionResult struct {
	ReceiptNumber string `json:"receipt_number"`
	LinesDeleted  int64  `json:"lines_deleted"`
	StockRestored bool   `json:"stock_restored"`
}

// LineListFilter narrows ledger listings. Dates are YYYY-MM-DD in the
// store's time zone.
type LineListFilter struct {
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Customer string `form:"customer" binding:"max=200"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=500"`
}

// ReportRequest selects the day range of a sales report
type ReportRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// ToSaleLineResponse converts a domain SaleLine to SaleLineResponse
func ToSaleLineResponse(l *sales.SaleLine) SaleLineResponse {
	return SaleLineResponse{
		ID:            l.ID,
		ReceiptNumber: l.ReceiptKey(),
		ProductID:     l.ProductID,
		ProductName:   l.ProductName,
		Quantity:      l.Quantity,
		UnitPrice:     l.UnitPrice,
		Total:         l.Total,
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		CustomerPhone: l.CustomerPhone,
		Date:          l.Date.Format(time.DateOnly),
		Status:        string(l.Status),
		PaymentMethod: l.PaymentMethod,
		CreatedAt:     l.CreatedAt,
	}
}

// ToSaleLineResponses converts a slice of domain SaleLines
func ToSaleLineResponses(lines []sales.SaleLine) []SaleLineResponse {
	result := make([]SaleLineResponse, len(lines))
	for i := range lines {
		result[i] = ToSaleLineResponse(&lines[i])
	}
	return result
}

// ToReceiptResponse converts a ReceiptGroup to ReceiptResponse
func ToReceiptResponse(g sales.ReceiptGroup) ReceiptResponse {
	return ReceiptResponse{
		ReceiptNumber: g.ReceiptNumber,
		Lines:         ToSaleLineResponses(g.Lines),
		ItemCount:     g.ItemCount,
		Subtotal:      g.Subtotal,
		TaxRate:       g.TaxRate,
		Tax:           g.Tax,
		GrandTotal:    g.GrandTotal,
		Customer:      g.Customer,
		CustomerEmail: g.CustomerEmail,
		CustomerPhone: g.CustomerPhone,
		PaymentMethod: g.PaymentMethod,
		Date:          g.Date.Format(time.DateOnly),
		Status:        string(g.Status),
	}
}
