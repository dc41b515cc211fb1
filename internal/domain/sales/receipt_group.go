package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the tax percentage applied when settings carry none
var DefaultTaxRate = decimal.NewFromInt(11)

// ReceiptGroup is the reconstructed view of one transaction
type ReceiptGroup struct {
	ReceiptNumber string
	Lines         []SaleLine
	ItemCount     int
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal // percent
	Tax           decimal.Decimal
	GrandTotal    decimal.Decimal
	Customer      string
	CustomerEmail string
	CustomerPhone string
	PaymentMethod string
	Date          time.Time
	Status        SaleStatus
}

// GroupByReceipt regroups ledger lines by receipt key. Groups appear in the
// order their first line appears; lines keep ledger order. taxRate is a
// percentage (11 means 11%). The input slice is never modified.
func GroupByReceipt(lines []SaleLine, taxRate decimal.Decimal) []ReceiptGroup {
	index := make(map[string]int)
	groups := make([]ReceiptGroup, 0)

	for _, line := range lines {
		key := line.ReceiptKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ReceiptGroup{
				ReceiptNumber: key,
				Lines:         make([]SaleLine, 0, 1),
				Subtotal:      decimal.Zero,
				Customer:      line.Customer,
				CustomerEmail: line.CustomerEmail,
				CustomerPhone: line.CustomerPhone,
				PaymentMethod: line.PaymentMethod,
				Date:          line.Date,
				Status:        line.Status,
			})
		}
		g := &groups[i]
		g.Lines = append(g.Lines, line)
		g.ItemCount += line.Quantity
		g.Subtotal = g.Subtotal.Add(line.Total)
	}

	for i := range groups {
		groups[i].applyTax(taxRate)
	}
	return groups
}

// FindReceipt returns the group for receiptNumber, or false
func FindReceipt(lines []SaleLine, receiptNumber string, taxRate decimal.Decimal) (ReceiptGroup, bool) {
	matching := make([]SaleLine, 0)
	for _, line := range lines {
		if line.ReceiptKey() == receiptNumber {
			matching = append(matching, line)
		}
	}
	if len(matching) == 0 {
		return ReceiptGroup{}, false
	}
	return GroupByReceipt(matching, taxRate)[0], true
}

func (g *ReceiptGroup) applyTax(taxRate decimal.Decimal) {
	g.TaxRate = taxRate
	g.Tax = CalculateTax(g.Subtotal, taxRate)
	g.GrandTotal = g.Subtotal.Add(g.Tax)
}

// CalculateTax returns amount * percent / 100 without rounding
func CalculateTax(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Shift(-2)
}
