package printing

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/domain/settings"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TemplateEngine renders receipts with html/template
type TemplateEngine struct {
	receipt *template.Template
}

// NewTemplateEngine parses the built-in receipt template
func NewTemplateEngine() *TemplateEngine {
	funcMap := template.FuncMap{
		"money":   FormatMoney,
		"number":  formatNumber,
		"date":    FormatDate,
		"percent": formatPercent,
		"title":   titleCase,
		"upper":   strings.ToUpper,
	}
	return &TemplateEngine{
		receipt: template.Must(template.New("receipt").Funcs(funcMap).Parse(receiptTemplate)),
	}
}

// receiptLine is one printed row
type receiptLine struct {
	No          int
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// receiptView is the data bound to the receipt template
type receiptView struct {
	Settings      *settings.Settings
	Currency      string
	Thermal       bool
	PaperWidthMM  float64
	ReceiptNumber string
	Date          time.Time
	Customer      string
	CustomerEmail string
	CustomerPhone string
	PaymentMethod string
	Status        string
	Lines         []receiptLine
	ItemCount     int
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	Tax           decimal.Decimal
	GrandTotal    decimal.Decimal
}

// RenderReceipt renders a receipt as a complete HTML document
func (e *TemplateEngine) RenderReceipt(receipt *sales.ReceiptGroup, s *settings.Settings) (string, error) {
	if receipt == nil || s == nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "receipt and settings are required", nil)
	}

	width, _, ok := PaperDimensions(s.PaperSize)
	if !ok {
		return "", NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(s.PaperSize), nil)
	}

	view := receiptView{
		Settings:      s,
		Currency:      s.Currency,
		Thermal:       s.PaperSize.IsThermal(),
		PaperWidthMM:  width,
		ReceiptNumber: receipt.ReceiptNumber,
		Date:          receipt.Date,
		Customer:      receipt.Customer,
		CustomerEmail: receipt.CustomerEmail,
		CustomerPhone: receipt.CustomerPhone,
		PaymentMethod: receipt.PaymentMethod,
		Status:        string(receipt.Status),
		Lines:         make([]receiptLine, len(receipt.Lines)),
		ItemCount:     receipt.ItemCount,
		Subtotal:      receipt.Subtotal,
		TaxRate:       receipt.TaxRate,
		Tax:           receipt.Tax,
		GrandTotal:    receipt.GrandTotal,
	}
	for i, line := range receipt.Lines {
		view.Lines[i] = receiptLine{
			No:          i + 1,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       line.Total,
		}
	}

	var buf bytes.Buffer
	if err := e.receipt.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute receipt template", err)
	}
	return buf.String(), nil
}

// =============================================================================
// Template Functions - Money Formatting
// =============================================================================

// FormatMoney formats an amount with Indonesian digit grouping.
// Example: ("IDR", 5000000) -> "Rp 5.000.000"; fractions use a comma.
func FormatMoney(currency string, d decimal.Decimal) string {
	return currencySymbol(currency) + " " + formatNumber(d)
}

func currencySymbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "", "IDR":
		return "Rp"
	case "USD":
		return "$"
	default:
		return strings.ToUpper(currency)
	}
}

// formatNumber groups thousands with "." and keeps up to two decimals after ","
func formatNumber(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	d = d.Round(2)
	whole := d.Truncate(0)
	out := sign + message.NewPrinter(language.Indonesian).Sprintf("%d", whole.IntPart())

	if frac := d.Sub(whole); !frac.IsZero() {
		digits := strings.TrimPrefix(frac.StringFixed(2), "0.")
		out += "," + digits
	}
	return out
}

// formatPercent renders a percentage such as 11 or 12,5
func formatPercent(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1) + "%"
}

// =============================================================================
// Template Functions - Dates and Text
// =============================================================================

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatDate renders a date as "22 September 2025"
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2") + " " + indonesianMonths[t.Month()-1] + " " + t.Format("2006")
}

func titleCase(s string) string {
	return cases.Title(language.Indonesian, cases.NoLower).String(s)
}
