package settings

import (
	"regexp"
	"strings"

	"github.com/lababil/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaperSize names a receipt paper format
type PaperSize string

const (
	PaperA4        PaperSize = "A4"
	PaperA5        PaperSize = "A5"
	PaperLetter    PaperSize = "Letter"
	PaperLegal     PaperSize = "Legal"
	PaperThermal58 PaperSize = "Thermal-58"
	PaperThermal80 PaperSize = "Thermal-80"
)

// PaperSizes lists the supported paper formats
var PaperSizes = []PaperSize{PaperA4, PaperA5, PaperLetter, PaperLegal, PaperThermal58, PaperThermal80}

// IsValid reports whether the paper size is supported
func (p PaperSize) IsValid() bool {
	for _, s := range PaperSizes {
		if s == p {
			return true
		}
	}
	return false
}

// IsThermal reports whether the paper is a continuous thermal roll
func (p PaperSize) IsThermal() bool {
	return p == PaperThermal58 || p == PaperThermal80
}

// Orientation of the printed page
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Settings is the single company profile and printing preference record.
// It is replaced as a whole on every save.
type Settings struct {
	CompanyName        string
	CompanyAddress     string
	CompanyPhone       string
	CompanyEmail       string
	CompanyWebsite     string
	CompanyBankAccount string

	PrinterName      string
	PaperSize        PaperSize
	PaperOrientation Orientation
	MarginTop        decimal.Decimal // millimetres
	MarginBottom     decimal.Decimal
	MarginLeft       decimal.Decimal
	MarginRight      decimal.Decimal

	ShowLogo         bool
	ShowCompanyInfo  bool
	ShowCustomerInfo bool
	ShowTax          bool            // display only; totals always include tax
	TaxRate          decimal.Decimal // percent
	Currency         string
	Language         string
}

// Defaults returns the factory settings
func Defaults() Settings {
	margin := decimal.NewFromInt(10)
	return Settings{
		CompanyName:        "Lababil Solution",
		CompanyAddress:     "Jl. Teknologi No. 123, Jakarta Pusat, DKI Jakarta 10230, Indonesia",
		CompanyPhone:       "+62 21-1234-5678",
		CompanyEmail:       "info@lababilsolution.com",
		CompanyWebsite:     "www.lababilsolution.com",
		CompanyBankAccount: "BCA 7870598488 a/n PT. Lababil Solution",
		PrinterName:        "Default Printer",
		PaperSize:          PaperA4,
		PaperOrientation:   OrientationPortrait,
		MarginTop:          margin,
		MarginBottom:       margin,
		MarginLeft:         margin,
		MarginRight:        margin,
		ShowLogo:           true,
		ShowCompanyInfo:    true,
		ShowCustomerInfo:   true,
		ShowTax:            true,
		TaxRate:            decimal.NewFromInt(11),
		Currency:           "IDR",
		Language:           "id",
	}
}

// Normalize trims text fields and upper-cases the currency
func (s *Settings) Normalize() {
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	s.CompanyAddress = strings.TrimSpace(s.CompanyAddress)
	s.CompanyPhone = strings.TrimSpace(s.CompanyPhone)
	s.CompanyEmail = strings.TrimSpace(s.CompanyEmail)
	s.CompanyWebsite = strings.TrimSpace(s.CompanyWebsite)
	s.CompanyBankAccount = strings.TrimSpace(s.CompanyBankAccount)
	s.PrinterName = strings.TrimSpace(s.PrinterName)
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	s.Language = strings.ToLower(strings.TrimSpace(s.Language))
}

// Validate checks field-level correctness
func (s Settings) Validate() error {
	if s.CompanyName == "" {
		return shared.NewDomainError("INVALID_SETTINGS", "Company name is required")
	}
	if !s.PaperSize.IsValid() {
		return shared.NewDomainError("INVALID_SETTINGS", "Unsupported paper size: "+string(s.PaperSize))
	}
	if s.PaperOrientation != OrientationPortrait && s.PaperOrientation != OrientationLandscape {
		return shared.NewDomainError("INVALID_SETTINGS", "Paper orientation must be portrait or landscape")
	}
	for _, m := range []decimal.Decimal{s.MarginTop, s.MarginBottom, s.MarginLeft, s.MarginRight} {
		if m.IsNegative() {
			return shared.NewDomainError("INVALID_SETTINGS", "Margins cannot be negative")
		}
	}
	if s.TaxRate.IsNegative() || s.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_SETTINGS", "Tax rate must be between 0 and 100")
	}
	if !currencyRegex.MatchString(s.Currency) {
		return shared.NewDomainError("INVALID_SETTINGS", "Currency must be a 3-letter code")
	}
	return nil
}
