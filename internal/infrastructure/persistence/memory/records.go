package memory

import (
	"fmt"
	"strings"
	"time"

	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/domain/settings"
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// dayLayout is the calendar-day format of sale dates in snapshots
const dayLayout = "2006-01-02"

// snapshot is the on-disk document. Field names are camelCase so files
// written by the older browser store load unchanged.
type snapshot struct {
	Products []productRecord  `json:"products"`
	Sales    []saleRecord     `json:"sales"`
	Users    []userRecord     `json:"users"`
	Settings *settingsRecord  `json:"settings,omitempty"`
	Counters map[string]int64 `json:"counters,omitempty"`
}

type productRecord struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Supplier      string          `json:"supplier"`
	Price         decimal.Decimal `json:"price"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	Stock         int             `json:"stock"`
	Version       int             `json:"version,omitempty"`
	CreatedAt     *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

func productToRecord(p *catalog.Product) productRecord {
	return productRecord{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Supplier:      p.Supplier,
		Price:         p.Price,
		PurchasePrice: p.PurchasePrice,
		Stock:         p.Stock,
		Version:       p.Version,
		CreatedAt:     timePtr(p.CreatedAt),
		UpdatedAt:     timePtr(p.UpdatedAt),
	}
}

func (r productRecord) toDomain() catalog.Product {
	version := r.Version
	if version == 0 {
		version = 1
	}
	return catalog.Product{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        r.ID,
				CreatedAt: timeValue(r.CreatedAt),
				UpdatedAt: timeValue(r.UpdatedAt),
			},
			Version: version,
		},
		Name:          r.Name,
		Category:      r.Category,
		Supplier:      r.Supplier,
		Price:         r.Price,
		PurchasePrice: r.PurchasePrice,
		Stock:         r.Stock,
	}
}

// saleRecord is one ledger line. Older files carry no unitPrice and no
// receiptNumber; both are derived on load.
type saleRecord struct {
	ID            string           `json:"id"`
	ReceiptNumber string           `json:"receiptNumber,omitempty"`
	ProductID     string           `json:"productId"`
	ProductName   string           `json:"productName"`
	Quantity      int              `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unitPrice,omitempty"`
	Total         decimal.Decimal  `json:"total"`
	Customer      string           `json:"customer"`
	CustomerEmail string           `json:"customerEmail"`
	CustomerPhone string           `json:"customerPhone"`
	Date          string           `json:"date"`
	Status        string           `json:"status"`
	PaymentMethod string           `json:"paymentMethod"`
	CreatedAt     *time.Time       `json:"createdAt,omitempty"`
}

func saleToRecord(l *sales.SaleLine) saleRecord {
	unitPrice := l.UnitPrice
	return saleRecord{
		ID:            l.ID,
		ReceiptNumber: l.ReceiptNumber,
		ProductID:     l.ProductID,
		ProductName:   l.ProductName,
		Quantity:      l.Quantity,
		UnitPrice:     &unitPrice,
		Total:         l.Total,
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		CustomerPhone: l.CustomerPhone,
		Date:          l.Date.Format(dayLayout),
		Status:        string(l.Status),
		PaymentMethod: l.PaymentMethod,
		CreatedAt:     timePtr(l.CreatedAt),
	}
}

func (r saleRecord) toDomain(location *time.Location) (sales.SaleLine, error) {
	date, err := parseDay(r.Date, location)
	if err != nil {
		return sales.SaleLine{}, fmt.Errorf("sale %s: %w", r.ID, err)
	}

	unitPrice := decimal.Zero
	switch {
	case r.UnitPrice != nil:
		unitPrice = *r.UnitPrice
	case r.Quantity > 0:
		unitPrice = r.Total.Div(decimal.NewFromInt(int64(r.Quantity)))
	}

	status := sales.SaleStatus(r.Status)
	if status == "" {
		status = sales.SaleStatusCompleted
	}
	paymentMethod := r.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = sales.DefaultPaymentMethod
	}

	return sales.SaleLine{
		ID:            r.ID,
		ReceiptNumber: r.ReceiptNumber,
		ProductID:     r.ProductID,
		ProductName:   r.ProductName,
		Quantity:      r.Quantity,
		UnitPrice:     unitPrice,
		Total:         r.Total,
		Customer:      r.Customer,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Date:          date,
		Status:        status,
		PaymentMethod: paymentMethod,
		CreatedAt:     timeValue(r.CreatedAt),
	}, nil
}

// parseDay accepts a bare calendar day or a full RFC 3339 timestamp
func parseDay(value string, location *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > len(dayLayout) {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
		}
		return sales.TruncateDay(t.In(location)), nil
	}
	t, err := time.ParseInLocation(dayLayout, value, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

type userRecord struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"passwordHash"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"isActive"`
	Version      int        `json:"version,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

func userToRecord(u *identity.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		Version:      u.Version,
		CreatedAt:    timePtr(u.CreatedAt),
		UpdatedAt:    timePtr(u.UpdatedAt),
	}
}

func (r userRecord) toDomain() identity.User {
	version := r.Version
	if version == 0 {
		version = 1
	}
	return identity.User{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        r.ID,
				CreatedAt: timeValue(r.CreatedAt),
				UpdatedAt: timeValue(r.UpdatedAt),
			},
			Version: version,
		},
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		Email:        r.Email,
		Role:         identity.Role(r.Role),
		IsActive:     r.IsActive,
	}
}

type settingsRecord struct {
	CompanyName        string          `json:"companyName"`
	CompanyAddress     string          `json:"companyAddress"`
	CompanyPhone       string          `json:"companyPhone"`
	CompanyEmail       string          `json:"companyEmail"`
	CompanyWebsite     string          `json:"companyWebsite"`
	CompanyBankAccount string          `json:"companyBankAccount"`
	PrinterName        string          `json:"printerName"`
	PaperSize          string          `json:"paperSize"`
	PaperOrientation   string          `json:"paperOrientation"`
	MarginTop          decimal.Decimal `json:"marginTop"`
	MarginBottom       decimal.Decimal `json:"marginBottom"`
	MarginLeft         decimal.Decimal `json:"marginLeft"`
	MarginRight        decimal.Decimal `json:"marginRight"`
	ShowLogo           bool            `json:"showLogo"`
	ShowCompanyInfo    bool            `json:"showCompanyInfo"`
	ShowCustomerInfo   bool            `json:"showCustomerInfo"`
	ShowTax            bool            `json:"showTax"`
	TaxRate            decimal.Decimal `json:"taxRate"`
	Currency           string          `json:"currency"`
	Language           string          `json:"language"`
}

func settingsToRecord(s *settings.Settings) *settingsRecord {
	return &settingsRecord{
		CompanyName:        s.CompanyName,
		CompanyAddress:     s.CompanyAddress,
		CompanyPhone:       s.CompanyPhone,
		CompanyEmail:       s.CompanyEmail,
		CompanyWebsite:     s.CompanyWebsite,
		CompanyBankAccount: s.CompanyBankAccount,
		PrinterName:        s.PrinterName,
		PaperSize:          string(s.PaperSize),
		PaperOrientation:   string(s.PaperOrientation),
		MarginTop:          s.MarginTop,
		MarginBottom:       s.MarginBottom,
		MarginLeft:         s.MarginLeft,
		MarginRight:        s.MarginRight,
		ShowLogo:           s.ShowLogo,
		ShowCompanyInfo:    s.ShowCompanyInfo,
		ShowCustomerInfo:   s.ShowCustomerInfo,
		ShowTax:            s.ShowTax,
		TaxRate:            s.TaxRate,
		Currency:           s.Currency,
		Language:           s.Language,
	}
}

func (r *settingsRecord) toDomain() settings.Settings {
	return settings.Settings{
		CompanyName:        r.CompanyName,
		CompanyAddress:     r.CompanyAddress,
		CompanyPhone:       r.CompanyPhone,
		CompanyEmail:       r.CompanyEmail,
		CompanyWebsite:     r.CompanyWebsite,
		CompanyBankAccount: r.CompanyBankAccount,
		PrinterName:        r.PrinterName,
		PaperSize:          settings.PaperSize(r.PaperSize),
		PaperOrientation:   settings.Orientation(r.PaperOrientation),
		MarginTop:          r.MarginTop,
		MarginBottom:       r.MarginBottom,
		MarginLeft:         r.MarginLeft,
		MarginRight:        r.MarginRight,
		ShowLogo:           r.ShowLogo,
		ShowCompanyInfo:    r.ShowCompanyInfo,
		ShowCustomerInfo:   r.ShowCustomerInfo,
		ShowTax:            r.ShowTax,
		TaxRate:            r.TaxRate,
		Currency:           r.Currency,
		Language:           r.Language,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
