package sales

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/domain/settings"
	"github.com/lababil/pos/internal/domain/shared"
	"go.uber.org/zap"
)

// Receipt export errors
var (
	ErrPrintingDisabled = shared.NewDomainError("PRINTING_DISABLED", "PDF rendering is not available")
	ErrArchiveDisabled  = shared.NewDomainError("ARCHIVE_DISABLED", "Receipt archiving is not available")
)

const pdfContentType = "application/pdf"

// ReceiptLoader loads one regrouped receipt
type ReceiptLoader interface {
	LoadReceipt(ctx context.Context, receiptNumber string) (*sales.ReceiptGroup, error)
}

// SettingsProvider returns the current company and printing settings
type SettingsProvider interface {
	Get(ctx context.Context) (*settings.Settings, error)
}

// ReceiptTemplate renders a receipt as a standalone HTML document
type ReceiptTemplate interface {
	RenderReceipt(receipt *sales.ReceiptGroup, s *settings.Settings) (string, error)
}

// ReceiptPDFRenderer converts receipt HTML to PDF using the paper layout in s
type ReceiptPDFRenderer interface {
	RenderReceiptPDF(ctx context.Context, html string, s *settings.Settings) ([]byte, error)
}

// ObjectStorage stores archived receipt documents
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// ReceiptDocument is a rendered receipt file
type ReceiptDocument struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ArchiveResult describes an archived receipt
type ArchiveResult struct {
	ReceiptNumber string    `json:"receipt_number"`
	StorageKey    string    `json:"storage_key"`
	URL           string    `json:"url"`
	ExpiresAt     time.Time `json:"expires_at"`
	Size          int       `json:"size"`
}

// ReceiptService renders and archives receipts
type ReceiptService struct {
	receipts      ReceiptLoader
	settings      SettingsProvider
	template      ReceiptTemplate
	pdf           ReceiptPDFRenderer
	storage       ObjectStorage
	location      *time.Location
	presignExpiry time.Duration
	logger        *zap.Logger
}

// NewReceiptService creates a new ReceiptService. pdf and storage may be nil
// when PDF rendering or archiving is switched off.
func NewReceiptService(
	receipts ReceiptLoader,
	settingsProvider SettingsProvider,
	template ReceiptTemplate,
	pdf ReceiptPDFRenderer,
	storage ObjectStorage,
	location *time.Location,
	presignExpiry time.Duration,
	logger *zap.Logger,
) *ReceiptService {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{
		receipts:      receipts,
		settings:      settingsProvider,
		template:      template,
		pdf:           pdf,
		storage:       storage,
		location:      location,
		presignExpiry: presignExpiry,
		logger:        logger,
	}
}

// RenderHTML renders a printable HTML receipt
func (s *ReceiptService) RenderHTML(ctx context.Context, receiptNumber string) (string, error) {
	html, _, err := s.renderHTML(ctx, receiptNumber)
	return html, err
}

func (s *ReceiptService) renderHTML(ctx context.Context, receiptNumber string) (string, *settings.Settings, error) {
	receipt, err := s.receipts.LoadReceipt(ctx, receiptNumber)
	if err != nil {
		return "", nil, err
	}
	current, err := s.settings.Get(ctx)
	if err != nil {
		return "", nil, err
	}
	html, err := s.template.RenderReceipt(receipt, current)
	if err != nil {
		return "", nil, fmt.Errorf("failed to render receipt %s: %w", receiptNumber, err)
	}
	return html, current, nil
}

// RenderPDF renders the receipt as a PDF on the configured paper size
func (s *ReceiptService) RenderPDF(ctx context.Context, receiptNumber string) (*ReceiptDocument, error) {
	if s.pdf == nil {
		return nil, ErrPrintingDisabled
	}

	html, current, err := s.renderHTML(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}

	data, err := s.pdf.RenderReceiptPDF(ctx, html, current)
	if err != nil {
		s.logger.Error("Receipt PDF rendering failed",
			zap.String("receipt_number", receiptNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to render receipt PDF: %w", err)
	}

	return &ReceiptDocument{
		FileName:    ReceiptFileName(receiptNumber),
		ContentType: pdfContentType,
		Data:        data,
	}, nil
}

// Archive uploads the receipt PDF to object storage and returns a
// time-limited download URL
func (s *ReceiptService) Archive(ctx context.Context, receiptNumber string) (*ArchiveResult, error) {
	if s.storage == nil {
		return nil, ErrArchiveDisabled
	}

	doc, err := s.RenderPDF(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}

	key := ArchiveKey(receiptNumber, s.location)
	if err := s.storage.Upload(ctx, key, doc.Data, doc.ContentType); err != nil {
		return nil, fmt.Errorf("failed to archive receipt: %w", err)
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.presignExpiry)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Receipt archived",
		zap.String("receipt_number", receiptNumber),
		zap.String("storage_key", key),
		zap.Int("bytes", len(doc.Data)))

	return &ArchiveResult{
		ReceiptNumber: receiptNumber,
		StorageKey:    key,
		URL:           url,
		ExpiresAt:     expiresAt,
		Size:          len(doc.Data),
	}, nil
}

// OpenArchived streams a previously archived document
func (s *ReceiptService) OpenArchived(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if s.storage == nil {
		return nil, ErrArchiveDisabled
	}
	if !strings.HasPrefix(storageKey, archivePrefix) || strings.Contains(storageKey, "..") {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid archive key")
	}
	return s.storage.Open(ctx, storageKey)
}

const archivePrefix = "receipts/"

// ArchiveKey returns receipts/<DDMMYYYY>/<NNNN>.pdf for standard receipt
// numbers and receipts/legacy/<key>.pdf for anything else
func ArchiveKey(receiptNumber string, location *time.Location) string {
	parsed, err := sales.ParseReceiptNumber(receiptNumber, location)
	if err != nil {
		return archivePrefix + "legacy/" + sanitizeKey(receiptNumber) + ".pdf"
	}
	return fmt.Sprintf("%s%s/%04d.pdf", archivePrefix, parsed.Date.Format("02012006"), parsed.Sequence)
}

// ReceiptFileName returns a download file name such as receipt-0001-LS-22092025.pdf
func ReceiptFileName(receiptNumber string) string {
	return "receipt-" + sanitizeKey(receiptNumber) + ".pdf"
}

func sanitizeKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, s)
}
