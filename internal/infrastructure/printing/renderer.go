package printing

import (
	"bytes"
	"context"
	"time"

	"github.com/lababil/pos/internal/domain/settings"
)

// Margins in millimetres
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	HTML        string
	PaperSize   settings.PaperSize
	Orientation settings.Orientation
	Margins     Margins
	Title       string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// NewRenderRequest builds a request using the paper layout from s
func NewRenderRequest(html string, s *settings.Settings) *RenderRequest {
	return &RenderRequest{
		HTML:        html,
		PaperSize:   s.PaperSize,
		Orientation: s.PaperOrientation,
		Margins: Margins{
			Top:    s.MarginTop.InexactFloat64(),
			Right:  s.MarginRight.InexactFloat64(),
			Bottom: s.MarginBottom.InexactFloat64(),
			Left:   s.MarginLeft.InexactFloat64(),
		},
		Title: s.CompanyName,
	}
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer converts HTML documents to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeTemplateFailed   = "TEMPLATE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// estimatePageCount counts page objects in the PDF
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	// "/Type /Pages" also matches the prefix
	count -= bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(count, 1)
}
