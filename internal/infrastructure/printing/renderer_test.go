package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/lababil/pos/internal/domain/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_RejectsInvalidRequests(t *testing.T) {
	r, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	defer r.Close()

	tests := []struct {
		name string
		req  *RenderRequest
		code string
	}{
		{"nil request", nil, ErrCodeInvalidHTML},
		{"empty HTML", &RenderRequest{PaperSize: settings.PaperA4}, ErrCodeInvalidHTML},
		{"whitespace HTML", &RenderRequest{HTML: "  \n\t ", PaperSize: settings.PaperA4}, ErrCodeInvalidHTML},
		{"unknown paper", &RenderRequest{HTML: "<p>x</p>", PaperSize: "B5"}, ErrCodeInvalidPaperSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(context.Background(), tt.req)

			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, tt.code, renderErr.Code)
		})
	}
}

func TestNewRenderRequest(t *testing.T) {
	s := settings.Defaults()
	s.PaperSize = settings.PaperA5
	s.PaperOrientation = settings.OrientationLandscape
	s.MarginLeft = decimal.RequireFromString("12.5")

	req := NewRenderRequest("<p>receipt</p>", &s)

	assert.Equal(t, settings.PaperA5, req.PaperSize)
	assert.Equal(t, settings.OrientationLandscape, req.Orientation)
	assert.InDelta(t, 12.5, req.Margins.Left, 0.001)
	assert.InDelta(t, 10, req.Margins.Top, 0.001)
	assert.Equal(t, "Lababil Solution", req.Title)
}

func TestRenderError(t *testing.T) {
	cause := errors.New("boom")
	err := NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", cause)

	assert.Equal(t, "chromedp execution failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "empty", NewRenderError(ErrCodeInvalidHTML, "empty", nil).Error())
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Kids [3 0 R 4 0 R] >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF")))
}
