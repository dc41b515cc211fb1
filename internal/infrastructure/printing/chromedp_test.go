package printing

import (
	"strings"
	"testing"
	"time"

	"github.com/lababil/pos/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r, err := NewChromedpRenderer(&ChromedpConfig{})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 30*time.Second, r.config.DefaultTimeout)
	assert.Equal(t, 2, cap(r.slots))
}

func TestBuildPrintParams(t *testing.T) {
	margins := Margins{Top: 10, Right: 5, Bottom: 10, Left: 5}

	t.Run("A4 portrait", func(t *testing.T) {
		params, err := buildPrintParams(&RenderRequest{
			PaperSize:   settings.PaperA4,
			Orientation: settings.OrientationPortrait,
			Margins:     margins,
		})
		require.NoError(t, err)

		assert.InDelta(t, mmToInches(210), params.paperWidth, 0.001)
		assert.InDelta(t, mmToInches(297), params.paperHeight, 0.001)
		assert.InDelta(t, mmToInches(10), params.marginTop, 0.001)
		assert.InDelta(t, mmToInches(5), params.marginLeft, 0.001)
		assert.False(t, params.landscape)
	})

	t.Run("Legal landscape", func(t *testing.T) {
		params, err := buildPrintParams(&RenderRequest{
			PaperSize:   settings.PaperLegal,
			Orientation: settings.OrientationLandscape,
		})
		require.NoError(t, err)

		assert.InDelta(t, mmToInches(215.9), params.paperWidth, 0.001)
		assert.InDelta(t, mmToInches(355.6), params.paperHeight, 0.001)
		assert.True(t, params.landscape)
	})

	t.Run("thermal roll prints one tall page", func(t *testing.T) {
		params, err := buildPrintParams(&RenderRequest{
			PaperSize:   settings.PaperThermal58,
			Orientation: settings.OrientationLandscape,
		})
		require.NoError(t, err)

		assert.InDelta(t, mmToInches(58), params.paperWidth, 0.001)
		assert.InDelta(t, mmToInches(continuousPageHeight), params.paperHeight, 0.001)
		assert.False(t, params.landscape, "rolls ignore orientation")
	})

	t.Run("unknown paper", func(t *testing.T) {
		_, err := buildPrintParams(&RenderRequest{PaperSize: "Tabloid"})

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeInvalidPaperSize, renderErr.Code)
	})
}

func TestPaperDimensions_AllSupportedSizes(t *testing.T) {
	for _, size := range settings.PaperSizes {
		width, height, ok := PaperDimensions(size)
		assert.True(t, ok, size)
		assert.Positive(t, width, size)
		assert.Positive(t, height, size)
	}
}

func TestBuildCompleteHTML(t *testing.T) {
	t.Run("wraps fragments", func(t *testing.T) {
		html := buildCompleteHTML(&RenderRequest{HTML: "<p>hi</p>", Title: "Toko <A&B>"})

		assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
		assert.Contains(t, html, "<title>Toko &lt;A&amp;B&gt;</title>")
		assert.Contains(t, html, "<body><p>hi</p></body>")
	})

	t.Run("keeps full documents", func(t *testing.T) {
		doc := "<!DOCTYPE html><html><body>x</body></html>"
		assert.Equal(t, doc, buildCompleteHTML(&RenderRequest{HTML: doc}))
	})
}
