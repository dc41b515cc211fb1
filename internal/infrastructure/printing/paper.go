package printing

import "github.com/lababil/pos/internal/domain/settings"

// continuousPageHeight is the page height used for thermal rolls, long
// enough that receipts never break across pages
const continuousPageHeight = 3000.0

type paperDimensions struct {
	width      float64 // mm
	height     float64 // mm, 0 for continuous rolls
	continuous bool
}

var paperSizes = map[settings.PaperSize]paperDimensions{
	settings.PaperA4:        {width: 210, height: 297},
	settings.PaperA5:        {width: 148, height: 210},
	settings.PaperLetter:    {width: 215.9, height: 279.4},
	settings.PaperLegal:     {width: 215.9, height: 355.6},
	settings.PaperThermal58: {width: 58, continuous: true},
	settings.PaperThermal80: {width: 80, continuous: true},
}

// PaperDimensions returns the printed width and height in millimetres.
// Thermal rolls report continuousPageHeight.
func PaperDimensions(size settings.PaperSize) (width, height float64, ok bool) {
	dims, ok := paperSizes[size]
	if !ok {
		return 0, 0, false
	}
	if dims.continuous {
		return dims.width, continuousPageHeight, true
	}
	return dims.width, dims.height, true
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}
