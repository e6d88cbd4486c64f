package image

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Sharpening applied after a downscale, per protocol family. Halfblocks
// halve the vertical resolution and need more.
const (
	sharpenSigma          = 0.5
	sharpenSigmaHalfblock = 0.8
)

// ResizeToFit scales img down to fit a cols x rows cell area given the
// pixel size of one cell, preserving aspect ratio. Images that already fit
// are returned unchanged (no upscaling). A nil image returns nil.
func ResizeToFit(img image.Image, cols, rows, cellW, cellH int, sigma float64) image.Image {
	if img == nil {
		return nil
	}
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}

	maxW, maxH := cols*cellW, rows*cellH
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return img
	}
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}

	fitted := imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	if sigma > 0 {
		return imaging.Sharpen(fitted, sigma)
	}
	return fitted
}

// CellsForPixels returns the cell grid that shows an imgW x imgH picture
// at native resolution, scaled down (aspect preserved) when it would exceed
// maxCols x maxRows. A maxRows <= 0 leaves height unbounded.
func CellsForPixels(imgW, imgH, cellW, cellH, maxCols, maxRows int) (cols, rows int) {
	if imgW <= 0 || imgH <= 0 {
		return 0, 0
	}
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	if maxCols <= 0 {
		maxCols = 1
	}

	cols = int(math.Ceil(float64(imgW) / float64(cellW)))
	rows = int(math.Ceil(float64(imgH) / float64(cellH)))
	if cols <= maxCols && (maxRows <= 0 || rows <= maxRows) {
		return cols, rows
	}

	aspect := float64(imgW) / float64(imgH)

	// Fit by width first, then by height if still too tall.
	if cols > maxCols {
		cols = maxCols
		rows = max(1, int(math.Round(float64(cols*cellW)/aspect/float64(cellH))))
	}
	if maxRows > 0 && rows > maxRows {
		rows = maxRows
		cols = max(1, min(maxCols, int(math.Round(float64(rows*cellH)*aspect/float64(cellW)))))
	}
	return cols, rows
}

// toNRGBA converts any image.Image to *image.NRGBA for fast pixel access.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	return imaging.Clone(src)
}
