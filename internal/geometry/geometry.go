// Package geometry computes the printable-area grid for a page.
// All lengths are in points; millimeter inputs are converted by MMToPoint.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

// MMToPoint converts millimeters to PostScript points (1 pt = 1/72 inch).
const MMToPoint = 2.83465

// RGB is a plain 8-bit color triple, independent of any toolkit.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// PageSettings describes one output page in points. The renderer uses a
// top-left origin with y increasing downward; row 0 is the top row and the
// printable origin sits at (MarginLeft, MarginTop).
type PageSettings struct {
	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
	CellWidth    float64
	CellHeight   float64

	GridLineVisible bool
	GridLineColor   RGB
	GridLineWidth   float64

	// OutputDPI governs the pixel resolution source images are rasterized
	// to when scaled into a cell. It does not affect page geometry.
	OutputDPI int
}

// PrintableWidth returns the page width remaining after horizontal margins.
func (p PageSettings) PrintableWidth() float64 {
	return p.PageWidth - (p.MarginLeft + p.MarginRight)
}

// PrintableHeight returns the page height remaining after vertical margins.
func (p PageSettings) PrintableHeight() float64 {
	return p.PageHeight - (p.MarginTop + p.MarginBottom)
}

// Configuration errors reported before any page is produced.
var (
	ErrCellSize      = errors.New("cell width and height must be greater than zero")
	ErrPrintableArea = errors.New("margins leave no printable area on the page")
)

// Grid is the derived cell layout for one page. Cells are stretched so that
// Columns*CellWidth and Rows*CellHeight exactly tile the printable area.
type Grid struct {
	Columns    int
	Rows       int
	CellWidth  float64
	CellHeight float64
	OriginX    float64
	OriginY    float64
}

// Cells returns the number of cells on one page.
func (g Grid) Cells() int {
	return g.Columns * g.Rows
}

// CellOrigin returns the top-left corner of the cell at (row, col) in page
// coordinates.
func (g Grid) CellOrigin(row, col int) (x, y float64) {
	return g.OriginX + float64(col)*g.CellWidth, g.OriginY + float64(row)*g.CellHeight
}

// Calculate derives the grid from page settings. Cell counts are
// floor(printable/cell) clamped to at least one; the actual cell size
// redistributes any leftover space so the page is exactly tiled.
func Calculate(p PageSettings) (Grid, error) {
	if p.CellWidth <= 0 || p.CellHeight <= 0 {
		return Grid{}, fmt.Errorf("%w (got %.2fpt x %.2fpt)", ErrCellSize, p.CellWidth, p.CellHeight)
	}

	pw := p.PrintableWidth()
	ph := p.PrintableHeight()
	if pw <= 0 || ph <= 0 {
		return Grid{}, fmt.Errorf("%w: page %.0fx%.0fpt, printable %.2fx%.2fpt",
			ErrPrintableArea, p.PageWidth, p.PageHeight, pw, ph)
	}

	cols := int(math.Floor(pw / p.CellWidth))
	if cols < 1 {
		cols = 1
	}
	rows := int(math.Floor(ph / p.CellHeight))
	if rows < 1 {
		rows = 1
	}

	return Grid{
		Columns:    cols,
		Rows:       rows,
		CellWidth:  pw / float64(cols),
		CellHeight: ph / float64(rows),
		OriginX:    p.MarginLeft,
		OriginY:    p.MarginTop,
	}, nil
}
