package geometry

import (
	"errors"
	"math"
	"testing"
)

// a4 returns A4 page settings with 10mm margins and 10mm cells, the
// default configuration of the application.
func a4() PageSettings {
	return PageSettings{
		PageWidth:    595.28,
		PageHeight:   841.89,
		MarginTop:    10 * MMToPoint,
		MarginBottom: 10 * MMToPoint,
		MarginLeft:   10 * MMToPoint,
		MarginRight:  10 * MMToPoint,
		CellWidth:    10 * MMToPoint,
		CellHeight:   10 * MMToPoint,
		OutputDPI:    300,
	}
}

func TestCalculate_ExactTiling(t *testing.T) {
	tests := []struct {
		name string
		p    PageSettings
	}{
		{"A4 10mm cells", a4()},
		{"odd cells", PageSettings{PageWidth: 500, PageHeight: 700, MarginLeft: 13, MarginRight: 7, MarginTop: 9, MarginBottom: 11, CellWidth: 37.5, CellHeight: 61.2}},
		{"cell larger than page", PageSettings{PageWidth: 200, PageHeight: 200, CellWidth: 500, CellHeight: 500}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := Calculate(tc.p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if grid.Columns < 1 || grid.Rows < 1 {
				t.Fatalf("expected at least one cell, got %dx%d", grid.Columns, grid.Rows)
			}

			gotW := float64(grid.Columns) * grid.CellWidth
			if math.Abs(gotW-tc.p.PrintableWidth()) > 1e-9 {
				t.Errorf("columns*cellWidth = %f, want printable width %f", gotW, tc.p.PrintableWidth())
			}
			gotH := float64(grid.Rows) * grid.CellHeight
			if math.Abs(gotH-tc.p.PrintableHeight()) > 1e-9 {
				t.Errorf("rows*cellHeight = %f, want printable height %f", gotH, tc.p.PrintableHeight())
			}
		})
	}
}

func TestCalculate_A4Default(t *testing.T) {
	grid, err := Calculate(a4())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// printable width 595.28 - 2*28.3465 = 538.587pt, /28.3465 = 19.0
	if grid.Columns != 19 {
		t.Errorf("expected 19 columns, got %d", grid.Columns)
	}
	// printable height 841.89 - 2*28.3465 = 785.197pt, /28.3465 = 27.7
	if grid.Rows != 27 {
		t.Errorf("expected 27 rows, got %d", grid.Rows)
	}
	if grid.Cells() != 19*27 {
		t.Errorf("expected %d cells, got %d", 19*27, grid.Cells())
	}
	// Stretched cells are at least the configured size.
	if grid.CellWidth < 10*MMToPoint {
		t.Errorf("actual cell width %f smaller than configured %f", grid.CellWidth, 10*MMToPoint)
	}
}

func TestCalculate_ClampsToOneCell(t *testing.T) {
	p := PageSettings{PageWidth: 100, PageHeight: 100, CellWidth: 90, CellHeight: 90}
	grid, err := Calculate(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grid.Columns != 1 || grid.Rows != 1 {
		t.Errorf("expected 1x1 grid, got %dx%d", grid.Columns, grid.Rows)
	}
	if grid.CellWidth != 100 || grid.CellHeight != 100 {
		t.Errorf("expected cell stretched to 100x100, got %fx%f", grid.CellWidth, grid.CellHeight)
	}
}

func TestCalculate_ZeroCellSize(t *testing.T) {
	p := a4()
	p.CellWidth = 0

	_, err := Calculate(p)
	if !errors.Is(err, ErrCellSize) {
		t.Errorf("expected ErrCellSize, got %v", err)
	}

	p = a4()
	p.CellHeight = -5
	_, err = Calculate(p)
	if !errors.Is(err, ErrCellSize) {
		t.Errorf("expected ErrCellSize for negative height, got %v", err)
	}
}

func TestCalculate_DegeneratePrintableArea(t *testing.T) {
	p := a4()
	p.MarginLeft = 300
	p.MarginRight = 300

	_, err := Calculate(p)
	if !errors.Is(err, ErrPrintableArea) {
		t.Errorf("expected ErrPrintableArea, got %v", err)
	}
}

func TestCellOrigin(t *testing.T) {
	grid := Grid{Columns: 4, Rows: 3, CellWidth: 50, CellHeight: 40, OriginX: 20, OriginY: 30}

	x, y := grid.CellOrigin(0, 0)
	if x != 20 || y != 30 {
		t.Errorf("cell (0,0) origin = (%f,%f), want (20,30)", x, y)
	}

	x, y = grid.CellOrigin(2, 3)
	if x != 20+3*50 || y != 30+2*40 {
		t.Errorf("cell (2,3) origin = (%f,%f), want (170,110)", x, y)
	}
}
