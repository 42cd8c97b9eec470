// Package render draws planned pages into a PDF document. A Document owns
// exactly one output canvas for the duration of a run; pages are rendered
// strictly in order and the document is finalized at most once.
package render

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/kozaktomas/photo-grid/internal/compositor"
	"github.com/kozaktomas/photo-grid/internal/geometry"
	"github.com/kozaktomas/photo-grid/internal/pagination"
)

// Document wraps the output PDF canvas. Coordinates are in points with a
// top-left origin, matching geometry.PageSettings.
type Document struct {
	pdf  *gofpdf.Fpdf
	page geometry.PageSettings
}

// NewDocument creates an empty document with the given page geometry.
func NewDocument(page geometry.PageSettings) *Document {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: page.PageWidth, Ht: page.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	return &Document{pdf: pdf, page: page}
}

// PageCount returns the number of pages started so far.
func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

// RenderPage appends one page to the document: the optional grid-line pass
// first, then every assigned cell's asset at its computed offset. assets is
// indexed like page.Cells; a nil entry leaves the cell blank.
func (d *Document) RenderPage(page pagination.Page, grid geometry.Grid, assets []*compositor.Asset) error {
	d.pdf.AddPage()

	if d.page.GridLineVisible {
		d.drawGridLines(grid)
	}

	for i, cell := range page.Cells {
		if cell.Empty() || i >= len(assets) || assets[i] == nil {
			continue
		}
		if err := d.placeAsset(assets[i], grid, cell); err != nil {
			return err
		}
	}

	if d.pdf.Err() {
		return fmt.Errorf("rendering page %d: %w", page.Index+1, d.pdf.Error())
	}
	return nil
}

// drawGridLines strokes (columns+1) vertical and (rows+1) horizontal lines
// spanning the printable area.
func (d *Document) drawGridLines(grid geometry.Grid) {
	c := d.page.GridLineColor
	d.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	d.pdf.SetLineWidth(d.page.GridLineWidth)

	width := float64(grid.Columns) * grid.CellWidth
	height := float64(grid.Rows) * grid.CellHeight

	for i := 0; i <= grid.Columns; i++ {
		x := grid.OriginX + float64(i)*grid.CellWidth
		d.pdf.Line(x, grid.OriginY, x, grid.OriginY+height)
	}
	for i := 0; i <= grid.Rows; i++ {
		y := grid.OriginY + float64(i)*grid.CellHeight
		d.pdf.Line(grid.OriginX, y, grid.OriginX+width, y)
	}
}

// placeAsset draws one asset centered in its cell, scaled to fit while
// preserving the source aspect ratio.
func (d *Document) placeAsset(asset *compositor.Asset, grid geometry.Grid, cell pagination.CellAssignment) error {
	opts := gofpdf.ImageOptions{ImageType: asset.Format}
	if d.pdf.GetImageInfo(asset.Name) == nil {
		d.pdf.RegisterImageOptionsReader(asset.Name, opts, bytes.NewReader(asset.Data))
	}

	fit := compositor.FitRect(asset.AspectRatio(), grid.CellWidth, grid.CellHeight)
	cellX, cellY := grid.CellOrigin(cell.Row, cell.Col)
	d.pdf.ImageOptions(asset.Name, cellX+fit.OffsetX, cellY+fit.OffsetY, fit.Width, fit.Height, false, opts, 0, "")

	if d.pdf.Err() {
		return fmt.Errorf("placing image in cell (%d,%d): %w", cell.Row, cell.Col, d.pdf.Error())
	}
	return nil
}

// Bytes finalizes the document and returns the PDF payload. The document
// must not be used afterwards.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("finalizing document: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile finalizes the document into a file. On failure no partial file
// is left behind.
func (d *Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing document to %s: %w", path, err)
	}
	return nil
}
