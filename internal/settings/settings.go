// Package settings holds the user-facing grid configuration and its JSON
// persistence. The on-disk format keeps millimeter units and a hex grid
// color; conversion to engine units happens in PageSettings.
package settings

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/kozaktomas/photo-grid/internal/geometry"
	"github.com/kozaktomas/photo-grid/internal/pagesize"
	"github.com/kozaktomas/photo-grid/internal/pagination"
)

// GridSettings is the serializable run configuration. Values are immutable
// for the duration of one generation run; edits produce a new value
// consumed by the next run.
type GridSettings struct {
	RowHeightMM     float64 `json:"row_height_mm"`
	ColWidthMM      float64 `json:"col_width_mm"`
	GridLineVisible bool    `json:"grid_line_visible"`
	GridColor       string  `json:"grid_color"` // "#RRGGBB"
	GridWidth       int     `json:"grid_width"`
	PageSize        string  `json:"page_size"`
	MarginTopMM     float64 `json:"margin_top_mm"`
	MarginBottomMM  float64 `json:"margin_bottom_mm"`
	MarginLeftMM    float64 `json:"margin_left_mm"`
	MarginRightMM   float64 `json:"margin_right_mm"`
	OutputDPI       int     `json:"output_dpi"`
	Pagination      string  `json:"pagination"`
}

// Default returns the factory settings: 10mm cells and margins on A4 with a
// visible black 1pt grid at 300 DPI.
func Default() GridSettings {
	return GridSettings{
		RowHeightMM:     10.0,
		ColWidthMM:      10.0,
		GridLineVisible: true,
		GridColor:       "#000000",
		GridWidth:       1,
		PageSize:        "A4",
		MarginTopMM:     10.0,
		MarginBottomMM:  10.0,
		MarginLeftMM:    10.0,
		MarginRightMM:   10.0,
		OutputDPI:       300,
		Pagination:      string(pagination.SequentialStop),
	}
}

// Load reads settings from path. A missing or unparsable file yields the
// defaults rather than an error, so a broken settings file never blocks
// the application.
func Load(path string) GridSettings {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("settings: cannot read %s: %v, using defaults", path, err)
		}
		return Default()
	}

	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("settings: cannot parse %s: %v, using defaults", path, err)
		return Default()
	}
	return s
}

// Save writes settings to path as indented JSON.
func (s GridSettings) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings to %s: %w", path, err)
	}
	return nil
}

// Validate reports configuration errors that would make a run fail before
// producing any page.
func (s GridSettings) Validate() error {
	if s.ColWidthMM <= 0 || s.RowHeightMM <= 0 {
		return fmt.Errorf("settings: %w", geometry.ErrCellSize)
	}
	if _, err := pagesize.Lookup(s.PageSize); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if _, err := pagination.ParsePolicy(s.Pagination); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if s.OutputDPI <= 0 {
		return fmt.Errorf("settings: output DPI must be positive, got %d", s.OutputDPI)
	}
	return nil
}

// Policy returns the configured pagination policy.
func (s GridSettings) Policy() (pagination.Policy, error) {
	return pagination.ParsePolicy(s.Pagination)
}

// PageSettings converts the millimeter configuration into engine units.
func (s GridSettings) PageSettings() (geometry.PageSettings, error) {
	size, err := pagesize.Lookup(s.PageSize)
	if err != nil {
		return geometry.PageSettings{}, err
	}

	return geometry.PageSettings{
		PageWidth:       size.Width,
		PageHeight:      size.Height,
		MarginTop:       s.MarginTopMM * geometry.MMToPoint,
		MarginBottom:    s.MarginBottomMM * geometry.MMToPoint,
		MarginLeft:      s.MarginLeftMM * geometry.MMToPoint,
		MarginRight:     s.MarginRightMM * geometry.MMToPoint,
		CellWidth:       s.ColWidthMM * geometry.MMToPoint,
		CellHeight:      s.RowHeightMM * geometry.MMToPoint,
		GridLineVisible: s.GridLineVisible,
		GridLineColor:   ParseHexColor(s.GridColor),
		GridLineWidth:   float64(s.GridWidth),
		OutputDPI:       s.OutputDPI,
	}, nil
}
