package compositor

// Placement is the draw rectangle of an asset inside a cell, in points,
// relative to the cell's top-left corner.
type Placement struct {
	OffsetX float64
	OffsetY float64
	Width   float64
	Height  float64
}

// FitRect computes the largest draw size that fits a cell while preserving
// the source aspect ratio, centered on both axes. aspect is the source
// width/height ratio.
func FitRect(aspect, cellWidth, cellHeight float64) Placement {
	if aspect <= 0 {
		aspect = 1
	}

	cellAspect := cellWidth / cellHeight

	var w, h float64
	if aspect > cellAspect {
		// Relatively wider than the cell: width-bound.
		w = cellWidth
		h = cellWidth / aspect
	} else {
		h = cellHeight
		w = cellHeight * aspect
	}

	return Placement{
		OffsetX: (cellWidth - w) / 2,
		OffsetY: (cellHeight - h) / 2,
		Width:   w,
		Height:  h,
	}
}
