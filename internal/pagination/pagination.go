// Package pagination maps an ordered image sequence onto grid cells across
// one or more pages.
package pagination

import "fmt"

// NoImage marks a cell that stays empty.
const NoImage = -1

// Policy selects how images are distributed across pages.
type Policy string

const (
	// SequentialStop consumes images strictly in order and stops once the
	// list is exhausted; the last page may be partially filled.
	SequentialStop Policy = "sequential"

	// CyclicFill always populates every cell on every page, cycling the
	// image index modulo the image count.
	CyclicFill Policy = "cyclic"
)

// ParsePolicy converts a settings token into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case SequentialStop, CyclicFill:
		return Policy(s), nil
	case "":
		return SequentialStop, nil
	}
	return "", fmt.Errorf("unknown pagination policy %q (want %q or %q)", s, SequentialStop, CyclicFill)
}

// CellAssignment binds one grid cell to an image index, or to NoImage.
type CellAssignment struct {
	Page  int
	Row   int
	Col   int
	Image int
}

// Empty reports whether the cell has no image assigned.
func (c CellAssignment) Empty() bool {
	return c.Image == NoImage
}

// Page is the planning record for one output page. It owns no resources;
// assignments are ordered row-major.
type Page struct {
	Index int
	Cells []CellAssignment
}

// Plan is the full pagination of a run.
type Plan struct {
	Policy       Policy
	CellsPerPage int
	Pages        []Page
}

// TotalCells returns the number of cells across all planned pages.
func (p Plan) TotalCells() int {
	n := 0
	for _, page := range p.Pages {
		n += len(page.Cells)
	}
	return n
}

// AssignedCells returns the number of cells that carry an image.
func (p Plan) AssignedCells() int {
	n := 0
	for _, page := range p.Pages {
		for _, c := range page.Cells {
			if !c.Empty() {
				n++
			}
		}
	}
	return n
}

// Build distributes imageCount images over pages of cellsPerPage cells.
// Zero images still produce exactly one page of empty cells, so a grid-only
// sheet can be rendered.
func Build(imageCount, cellsPerPage int, policy Policy) (Plan, error) {
	if cellsPerPage < 1 {
		return Plan{}, fmt.Errorf("cells per page must be at least 1, got %d", cellsPerPage)
	}

	pageCount := (imageCount + cellsPerPage - 1) / cellsPerPage
	if pageCount == 0 {
		pageCount = 1
	}

	plan := Plan{
		Policy:       policy,
		CellsPerPage: cellsPerPage,
		Pages:        make([]Page, 0, pageCount),
	}

	for p := 0; p < pageCount; p++ {
		page := Page{Index: p, Cells: make([]CellAssignment, 0, cellsPerPage)}
		for cell := 0; cell < cellsPerPage; cell++ {
			linear := p*cellsPerPage + cell
			img := NoImage
			switch policy {
			case CyclicFill:
				if imageCount > 0 {
					img = linear % imageCount
				}
			default: // SequentialStop
				if linear < imageCount {
					img = linear
				}
			}
			page.Cells = append(page.Cells, CellAssignment{Page: p, Image: img})
		}
		plan.Pages = append(plan.Pages, page)
	}

	return plan, nil
}

// BuildGrid is Build with row/column coordinates filled in from the grid
// shape. columns must divide cellsPerPage as columns*rows.
func BuildGrid(imageCount, columns, rows int, policy Policy) (Plan, error) {
	plan, err := Build(imageCount, columns*rows, policy)
	if err != nil {
		return Plan{}, err
	}
	for p := range plan.Pages {
		for i := range plan.Pages[p].Cells {
			plan.Pages[p].Cells[i].Row = i / columns
			plan.Pages[p].Cells[i].Col = i % columns
		}
	}
	return plan, nil
}
