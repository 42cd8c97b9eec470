// Package generator runs one grid-layout generation as a cancellable unit
// of background work: geometry, pagination, per-cell compositing, page
// rendering and document assembly, with per-cell progress reporting.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/kozaktomas/photo-grid/internal/compositor"
	"github.com/kozaktomas/photo-grid/internal/geometry"
	"github.com/kozaktomas/photo-grid/internal/pagination"
	"github.com/kozaktomas/photo-grid/internal/render"
	"github.com/kozaktomas/photo-grid/internal/settings"
)

// Status is the lifecycle state of a task.
type Status string

// Task lifecycle: Idle until Run, Running during a run, then exactly one
// terminal state.
const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// ProgressInfo is delivered once per completed cell. Percent is derived
// from completed cells over all planned cells and never decreases.
type ProgressInfo struct {
	Page           int
	Pages          int
	CompletedCells int
	TotalCells     int
	Percent        int
}

// Options tune one run. All callbacks may be invoked from worker
// goroutines and must be safe for concurrent use.
type Options struct {
	// Policy overrides the settings' pagination policy when non-empty.
	Policy pagination.Policy

	// Workers bounds parallel per-cell compositing within a page.
	// Values below 1 mean sequential.
	Workers int

	OnProgress     func(ProgressInfo)
	OnCellSkipped  func(path string, err error)
	OnPageRendered func(page, pages int)
}

// Result is the payload of a completed run. It is created once and never
// mutated after the run finishes.
type Result struct {
	PDF           []byte
	PageCount     int
	TotalCells    int
	AssignedCells int
	SkippedCells  int
}

// Task generates one document from an immutable image sequence and
// settings value. A Task runs at most once.
type Task struct {
	paths    []string
	settings settings.GridSettings
	opts     Options

	mu          sync.Mutex
	status      Status
	completed   int
	lastPercent int
}

// New creates a task. The path slice is copied so later mutation by the
// caller cannot leak into a running task.
func New(paths []string, s settings.GridSettings, opts Options) *Task {
	copied := make([]string, len(paths))
	copy(copied, paths)
	return &Task{
		paths:    copied,
		settings: s,
		opts:     opts,
		status:   StatusIdle,
	}
}

// Status returns the task's current lifecycle state.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Task) setStatus(s Status) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Run executes the task. It returns the result on completion, ctx.Err()
// after cancellation (with no payload), or the fatal error that aborted
// the run. Per-image failures never abort: the cell stays blank.
func (t *Task) Run(ctx context.Context) (*Result, error) {
	t.setStatus(StatusRunning)

	result, err := t.run(ctx)
	switch {
	case err == nil:
		t.setStatus(StatusCompleted)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		t.setStatus(StatusCancelled)
		return nil, err
	default:
		t.setStatus(StatusFailed)
	}
	return result, err
}

func (t *Task) run(ctx context.Context) (*Result, error) {
	if err := t.settings.Validate(); err != nil {
		return nil, err
	}

	page, err := t.settings.PageSettings()
	if err != nil {
		return nil, fmt.Errorf("resolving page settings: %w", err)
	}

	grid, err := geometry.Calculate(page)
	if err != nil {
		return nil, fmt.Errorf("computing grid: %w", err)
	}

	policy := t.opts.Policy
	if policy == "" {
		if policy, err = t.settings.Policy(); err != nil {
			return nil, err
		}
	}

	plan, err := pagination.BuildGrid(len(t.paths), grid.Columns, grid.Rows, policy)
	if err != nil {
		return nil, fmt.Errorf("planning pages: %w", err)
	}

	comp := compositor.New(page.OutputDPI)
	doc := render.NewDocument(page)

	totalCells := plan.TotalCells()
	skipped := 0

	for _, pg := range plan.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		assets, pageSkipped, err := t.compositePage(ctx, comp, grid, pg, len(plan.Pages), totalCells)
		if err != nil {
			return nil, err
		}
		skipped += pageSkipped

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := doc.RenderPage(pg, grid, assets); err != nil {
			return nil, err
		}

		if t.opts.OnPageRendered != nil {
			t.opts.OnPageRendered(pg.Index+1, len(plan.Pages))
		}
	}

	data, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	return &Result{
		PDF:           data,
		PageCount:     len(plan.Pages),
		TotalCells:    totalCells,
		AssignedCells: plan.AssignedCells(),
		SkippedCells:  skipped,
	}, nil
}

// compositePage loads and composites every assigned cell of one page,
// optionally across a bounded worker pool. Results come back indexed like
// page.Cells so the renderer sees row-major order regardless of worker
// scheduling. Per-cell failures leave a nil asset.
func (t *Task) compositePage(ctx context.Context, comp *compositor.Compositor, grid geometry.Grid, page pagination.Page, pages, totalCells int) ([]*compositor.Asset, int, error) {
	assets := make([]*compositor.Asset, len(page.Cells))

	workers := t.opts.Workers
	if workers < 1 {
		workers = 1
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		skipped int
	)
	sem := make(chan struct{}, workers)

	for i, cell := range page.Cells {
		if err := ctx.Err(); err != nil {
			break
		}

		if cell.Empty() {
			t.cellDone(page.Index, pages, totalCells)
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, cell pagination.CellAssignment) {
			defer wg.Done()
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			path := t.paths[cell.Image]
			asset, err := comp.Compose(path, grid.CellWidth, grid.CellHeight)
			if err != nil {
				log.Printf("generator: skipping cell (%d,%d): %v", cell.Row, cell.Col, err)
				mu.Lock()
				skipped++
				mu.Unlock()
				if t.opts.OnCellSkipped != nil {
					t.opts.OnCellSkipped(path, err)
				}
			} else {
				assets[i] = asset
			}
			t.cellDone(page.Index, pages, totalCells)
		}(i, cell)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, skipped, err
	}
	return assets, skipped, nil
}

// cellDone advances the completed-cell counter and reports a monotonically
// non-decreasing integer percentage.
func (t *Task) cellDone(pageIndex, pages, totalCells int) {
	t.mu.Lock()
	t.completed++
	percent := 0
	if totalCells > 0 {
		percent = t.completed * 100 / totalCells
	}
	if percent < t.lastPercent {
		percent = t.lastPercent
	}
	t.lastPercent = percent
	completed := t.completed
	t.mu.Unlock()

	if t.opts.OnProgress == nil {
		return
	}
	t.opts.OnProgress(ProgressInfo{
		Page:           pageIndex + 1,
		Pages:          pages,
		CompletedCells: completed,
		TotalCells:     totalCells,
		Percent:        percent,
	})
}
