// Package report lays rendered panels out on a fixed grid and hands the
// composed figure to a Sink.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/iafilius/TUVxPlots/src/charts"
	"github.com/iafilius/TUVxPlots/src/logging"
)

var (
	// ErrEmptyReport is returned when no composer of a report had anything to draw.
	ErrEmptyReport = errors.New("report has no panels")
	// ErrNoPanelRendered is returned when a report had panels but every one of
	// them failed to render.
	ErrNoPanelRendered = errors.New("no panel rendered")
)

// Layout is a grid of Rows x Cols panel slots filled row-major.
type Layout struct {
	Rows int
	Cols int
}

var (
	Layout1x1 = Layout{Rows: 1, Cols: 1}
	Layout1x2 = Layout{Rows: 1, Cols: 2}
	Layout2x2 = Layout{Rows: 2, Cols: 2}
)

// Slots is the number of panel positions.
func (l Layout) Slots() int { return l.Rows * l.Cols }

func (l Layout) String() string { return fmt.Sprintf("%dx%d", l.Rows, l.Cols) }

// Report is one named multi-panel figure. A nil entry in Panels is a slot
// whose composer had nothing to draw; it stays blank in the output.
type Report struct {
	Name   string
	Title  string
	Layout Layout
	Panels []*charts.Panel
}

// New returns an empty report.
func New(name, title string, l Layout) *Report {
	return &Report{Name: name, Title: title, Layout: l}
}

// Add places p in the next free slot. Composers return (panel, ok); passing
// ok=false keeps the slot but leaves it empty.
func (r *Report) Add(p *charts.Panel, ok bool) *Report {
	if len(r.Panels) >= r.Layout.Slots() {
		logging.Warnf("[report] %s: %s layout full, panel dropped", r.Name, r.Layout)
		return r
	}
	if !ok {
		p = nil
	}
	r.Panels = append(r.Panels, p)
	return r
}

// Count returns the number of non-empty slots.
func (r *Report) Count() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, p := range r.Panels {
		if p != nil {
			n++
		}
	}
	return n
}

// Artifacts describes what a Sink stored for one report.
type Artifacts struct {
	Name        string
	Raster      string // location of the PNG, empty for in-memory sinks
	Vector      string // location of the SVG
	Panels      int
	RasterBytes int
	VectorBytes int
}

// Emitter renders reports with a fixed theme and stores them through Sink.
type Emitter struct {
	Theme charts.Theme
	Sink  Sink
}

// Emit renders every panel of r in both formats, composes the grid, and calls
// Sink.Save once. Panels that fail to render are logged and left blank.
func (e *Emitter) Emit(r *Report) (Artifacts, error) {
	if r.Count() == 0 {
		return Artifacts{}, ErrEmptyReport
	}
	if e.Sink == nil {
		return Artifacts{}, fmt.Errorf("emit %s: no sink", r.Name)
	}
	defer logging.TimeTrack(time.Now(), "emit "+r.Name)
	th := e.Theme.Normalize()

	cells := make([]cell, len(r.Panels))
	drawn := 0
	var renderErr error
	for i, p := range r.Panels {
		if p == nil {
			continue
		}
		c, err := renderCell(p, th)
		if err != nil {
			logging.Warnf("[report] %s: panel %s skipped: %v", r.Name, p.Name, err)
			renderErr = err
			continue
		}
		cells[i] = c
		drawn++
	}
	if drawn == 0 {
		return Artifacts{}, fmt.Errorf("emit %s: %w: %w", r.Name, ErrNoPanelRendered, renderErr)
	}

	raster, err := composeRaster(r, cells, th)
	if err != nil {
		return Artifacts{}, fmt.Errorf("emit %s: %w", r.Name, err)
	}
	vector := composeVector(r, cells, th)

	a, err := e.Sink.Save(r.Name, raster, vector)
	if err != nil {
		return Artifacts{}, fmt.Errorf("save %s: %w", r.Name, err)
	}
	a.Name = r.Name
	a.Panels = drawn
	a.RasterBytes = len(raster)
	a.VectorBytes = len(vector)
	logging.Debugf("[report] %s: %d/%d panels, %s layout", r.Name, drawn, r.Layout.Slots(), r.Layout)
	return a, nil
}
