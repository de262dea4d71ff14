// Package charts turns classified benchmark groups and spectral tables into
// Panels (one axis each) and renders a Panel to PNG or SVG with go-chart.
package charts

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Strategy is how a panel draws its data.
type Strategy int

const (
	Scatter Strategy = iota // points plus reference line
	Bars                    // one or more bars per category
	StackedArea
	Line // linear or log scale, see Panel.YScale
	Qualitative
	TextSummary
)

func (s Strategy) String() string {
	switch s {
	case Scatter:
		return "scatter"
	case Bars:
		return "bars"
	case StackedArea:
		return "stacked-area"
	case Line:
		return "line"
	case Qualitative:
		return "qualitative"
	case TextSummary:
		return "text-summary"
	}
	return "unknown"
}

// Scale of the y axis.
type Scale int

const (
	ScaleLinear Scale = iota
	ScaleLog
)

// Range is an axis interval. The zero Range means "derive from the data".
type Range struct {
	Min, Max float64
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool { return r.Min == 0 && r.Max == 0 }

// Span returns Max-Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Series is a line and/or marker series in data coordinates.
type Series struct {
	Name   string // legend label; empty means no legend entry
	X, Y   []float64
	Color  drawing.Color
	Width  float64   // line width; 0 draws markers only
	Dash   []float64 // stroke dash pattern
	Marker float64   // marker diameter; 0 for none
	// Fill paints the area under the series down to the axis bottom.
	Fill drawing.Color
	// ColorValues colors each marker through the panel's ColorScale.
	ColorValues []float64
}

// Bar is one filled rectangle from the axis bottom to Value, centred on X.
type Bar struct {
	X, Width, Value float64
	Color           drawing.Color
	Label           string // printed above the bar
}

// RefLine is a horizontal reference line across the panel.
type RefLine struct {
	Y     float64
	Color drawing.Color
	Width float64
	Dash  []float64
	Label string // legend label
}

// Span shades a vertical band [X0, X1].
type Span struct {
	X0, X1 float64
	Color  drawing.Color
	Label  string
}

// Note is text anchored at data coordinates, optionally with an arrow to a point.
type Note struct {
	X, Y     float64
	Text     string
	Color    drawing.Color
	Arrow    bool
	ToX, ToY float64
}

// ColorScale maps a third quantity to color and is drawn as a labeled colorbar.
type ColorScale struct {
	Label    string
	Min, Max float64
	Palette  Palette
	Reverse  bool
}

// Color returns the palette color for v.
func (c ColorScale) Color(v float64) drawing.Color {
	t := 0.5
	if span := c.Max - c.Min; span > 0 {
		t = (v - c.Min) / span
	}
	if c.Reverse {
		t = 1 - t
	}
	return c.Palette.At(math.Max(0, math.Min(1, t)))
}

// Callout is a boxed multi-line message in the middle of the panel.
type Callout struct {
	Lines []string
	Color drawing.Color
}

// LegendEntry is one legend row.
type LegendEntry struct {
	Label string
	Color drawing.Color
	Dash  []float64
	Box   bool // swatch instead of line
}

// Panel is one axis of a report.
type Panel struct {
	Name     string
	Title    string
	XLabel   string
	YLabel   string
	Strategy Strategy
	YScale   Scale
	XRange   Range
	YRange   Range

	// Categories label x positions 0..n-1 on bar and qualitative panels.
	Categories []string
	HideYAxis  bool

	Series     []Series
	Bars       []Bar
	HLines     []RefLine
	Spans      []Span
	Notes      []Note
	ColorScale *ColorScale
	Callout    *Callout
	Summary    []string
	// Legend holds entries that do not come from a named series, line or span.
	Legend     []LegendEntry
	LegendLeft bool
}

// LegendEntries returns every legend row in draw order.
func (p *Panel) LegendEntries() []LegendEntry {
	out := append([]LegendEntry(nil), p.Legend...)
	for _, s := range p.Series {
		if s.Name == "" {
			continue
		}
		c := s.Color
		if s.Width == 0 && s.Fill != (drawing.Color{}) {
			out = append(out, LegendEntry{Label: s.Name, Color: s.Fill, Box: true})
			continue
		}
		out = append(out, LegendEntry{Label: s.Name, Color: c, Dash: s.Dash})
	}
	for _, l := range p.HLines {
		if l.Label != "" {
			out = append(out, LegendEntry{Label: l.Label, Color: l.Color, Dash: l.Dash})
		}
	}
	for _, s := range p.Spans {
		if s.Label != "" {
			out = append(out, LegendEntry{Label: s.Label, Color: s.Color, Box: true})
		}
	}
	return out
}

// CategoryCount returns the number of x categories.
func (p *Panel) CategoryCount() int { return len(p.Categories) }
