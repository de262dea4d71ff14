package charts

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an output encoding.
type Format int

const (
	PNG Format = iota
	SVG
)

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	if f == SVG {
		return "svg"
	}
	return "png"
}

func (f Format) String() string { return f.Ext() }

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Theme carries every cosmetic constant a render needs.
type Theme struct {
	PanelWidth    int
	PanelHeight   int
	DPI           float64
	FontSize      float64
	TitleFontSize float64
	// ReportTitleScale magnifies the report title on composed rasters.
	ReportTitleScale int
}

// DefaultTheme returns the stock look.
func DefaultTheme() Theme {
	return Theme{
		PanelWidth:       720,
		PanelHeight:      540,
		DPI:              96,
		FontSize:         10,
		TitleFontSize:    13,
		ReportTitleScale: 2,
	}
}

// Normalize fills zero fields from DefaultTheme and clamps panel dimensions.
func (t Theme) Normalize() Theme {
	d := DefaultTheme()
	if t.PanelWidth <= 0 {
		t.PanelWidth = d.PanelWidth
	}
	if t.PanelHeight <= 0 {
		t.PanelHeight = d.PanelHeight
	}
	if t.PanelWidth < 400 {
		t.PanelWidth = 400
	}
	if t.PanelHeight < 300 {
		t.PanelHeight = 300
	}
	if t.DPI <= 0 {
		t.DPI = d.DPI
	}
	if t.FontSize <= 0 {
		t.FontSize = d.FontSize
	}
	if t.TitleFontSize <= 0 {
		t.TitleFontSize = d.TitleFontSize
	}
	if t.ReportTitleScale <= 0 {
		t.ReportTitleScale = d.ReportTitleScale
	}
	return t
}

// ErrNilPanel is returned when Render is handed a nil panel.
var ErrNilPanel = errors.New("nil panel")

// colorbarReserve is the right-hand margin kept free for a colorbar.
const colorbarReserve = 96

// Render draws p in format f.
func Render(p *Panel, f Format, th Theme) ([]byte, error) {
	if p == nil {
		return nil, ErrNilPanel
	}
	ch := build(p, th.Normalize())
	var buf bytes.Buffer
	if err := ch.Render(f.provider(), &buf); err != nil {
		return nil, fmt.Errorf("render %s as %s: %w", p.Name, f, err)
	}
	return buf.Bytes(), nil
}

// builder holds a panel and its resolved ranges. Y values are in plot space,
// i.e. log10 of the data on log-scaled panels.
type builder struct {
	p      *Panel
	th     Theme
	xr, yr Range
}

func (b *builder) logY() bool { return b.p.YScale == ScaleLog }

// yv maps a data value to plot space; NaN means "not plottable".
func (b *builder) yv(v float64) float64 {
	if !b.logY() {
		return v
	}
	if v <= 0 {
		return math.NaN()
	}
	return math.Log10(v)
}

func build(p *Panel, th Theme) chart.Chart {
	b := &builder{p: p, th: th}
	b.xr = b.resolveX()
	b.yr = b.resolveY()

	var series []chart.Series
	series = append(series, b.spanSeries()...)
	series = append(series, b.barSeries()...)
	series = append(series, b.dataSeries()...)
	series = append(series, b.refSeries()...)
	if len(series) == 0 {
		// go-chart refuses to render without a series; an invisible one keeps axes and elements.
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{b.xr.Min, b.xr.Max},
			YValues: []float64{b.yr.Min, b.yr.Min},
			Style:   chart.Style{StrokeColor: colorNone, StrokeWidth: 1},
		})
	}

	padRight := 20
	if p.ColorScale != nil {
		padRight += colorbarReserve
	}
	padBottom := 16
	if len(p.Categories) > 0 {
		padBottom = 24
	}
	textOnly := p.Strategy == TextSummary
	grid := chart.Style{StrokeColor: colorGrid, StrokeWidth: 1, StrokeDashArray: []float64{4, 3}}
	axisText := chart.Style{FontSize: th.FontSize, FontColor: colorText, StrokeColor: colorText, StrokeWidth: 1}

	xTicks := niceTicks(b.xr.Min, b.xr.Max, 7)
	xTickStyle := chart.Style{}
	if len(p.Categories) > 0 {
		xTicks = categoryTicks(p.Categories)
		xTickStyle.TextRotationDegrees = 45
	}
	yTicks := niceTicks(b.yr.Min, b.yr.Max, 6)
	if b.logY() {
		yTicks = logTicks(b.yr.Min, b.yr.Max, 9)
	}
	xTicks = pinTicks(xTicks, b.xr)
	yTicks = pinTicks(yTicks, b.yr)

	ch := chart.Chart{
		Title:      p.Title,
		TitleStyle: chart.Style{FontSize: th.TitleFontSize, FontColor: colorText},
		Width:      th.PanelWidth,
		Height:     th.PanelHeight,
		DPI:        th.DPI,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 20, Right: padRight, Bottom: padBottom}},
		XAxis: chart.XAxis{
			Name:           p.XLabel,
			NameStyle:      chart.Style{FontSize: th.FontSize + 1, FontColor: colorText, Hidden: textOnly},
			Style:          axisText,
			TickStyle:      xTickStyle,
			Range:          &chart.ContinuousRange{Min: b.xr.Min, Max: b.xr.Max},
			Ticks:          xTicks,
			GridMajorStyle: grid,
			GridMinorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           p.YLabel,
			NameStyle:      chart.Style{FontSize: th.FontSize + 1, FontColor: colorText, Hidden: textOnly || p.HideYAxis},
			Style:          axisText,
			Range:          &chart.ContinuousRange{Min: b.yr.Min, Max: b.yr.Max},
			Ticks:          yTicks,
			GridMajorStyle: grid,
			GridMinorStyle: grid,
		},
		Series:   series,
		Elements: b.elements(),
	}
	if textOnly {
		ch.XAxis.Style = chart.Style{Hidden: true}
		ch.XAxis.GridMajorStyle = chart.Style{Hidden: true}
		ch.XAxis.GridMinorStyle = chart.Style{Hidden: true}
	}
	if textOnly || p.HideYAxis {
		ch.YAxis.Style = chart.Style{Hidden: true}
		ch.YAxis.GridMajorStyle = chart.Style{Hidden: true}
		ch.YAxis.GridMinorStyle = chart.Style{Hidden: true}
	}
	return ch
}

func (b *builder) resolveX() Range {
	p := b.p
	if !p.XRange.IsZero() && p.XRange.Max > p.XRange.Min {
		return p.XRange
	}
	switch {
	case len(p.Categories) > 0:
		return Range{-0.5, float64(len(p.Categories)) - 0.5}
	case p.Strategy == TextSummary:
		return Range{0, 1}
	}
	var xs [][]float64
	for _, s := range p.Series {
		xs = append(xs, s.X)
	}
	for _, bar := range p.Bars {
		xs = append(xs, []float64{bar.X - bar.Width/2, bar.X + bar.Width/2})
	}
	lo, hi, ok := dataBounds(xs...)
	if !ok {
		return Range{0, 1}
	}
	if hi <= lo {
		return Range{lo - 0.5, lo + 0.5}
	}
	a, z := niceAxisBounds(lo, hi)
	return Range{a, z}
}

// resolveY returns the y range in plot space.
func (b *builder) resolveY() Range {
	p := b.p
	if b.logY() {
		if !p.YRange.IsZero() && p.YRange.Min > 0 && p.YRange.Max > p.YRange.Min {
			return Range{math.Log10(p.YRange.Min), math.Log10(p.YRange.Max)}
		}
		lo, hi, ok := logBounds(b.allY())
		if !ok {
			return Range{0, 1}
		}
		return Range{lo, hi}
	}
	if !p.YRange.IsZero() && p.YRange.Max > p.YRange.Min {
		return p.YRange
	}
	if p.Strategy == Qualitative || p.Strategy == TextSummary {
		return Range{0, 1}
	}
	lo, hi, ok := dataBounds(b.allY())
	if !ok {
		return Range{0, 1}
	}
	if len(p.Bars) > 0 || p.Strategy == StackedArea {
		lo = math.Min(lo, 0)
		if hi <= 0 {
			hi = 1
		}
		// headroom for bar labels
		_, z := niceAxisBounds(0, hi*1.12)
		return Range{lo, z}
	}
	if hi <= lo {
		return Range{lo - 1, lo + 1}
	}
	a, z := niceAxisBounds(lo, hi)
	return Range{a, z}
}

func (b *builder) allY() []float64 {
	var ys []float64
	for _, s := range b.p.Series {
		ys = append(ys, s.Y...)
	}
	for _, bar := range b.p.Bars {
		ys = append(ys, bar.Value)
	}
	for _, l := range b.p.HLines {
		ys = append(ys, l.Y)
	}
	return ys
}

func (b *builder) spanSeries() []chart.Series {
	var out []chart.Series
	for _, s := range b.p.Spans {
		x0, x1 := math.Max(s.X0, b.xr.Min), math.Min(s.X1, b.xr.Max)
		if x1 <= x0 {
			continue
		}
		out = append(out, chart.ContinuousSeries{
			XValues: []float64{x0, x1},
			YValues: []float64{b.yr.Max, b.yr.Max},
			Style:   chart.Style{StrokeColor: colorNone, StrokeWidth: 1, FillColor: s.Color},
		})
	}
	return out
}

// barSeries draws each bar as a closed polygon filled down to the axis bottom.
func (b *builder) barSeries() []chart.Series {
	var out []chart.Series
	base := b.yr.Min
	for _, bar := range b.p.Bars {
		top := b.yv(bar.Value)
		if math.IsNaN(top) || top <= base {
			continue
		}
		top = math.Min(top, b.yr.Max)
		x0, x1 := bar.X-bar.Width/2, bar.X+bar.Width/2
		out = append(out, chart.ContinuousSeries{
			XValues: []float64{x0, x0, x1, x1},
			YValues: []float64{base, top, top, base},
			Style: chart.Style{
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1.5,
				FillColor:   bar.Color,
			},
		})
	}
	return out
}

func (b *builder) dataSeries() []chart.Series {
	var out []chart.Series
	for _, s := range b.p.Series {
		xs, ys := b.plottable(s)
		if len(xs) == 0 {
			continue
		}
		if len(xs) == 1 && s.Marker == 0 {
			// a single point line would not show; duplicate so go-chart draws a stub
			xs = append(xs, xs[0])
			ys = append(ys, ys[0])
		}
		st := chart.Style{StrokeColor: colorNone, StrokeWidth: 1}
		if s.Width > 0 {
			st.StrokeColor = s.Color
			st.StrokeWidth = s.Width
			st.StrokeDashArray = s.Dash
		}
		if s.Fill != (drawing.Color{}) {
			st.FillColor = s.Fill
		}
		if s.Marker > 0 {
			st.DotWidth = s.Marker / 2
			st.DotColor = s.Color
			if len(s.ColorValues) > 0 && b.p.ColorScale != nil {
				st.DotColorProvider = b.dotColors(s, xs)
			}
		}
		out = append(out, chart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: st})
	}
	return out
}

// plottable drops points that cannot be drawn (NaN, non-positive on log axes)
// and clamps y into the visible range.
func (b *builder) plottable(s Series) ([]float64, []float64) {
	n := len(s.X)
	if len(s.Y) < n {
		n = len(s.Y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y := b.yv(s.Y[i])
		if math.IsNaN(y) || math.IsNaN(s.X[i]) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, s.X[i])
		ys = append(ys, math.Max(b.yr.Min, math.Min(b.yr.Max, y)))
	}
	return xs, ys
}

// dotColors colors markers by the matching ColorValues entry. Points dropped by
// plottable shift indices, so lookups go by x position.
func (b *builder) dotColors(s Series, xs []float64) chart.DotColorProvider {
	cs := *b.p.ColorScale
	byIndex := make([]drawing.Color, len(xs))
	j := 0
	for i := 0; i < len(s.X) && j < len(xs); i++ {
		if s.X[i] != xs[j] || i >= len(s.ColorValues) {
			continue
		}
		byIndex[j] = cs.Color(s.ColorValues[i])
		j++
	}
	return func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
		if index >= 0 && index < len(byIndex) && byIndex[index] != (drawing.Color{}) {
			return byIndex[index]
		}
		return s.Color
	}
}

func (b *builder) refSeries() []chart.Series {
	var out []chart.Series
	for _, l := range b.p.HLines {
		y := b.yv(l.Y)
		if math.IsNaN(y) || y < b.yr.Min || y > b.yr.Max {
			continue
		}
		w := l.Width
		if w == 0 {
			w = 2
		}
		out = append(out, chart.ContinuousSeries{
			Name:    l.Label,
			XValues: []float64{b.xr.Min, b.xr.Max},
			YValues: []float64{y, y},
			Style:   chart.Style{StrokeColor: l.Color, StrokeWidth: w, StrokeDashArray: l.Dash},
		})
	}
	return out
}

func (b *builder) elements() []chart.Renderable {
	m := &mapper{b: b}
	var els []chart.Renderable
	switch b.p.Strategy {
	case Qualitative:
		els = append(els, m.passMarks())
	case TextSummary:
		els = append(els, m.summaryBox())
	}
	if len(b.p.Bars) > 0 {
		els = append(els, m.barLabels())
	}
	if len(b.p.Notes) > 0 {
		els = append(els, m.notes())
	}
	if b.p.Callout != nil {
		els = append(els, m.callout())
	}
	if entries := b.p.LegendEntries(); len(entries) > 0 {
		els = append(els, m.legend(entries))
	}
	if b.p.ColorScale != nil {
		els = append(els, m.colorbar(b.th.PanelWidth-colorbarReserve))
	}
	return els
}
