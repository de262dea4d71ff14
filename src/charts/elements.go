package charts

import (
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// mapper converts plot-space values into pixels inside the canvas box go-chart
// hands to each element.
type mapper struct {
	b *builder
}

func (m *mapper) px(box chart.Box, x float64) int {
	xr := m.b.xr
	return box.Left + int(math.Round((x-xr.Min)/xr.Span()*float64(box.Width())))
}

func (m *mapper) py(box chart.Box, y float64) int {
	yr := m.b.yr
	y = math.Max(yr.Min, math.Min(yr.Max, y))
	return box.Bottom - int(math.Round((y-yr.Min)/yr.Span()*float64(box.Height())))
}

// fontPx converts a point size to pixels at the theme DPI.
func (m *mapper) fontPx(pt float64) int {
	return int(math.Ceil(pt * m.b.th.DPI / 72))
}

func useFont(r chart.Renderer, defaults chart.Style, size float64, c drawing.Color) {
	f := defaults.Font
	if f == nil {
		f, _ = chart.GetDefaultFont()
	}
	if f != nil {
		r.SetFont(f)
	}
	r.SetFontSize(size)
	r.SetFontColor(c)
}

func rect(r chart.Renderer, x0, y0, x1, y1 int, fill, stroke drawing.Color, width float64) {
	r.SetFillColor(fill)
	r.SetStrokeColor(stroke)
	r.SetStrokeWidth(width)
	r.SetStrokeDashArray(nil)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.LineTo(x0, y0)
	r.Close()
	if width > 0 {
		r.FillStroke()
		return
	}
	r.Fill()
}

func line(r chart.Renderer, x0, y0, x1, y1 int, c drawing.Color, width float64, dash []float64) {
	r.SetStrokeColor(c)
	r.SetStrokeWidth(width)
	r.SetStrokeDashArray(dash)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y1)
	r.Stroke()
}

// centeredText draws s with its horizontal centre at x and baseline at y.
func centeredText(r chart.Renderer, s string, x, y int) {
	tb := r.MeasureText(s)
	r.Text(s, x-tb.Width()/2, y)
}

// passMarks draws a check mark above every qualitative cell.
func (m *mapper) passMarks() chart.Renderable {
	return func(r chart.Renderer, box chart.Box, _ chart.Style) {
		c := Deep[2]
		for i := range m.b.p.Categories {
			x := float64(i)
			r.SetStrokeColor(c)
			r.SetStrokeWidth(4)
			r.SetStrokeDashArray(nil)
			r.MoveTo(m.px(box, x-0.12), m.py(box, 0.33))
			r.LineTo(m.px(box, x-0.03), m.py(box, 0.25))
			r.LineTo(m.px(box, x+0.14), m.py(box, 0.45))
			r.Stroke()
		}
	}
}

// barLabels prints each bar's label just above it.
func (m *mapper) barLabels() chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		useFont(r, defaults, m.b.th.FontSize-1, colorText)
		for _, bar := range m.b.p.Bars {
			if bar.Label == "" {
				continue
			}
			y := m.b.yv(bar.Value)
			if math.IsNaN(y) {
				continue
			}
			centeredText(r, bar.Label, m.px(box, bar.X), m.py(box, y)-4)
		}
	}
}

// notes draws free text at data coordinates with optional arrows.
func (m *mapper) notes() chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		lh := m.fontPx(m.b.th.FontSize) + 2
		for _, n := range m.b.p.Notes {
			y := m.b.yv(n.Y)
			if math.IsNaN(y) {
				continue
			}
			col := n.Color
			if col == (drawing.Color{}) {
				col = colorText
			}
			x, py := m.px(box, n.X), m.py(box, y)
			if n.Arrow {
				ty := m.b.yv(n.ToY)
				if !math.IsNaN(ty) {
					m.arrow(r, x, py+2, m.px(box, n.ToX), m.py(box, ty))
				}
			}
			useFont(r, defaults, m.b.th.FontSize-1, col)
			lines := strings.Split(n.Text, "\n")
			top := py - lh*len(lines)
			for i, l := range lines {
				centeredText(r, l, x, top+lh*(i+1)-2)
			}
		}
	}
}

func (m *mapper) arrow(r chart.Renderer, x0, y0, x1, y1 int) {
	line(r, x0, y0, x1, y1, colorGray, 1.5, nil)
	ang := math.Atan2(float64(y1-y0), float64(x1-x0))
	const head = 7.0
	for _, d := range []float64{math.Pi * 5 / 6, -math.Pi * 5 / 6} {
		hx := x1 + int(math.Round(head*math.Cos(ang+d)))
		hy := y1 + int(math.Round(head*math.Sin(ang+d)))
		line(r, x1, y1, hx, hy, colorGray, 1.5, nil)
	}
}

// callout draws a boxed message centred in the panel.
func (m *mapper) callout() chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		co := m.b.p.Callout
		edge := co.Color
		if edge == (drawing.Color{}) {
			edge = Deep[2]
		}
		size := m.b.th.FontSize + 2
		useFont(r, defaults, size, colorText)
		lh := m.fontPx(size) + 6
		w := 0
		for _, l := range co.Lines {
			if tw := r.MeasureText(l).Width(); tw > w {
				w = tw
			}
		}
		cx := box.Left + box.Width()/2
		cy := box.Top + int(float64(box.Height())*0.38)
		h := lh * len(co.Lines)
		rect(r, cx-w/2-14, cy-h/2-10, cx+w/2+14, cy+h/2+6, colorPassFill, edge, 2)
		for i, l := range co.Lines {
			c := colorText
			if i == len(co.Lines)-1 && len(co.Lines) > 1 {
				c = edge
			}
			useFont(r, defaults, size, c)
			centeredText(r, l, cx, cy-h/2+lh*(i+1)-6)
		}
	}
}

// summaryBox renders Panel.Summary as a two-column text block. A tab splits a
// line into label and value.
func (m *mapper) summaryBox() chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		lines := m.b.p.Summary
		size := m.b.th.FontSize + 1
		useFont(r, defaults, size, colorText)
		lh := m.fontPx(size) + 5
		labelW, valueW := 0, 0
		for _, l := range lines {
			label, value, _ := strings.Cut(l, "\t")
			labelW = max(labelW, r.MeasureText(label).Width())
			valueW = max(valueW, r.MeasureText(value).Width())
		}
		x0 := box.Left + box.Width()/20
		y0 := box.Top + box.Height()/20
		w := labelW + valueW + 48
		h := lh*len(lines) + 16
		rect(r, x0, y0, x0+w, y0+h, colorBoxFill, colorBoxEdge, 1.5)
		for i, l := range lines {
			label, value, hasValue := strings.Cut(l, "\t")
			y := y0 + 8 + lh*(i+1) - 4
			c := colorText
			switch strings.TrimSpace(value) {
			case "PASS":
				c = Deep[2]
			case "WARN":
				c = Deep[1]
			case "FAIL":
				c = Deep[3]
			}
			useFont(r, defaults, size, colorText)
			r.Text(label, x0+12, y)
			if hasValue {
				useFont(r, defaults, size, c)
				r.Text(value, x0+24+labelW, y)
			}
		}
	}
}

// legend draws the entries in a framed box in the top corner of the canvas.
func (m *mapper) legend(entries []LegendEntry) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		size := m.b.th.FontSize - 1
		useFont(r, defaults, size, colorText)
		lh := m.fontPx(size) + 6
		const swatch = 22
		w := 0
		for _, e := range entries {
			w = max(w, r.MeasureText(e.Label).Width())
		}
		w += swatch + 20
		h := lh*len(entries) + 8
		x0 := box.Right - w - 8
		if m.b.p.LegendLeft {
			x0 = box.Left + 8
		}
		y0 := box.Top + 8
		rect(r, x0, y0, x0+w, y0+h, Alpha(drawing.ColorWhite, 0.9), colorBoxEdge, 1)
		for i, e := range entries {
			cy := y0 + 4 + lh*i + lh/2
			sx := x0 + 6
			if e.Box {
				rect(r, sx, cy-5, sx+swatch, cy+5, e.Color, e.Color, 0)
			} else {
				line(r, sx, cy, sx+swatch, cy, e.Color, 2.5, e.Dash)
			}
			useFont(r, defaults, size, colorText)
			r.Text(e.Label, sx+swatch+8, cy+m.fontPx(size)/2-1)
		}
	}
}

// colorbar draws the panel's ColorScale as a vertical gradient right of the plot.
func (m *mapper) colorbar(x0 int) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		cs := m.b.p.ColorScale
		const barW, steps = 16, 64
		x := x0 + 10
		top, bottom := box.Top, box.Bottom
		h := float64(bottom - top)
		for i := 0; i < steps; i++ {
			t0 := float64(i) / steps
			t1 := float64(i+1) / steps
			v := cs.Min + (t0+t1)/2*(cs.Max-cs.Min)
			c := cs.Color(v)
			yb := bottom - int(math.Round(t0*h))
			yt := bottom - int(math.Round(t1*h))
			rect(r, x, yt, x+barW, yb, c, c, 0)
		}
		rect(r, x, top, x+barW, bottom, colorNone, colorText, 1)

		size := m.b.th.FontSize - 1
		useFont(r, defaults, size, colorText)
		lo, hi := cs.Min, cs.Max
		if hi <= lo {
			hi = lo + 1
		}
		for _, t := range niceTicks(lo, hi, 5) {
			if t.Value < lo-1e-12 || t.Value > hi+1e-12 {
				continue
			}
			y := bottom - int(math.Round((t.Value-lo)/(hi-lo)*h))
			line(r, x+barW, y, x+barW+4, y, colorText, 1, nil)
			r.Text(t.Label, x+barW+7, y+m.fontPx(size)/2-1)
		}
		if cs.Label != "" {
			useFont(r, defaults, m.b.th.FontSize, colorText)
			tw := r.MeasureText(cs.Label).Width()
			r.SetTextRotation(math.Pi / 2)
			r.Text(cs.Label, x+barW+48, top+int(h)/2-tw/2)
			r.ClearTextRotation()
		}
	}
}
