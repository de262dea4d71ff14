package charts

import (
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/TUVxPlots/src/analysis"
)

// Palette is a continuous color map over [0, 1].
type Palette int

const (
	Viridis Palette = iota
	Coolwarm
)

// coolwarm anchors (diverging blue to red through light gray).
var coolwarmStops = []drawing.Color{
	{R: 59, G: 76, B: 192, A: 255},
	{R: 124, G: 159, B: 249, A: 255},
	{R: 192, G: 212, B: 245, A: 255},
	{R: 221, G: 221, B: 221, A: 255},
	{R: 242, G: 203, B: 183, A: 255},
	{R: 238, G: 132, B: 104, A: 255},
	{R: 180, G: 4, B: 38, A: 255},
}

// At returns the color at t in [0, 1].
func (p Palette) At(t float64) drawing.Color {
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))
	if p == Coolwarm {
		return interpolate(coolwarmStops, t)
	}
	return chart.Viridis(t, 0, 1)
}

// Steps returns n evenly spaced palette colors, first to last.
func (p Palette) Steps(n int) []drawing.Color {
	out := make([]drawing.Color, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = p.At(t)
	}
	return out
}

func interpolate(stops []drawing.Color, t float64) drawing.Color {
	pos := t * float64(len(stops)-1)
	i := int(math.Floor(pos))
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	f := pos - float64(i)
	a, b := stops[i], stops[i+1]
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f)) }
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// Deep is the qualitative series palette.
var Deep = []drawing.Color{
	drawing.ColorFromHex("4C72B0"),
	drawing.ColorFromHex("DD8452"),
	drawing.ColorFromHex("55A868"),
	drawing.ColorFromHex("C44E52"),
	drawing.ColorFromHex("8172B3"),
	drawing.ColorFromHex("937860"),
}

var (
	colorTolerance = drawing.ColorFromHex("E41A1C")
	colorRefDark   = drawing.ColorFromHex("555555")
	colorRefMid    = drawing.ColorFromHex("666666")
	colorSumLine   = drawing.ColorFromHex("333333")
	colorGray      = drawing.ColorFromHex("808080")
	colorText      = drawing.ColorFromHex("262626")
	colorGrid      = drawing.ColorFromHex("DDDDDD")
	colorBoxFill   = drawing.ColorFromHex("F0F0F0")
	colorBoxEdge   = drawing.ColorFromHex("CCCCCC")
	colorPassFill  = drawing.ColorFromHex("E8F5E9")
	colorPurple    = drawing.ColorFromHex("800080")
	colorBlue      = drawing.ColorFromHex("0000FF")
	colorCyan      = drawing.ColorFromHex("00BFBF")
	colorBlack     = drawing.ColorFromHex("000000")

	// transparent strokes suppress go-chart's default series line
	colorNone = drawing.Color{R: 255, G: 255, B: 255, A: 0}
)

// Alpha returns c with opacity a in [0, 1].
func Alpha(c drawing.Color, a float64) drawing.Color {
	return c.WithAlpha(uint8(math.Round(math.Max(0, math.Min(1, a)) * 255)))
}

// GradeColor maps a threshold grade to its bar color.
func GradeColor(g analysis.Grade) drawing.Color {
	switch g {
	case analysis.GradePass:
		return Deep[2]
	case analysis.GradeWarn:
		return Deep[1]
	}
	return Deep[3]
}
