package charts

import (
	"fmt"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	// 5% margin on both sides
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates up to n tick marks between [min, max] using 1, 2, 2.5, 5 steps.
// Ticks outside the range are dropped so fixed axis limits stay fixed.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Ceil(min/bestStep-1e-9) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= max+bestStep*1e-6; v += bestStep {
		v = round6(v)
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case av < 0.01:
		return fmt.Sprintf("%.0e", v)
	default:
		return strconv.FormatFloat(round6(v), 'f', -1, 64)
	}
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// logTicks returns one tick per decade between the exponents lo and hi (both in
// log10 space), thinned so at most max labels are shown.
func logTicks(lo, hi float64, max int) []chart.Tick {
	a, b := int(math.Ceil(lo-1e-9)), int(math.Floor(hi+1e-9))
	if b < a {
		return nil
	}
	step := 1
	for (b-a)/step+1 > max {
		step++
	}
	var ticks []chart.Tick
	for e := a; e <= b; e += step {
		ticks = append(ticks, chart.Tick{Value: float64(e), Label: decadeLabel(e)})
	}
	return ticks
}

func decadeLabel(e int) string {
	switch e {
	case 0:
		return "1"
	case 1:
		return "10"
	case -1:
		return "0.1"
	}
	return fmt.Sprintf("1e%d", e)
}

// logBounds returns decade-aligned exponents enclosing the positive values.
func logBounds(values []float64) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v > 0 && !math.IsInf(v, 0) {
			l := math.Log10(v)
			lo = math.Min(lo, l)
			hi = math.Max(hi, l)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	lo, hi = math.Floor(lo), math.Ceil(hi)
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi, true
}

// categoryTicks places one labeled tick per category at 0..n-1.
func categoryTicks(labels []string) []chart.Tick {
	ticks := make([]chart.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: l}
	}
	return ticks
}

// pinTicks adds unlabeled ticks at r.Min and r.Max when the labeled ticks do
// not reach them. go-chart derives the axis range from explicit ticks, so a
// single category or a tick set narrower than r would collapse or shrink it.
func pinTicks(ticks []chart.Tick, r Range) []chart.Tick {
	eps := (r.Max - r.Min) * 1e-9
	out := make([]chart.Tick, 0, len(ticks)+2)
	if len(ticks) == 0 || ticks[0].Value > r.Min+eps {
		out = append(out, chart.Tick{Value: r.Min})
	}
	out = append(out, ticks...)
	if len(ticks) == 0 || ticks[len(ticks)-1].Value < r.Max-eps {
		out = append(out, chart.Tick{Value: r.Max})
	}
	return out
}

// dataBounds returns the finite min and max over all slices.
func dataBounds(sets ...[]float64) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range sets {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	return lo, hi, true
}
