package charts

import "github.com/iafilius/TUVxPlots/src/analysis"

// logScaleCeilingPct: error bars whose maximum sits in (0, this) are drawn on a log axis.
const logScaleCeilingPct = 0.01

// SelectErrorStrategy picks the error panel strategy: Qualitative when every
// error is below the precision floor, Bars otherwise.
func SelectErrorStrategy(errorPct []float64, floorPct float64) Strategy {
	if analysis.BelowPrecisionFloor(errorPct, floorPct) {
		return Qualitative
	}
	return Bars
}

// ErrorScale chooses the y scale of a quantitative error panel.
func ErrorScale(errorPct []float64) Scale {
	m := analysis.Max(errorPct)
	if m > 0 && m < logScaleCeilingPct {
		return ScaleLog
	}
	return ScaleLinear
}
