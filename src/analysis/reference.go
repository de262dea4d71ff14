package analysis

import "math"

// ReferenceSamples is the number of points on an analytic reference curve.
const ReferenceSamples = 100

// Linspace returns n evenly spaced samples over [lo, hi], both ends included.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

// ReferenceDomain samples [lo, dataMax*margin]. A non-positive margin means ReferenceMargin.
func ReferenceDomain(dataMax, lo, margin float64, n int) []float64 {
	if margin <= 0 {
		margin = ReferenceMargin
	}
	return Linspace(lo, dataMax*margin, n)
}

// Apply maps f over xs.
func Apply(xs []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

// BeerLambertT is the direct-beam transmittance exp(-tau/mu0).
func BeerLambertT(tau, mu0 float64) float64 {
	if mu0 <= 0 {
		return 0
	}
	return math.Exp(-tau / mu0)
}
