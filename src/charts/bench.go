package charts

import (
	"fmt"
	"math"

	"github.com/iafilius/TUVxPlots/src/analysis"
	"github.com/iafilius/TUVxPlots/src/logging"
)

var dashed = []float64{8, 5}
var dotted = []float64{2, 4}

// guard logs and reports false when a composer has nothing to draw.
func guard(role string, g *analysis.Group) bool {
	if g.Empty() {
		cat := "?"
		if g != nil {
			cat = g.Category.Label()
		}
		logging.Infof("[charts] %s: no %s rows, panel skipped", role, cat)
		return false
	}
	return true
}

// BeerLambertAgreement plots actual vs expected transmittance colored by tau,
// with a perfect-agreement line.
func BeerLambertAgreement(g *analysis.Group, s analysis.Settings) (*Panel, bool) {
	if !guard("agreement scatter", g) {
		return nil, false
	}
	exp := g.Column(analysis.ColExpectedT)
	act := g.Column(analysis.ColActualT)
	taus := g.Column(analysis.ColTau)
	lim := math.Max(analysis.Max(exp), analysis.Max(act)) * margin(s)
	if lim <= 0 {
		lim = 1
	}
	lo, hi := analysis.Min(taus), analysis.Max(taus)
	p := &Panel{
		Name:       "agreement",
		Title:      "Beer-Lambert Validation",
		XLabel:     "Expected Transmittance (Beer-Lambert)",
		YLabel:     "Actual Transmittance (Solver)",
		Strategy:   Scatter,
		XRange:     Range{0, lim},
		YRange:     Range{0, lim},
		LegendLeft: true,
		ColorScale: &ColorScale{Label: "Optical Depth τ", Min: lo, Max: hi, Palette: Viridis},
		Series: []Series{
			{Name: "Perfect agreement", X: []float64{0, lim}, Y: []float64{0, lim}, Color: colorRefDark, Width: 2, Dash: dashed},
			{X: exp, Y: act, Color: Deep[0], Marker: 13, ColorValues: taus},
		},
	}
	return p, true
}

// BeerLambertError charts error_pct per test. Below the precision floor it
// switches to the qualitative pass grid.
func BeerLambertError(g *analysis.Group, s analysis.Settings) (*Panel, bool) {
	if !guard("error panel", g) {
		return nil, false
	}
	errs := g.ErrorPcts()
	p := &Panel{
		Name:       "error",
		Title:      "Transmittance Error",
		Strategy:   SelectErrorStrategy(errs, s.PrecisionFloorPct),
		Categories: g.Labels(),
	}
	if p.Strategy == Qualitative {
		p.HideYAxis = true
		p.YRange = Range{0, 1}
		for i := range p.Categories {
			p.Bars = append(p.Bars, Bar{X: float64(i), Width: 0.6, Value: 0.15, Color: Deep[2]})
		}
		p.Callout = &Callout{
			Lines: []string{"All errors below precision floor", fmt.Sprintf("max < %s %%", floorLabel(s.PrecisionFloorPct))},
			Color: Deep[2],
		}
		return p, true
	}

	p.YLabel = "Relative Error (%)"
	p.YScale = ErrorScale(errs)
	colors := Viridis.Steps(len(errs))
	for i, e := range errs {
		b := Bar{X: float64(i), Width: 0.8, Value: e, Color: colors[i]}
		if e > 1e-10 {
			b.Label = fmt.Sprintf("%.1e%%", e)
		}
		p.Bars = append(p.Bars, b)
	}
	tol := s.Thresholds[analysis.BeerLambert].Warn
	if p.YScale == ScaleLog {
		p.HLines = append(p.HLines, RefLine{Y: analysis.MachineFloorPct, Color: colorGray, Width: 1.5, Dash: dotted, Label: "Machine precision"})
		lo, hi, _ := logBounds(append(append([]float64(nil), errs...), analysis.MachineFloorPct, tol))
		p.YRange = Range{math.Pow(10, lo), math.Pow(10, hi)}
	}
	p.HLines = append(p.HLines, RefLine{Y: tol, Color: Alpha(colorTolerance, 0.8), Width: 2, Dash: dashed, Label: fmt.Sprintf("%g%% tolerance", tol)})
	return p, true
}

func floorLabel(v float64) string {
	return fmt.Sprintf("%.0e", v)
}

// EnergyBalance draws grouped T and R bars with the R+T line and the
// conservation target at 1.
func EnergyBalance(g *analysis.Group) (*Panel, bool) {
	if !guard("energy balance", g) {
		return nil, false
	}
	const width = 0.35
	p := &Panel{
		Name:       "balance",
		Title:      "Energy Balance (ω = 1, conservative scattering)",
		YLabel:     "Fraction",
		Strategy:   Bars,
		Categories: g.Labels(),
		YRange:     Range{0, 1.25},
		Legend: []LegendEntry{
			{Label: "Transmittance T", Color: Deep[0], Box: true},
			{Label: "Reflectance R", Color: Deep[3], Box: true},
		},
	}
	xs := make([]float64, g.Len())
	for i, r := range g.Records {
		x := float64(i)
		xs[i] = x
		t, _ := r.Get(analysis.ColActualT)
		rv, _ := r.Get(analysis.ColActualR)
		p.Bars = append(p.Bars,
			Bar{X: x - width/2, Width: width, Value: t, Color: Deep[0], Label: fmt.Sprintf("%.2f", t)},
			Bar{X: x + width/2, Width: width, Value: rv, Color: Deep[3], Label: fmt.Sprintf("%.2f", rv)},
		)
	}
	p.Series = []Series{{Name: "R + T", X: xs, Y: g.RPlusTs(), Color: colorSumLine, Width: 2.5, Marker: 10}}
	p.HLines = []RefLine{{Y: 1.0, Color: Alpha(Deep[2], 0.8), Width: 2, Dash: dashed, Label: "Energy conserved"}}
	return p, true
}

// EnergyError bars |R+T-1| per test colored by grade, with the warn and fail lines.
func EnergyError(g *analysis.Group, s analysis.Settings) (*Panel, bool) {
	if !guard("energy error", g) {
		return nil, false
	}
	th := s.Thresholds[analysis.EnergyConservation]
	p := &Panel{
		Name:       "energy_error",
		Title:      "|R + T - 1| (should be 0 for ω = 1)",
		YLabel:     "Energy Non-Conservation (%)",
		Strategy:   Bars,
		Categories: g.Labels(),
	}
	errs := g.EnergyErrors()
	for i, e := range errs {
		p.Bars = append(p.Bars, Bar{X: float64(i), Width: 0.8, Value: e, Color: GradeColor(th.Grade(e)), Label: fmt.Sprintf("%.1f%%", e)})
	}
	p.HLines = []RefLine{
		{Y: th.Warn, Color: Deep[1], Width: 2, Dash: dashed, Label: fmt.Sprintf("%g%% tolerance", th.Warn)},
	}
	if th.Fail != th.Warn {
		p.HLines = append(p.HLines, RefLine{Y: th.Fail, Color: Deep[3], Width: 2, Dash: dashed, Label: fmt.Sprintf("%g%% tolerance", th.Fail)})
	}
	top := math.Max(analysis.Max(errs), th.Fail) * 1.15
	p.YRange = Range{0, top}
	return p, true
}

// TransmittanceVsTau plots solver T against tau for zenith-sun cases on a log
// axis, sorted by tau, with exp(-tau) over the margin-extended domain.
func TransmittanceVsTau(g *analysis.Group, s analysis.Settings) (*Panel, bool) {
	zenith := g.Filter(func(r analysis.Record) bool {
		mu0, ok := r.Get(analysis.ColMu0)
		return ok && analysis.IsClose(mu0, 1.0)
	})
	if !guard("T vs tau (mu0=1)", zenith) {
		return nil, false
	}
	sorted := analysis.SortedBy(zenith.Records, analysis.ColTau)
	xs, ys := recordXY(sorted, analysis.ColTau, analysis.ColActualT)
	ref := analysis.ReferenceDomain(analysis.Max(xs), 0.05, margin(s), analysis.ReferenceSamples)
	p := &Panel{
		Name:     "t_vs_tau",
		Title:    "Beer-Lambert: T vs τ (μ0 = 1)",
		XLabel:   "Optical Depth τ",
		YLabel:   "Transmittance T",
		Strategy: Line,
		YScale:   ScaleLog,
		Series: []Series{
			{Name: "Solver", X: xs, Y: ys, Color: Deep[0], Width: 2.5, Marker: 12},
			{Name: "exp(-τ)", X: ref, Y: analysis.Apply(ref, func(t float64) float64 { return math.Exp(-t) }), Color: colorRefMid, Width: 2, Dash: dashed},
		},
	}
	return p, true
}

// TransmittanceVsMu0 plots solver T against mu0 at tau=1 with exp(-1/mu0).
func TransmittanceVsMu0(g *analysis.Group) (*Panel, bool) {
	unit := g.Filter(func(r analysis.Record) bool {
		_, hasMu0 := r.Get(analysis.ColMu0)
		tau, ok := r.Get(analysis.ColTau)
		return hasMu0 && ok && analysis.IsClose(tau, 1.0)
	})
	if !guard("T vs mu0 (tau=1)", unit) {
		return nil, false
	}
	sorted := analysis.SortedBy(unit.Records, analysis.ColMu0)
	xs, ys := recordXY(sorted, analysis.ColMu0, analysis.ColActualT)
	ref := analysis.Linspace(0.2, 1.0, analysis.ReferenceSamples)
	p := &Panel{
		Name:       "t_vs_mu0",
		Title:      "Beer-Lambert: T vs μ0 (τ = 1)",
		XLabel:     "μ0 = cos(θ)",
		YLabel:     "Transmittance T",
		Strategy:   Line,
		LegendLeft: true,
		Series: []Series{
			{Name: "Solver", X: xs, Y: ys, Color: Deep[0], Width: 2.5, Marker: 12},
			{Name: "exp(-τ/μ0)", X: ref, Y: analysis.Apply(ref, func(mu float64) float64 { return analysis.BeerLambertT(1, mu) }), Color: colorRefMid, Width: 2, Dash: dashed},
		},
	}
	return p, true
}

// ReflectanceVsTransmittance scatters R against T, colored by the asymmetry
// factor when every row carries g.
func ReflectanceVsTransmittance(g *analysis.Group) (*Panel, bool) {
	if !guard("R vs T", g) {
		return nil, false
	}
	p := &Panel{
		Name:     "r_vs_t",
		Title:    "Scattering: R vs T (ω = 1)",
		XLabel:   "Transmittance T",
		YLabel:   "Reflectance R",
		Strategy: Scatter,
		XRange:   Range{0, 1.1},
		YRange:   Range{0, 0.6},
		Series: []Series{
			{Name: "R + T = 1", X: []float64{0, 1}, Y: []float64{1, 0}, Color: colorRefMid, Width: 2, Dash: dashed},
		},
	}
	pts := Series{X: g.Column(analysis.ColActualT), Y: g.Column(analysis.ColActualR), Color: Deep[0], Marker: 16}
	if g.HasColumn(analysis.ColG) {
		gs := g.Column(analysis.ColG)
		pts.ColorValues = gs
		p.ColorScale = &ColorScale{Label: "Asymmetry factor g", Min: analysis.Min(gs), Max: analysis.Max(gs), Palette: Coolwarm}
	}
	p.Series = append(p.Series, pts)
	return p, true
}

// BenchSummary lists per-category counts, the graded statistic and its status.
func BenchSummary(cl *analysis.Classification, s analysis.Settings) (*Panel, bool) {
	lines := []string{"Benchmark Summary", ""}
	found := false
	for _, c := range analysis.Categories {
		g := cl.Group(c)
		if g.Empty() {
			continue
		}
		found = true
		th := s.Thresholds[c]
		v, grade := th.Evaluate(g)
		lines = append(lines,
			c.Label()+" Tests",
			fmt.Sprintf("  Number of tests:\t%d", g.Len()),
		)
		switch c {
		case analysis.BeerLambert:
			lines = append(lines, fmt.Sprintf("  Max relative error:\t%.2e %%", v))
		case analysis.EnergyConservation:
			lines = append(lines, fmt.Sprintf("  Max |R+T-1|:\t%.2f %%", v))
		}
		if n := len(g.Excluded); n > 0 {
			lines = append(lines, fmt.Sprintf("  Excluded rows:\t%d", n))
		}
		lines = append(lines, fmt.Sprintf("  Status:\t%s", grade), "")
	}
	if !found {
		logging.Infof("[charts] summary: no categorized rows, panel skipped")
		return nil, false
	}
	return &Panel{Name: "summary", Strategy: TextSummary, Summary: lines}, true
}

func recordXY(recs []analysis.Record, xCol, yCol string) ([]float64, []float64) {
	xs := make([]float64, 0, len(recs))
	ys := make([]float64, 0, len(recs))
	for _, r := range recs {
		x, okx := r.Get(xCol)
		y, oky := r.Get(yCol)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

func margin(s analysis.Settings) float64 {
	if s.ReferenceMargin > 0 {
		return s.ReferenceMargin
	}
	return analysis.ReferenceMargin
}
