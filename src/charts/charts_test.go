package charts

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/iafilius/TUVxPlots/src/analysis"
	"github.com/iafilius/TUVxPlots/src/table"
)

var benchCols = []string{"test_name", "tau", "mu0", "omega", "g", "expected_T", "actual_T", "expected_R", "actual_R", "rel_error_T"}

func classify(rows ...[]string) *analysis.Classification {
	return analysis.Classify(table.FromRecords("bench", append([][]string{benchCols}, rows...)))
}

func blRow(name, tau, mu0, actual, rel string) []string {
	return []string{name, tau, mu0, "0", "0", actual, actual, "0", "0", rel}
}

func ecRow(name, g, t, r string) []string {
	return []string{name, "1", "1", "1", g, "", t, "", r, ""}
}

func TestSelectErrorStrategy(t *testing.T) {
	floor := analysis.DefaultPrecisionFloorPct
	cases := []struct {
		name string
		errs []float64
		want Strategy
	}{
		{"all below 1e-10", []float64{1e-11, 3e-11}, Qualitative},
		{"max 1e-9", []float64{1e-11, 1e-9}, Qualitative},
		{"max 1e-2", []float64{1e-11, 1e-2}, Bars},
		{"empty", nil, Bars},
	}
	for _, c := range cases {
		if got := SelectErrorStrategy(c.errs, floor); got != c.want {
			t.Fatalf("%s: got %s want %s", c.name, got, c.want)
		}
	}
}

func TestErrorScale(t *testing.T) {
	if ErrorScale([]float64{0.005, 0.001}) != ScaleLog {
		t.Fatalf("max 0.005 should be log scaled")
	}
	if ErrorScale([]float64{0.5}) != ScaleLinear || ErrorScale([]float64{0, 0}) != ScaleLinear {
		t.Fatalf("0.5 and all-zero should stay linear")
	}
}

func TestBeerLambertErrorQualitative(t *testing.T) {
	cl := classify(blRow("BeerLambert_mu1_tau1", "1.0", "1.0", "0.3679", "0.0"))
	p, ok := BeerLambertError(cl.Group(analysis.BeerLambert), analysis.DefaultSettings())
	if !ok {
		t.Fatalf("expected a panel")
	}
	if p.Strategy != Qualitative || p.Callout == nil || !p.HideYAxis {
		t.Fatalf("expected qualitative panel with callout, got %s", p.Strategy)
	}
	if diff := cmp.Diff([]string{"mu1_tau1"}, p.Categories); diff != "" {
		t.Fatalf("categories (-want +got):\n%s", diff)
	}
	if !strings.Contains(strings.Join(p.Callout.Lines, " "), "1e-08") {
		t.Fatalf("callout should state the floor: %v", p.Callout.Lines)
	}
}

func TestBeerLambertErrorQuantitativeLog(t *testing.T) {
	cl := classify(
		blRow("BeerLambert_a", "0.5", "1.0", "0.6", "5e-5"),
		blRow("BeerLambert_b", "1.0", "1.0", "0.36", "0"),
	)
	p, _ := BeerLambertError(cl.Group(analysis.BeerLambert), analysis.DefaultSettings())
	if p.Strategy != Bars || p.YScale != ScaleLog {
		t.Fatalf("expected log bars, got %s scale %d", p.Strategy, p.YScale)
	}
	var machine, tol bool
	for _, l := range p.HLines {
		machine = machine || l.Y == analysis.MachineFloorPct
		tol = tol || l.Y == analysis.DefaultTolerancePct
	}
	if !machine || !tol {
		t.Fatalf("expected machine-precision and tolerance lines: %+v", p.HLines)
	}
	if p.Bars[0].Label != "5.0e-03%" || p.Bars[1].Label != "" {
		t.Fatalf("bar labels %q %q", p.Bars[0].Label, p.Bars[1].Label)
	}
	if p.YRange.Min > analysis.MachineFloorPct*1.001 || p.YRange.Max < analysis.DefaultTolerancePct*0.999 {
		t.Fatalf("log range %v must include both reference lines", p.YRange)
	}
}

func TestEnergyPanelsKeepRowOrder(t *testing.T) {
	cl := classify(
		ecRow("EnergyConservation_z", "0.9", "0.5", "0.45"),
		ecRow("EnergyConservation_a", "0.0", "0.7", "0.2"),
		ecRow("EnergyConservation_m", "-0.5", "0.5", "0.3"),
	)
	g := cl.Group(analysis.EnergyConservation)
	bal, ok := EnergyBalance(g)
	if !ok {
		t.Fatalf("expected balance panel")
	}
	if diff := cmp.Diff([]string{"z", "a", "m"}, bal.Categories); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if len(bal.Bars) != 6 || bal.Bars[0].Label != "0.50" || bal.Bars[1].Label != "0.45" {
		t.Fatalf("unexpected grouped bars %+v", bal.Bars[:2])
	}
	ee, _ := EnergyError(g, analysis.DefaultSettings())
	want := []analysis.Grade{analysis.GradePass, analysis.GradeWarn, analysis.GradeFail}
	for i, b := range ee.Bars {
		if b.Color != GradeColor(want[i]) {
			t.Fatalf("bar %d (%s) colored as wrong grade", i, b.Label)
		}
	}
	if len(ee.HLines) != 2 {
		t.Fatalf("expected warn and fail lines, got %d", len(ee.HLines))
	}
}

func TestTransmittanceVsTauSortedWithMargin(t *testing.T) {
	cl := classify(
		blRow("BeerLambert_t4", "4.0", "1.0", "0.018", "0"),
		blRow("BeerLambert_t1", "1.0", "1.0", "0.37", "0"),
		blRow("BeerLambert_slant", "1.0", "0.5", "0.13", "0"),
		blRow("BeerLambert_t2", "2.0", "1.0", "0.135", "0"),
	)
	p, ok := TransmittanceVsTau(cl.Group(analysis.BeerLambert), analysis.DefaultSettings())
	if !ok {
		t.Fatalf("expected panel")
	}
	if diff := cmp.Diff([]float64{1, 2, 4}, p.Series[0].X); diff != "" {
		t.Fatalf("solver x (-want +got):\n%s", diff)
	}
	ref := p.Series[1].X
	if len(ref) != analysis.ReferenceSamples || math.Abs(ref[len(ref)-1]-4.4) > 1e-12 {
		t.Fatalf("reference domain should end at 4.4, got %v (%d samples)", ref[len(ref)-1], len(ref))
	}

	mu, ok := TransmittanceVsMu0(cl.Group(analysis.BeerLambert))
	if !ok {
		t.Fatalf("expected mu0 panel")
	}
	if diff := cmp.Diff([]float64{0.5, 1}, mu.Series[0].X); diff != "" {
		t.Fatalf("mu0 order (-want +got):\n%s", diff)
	}
}

func TestColorScales(t *testing.T) {
	bl := classify(blRow("BeerLambert_a", "0.5", "1", "0.6", "0"), blRow("BeerLambert_b", "2", "1", "0.13", "0"))
	p, _ := BeerLambertAgreement(bl.Group(analysis.BeerLambert), analysis.DefaultSettings())
	if p.ColorScale == nil || p.ColorScale.Label != "Optical Depth τ" {
		t.Fatalf("agreement scatter must carry a tau colorbar")
	}
	if math.Abs(p.XRange.Max-0.66) > 1e-12 {
		t.Fatalf("perfect-agreement extent %v want 0.66", p.XRange.Max)
	}

	ec := classify(ecRow("EnergyConservation_a", "0.5", "0.6", "0.3"), ecRow("EnergyConservation_b", "-0.5", "0.7", "0.2"))
	rt, _ := ReflectanceVsTransmittance(ec.Group(analysis.EnergyConservation))
	if rt.ColorScale == nil || rt.ColorScale.Palette != Coolwarm {
		t.Fatalf("R vs T with g must carry a colorbar")
	}

	noG := analysis.Classify(table.FromRecords("bench", [][]string{
		{"test_name", "actual_T", "actual_R"},
		{"EnergyConservation_a", "0.6", "0.3"},
	}))
	rt2, ok := ReflectanceVsTransmittance(noG.Group(analysis.EnergyConservation))
	if !ok || rt2.ColorScale != nil || rt2.Series[1].ColorValues != nil {
		t.Fatalf("missing g must give a uniform color without colorbar")
	}
}

func TestEmptyGroupsSkipPanels(t *testing.T) {
	cl := classify()
	s := analysis.DefaultSettings()
	bl, ec := cl.Group(analysis.BeerLambert), cl.Group(analysis.EnergyConservation)
	checks := []struct {
		name string
		ok   bool
	}{
		{"agreement", second(BeerLambertAgreement(bl, s))},
		{"error", second(BeerLambertError(bl, s))},
		{"balance", second(EnergyBalance(ec))},
		{"energy error", second(EnergyError(ec, s))},
		{"t vs tau", second(TransmittanceVsTau(bl, s))},
		{"t vs mu0", second(TransmittanceVsMu0(bl))},
		{"r vs t", second(ReflectanceVsTransmittance(ec))},
		{"summary", second(BenchSummary(cl, s))},
	}
	for _, c := range checks {
		if c.ok {
			t.Fatalf("%s: expected no panel for empty input", c.name)
		}
	}
}

func second(_ *Panel, ok bool) bool { return ok }

func TestBenchSummaryStatus(t *testing.T) {
	cl := classify(
		blRow("BeerLambert_a", "1", "1", "0.36", "1e-15"),
		ecRow("EnergyConservation_a", "0", "0.7", "0.2"),
	)
	p, ok := BenchSummary(cl, analysis.DefaultSettings())
	if !ok || p.Strategy != TextSummary {
		t.Fatalf("expected summary panel")
	}
	text := strings.Join(p.Summary, "\n")
	for _, want := range []string{"Beer-Lambert Tests", "Status:\tPASS", "Max |R+T-1|:\t10.00 %", "Status:\tWARN"} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestRenderPNGAndSVG(t *testing.T) {
	cl := classify(
		blRow("BeerLambert_a", "0.5", "1", "0.6", "2e-3"),
		blRow("BeerLambert_b", "1", "1", "0.36", "1e-15"),
		ecRow("EnergyConservation_a", "0.5", "0.6", "0.3"),
	)
	s := analysis.DefaultSettings()
	th := DefaultTheme()
	var panels []*Panel
	for _, mk := range []func() (*Panel, bool){
		func() (*Panel, bool) { return BeerLambertAgreement(cl.Group(analysis.BeerLambert), s) },
		func() (*Panel, bool) { return BeerLambertError(cl.Group(analysis.BeerLambert), s) },
		func() (*Panel, bool) { return EnergyBalance(cl.Group(analysis.EnergyConservation)) },
		func() (*Panel, bool) { return TransmittanceVsTau(cl.Group(analysis.BeerLambert), s) },
		func() (*Panel, bool) { return ReflectanceVsTransmittance(cl.Group(analysis.EnergyConservation)) },
		func() (*Panel, bool) { return BenchSummary(cl, s) },
	} {
		p, ok := mk()
		if !ok {
			t.Fatalf("composer returned no panel")
		}
		panels = append(panels, p)
	}
	for _, p := range panels {
		raster, err := Render(p, PNG, th)
		if err != nil {
			t.Fatalf("%s png: %v", p.Name, err)
		}
		img, err := png.Decode(bytes.NewReader(raster))
		if err != nil {
			t.Fatalf("%s decode: %v", p.Name, err)
		}
		if b := img.Bounds(); b.Dx() != th.PanelWidth || b.Dy() != th.PanelHeight {
			t.Fatalf("%s: size %dx%d want %dx%d", p.Name, b.Dx(), b.Dy(), th.PanelWidth, th.PanelHeight)
		}
		vector, err := Render(p, SVG, th)
		if err != nil {
			t.Fatalf("%s svg: %v", p.Name, err)
		}
		if !bytes.Contains(vector, []byte("<svg")) {
			t.Fatalf("%s: svg output lacks root element", p.Name)
		}
	}
	if _, err := Render(nil, PNG, th); err != ErrNilPanel {
		t.Fatalf("expected ErrNilPanel, got %v", err)
	}
}

func TestRenderSingleRowCategories(t *testing.T) {
	s := analysis.DefaultSettings()
	th := DefaultTheme()
	bl := classify(blRow("BeerLambert_tau1", "1.0", "1.0", "0.3679", "1e-15")).Group(analysis.BeerLambert)
	ec := classify(ecRow("EnergyConservation_iso", "0.0", "0.6", "0.35")).Group(analysis.EnergyConservation)
	cases := []struct {
		name string
		mk   func() (*Panel, bool)
		want Strategy
	}{
		{"beer-lambert error", func() (*Panel, bool) { return BeerLambertError(bl, s) }, Qualitative},
		{"beer-lambert agreement", func() (*Panel, bool) { return BeerLambertAgreement(bl, s) }, Scatter},
		{"energy balance", func() (*Panel, bool) { return EnergyBalance(ec) }, Bars},
		{"energy error", func() (*Panel, bool) { return EnergyError(ec, s) }, Bars},
	}
	for _, c := range cases {
		p, ok := c.mk()
		if !ok {
			t.Fatalf("%s: composer returned no panel", c.name)
		}
		if p.Strategy != c.want {
			t.Fatalf("%s: strategy %s want %s", c.name, p.Strategy, c.want)
		}
		for _, f := range []Format{PNG, SVG} {
			if _, err := Render(p, f, th); err != nil {
				t.Fatalf("%s: %v", c.name, err)
			}
		}
	}
}

func TestPinTicksKeepsRange(t *testing.T) {
	r := Range{-0.5, 0.5}
	got := pinTicks(categoryTicks([]string{"iso"}), r)
	if len(got) != 3 || got[0].Value != r.Min || got[2].Value != r.Max || got[1].Label != "iso" {
		t.Fatalf("single category ticks %v", got)
	}
	if got[0].Label != "" || got[2].Label != "" {
		t.Fatalf("boundary ticks must be unlabeled: %v", got)
	}
	inner := niceTicks(0, 1, 6)
	if pinned := pinTicks(inner, Range{0, 1}); len(pinned) != len(inner) {
		t.Fatalf("ticks already at the bounds must not be duplicated: %v", pinned)
	}
	if empty := pinTicks(nil, Range{2, 3}); len(empty) != 2 {
		t.Fatalf("empty ticks must still span the range: %v", empty)
	}
}

func TestPaletteAndScale(t *testing.T) {
	cs := ColorScale{Min: 0, Max: 80, Palette: Viridis, Reverse: true}
	if cs.Color(80) != Viridis.At(0) || cs.Color(0) != Viridis.At(1) {
		t.Fatalf("reversed scale must put the maximum at the dark end")
	}
	if Coolwarm.At(0) != coolwarmStops[0] || Coolwarm.At(1) != coolwarmStops[len(coolwarmStops)-1] {
		t.Fatalf("coolwarm endpoints wrong")
	}
	if n := len(Viridis.Steps(5)); n != 5 {
		t.Fatalf("steps = %d", n)
	}
}

func TestNiceTicksStayInRange(t *testing.T) {
	ticks := niceTicks(0, 1.25, 6)
	if len(ticks) < 3 {
		t.Fatalf("too few ticks: %v", ticks)
	}
	for _, tk := range ticks {
		if tk.Value < 0 || tk.Value > 1.25 {
			t.Fatalf("tick %v outside [0, 1.25]", tk.Value)
		}
	}
	lt := logTicks(-13, -1, 9)
	if len(lt) == 0 || len(lt) > 9 || lt[0].Label != "1e-13" {
		t.Fatalf("log ticks %v", lt)
	}
}
