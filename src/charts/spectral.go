package charts

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/TUVxPlots/src/analysis"
	"github.com/iafilius/TUVxPlots/src/logging"
	"github.com/iafilius/TUVxPlots/src/table"
)

type band struct {
	name   string
	lo, hi float64
	color  drawing.Color
}

var (
	bandUVC = band{"UV-C", 200, 280, colorPurple}
	bandUVB = band{"UV-B", 280, 315, colorBlue}
	bandUVA = band{"UV-A", 315, 400, colorCyan}
)

func (b band) span(alpha float64, legend bool) Span {
	s := Span{X0: b.lo, X1: b.hi, Color: Alpha(b.color, alpha)}
	if legend {
		s.Label = b.name
	}
	return s
}

func (b band) mid() float64 { return (b.lo + b.hi) / 2 }

var uvbShade = Span{X0: bandUVB.lo, X1: bandUVB.hi, Color: Alpha(colorPurple, 0.15)}

const wavelengthLabel = "Wavelength (nm)"

// extract pulls the wavelength axis and whichever of cols t has. It returns
// false (after logging) when nothing is drawable.
func extract(t *table.Table, role string, cols ...string) (*analysis.Extraction, bool) {
	if t.Empty() {
		logging.Infof("[charts] %s: no data, panel skipped", role)
		return nil, false
	}
	var present []string
	for _, c := range cols {
		if t.HasColumn(c) {
			present = append(present, c)
		} else {
			logging.Warnf("[charts] %s: %s has no column %s", role, t.Name, c)
		}
	}
	if len(present) == 0 {
		return nil, false
	}
	ex, err := analysis.ExtractSeries(t, analysis.ColWavelength, present...)
	if err != nil {
		logging.Warnf("[charts] %s: %v", role, err)
		return nil, false
	}
	for _, e := range ex.Excluded {
		logging.Debugf("[charts] %s: %s excluded: %s", role, t.Name, e)
	}
	if ex.Len() == 0 {
		logging.Infof("[charts] %s: no numeric rows in %s, panel skipped", role, t.Name)
		return nil, false
	}
	return ex, true
}

// CrossSections plots the absorption cross-sections on a log axis. The compact
// variant drops the band shading and annotations.
func CrossSections(t *table.Table, compact bool) (*Panel, bool) {
	ex, ok := extract(t, "cross-sections", analysis.ColRayleighCS, analysis.ColO3CS, analysis.ColO2CS)
	if !ok {
		return nil, false
	}
	p := &Panel{
		Name:     "cross_sections",
		Title:    "Absorption Cross-Sections",
		XLabel:   wavelengthLabel,
		YLabel:   "Cross-section (cm²/molecule)",
		Strategy: Line,
		YScale:   ScaleLog,
		XRange:   Range{150, 700},
		YRange:   Range{1e-40, 1e-16},
	}
	names := map[string]string{
		analysis.ColRayleighCS: "Rayleigh (λ^-4)",
		analysis.ColO3CS:       "O3 (Hartley/Huggins)",
		analysis.ColO2CS:       "O2 (Schumann-Runge)",
	}
	width := 2.5
	if compact {
		p.YLabel = "Cross-section (cm²)"
		names = map[string]string{analysis.ColRayleighCS: "Rayleigh", analysis.ColO3CS: "O3", analysis.ColO2CS: "O2"}
		width = 2
	}
	colors := map[string]drawing.Color{analysis.ColRayleighCS: Deep[0], analysis.ColO3CS: Deep[1], analysis.ColO2CS: Deep[2]}
	for _, col := range ex.Columns {
		p.Series = append(p.Series, Series{Name: names[col], X: ex.X, Y: ex.Series(col), Color: colors[col], Width: width})
	}
	if !compact {
		p.Spans = []Span{bandUVC.span(0.1, true), bandUVB.span(0.1, true), bandUVA.span(0.1, true)}
		p.Notes = []Note{
			{X: 320, Y: 3e-19, Text: "Hartley band\n(peak ~255 nm)", Arrow: true, ToX: 255, ToY: 1e-17},
			{X: 215, Y: 3e-21, Text: "Schumann-Runge\nbands", Arrow: true, ToX: 180, ToY: 5e-18},
		}
	}
	return p, true
}

// OpticalDepthStacked stacks the per-radiator optical depths (O3 at the bottom).
func OpticalDepthStacked(t *table.Table) (*Panel, bool) {
	ex, ok := extract(t, "optical depth stack", analysis.ColO3Tau, analysis.ColRayleighTau, analysis.ColAerosolTau)
	if !ok {
		return nil, false
	}
	colors := map[string]drawing.Color{analysis.ColO3Tau: Deep[1], analysis.ColRayleighTau: Deep[0], analysis.ColAerosolTau: Deep[3]}
	labels := map[string]string{analysis.ColO3Tau: "O3", analysis.ColRayleighTau: "Rayleigh", analysis.ColAerosolTau: "Aerosol"}
	layers := make([][]float64, len(ex.Columns))
	for i, col := range ex.Columns {
		layers[i] = ex.Series(col)
	}
	cum := analysis.Cumulative(layers...)
	top := analysis.Max(cum[len(cum)-1])
	if top <= 0 {
		top = 1
	}
	_, ymax := niceAxisBounds(0, top*1.12)
	p := &Panel{
		Name:     "optical_depth_stack",
		Title:    "Optical Depth by Radiator Type",
		XLabel:   wavelengthLabel,
		YLabel:   "Column Optical Depth τ",
		Strategy: StackedArea,
		XRange:   Range{200, 700},
		YRange:   Range{0, ymax},
		Spans:    []Span{uvbShade},
		Notes:    []Note{{X: bandUVB.mid(), Y: ymax * 0.93, Text: "UV-B", Color: colorPurple}},
	}
	for _, col := range ex.Columns {
		p.Legend = append(p.Legend, LegendEntry{Label: labels[col], Color: Alpha(colors[col], 0.85), Box: true})
	}
	// the tallest layer goes first so the lower ones paint over it
	for i := len(cum) - 1; i >= 0; i-- {
		col := ex.Columns[i]
		p.Series = append(p.Series, Series{X: ex.X, Y: cum[i], Color: colors[col], Fill: Alpha(colors[col], 0.85)})
	}
	return p, true
}

// OpticalDepthLog draws each radiator's optical depth on a log axis with a
// tau = 1 guide. total_tau is recomputed from the components when absent.
func OpticalDepthLog(t *table.Table, compact bool) (*Panel, bool) {
	ex, ok := extract(t, "optical depth", analysis.ColO3Tau, analysis.ColRayleighTau, analysis.ColAerosolTau)
	if !ok {
		return nil, false
	}
	colors := map[string]drawing.Color{analysis.ColO3Tau: Deep[1], analysis.ColRayleighTau: Deep[0], analysis.ColAerosolTau: Deep[3]}
	labels := map[string]string{analysis.ColO3Tau: "O3", analysis.ColRayleighTau: "Rayleigh", analysis.ColAerosolTau: "Aerosol"}
	p := &Panel{
		Name:     "optical_depth_log",
		Title:    "Optical Depth (Log Scale)",
		XLabel:   wavelengthLabel,
		YLabel:   "Column Optical Depth τ",
		Strategy: Line,
		YScale:   ScaleLog,
		XRange:   Range{200, 700},
		HLines:   []RefLine{{Y: 1, Color: Alpha(colorGray, 0.7), Width: 1.5, Dash: dotted}},
	}
	width := 2.5
	if compact {
		p.Title = "Optical Depth by Radiator"
		p.YLabel = "Column Optical Depth"
		width = 2
	}
	var parts [][]float64
	for _, col := range ex.Columns {
		parts = append(parts, ex.Series(col))
		p.Series = append(p.Series, Series{Name: labels[col], X: ex.X, Y: ex.Series(col), Color: colors[col], Width: width})
	}
	if !compact {
		total := analysis.Sum(parts...)
		if t.HasColumn(analysis.ColTotalTau) {
			if tex, err := analysis.ExtractSeries(t, analysis.ColWavelength, append(append([]string(nil), ex.Columns...), analysis.ColTotalTau)...); err == nil && tex.Len() == ex.Len() {
				total = tex.Series(analysis.ColTotalTau)
			}
		} else {
			logging.Debugf("[charts] optical depth: %s has no %s, summing components", t.Name, analysis.ColTotalTau)
		}
		p.Series = append(p.Series, Series{Name: "Total", X: ex.X, Y: total, Color: Alpha(colorBlack, 0.7), Width: 2, Dash: dashed})
		p.Notes = []Note{{X: 660, Y: 1.25, Text: "τ = 1", Color: colorGray}}
	}
	return p, true
}

// altitudeScale colors altitudes so the highest is darkest.
func altitudeScale(cols []analysis.AltitudeColumn) *ColorScale {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range cols {
		lo = math.Min(lo, c.AltitudeKm)
		hi = math.Max(hi, c.AltitudeKm)
	}
	return &ColorScale{Label: "Altitude (km)", Min: lo, Max: hi, Palette: Viridis, Reverse: true}
}

func altitudeData(t *table.Table, role string) (*analysis.Extraction, []analysis.AltitudeColumn, bool) {
	if t.Empty() {
		logging.Infof("[charts] %s: no data, panel skipped", role)
		return nil, nil, false
	}
	alts := analysis.AltitudeColumns(t)
	if len(alts) == 0 {
		logging.Warnf("[charts] %s: %s has no flux_<alt>km columns", role, t.Name)
		return nil, nil, false
	}
	names := make([]string, len(alts))
	for i, a := range alts {
		names[i] = a.Name
	}
	ex, ok := extract(t, role, names...)
	return ex, alts, ok
}

// maxAltitudeLegend caps legend rows; the colorbar carries the rest.
const maxAltitudeLegend = 8

// AltitudeFlux draws one actinic flux spectrum per altitude on a log axis.
func AltitudeFlux(t *table.Table, compact bool) (*Panel, bool) {
	ex, alts, ok := altitudeData(t, "altitude flux")
	if !ok {
		return nil, false
	}
	cs := altitudeScale(alts)
	p := &Panel{
		Name:       "altitude_flux",
		Title:      "Actinic Flux vs Altitude (SZA = 30°)",
		XLabel:     wavelengthLabel,
		YLabel:     "Actinic Flux (photons/cm²/s/nm)",
		Strategy:   Line,
		YScale:     ScaleLog,
		XRange:     Range{280, 700},
		ColorScale: cs,
	}
	width := 2.0
	if compact {
		p.Title = "Flux vs Altitude (SZA = 30°)"
		p.YLabel = "Actinic Flux"
		width = 1.5
	} else {
		p.Spans = []Span{uvbShade}
	}
	named := len(alts) <= maxAltitudeLegend
	for _, a := range alts {
		s := Series{X: ex.X, Y: ex.Series(a.Name), Color: cs.Color(a.AltitudeKm), Width: width}
		if named {
			s.Name = a.Label()
		}
		p.Series = append(p.Series, s)
	}
	return p, true
}

// AltitudeRelative normalizes every altitude's flux to the first (top of
// atmosphere) column.
func AltitudeRelative(t *table.Table) (*Panel, bool) {
	ex, alts, ok := altitudeData(t, "relative attenuation")
	if !ok {
		return nil, false
	}
	cs := altitudeScale(alts)
	toa := ex.Series(alts[0].Name)
	p := &Panel{
		Name:       "altitude_relative",
		Title:      "Relative Attenuation vs Altitude",
		XLabel:     wavelengthLabel,
		YLabel:     "Flux / TOA Flux",
		Strategy:   Line,
		XRange:     Range{280, 700},
		YRange:     Range{0, 1.15},
		ColorScale: cs,
		Spans:      []Span{uvbShade},
		HLines:     []RefLine{{Y: 1, Color: Alpha(colorGray, 0.7), Width: 1.5, Dash: dotted}},
		Notes:      []Note{{X: bandUVB.mid(), Y: 1.06, Text: "UV-B", Color: colorPurple}},
	}
	named := len(alts) <= maxAltitudeLegend
	for _, a := range alts {
		s := Series{X: ex.X, Y: analysis.NormalizeTo(ex.Series(a.Name), toa), Color: cs.Color(a.AltitudeKm), Width: 2}
		if named {
			s.Name = a.Label()
		}
		p.Series = append(p.Series, s)
	}
	return p, true
}

// Transmittance draws the surface/TOA transmittance as a filled line.
func Transmittance(t *table.Table, compact bool) (*Panel, bool) {
	ex, ok := extract(t, "transmittance", analysis.ColTransmit)
	if !ok {
		return nil, false
	}
	p := &Panel{
		Name:     "transmittance",
		Title:    "Atmospheric Transmittance (SZA = 0°, 300 DU O3)",
		XLabel:   wavelengthLabel,
		YLabel:   "Transmittance (Surface / TOA)",
		Strategy: Line,
		XRange:   Range{280, 700},
		YRange:   Range{0, 1.1},
		Spans:    []Span{uvbShade},
		HLines:   []RefLine{{Y: 0.5, Color: Alpha(colorGray, 0.7), Width: 1.5, Dash: dotted}},
		Series: []Series{
			{X: ex.X, Y: ex.Series(analysis.ColTransmit), Color: Deep[2], Width: 2.5, Fill: Alpha(Deep[2], 0.3)},
		},
	}
	if compact {
		p.Title = "Atmospheric Transmittance (SZA = 0°)"
		p.YLabel = "Transmittance"
		return p, true
	}
	p.Spans = append(p.Spans, Span{X0: bandUVA.lo, X1: bandUVA.hi, Color: Alpha(colorBlue, 0.1)})
	p.Notes = []Note{
		{X: bandUVB.mid(), Y: 1.04, Text: "UV-B", Color: colorPurple},
		{X: 357, Y: 1.04, Text: "UV-A", Color: colorBlue},
		{X: 670, Y: 0.53, Text: "50%", Color: colorGray},
	}
	return p, true
}

// SurfaceVsTOA compares top-of-atmosphere and surface flux on a log axis.
func SurfaceVsTOA(t *table.Table) (*Panel, bool) {
	ex, ok := extract(t, "TOA vs surface", analysis.ColTOAFlux, analysis.ColSurfaceFlux)
	if !ok {
		return nil, false
	}
	labels := map[string]string{analysis.ColTOAFlux: "TOA (80 km)", analysis.ColSurfaceFlux: "Surface"}
	colors := map[string]drawing.Color{analysis.ColTOAFlux: Deep[0], analysis.ColSurfaceFlux: Deep[1]}
	p := &Panel{
		Name:     "toa_vs_surface",
		Title:    "TOA vs Surface Flux",
		XLabel:   wavelengthLabel,
		YLabel:   "Actinic Flux (photons/cm²/s/nm)",
		Strategy: Line,
		YScale:   ScaleLog,
		XRange:   Range{280, 700},
		Spans:    []Span{uvbShade},
	}
	var all [][]float64
	for _, col := range ex.Columns {
		all = append(all, ex.Series(col))
		p.Series = append(p.Series, Series{Name: labels[col], X: ex.X, Y: ex.Series(col), Color: colors[col], Width: 2.5})
	}
	const noteY, arrowY = 2e12, 5e12
	if lo, hi, ok := dataBounds(all...); ok && lo <= noteY && arrowY <= hi {
		p.Notes = []Note{{X: 350, Y: noteY, Text: "Strong UV-B\nattenuation\nby O3", Arrow: true, ToX: 300, ToY: arrowY}}
	}
	return p, true
}
