package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/iafilius/TUVxPlots/src/table"
)

// Column names of the spectral datasets.
const (
	ColWavelength  = "wavelength_nm"
	ColRayleighCS  = "rayleigh_cm2"
	ColO3CS        = "o3_cm2"
	ColO2CS        = "o2_cm2"
	ColO3Tau       = "o3_tau"
	ColRayleighTau = "rayleigh_tau"
	ColAerosolTau  = "aerosol_tau"
	ColTotalTau    = "total_tau"
	ColTransmit    = "transmittance"
	ColTOAFlux     = "toa_flux"
	ColSurfaceFlux = "surface_flux"
	altitudePrefix = "flux_"
	altitudeSuffix = "km"
)

// Extraction is a set of numeric columns sharing one x column. Rows with a
// non-numeric value in any requested column are left out of every series.
type Extraction struct {
	X        []float64
	Y        map[string][]float64
	Columns  []string
	Excluded []Exclusion
}

// Series returns the y values of col.
func (e *Extraction) Series(col string) []float64 {
	if e == nil {
		return nil
	}
	return e.Y[col]
}

// Len returns the number of usable rows.
func (e *Extraction) Len() int {
	if e == nil {
		return 0
	}
	return len(e.X)
}

// ExtractSeries reads xCol and yCols from t. A missing column is an error
// wrapping table.ErrMissingColumn; bad cells exclude the row.
func ExtractSeries(t *table.Table, xCol string, yCols ...string) (*Extraction, error) {
	for _, col := range append([]string{xCol}, yCols...) {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("%s: %s: %w", t.Name, col, table.ErrMissingColumn)
		}
	}
	ex := &Extraction{Y: make(map[string][]float64, len(yCols)), Columns: append([]string(nil), yCols...)}
	for _, row := range t.Rows {
		x, err := row.Float(xCol)
		if err != nil {
			ex.Excluded = append(ex.Excluded, Exclusion{Line: row.Line, Reason: err.Error()})
			continue
		}
		ys := make([]float64, len(yCols))
		bad := ""
		for i, col := range yCols {
			v, err := row.Float(col)
			if err != nil {
				bad = err.Error()
				break
			}
			ys[i] = v
		}
		if bad != "" {
			ex.Excluded = append(ex.Excluded, Exclusion{Line: row.Line, Reason: bad})
			continue
		}
		ex.X = append(ex.X, x)
		for i, col := range yCols {
			ex.Y[col] = append(ex.Y[col], ys[i])
		}
	}
	return ex, nil
}

// Cumulative returns running sums across series: out[i] = s[0]+...+s[i].
// All series must share a length; the shortest bounds the result.
func Cumulative(series ...[]float64) [][]float64 {
	if len(series) == 0 {
		return nil
	}
	n := len(series[0])
	for _, s := range series[1:] {
		if len(s) < n {
			n = len(s)
		}
	}
	out := make([][]float64, len(series))
	acc := make([]float64, n)
	for i, s := range series {
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			acc[j] += s[j]
			row[j] = acc[j]
		}
		out[i] = row
	}
	return out
}

// Sum adds series element-wise.
func Sum(series ...[]float64) []float64 {
	c := Cumulative(series...)
	if len(c) == 0 {
		return nil
	}
	return c[len(c)-1]
}

// NormalizeTo divides values by ref element-wise, yielding 0 where ref <= 0.
func NormalizeTo(values, ref []float64) []float64 {
	n := len(values)
	if len(ref) < n {
		n = len(ref)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if ref[i] > 0 {
			out[i] = values[i] / ref[i]
		}
	}
	return out
}

// AltitudeColumn is one flux_<alt>km column.
type AltitudeColumn struct {
	Name       string
	AltitudeKm float64
}

// Label renders the altitude the way the legend shows it ("78.5 km").
func (a AltitudeColumn) Label() string {
	return strconv.FormatFloat(a.AltitudeKm, 'f', -1, 64) + " km"
}

// AltitudeColumns returns the flux columns of t in header order; the first is
// top of atmosphere. Columns not named flux_<number>km are ignored.
func AltitudeColumns(t *table.Table) []AltitudeColumn {
	var out []AltitudeColumn
	for _, col := range t.Columns() {
		if !strings.HasPrefix(col, altitudePrefix) || !strings.HasSuffix(col, altitudeSuffix) {
			continue
		}
		num := strings.TrimSuffix(strings.TrimPrefix(col, altitudePrefix), altitudeSuffix)
		alt, err := strconv.ParseFloat(num, 64)
		if err != nil {
			continue
		}
		out = append(out, AltitudeColumn{Name: col, AltitudeKm: alt})
	}
	return out
}

// SortedBy returns a copy of records ordered ascending by col, stable for
// ties. Records without col go last in their original order.
func SortedBy(records []Record, col string) []Record {
	out := append([]Record(nil), records...)
	key := func(r Record) float64 {
		if v, ok := r.Values[col]; ok && !math.IsNaN(v) {
			return v
		}
		return math.Inf(1)
	}
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

// IsClose reports |a-b| <= 1e-8 + 1e-5*|b| (absolute plus relative tolerance).
func IsClose(a, b float64) bool {
	return math.Abs(a-b) <= 1e-8+1e-5*math.Abs(b)
}
