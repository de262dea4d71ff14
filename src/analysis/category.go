// Package analysis classifies benchmark rows into test categories and derives
// the secondary diagnostics (relative error, energy-balance residual, grades)
// the chart composers annotate with. Nothing here mutates a table; every
// metric is recomputed per call.
package analysis

import (
	"math"
	"strings"
)

// Category is a named partition of benchmark rows, selected by a pattern on test_name.
type Category int

const (
	BeerLambert Category = iota
	EnergyConservation
)

// Categories lists every category in report order.
var Categories = []Category{BeerLambert, EnergyConservation}

// Column names of the benchmark stream.
const (
	ColTestName  = "test_name"
	ColTau       = "tau"
	ColMu0       = "mu0"
	ColOmega     = "omega"
	ColG         = "g"
	ColExpectedT = "expected_T"
	ColActualT   = "actual_T"
	ColExpectedR = "expected_R"
	ColActualR   = "actual_R"
	ColRelErrorT = "rel_error_T"
)

// DeriveFunc computes a category's metrics from the numeric values of one row.
// It is only called once every required column is present and numeric.
type DeriveFunc func(vals map[string]float64) Metrics

// CategorySpec is the static contract of a category.
type CategorySpec struct {
	Name        string // machine name, used for report and config keys
	Label       string // display name
	Pattern     string // case-sensitive substring of test_name
	LabelPrefix string // stripped from test_name for axis labels
	Required    []string
	Optional    []string
	Derive      DeriveFunc
}

// Spec returns the contract for c. The switch is exhaustive over Categories;
// an unknown value yields a zero spec that matches nothing.
func Spec(c Category) CategorySpec {
	switch c {
	case BeerLambert:
		return CategorySpec{
			Name:        "beer_lambert",
			Label:       "Beer-Lambert",
			Pattern:     "BeerLambert",
			LabelPrefix: "BeerLambert_",
			Required:    []string{ColTestName, ColTau, ColExpectedT, ColActualT, ColRelErrorT},
			Optional:    []string{ColMu0},
			Derive:      deriveBeerLambert,
		}
	case EnergyConservation:
		return CategorySpec{
			Name:        "energy_conservation",
			Label:       "Energy Conservation",
			Pattern:     "EnergyConservation",
			LabelPrefix: "EnergyConservation_",
			Required:    []string{ColTestName, ColActualT, ColActualR},
			Optional:    []string{ColG, ColTau, ColOmega, ColMu0},
			Derive:      deriveEnergy,
		}
	}
	return CategorySpec{}
}

func (c Category) String() string {
	if s := Spec(c); s.Name != "" {
		return s.Name
	}
	return "unknown"
}

// Label returns the display name.
func (c Category) Label() string { return Spec(c).Label }

// Matches reports whether testName belongs to c.
func (c Category) Matches(testName string) bool {
	p := Spec(c).Pattern
	return p != "" && strings.Contains(testName, p)
}

// DisplayLabel strips the category prefix from a test name.
func (c Category) DisplayLabel(testName string) string {
	return strings.Replace(testName, Spec(c).LabelPrefix, "", 1)
}

// ParseCategory maps a machine name back to its category.
func ParseCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// Metrics are the derived values of one row. Only the fields belonging to the
// row's category are meaningful; Has* tells which.
type Metrics struct {
	ErrorPct    float64
	RPlusT      float64
	EnergyError float64
	HasErrorPct bool
	HasEnergy   bool
}

// ErrorPct converts a relative error into percent.
func ErrorPct(relError float64) float64 { return relError * 100 }

// RPlusT is the energy balance of a transmittance/reflectance pair.
func RPlusT(t, r float64) float64 { return t + r }

// EnergyError is the energy-balance residual |T+R-1| in percent.
func EnergyError(t, r float64) float64 { return math.Abs(RPlusT(t, r)-1.0) * 100 }

func deriveBeerLambert(vals map[string]float64) Metrics {
	return Metrics{ErrorPct: ErrorPct(vals[ColRelErrorT]), HasErrorPct: true}
}

func deriveEnergy(vals map[string]float64) Metrics {
	t, r := vals[ColActualT], vals[ColActualR]
	return Metrics{RPlusT: RPlusT(t, r), EnergyError: EnergyError(t, r), HasEnergy: true}
}
