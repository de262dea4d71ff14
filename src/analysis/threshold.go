package analysis

import (
	"fmt"
	"math"
	"strings"
)

const (
	// DefaultTolerancePct is the Beer-Lambert pass limit on max error_pct.
	DefaultTolerancePct = 0.1
	// DefaultEnergyWarnPct and DefaultEnergyFailPct bound max energy_error.
	DefaultEnergyWarnPct = 10.0
	DefaultEnergyFailPct = 15.0
	// DefaultPrecisionFloorPct selects the qualitative error panel when every
	// error_pct is below it.
	DefaultPrecisionFloorPct = 1e-8
	// MachineFloorPct is drawn as a reference line on log-scaled error panels.
	MachineFloorPct = 1e-13
	// ReferenceMargin stretches reference-curve domains past the observed maximum.
	ReferenceMargin = 1.1
)

// boundaryEps absorbs float noise in derived sums (0.7+0.2 != 0.9) so a value
// that prints as the limit compares as the limit.
const boundaryEps = 1e-9

// Comparison is the operator a statistic must satisfy against a limit to stay in a grade.
type Comparison int

const (
	LessThan    Comparison = iota // value < limit; a value at the limit is flagged
	LessOrEqual                   // value <= limit
)

func (c Comparison) String() string {
	if c == LessOrEqual {
		return "le"
	}
	return "lt"
}

// ParseComparison accepts lt/< and le/<=.
func ParseComparison(s string) (Comparison, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lt", "<":
		return LessThan, nil
	case "le", "<=":
		return LessOrEqual, nil
	}
	return LessThan, fmt.Errorf("unknown comparison %q (want lt or le)", s)
}

// Within reports whether v satisfies the comparison against limit.
func (c Comparison) Within(v, limit float64) bool {
	near := math.Abs(v-limit) <= boundaryEps*math.Max(1, math.Abs(limit))
	if c == LessOrEqual {
		return v <= limit || near
	}
	return v < limit && !near
}

// Grade is the annotation level of a statistic.
type Grade int

const (
	GradePass Grade = iota
	GradeWarn
	GradeFail
)

func (g Grade) String() string {
	switch g {
	case GradePass:
		return "PASS"
	case GradeWarn:
		return "WARN"
	}
	return "FAIL"
}

// StatisticFunc reduces a group to the value its threshold is checked against.
type StatisticFunc func(g *Group) float64

// MaxErrorPct is the largest error_pct in the group.
func MaxErrorPct(g *Group) float64 { return Max(g.ErrorPcts()) }

// MaxEnergyError is the largest energy_error in the group.
func MaxEnergyError(g *Group) float64 { return Max(g.EnergyErrors()) }

// Threshold grades a category. Values within Warn pass, values within Fail
// warn, the rest fail. Warn == Fail gives a two-level pass/fail threshold.
type Threshold struct {
	Statistic StatisticFunc
	Name      string
	Warn      float64
	Fail      float64
	Cmp       Comparison
}

// Grade classifies a single value.
func (t Threshold) Grade(v float64) Grade {
	switch {
	case t.Cmp.Within(v, t.Warn):
		return GradePass
	case t.Warn != t.Fail && t.Cmp.Within(v, t.Fail):
		return GradeWarn
	}
	return GradeFail
}

// Evaluate reduces g with the threshold's statistic and grades the result.
func (t Threshold) Evaluate(g *Group) (float64, Grade) {
	if t.Statistic == nil {
		return 0, GradePass
	}
	v := t.Statistic(g)
	return v, t.Grade(v)
}

// Thresholds maps categories to their grading rule.
type Thresholds map[Category]Threshold

// DefaultThresholds returns the stock limits with comparison cmp.
func DefaultThresholds(cmp Comparison) Thresholds {
	return Thresholds{
		BeerLambert: {
			Statistic: MaxErrorPct, Name: "max relative error (%)",
			Warn: DefaultTolerancePct, Fail: DefaultTolerancePct, Cmp: cmp,
		},
		EnergyConservation: {
			Statistic: MaxEnergyError, Name: "max |R+T-1| (%)",
			Warn: DefaultEnergyWarnPct, Fail: DefaultEnergyFailPct, Cmp: cmp,
		},
	}
}

// Settings bundles the tunables the composers read.
type Settings struct {
	Thresholds        Thresholds
	PrecisionFloorPct float64
	ReferenceMargin   float64
}

// DefaultSettings returns the stock settings with exclusive comparison.
func DefaultSettings() Settings {
	return Settings{
		Thresholds:        DefaultThresholds(LessThan),
		PrecisionFloorPct: DefaultPrecisionFloorPct,
		ReferenceMargin:   ReferenceMargin,
	}
}

// BelowPrecisionFloor is the scale-selection predicate: true when the largest
// value is below floorPct. An empty set is never below the floor.
func BelowPrecisionFloor(values []float64, floorPct float64) bool {
	if len(values) == 0 {
		return false
	}
	return Max(values) < floorPct
}

// Max returns the largest value, or 0 for an empty slice. NaNs are skipped.
func Max(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if !math.IsNaN(v) && v > m {
			m = v
		}
	}
	if math.IsInf(m, -1) {
		return 0
	}
	return m
}

// Min returns the smallest value, or 0 for an empty slice. NaNs are skipped.
func Min(values []float64) float64 {
	m := math.Inf(1)
	for _, v := range values {
		if !math.IsNaN(v) && v < m {
			m = v
		}
	}
	if math.IsInf(m, 1) {
		return 0
	}
	return m
}
