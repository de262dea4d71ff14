// Package reports binds composers to named report layouts and drives their
// emission.
package reports

import (
	"github.com/iafilius/TUVxPlots/src/analysis"
	"github.com/iafilius/TUVxPlots/src/charts"
	"github.com/iafilius/TUVxPlots/src/report"
)

// Benchmark report names, in emission order.
const (
	BeerLambert        = "beer_lambert"
	EnergyConservation = "energy_conservation"
	ParameterSpace     = "parameter_space"
)

// BenchNames lists the benchmark reports.
var BenchNames = []string{BeerLambert, EnergyConservation, ParameterSpace}

// BenchJobs returns the benchmark reports built from cl.
func BenchJobs(cl *analysis.Classification, s analysis.Settings) []Job {
	bl := cl.Group(analysis.BeerLambert)
	ec := cl.Group(analysis.EnergyConservation)
	return []Job{
		{BeerLambert, func() *report.Report {
			return report.New(BeerLambert, "Beer-Lambert Law Validation (Pure Absorption)", report.Layout1x2).
				Add(charts.BeerLambertAgreement(bl, s)).
				Add(charts.BeerLambertError(bl, s))
		}},
		{EnergyConservation, func() *report.Report {
			return report.New(EnergyConservation, "Energy Conservation (Conservative Scattering)", report.Layout1x2).
				Add(charts.EnergyBalance(ec)).
				Add(charts.EnergyError(ec, s))
		}},
		{ParameterSpace, func() *report.Report {
			return report.New(ParameterSpace, "Parameter Space Exploration", report.Layout2x2).
				Add(charts.TransmittanceVsTau(bl, s)).
				Add(charts.TransmittanceVsMu0(bl)).
				Add(charts.ReflectanceVsTransmittance(ec)).
				Add(charts.BenchSummary(cl, s))
		}},
	}
}
