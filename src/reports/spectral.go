package reports

import (
	"github.com/iafilius/TUVxPlots/src/charts"
	"github.com/iafilius/TUVxPlots/src/logging"
	"github.com/iafilius/TUVxPlots/src/report"
	"github.com/iafilius/TUVxPlots/src/table"
)

// Spectral dataset names. Each is also the name of the report drawn from it.
const (
	CrossSectionSpectra    = "cross_section_spectra"
	OpticalDepthByRadiator = "optical_depth_by_radiator"
	AltitudeFluxSpectra    = "altitude_flux_spectra"
	TransmittanceSpectrum  = "transmittance_spectrum"
	SpectralSummary        = "spectral_analysis_summary"
)

// SpectralDatasets are the CSV files the spectral reports read.
var SpectralDatasets = []string{CrossSectionSpectra, OpticalDepthByRadiator, AltitudeFluxSpectra, TransmittanceSpectrum}

// SpectralNames lists the spectral reports.
var SpectralNames = append(append([]string(nil), SpectralDatasets...), SpectralSummary)

// SpectralJobs returns one job per dataset present in ds plus the summary. A
// missing dataset drops its report; the summary leaves that slot blank.
func SpectralJobs(ds *table.Dataset) []Job {
	var jobs []Job
	single := func(name, title string, l report.Layout, build func(t *table.Table, r *report.Report)) {
		t := ds.Get(name)
		if t == nil {
			logging.Warnf("[reports] %s.csv not found, skipping %s", name, name)
			return
		}
		jobs = append(jobs, Job{name, func() *report.Report {
			r := report.New(name, title, l)
			build(t, r)
			return r
		}})
	}

	single(CrossSectionSpectra, "Absorption Cross-Sections", report.Layout1x1, func(t *table.Table, r *report.Report) {
		r.Add(charts.CrossSections(t, false))
	})
	single(OpticalDepthByRadiator, "Optical Depth by Radiator", report.Layout1x2, func(t *table.Table, r *report.Report) {
		r.Add(charts.OpticalDepthStacked(t)).Add(charts.OpticalDepthLog(t, false))
	})
	single(AltitudeFluxSpectra, "Actinic Flux vs Altitude", report.Layout1x2, func(t *table.Table, r *report.Report) {
		r.Add(charts.AltitudeFlux(t, false)).Add(charts.AltitudeRelative(t))
	})
	single(TransmittanceSpectrum, "Atmospheric Transmittance", report.Layout1x2, func(t *table.Table, r *report.Report) {
		r.Add(charts.Transmittance(t, false)).Add(charts.SurfaceVsTOA(t))
	})

	jobs = append(jobs, Job{SpectralSummary, func() *report.Report {
		return report.New(SpectralSummary, "TUV-x Spectral Analysis Summary", report.Layout2x2).
			Add(optional(ds, CrossSectionSpectra, func(t *table.Table) (*charts.Panel, bool) { return charts.CrossSections(t, true) })).
			Add(optional(ds, OpticalDepthByRadiator, func(t *table.Table) (*charts.Panel, bool) { return charts.OpticalDepthLog(t, true) })).
			Add(optional(ds, AltitudeFluxSpectra, func(t *table.Table) (*charts.Panel, bool) { return charts.AltitudeFlux(t, true) })).
			Add(optional(ds, TransmittanceSpectrum, func(t *table.Table) (*charts.Panel, bool) { return charts.Transmittance(t, true) }))
	}})
	return jobs
}

func optional(ds *table.Dataset, name string, compose func(*table.Table) (*charts.Panel, bool)) (*charts.Panel, bool) {
	t := ds.Get(name)
	if t == nil {
		return nil, false
	}
	return compose(t)
}
