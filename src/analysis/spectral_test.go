package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iafilius/TUVxPlots/src/table"
)

func TestExtractSeriesExcludesBadRows(t *testing.T) {
	tb := table.FromRecords("optical_depth_by_radiator", [][]string{
		{"wavelength_nm", "o3_tau", "rayleigh_tau", "aerosol_tau"},
		{"300", "2.0", "1.0", "0.3"},
		{"310", "nan?", "0.9", "0.3"},
		{"320", "0.5", "0.8", "0.3"},
	})
	ex, err := ExtractSeries(tb, ColWavelength, ColO3Tau, ColRayleighTau, ColAerosolTau)
	if err != nil {
		t.Fatalf("ExtractSeries: %v", err)
	}
	if diff := cmp.Diff([]float64{300, 320}, ex.X); diff != "" {
		t.Fatalf("x mismatch (-want +got):\n%s", diff)
	}
	if len(ex.Excluded) != 1 || ex.Excluded[0].Line != 2 {
		t.Fatalf("expected row 2 excluded, got %v", ex.Excluded)
	}
	if _, err := ExtractSeries(tb, ColWavelength, ColTotalTau); !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestCumulativeAndSum(t *testing.T) {
	got := Cumulative([]float64{1, 2}, []float64{10, 20}, []float64{100, 200})
	want := [][]float64{{1, 2}, {11, 22}, {111, 222}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cumulative mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{111, 222}, Sum([]float64{1, 2}, []float64{10, 20}, []float64{100, 200})); diff != "" {
		t.Fatalf("sum mismatch:\n%s", diff)
	}
	if Cumulative() != nil {
		t.Fatalf("no series should give nil")
	}
}

func TestNormalizeTo(t *testing.T) {
	got := NormalizeTo([]float64{5, 3, 2}, []float64{10, 0, -1})
	if diff := cmp.Diff([]float64{0.5, 0, 0}, got); diff != "" {
		t.Fatalf("normalize mismatch:\n%s", diff)
	}
}

func TestAltitudeColumns(t *testing.T) {
	tb := table.FromRecords("altitude_flux_spectra", [][]string{
		{"wavelength_nm", "flux_80km", "flux_78.5km", "flux_0km", "note", "flux_xkm"},
		{"300", "1", "0.9", "0.1", "x", "1"},
	})
	got := AltitudeColumns(tb)
	want := []AltitudeColumn{{"flux_80km", 80}, {"flux_78.5km", 78.5}, {"flux_0km", 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("altitude columns (-want +got):\n%s", diff)
	}
	if got[1].Label() != "78.5 km" {
		t.Fatalf("label = %q", got[1].Label())
	}
}

func TestSortedByIsStable(t *testing.T) {
	recs := []Record{
		{TestName: "c", Values: map[string]float64{ColTau: 2}},
		{TestName: "a", Values: map[string]float64{ColTau: 1}},
		{TestName: "none", Values: map[string]float64{}},
		{TestName: "b", Values: map[string]float64{ColTau: 1}},
	}
	got := SortedBy(recs, ColTau)
	var names []string
	for _, r := range got {
		names = append(names, r.TestName)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "none"}, names); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if recs[0].TestName != "c" {
		t.Fatalf("input must not be reordered")
	}
}

func TestIsClose(t *testing.T) {
	if !IsClose(1.0+1e-9, 1.0) || IsClose(1.001, 1.0) {
		t.Fatalf("IsClose mismatch")
	}
}

func TestReferenceDomain(t *testing.T) {
	xs := ReferenceDomain(4.0, 0.05, 0, ReferenceSamples)
	if len(xs) != 100 {
		t.Fatalf("expected 100 samples, got %d", len(xs))
	}
	if xs[0] != 0.05 || math.Abs(xs[99]-4.4) > 1e-12 {
		t.Fatalf("domain [%v, %v] want [0.05, 4.4]", xs[0], xs[99])
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			t.Fatalf("samples not increasing at %d", i)
		}
	}
	ys := Apply(Linspace(0.2, 1.0, 3), func(mu0 float64) float64 { return BeerLambertT(1, mu0) })
	if math.Abs(ys[2]-math.Exp(-1)) > 1e-12 || ys[0] >= ys[1] {
		t.Fatalf("reference curve wrong: %v", ys)
	}
	if Linspace(0, 1, 0) != nil || len(Linspace(3, 9, 1)) != 1 {
		t.Fatalf("degenerate linspace")
	}
}
