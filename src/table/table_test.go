package table

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
)

const benchStream = `[==========] Running 12 tests from 1 test suite.
[ RUN      ] DeltaEddingtonBenchmark.BeerLambert_ZenithSun
Note: Google Test filter = *Benchmark*
test_name,tau,mu0,omega,g,expected_T,actual_T,expected_R,actual_R,rel_error_T
BeerLambert_mu1_tau1,1.0,1.0,0.0,0.0,0.3679,0.3679,0,0,0.0
[       OK ] DeltaEddingtonBenchmark.BeerLambert_ZenithSun (0 ms)

EnergyConservation_iso,1.0,1.0,1.0,0.0,,0.7,,0.2,
[  PASSED  ] 12 tests.
`

func TestReadFiltersHarnessNoise(t *testing.T) {
	tb, err := Read(strings.NewReader(benchStream), "bench", DefaultOptions())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tb.Len() != 2 {
		t.Fatalf("expected 2 data rows, got %d (warnings %v)", tb.Len(), tb.Warnings)
	}
	want := []string{"test_name", "tau", "mu0", "omega", "g", "expected_T", "actual_T", "expected_R", "actual_R", "rel_error_T"}
	if diff := cmp.Diff(want, tb.Columns()); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if got := tb.Unique("test_name"); len(got) != 2 || got[0] != "BeerLambert_mu1_tau1" {
		t.Fatalf("unexpected test names %v", got)
	}
	if len(tb.Warnings) == 0 || !strings.Contains(tb.Warnings[0], "dropped 5") {
		t.Fatalf("expected dropped-lines warning, got %v", tb.Warnings)
	}
}

func TestReadEmptyStreamIsNotAnError(t *testing.T) {
	for _, in := range []string{"", "[ RUN ] x\nNote: nothing\n", "test_name,tau\n"} {
		tb, err := Read(strings.NewReader(in), "empty", DefaultOptions())
		if err != nil {
			t.Fatalf("input %q: unexpected error %v", in, err)
		}
		if !tb.Empty() {
			t.Fatalf("input %q: expected empty table, got %d rows", in, tb.Len())
		}
	}
}

func TestRowAccessors(t *testing.T) {
	tb := FromRecords("t", [][]string{
		{"test_name", "tau", "note"},
		{"BeerLambert_a", "0.5", "x"},
		{"BeerLambert_b", "n/a", ""},
	})
	r := tb.Rows[0]
	if v, err := r.Float("tau"); err != nil || v != 0.5 {
		t.Fatalf("Float(tau) = %v, %v", v, err)
	}
	if _, err := r.Float("mu0"); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if _, err := tb.Rows[1].Float("tau"); !errors.Is(err, ErrNotNumeric) {
		t.Fatalf("expected ErrNotNumeric, got %v", err)
	}
	if s, ok := r.Text("test_name"); !ok || s != "BeerLambert_a" {
		t.Fatalf("Text(test_name) = %q, %v", s, ok)
	}
	if r.Line != 1 || tb.Rows[1].Line != 2 {
		t.Fatalf("unexpected line numbers %d %d", r.Line, tb.Rows[1].Line)
	}
}

func TestKindInference(t *testing.T) {
	tb := FromRecords("t", [][]string{
		{"a", "b", "c", "d"},
		{"1", "x", "1e-3", ""},
		{"2.5", "2", "", ""},
	})
	want := map[string]Kind{"a": KindNumeric, "b": KindText, "c": KindNumeric, "d": KindText}
	if diff := cmp.Diff(want, tb.Kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	// Mixed columns are not reconciled: the numeric cell stays readable.
	if v, err := tb.Rows[1].Float("b"); err != nil || v != 2 {
		t.Fatalf("expected numeric cell in text column to stay readable, got %v %v", v, err)
	}
}

func TestRaggedRecordsAreSkipped(t *testing.T) {
	in := "a,b\n1,2\n3\n4,5\n"
	tb, err := Read(strings.NewReader(in), "ragged", DefaultOptions())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tb.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tb.Len())
	}
	if len(tb.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", tb.Warnings)
	}
}

func TestReadFileGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transmittance_spectrum.csv.gz")
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte("wavelength_nm,transmittance\n300,0.1\n400,0.6\n")); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tb, err := ReadFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if tb.Name != "transmittance_spectrum" || tb.Len() != 2 {
		t.Fatalf("unexpected table %q with %d rows", tb.Name, tb.Len())
	}
}

func TestLoadDirMissingExpected(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"cross_section_spectra.csv":  "wavelength_nm,rayleigh_cm2,o3_cm2,o2_cm2\n200,1e-25,1e-18,1e-22\n",
		"transmittance_spectrum.csv": "wavelength_nm,transmittance,toa_flux,surface_flux\n300,0.1,1e14,1e13\n",
		"notes.txt":                  "ignored",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	expected := []string{"cross_section_spectra", "altitude_flux_spectra", "transmittance_spectrum"}
	ds, err := LoadDir(dir, expected, DefaultOptions())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if !ds.Has("cross_section_spectra") || !ds.Has("transmittance_spectrum") {
		t.Fatalf("expected both present tables, got %v", ds.Files)
	}
	if ds.Has("altitude_flux_spectra") {
		t.Fatalf("altitude table should be absent")
	}
	if diff := cmp.Diff([]string{"altitude_flux_spectra"}, ds.Missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	if len(ds.Files) != 2 {
		t.Fatalf("non-csv files must be ignored, got %v", ds.Files)
	}
}

func TestLoadDirUnreadable(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope"), nil, DefaultOptions()); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestDatasetName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/a/b/cross_section_spectra.csv", "cross_section_spectra"},
		{"x.CSV.gz", "x"},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := DatasetName(c.in); got != c.want {
			t.Fatalf("DatasetName(%q) = %q want %q", c.in, got, c.want)
		}
	}
}
