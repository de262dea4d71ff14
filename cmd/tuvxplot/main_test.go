package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const benchCSV = `[ RUN      ] SolverBenchmark
test_name,tau,mu0,omega,g,expected_T,actual_T,expected_R,actual_R,rel_error_T
BeerLambert_tau0.1,0.1,1.0,0,0,0.904837,0.904837,0,0,1e-16
BeerLambert_tau1,1.0,1.0,0,0,0.367879,0.367879,0,0,0
BeerLambert_mu0.5,1.0,0.5,0,0,0.135335,0.135335,0,0,0
EnergyConservation_iso,1.0,1.0,1.0,0.0,,0.6,,0.35,
EnergyConservation_iso,1.0,1.0,1.0,0.0,,0.6,,0.35,
[       OK ] SolverBenchmark
`

// run executes the CLI with fresh global state and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, logLevel, parallel, only = "", "", 0, nil
	benchOutput = "benchmark"
	spectralDataDir, spectralOutputDir, spectralPrefix = "plots", ".", ""
	configForce = false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func write(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBenchWritesPrefixedReports(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bench.csv")
	write(t, in, benchCSV)
	prefix := filepath.Join(dir, "out", "benchmark")
	out, err := run(t, "bench", in, "-o", prefix, "--log-level", "error")
	if err != nil {
		t.Fatalf("bench: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Loaded 5 test results") || !strings.Contains(out, "BeerLambert_mu0.5") {
		t.Fatalf("missing load summary:\n%s", out)
	}
	if n := strings.Count(out, "EnergyConservation_iso"); n != 1 {
		t.Fatalf("test names must be listed once, got %d:\n%s", n, out)
	}
	for _, name := range []string{"beer_lambert", "energy_conservation", "parameter_space"} {
		p := prefix + "_" + name + ".png"
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if _, err := png.Decode(bytes.NewReader(b)); err != nil {
			t.Fatalf("%s: invalid png: %v", name, err)
		}
		if _, err := os.Stat(prefix + "_" + name + ".svg"); err != nil {
			t.Fatalf("%s svg: %v", name, err)
		}
	}
}

func TestBenchOnlyAndMissingInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bench.csv")
	write(t, in, benchCSV)
	prefix := filepath.Join(dir, "bl")
	if _, err := run(t, "bench", in, "-o", prefix, "--only", "beer_lambert", "--log-level", "error"); err != nil {
		t.Fatalf("bench --only: %v", err)
	}
	if _, err := os.Stat(prefix + "_beer_lambert.png"); err != nil {
		t.Fatalf("beer_lambert not written: %v", err)
	}
	if _, err := os.Stat(prefix + "_energy_conservation.png"); !os.IsNotExist(err) {
		t.Fatalf("energy_conservation should not be written")
	}

	if _, err := run(t, "bench", filepath.Join(dir, "nope.csv"), "--log-level", "error"); err == nil {
		t.Fatalf("unreadable input must fail")
	}
}

func TestSpectralPartialData(t *testing.T) {
	data := t.TempDir()
	write(t, filepath.Join(data, "transmittance_spectrum.csv"),
		"wavelength_nm,transmittance,toa_flux,surface_flux\n290,0.001,1e14,1e11\n320,0.3,3e14,9e13\n450,0.7,5e14,3.5e14\n")
	outDir := filepath.Join(t.TempDir(), "plots")
	out, err := run(t, "spectral", "-d", data, "-o", outDir, "--log-level", "error")
	if err != nil {
		t.Fatalf("spectral: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Found CSV files: transmittance_spectrum.csv") {
		t.Fatalf("csv listing missing:\n%s", out)
	}
	if !strings.Contains(out, "altitude_flux_spectra.csv not found") {
		t.Fatalf("missing-file warning absent:\n%s", out)
	}
	for _, name := range []string{"transmittance_spectrum", "spectral_analysis_summary"} {
		if _, err := os.Stat(filepath.Join(outDir, name+".png")); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "cross_section_spectra.png")); !os.IsNotExist(err) {
		t.Fatalf("cross-section report must be skipped")
	}
}

func TestConfigShowAndInit(t *testing.T) {
	out, err := run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "warn_pct: 10") || !strings.Contains(out, "comparison: lt") {
		t.Fatalf("unexpected config dump:\n%s", out)
	}
	p := filepath.Join(t.TempDir(), "tuvxplot.yaml")
	if _, err := run(t, "config", "init", p); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := run(t, "config", "init", p); err == nil {
		t.Fatalf("second init without --force must fail")
	}
	if _, err := run(t, "--config", p, "config", "show"); err != nil {
		t.Fatalf("reload written config: %v", err)
	}
}

func TestGlobalFlagsOverrideConfig(t *testing.T) {
	out, err := run(t, "--parallel", "3", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "parallel: 3") {
		t.Fatalf("--parallel not applied:\n%s", out)
	}
	if _, err := run(t, "--log-level", "loud", "config", "show"); err == nil {
		t.Fatalf("invalid --log-level must fail")
	}
}
