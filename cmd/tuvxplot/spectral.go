package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iafilius/TUVxPlots/src/report"
	"github.com/iafilius/TUVxPlots/src/reports"
	"github.com/iafilius/TUVxPlots/src/table"
)

var (
	spectralDataDir   string
	spectralOutputDir string
	spectralPrefix    string
)

var spectralCmd = &cobra.Command{
	Use:   "spectral",
	Short: "Plot spectral diagnostics from a directory of CSV files",
	Long: `Load cross_section_spectra, optical_depth_by_radiator, altitude_flux_spectra
and transmittance_spectrum (.csv or .csv.gz) from the data directory. Each
dataset present gets its own report; a 2x2 summary combines them. Missing files
are reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runSpectral,
}

func init() {
	f := spectralCmd.Flags()
	f.StringVarP(&spectralDataDir, "data-dir", "d", "plots", "directory containing the spectral CSV files")
	f.StringVarP(&spectralOutputDir, "output-dir", "o", ".", "directory for the rendered reports")
	f.StringVar(&spectralPrefix, "prefix", "", "optional file name prefix ({prefix}_{name}.png)")
	rootCmd.AddCommand(spectralCmd)
}

func runSpectral(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	dataDir, err := filepath.Abs(spectralDataDir)
	if err != nil {
		return err
	}
	outDir, err := filepath.Abs(spectralOutputDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Data directory: %s\n", dataDir)
	fmt.Fprintf(out, "Output directory: %s\n", outDir)

	ds, err := table.LoadDir(dataDir, reports.SpectralDatasets, cfg.TableOptions())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Found CSV files: %s\n", strings.Join(ds.Files, ", "))
	for _, m := range ds.Missing {
		fmt.Fprintf(out, "Warning: %s.csv not found, skipping %s\n", m, m)
	}

	sink := report.FileSink{Dir: outDir, Prefix: spectralPrefix}
	results := reports.Run(cmd.Context(), newEmitter(sink), reports.SpectralJobs(ds), runOptions(reports.SpectralNames))
	return summarize(out, results)
}
