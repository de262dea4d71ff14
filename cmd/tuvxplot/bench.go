package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/iafilius/TUVxPlots/src/analysis"
	"github.com/iafilius/TUVxPlots/src/logging"
	"github.com/iafilius/TUVxPlots/src/report"
	"github.com/iafilius/TUVxPlots/src/reports"
	"github.com/iafilius/TUVxPlots/src/table"
)

var benchOutput string

var benchCmd = &cobra.Command{
	Use:   "bench [input]",
	Short: "Plot solver benchmark results",
	Long: `Read benchmark CSV from input (default: stdin) and write the beer_lambert,
energy_conservation and parameter_space reports as {prefix}_{name}.png/.svg.
Lines starting with a harness marker ("[" or "Note:") are ignored.`,
	Example: `  ./test_solver_benchmarks | tuvxplot bench
  tuvxplot bench results.csv.gz -o plots/benchmark`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVarP(&benchOutput, "output", "o", "benchmark", "output prefix; a directory part is created as needed")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	input := "-"
	if len(args) == 1 {
		input = args[0]
	}
	out := cmd.OutOrStdout()
	t, err := table.ReadFile(input, cfg.TableOptions())
	if err != nil {
		return err
	}
	var names []string
	for _, n := range t.Unique(analysis.ColTestName) {
		if n != "" {
			names = append(names, n)
		}
	}
	fmt.Fprintf(out, "Loaded %s test results\n", humanize.Comma(int64(t.Len())))
	if len(names) > 0 {
		fmt.Fprintf(out, "Tests: %s\n", strings.Join(names, ", "))
	}

	cl := analysis.Classify(t)
	for _, c := range analysis.Categories {
		g := cl.Group(c)
		for _, e := range g.Excluded {
			logging.Warnf("%s: excluded %s", c.Label(), e)
		}
	}
	if cl.Unmatched > 0 {
		logging.Debugf("%d rows matched no category", cl.Unmatched)
	}

	sink := report.FileSink{Dir: filepath.Dir(benchOutput), Prefix: filepath.Base(benchOutput)}
	jobs := reports.BenchJobs(cl, cfg.Settings())
	results := reports.Run(cmd.Context(), newEmitter(sink), jobs, runOptions(reports.BenchNames))
	return summarize(out, results)
}
