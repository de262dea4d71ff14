package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/iafilius/TUVxPlots/src/analysis"
	"github.com/iafilius/TUVxPlots/src/logging"
	"github.com/iafilius/TUVxPlots/src/table"
)

func main() {
	var file string
	var comparison string
	var logLevel string
	var showExcluded bool
	flag.StringVar(&file, "file", "-", "Benchmark CSV (.csv or .csv.gz); - reads stdin")
	flag.StringVar(&comparison, "cmp", "lt", "Threshold comparison: lt or le")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.BoolVar(&showExcluded, "excluded", true, "List rows excluded from a category")
	flag.Parse()
	if flag.NArg() > 0 {
		file = flag.Arg(0)
	}
	logging.SetLogLevel(logLevel)
	defer logging.Sync()

	cmp, err := analysis.ParseComparison(comparison)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	t, err := table.ReadFile(file, table.DefaultOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Table %s: %s rows x %d columns\n", t.Name, humanize.Comma(int64(t.Len())), len(t.Columns()))
	for _, col := range t.Columns() {
		fmt.Printf("  %-14s %s\n", col, t.Kinds[col])
	}
	for _, w := range t.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}

	cl := analysis.Classify(t)
	th := analysis.DefaultThresholds(cmp)
	fmt.Printf("Classified: %d of %d rows (%d unmatched)\n", cl.Matched(), cl.Total, cl.Unmatched)
	for _, c := range analysis.Categories {
		g := cl.Group(c)
		fmt.Printf("%s: %d rows, %d excluded\n", c.Label(), g.Len(), len(g.Excluded))
		if !g.Empty() {
			v, grade := th[c].Evaluate(g)
			fmt.Printf("  %s = %.4g -> %s\n", th[c].Name, v, grade)
		}
		if showExcluded {
			for _, e := range g.Excluded {
				fmt.Printf("  excluded %s\n", e)
			}
		}
	}
}
