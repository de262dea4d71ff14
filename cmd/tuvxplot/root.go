package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/iafilius/TUVxPlots/src/config"
	"github.com/iafilius/TUVxPlots/src/logging"
	"github.com/iafilius/TUVxPlots/src/report"
	"github.com/iafilius/TUVxPlots/src/reports"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	parallel int
	only     []string

	// Loaded configuration
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tuvxplot",
	Short: "Render TUV-x benchmark and spectral diagnostic charts",
	Long: `tuvxplot turns the CSV output of the TUV-x solver benchmarks and spectral
diagnostics into multi-panel PNG and SVG reports.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./"+config.DefaultFile+" when present)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.IntVar(&parallel, "parallel", 0, "number of reports rendered concurrently (overrides config)")
	pf.StringSliceVar(&only, "only", nil, "render only these reports (comma separated names)")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("log-level") && logLevel != "" {
		if !logging.ValidLevel(logLevel) {
			return fmt.Errorf("invalid --log-level %q", logLevel)
		}
		c.LogLevel = logLevel
	}
	if f.Changed("parallel") && parallel > 0 {
		c.Parallel = parallel
	}
	logging.SetLogLevel(c.LogLevel)
	cfg = c
	return nil
}

func newEmitter(sink report.Sink) *report.Emitter {
	return &report.Emitter{Theme: cfg.Theme(), Sink: sink}
}

// runOptions validates --only against the known report names.
func runOptions(known []string) reports.Options {
	set := map[string]bool{}
	for _, n := range known {
		set[n] = true
	}
	var keep []string
	for _, n := range only {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if !set[n] {
			logging.Warnf("--only: unknown report %q (known: %s)", n, strings.Join(known, ", "))
			continue
		}
		keep = append(keep, n)
	}
	if len(only) > 0 && len(keep) == 0 {
		// nothing valid requested: render nothing rather than everything
		keep = []string{""}
	}
	return reports.Options{Parallel: cfg.Parallel, Only: keep}
}

// summarize prints one line per report and fails only when every attempted
// report failed.
func summarize(w io.Writer, results []reports.Result) error {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "Failed: %s: %v\n", r.Name, r.Err)
		case r.Skipped:
			fmt.Fprintf(w, "Skipped: %s (nothing to draw)\n", r.Name)
		default:
			a := r.Artifacts
			fmt.Fprintf(w, "Saved: %s (%s), %s (%s)\n", a.Raster, humanize.Bytes(uint64(a.RasterBytes)), a.Vector, humanize.Bytes(uint64(a.VectorBytes)))
		}
	}
	if failed := reports.Failed(results); failed > 0 && reports.Written(results) == 0 {
		return fmt.Errorf("all %d attempted reports failed", failed)
	}
	return nil
}
