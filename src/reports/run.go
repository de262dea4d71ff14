package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iafilius/TUVxPlots/src/logging"
	"github.com/iafilius/TUVxPlots/src/report"
)

// Job builds one named report.
type Job struct {
	Name  string
	Build func() *report.Report
}

// Options controls a run.
type Options struct {
	// Parallel bounds concurrent jobs; 0 or 1 runs them in order.
	Parallel int
	// Only restricts the run to these report names when non-empty.
	Only []string
}

// Result is the outcome of one job.
type Result struct {
	Name      string
	Artifacts report.Artifacts
	Skipped   bool // nothing to draw
	Err       error
	Took      time.Duration
}

// Filter keeps the jobs named in only, preserving order. An empty only keeps all.
func Filter(jobs []Job, only []string) []Job {
	if len(only) == 0 {
		return jobs
	}
	want := map[string]bool{}
	for _, n := range only {
		if n = strings.TrimSpace(n); n != "" {
			want[n] = true
		}
	}
	var out []Job
	for _, j := range jobs {
		if want[j.Name] {
			out = append(out, j)
		}
	}
	return out
}

// Run emits every job through e. A failing job is recorded in its Result and
// never stops the others. Results are in job order.
func Run(ctx context.Context, e *report.Emitter, jobs []Job, opts Options) []Result {
	jobs = Filter(jobs, opts.Only)
	results := make([]Result, len(jobs))
	g := new(errgroup.Group)
	if opts.Parallel > 1 {
		g.SetLimit(opts.Parallel)
	} else {
		g.SetLimit(1)
	}
	for i, j := range jobs {
		i, j := i, j
		if err := ctx.Err(); err != nil {
			results[i] = Result{Name: j.Name, Err: err}
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Name: j.Name, Err: err}
				return nil
			}
			results[i] = runOne(e, j)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// runOne emits a single job. A panic in the job's composers or in rendering is
// turned into the job's error so sibling reports still run.
func runOne(e *report.Emitter, j Job) (res Result) {
	start := time.Now()
	res = Result{Name: j.Name}
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("[reports] %s: panic: %v", j.Name, r)
			res = Result{Name: j.Name, Err: fmt.Errorf("%s: panic: %v", j.Name, r), Took: time.Since(start)}
		}
	}()
	a, err := e.Emit(j.Build())
	res.Took = time.Since(start)
	switch {
	case errors.Is(err, report.ErrEmptyReport):
		logging.Infof("[reports] %s: nothing to draw, skipped", j.Name)
		res.Skipped = true
	case err != nil:
		logging.Errorf("[reports] %s: %v", j.Name, err)
		res.Err = err
	default:
		res.Artifacts = a
	}
	return res
}

// Failed counts results that ended in an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Written counts results that produced artifacts.
func Written(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err == nil && !r.Skipped {
			n++
		}
	}
	return n
}
