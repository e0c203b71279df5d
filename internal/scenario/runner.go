package scenario

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"golang.org/x/sync/errgroup"

	"sptr/internal/audit"
	"sptr/internal/observ"
	"sptr/internal/trace"
)

// Options configures a workload run.
type Options struct {
	Scenario   string
	Iterations int           // per worker; default 1
	Parallel   int           // independent workers; default 1
	Aliases    int           // fan-out / pool width; default 8
	Seed       int64         // rng seed; worker w uses Seed+w
	Tracer     trace.Tracer  // nil means no tracing
	Events     chan<- Event  // nil disables progress events
}

// Report is the merged outcome of a workload run.
type Report struct {
	Scenario   string
	Iterations int
	Parallel   int
	Stats      audit.Stats
	Timing     observ.Report
	Leaks      []string
	Violations []string
}

// Clean reports whether the run finished without leaks or violations.
func (r *Report) Clean() bool {
	return len(r.Leaks) == 0 && len(r.Violations) == 0
}

// Run executes the named scenario Iterations times on each of Parallel
// workers. Every worker owns an isolated ledger and rng, so the
// single-threaded contract of the sptr handles holds inside each worker
// while the workers themselves run concurrently.
func Run(ctx context.Context, opts Options) (*Report, error) {
	sc, ok := Lookup(opts.Scenario)
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %q", opts.Scenario)
	}
	if opts.Iterations <= 0 {
		opts.Iterations = 1
	}
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	if opts.Aliases <= 0 {
		opts.Aliases = 8
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}

	timer := observ.NewTimer()
	runStage := timer.Begin("run")
	runSpan := trace.Begin(tracer, trace.ScopeRun, sc.Name, 0)

	ledgers := make([]*audit.Ledger, opts.Parallel)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Parallel; w++ {
		w := w
		ledger := audit.NewLedger()
		ledgers[w] = ledger
		g.Go(func() error {
			in := &instance{
				ledger:  ledger,
				tracer:  tracer,
				rng:     rand.New(rand.NewSource(opts.Seed + int64(w))),
				aliases: opts.Aliases,
				events:  opts.Events,
			}
			for iter := 0; iter < opts.Iterations; iter++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				in.iter = iter
				span := trace.Begin(tracer, trace.ScopeStep, "iteration", runSpan.ID())
				err := sc.run(in)
				span.WithExtra("iter", strconv.Itoa(iter)).End("")
				if err != nil {
					return fmt.Errorf("%s worker %d iteration %d: %w", sc.Name, w, iter, err)
				}
				if opts.Events != nil {
					opts.Events <- Event{Kind: EventIteration, Iter: iter, Live: ledger.Snapshot().Live}
				}
			}
			return nil
		})
	}
	err := g.Wait()
	timer.End(runStage, fmt.Sprintf("%d iterations x %d workers", opts.Iterations, opts.Parallel))
	if err != nil {
		runSpan.End("failed")
		return nil, err
	}

	checkStage := timer.Begin("leak-check")
	report := &Report{Scenario: sc.Name, Iterations: opts.Iterations, Parallel: opts.Parallel}
	for w, ledger := range ledgers {
		report.Stats = report.Stats.Merge(ledger.Snapshot())
		if leakErr := ledger.CheckLeaks(); leakErr != nil {
			report.Leaks = append(report.Leaks, fmt.Sprintf("worker %d: %v", w, leakErr))
		}
		for _, v := range ledger.Violations() {
			report.Violations = append(report.Violations, fmt.Sprintf("worker %d: %s", w, v))
		}
	}
	timer.End(checkStage, "")

	runSpan.WithExtra("allocs", strconv.FormatUint(report.Stats.Allocs, 10)).End("")
	report.Timing = timer.Report()
	return report, nil
}
