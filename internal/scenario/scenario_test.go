package scenario

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"sptr/internal/trace"
)

func TestAllScenariosRunClean(t *testing.T) {
	for _, sc := range All() {
		t.Run(sc.Name, func(t *testing.T) {
			report, err := Run(context.Background(), Options{
				Scenario:   sc.Name,
				Iterations: 5,
				Aliases:    6,
				Seed:       1,
			})
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if !report.Clean() {
				t.Fatalf("leaks=%v violations=%v", report.Leaks, report.Violations)
			}
			s := report.Stats
			if s.Allocs == 0 {
				t.Fatal("scenario allocated nothing")
			}
			if !s.Balanced() {
				t.Fatalf("unbalanced stats: %+v", s)
			}
		})
	}
}

func TestRunUnknownScenario(t *testing.T) {
	_, err := Run(context.Background(), Options{Scenario: "nope"})
	if err == nil || !strings.Contains(err.Error(), "unknown scenario") {
		t.Fatalf("expected unknown scenario error, got %v", err)
	}
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	run := func(seed int64) string {
		report, err := Run(context.Background(), Options{
			Scenario:   "shared-churn",
			Iterations: 3,
			Aliases:    5,
			Seed:       seed,
		})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		s := report.Stats
		return strings.Join([]string{
			strconv.FormatUint(s.Allocs, 10), strconv.FormatUint(s.Frees, 10),
			strconv.FormatUint(s.Retains, 10), strconv.FormatUint(s.Releases, 10),
			strconv.FormatUint(s.Moves, 10),
		}, "/")
	}

	a := run(7)
	b := run(7)
	if a != b {
		t.Fatalf("same seed diverged: %s vs %s", a, b)
	}
}

func TestRunParallelWorkers(t *testing.T) {
	report, err := Run(context.Background(), Options{
		Scenario:   "shared-fanout",
		Iterations: 4,
		Parallel:   3,
		Aliases:    4,
		Seed:       2,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("leaks=%v violations=%v", report.Leaks, report.Violations)
	}
	// shared-fanout allocates exactly one object per iteration.
	if want := uint64(4 * 3); report.Stats.Allocs != want {
		t.Fatalf("allocs = %d, want %d", report.Stats.Allocs, want)
	}
}

func TestRunEmitsTraceEvents(t *testing.T) {
	ring := trace.NewRingTracer(1024, trace.LevelDebug)
	_, err := Run(context.Background(), Options{
		Scenario:   "shared-fanout",
		Iterations: 1,
		Aliases:    3,
		Tracer:     ring,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	events := ring.Snapshot()
	var haveAlloc, haveRetain, haveFree, haveStep bool
	for _, ev := range events {
		switch {
		case ev.Name == "alloc":
			haveAlloc = true
		case ev.Name == "retain":
			haveRetain = true
		case ev.Name == "free":
			haveFree = true
		case ev.Name == "iteration" && ev.Kind == trace.KindSpanBegin:
			haveStep = true
		}
	}
	if !haveAlloc || !haveRetain || !haveFree || !haveStep {
		t.Fatalf("missing trace events: alloc=%v retain=%v free=%v step=%v",
			haveAlloc, haveRetain, haveFree, haveStep)
	}
}

func TestRunDeliversProgressEvents(t *testing.T) {
	events := make(chan Event, 4096)
	report, err := Run(context.Background(), Options{
		Scenario:   "unique-handoff",
		Iterations: 2,
		Aliases:    3,
		Events:     events,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	close(events)

	var iterations int
	var allocs uint64
	for ev := range events {
		switch ev.Kind {
		case EventIteration:
			iterations++
		case EventAlloc:
			allocs++
		}
	}
	if iterations != 2 {
		t.Fatalf("iteration events = %d, want 2", iterations)
	}
	if allocs != report.Stats.Allocs {
		t.Fatalf("alloc events = %d, ledger allocs = %d", allocs, report.Stats.Allocs)
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("shared-fanout"); !ok {
		t.Fatal("shared-fanout must be registered")
	}
	if _, ok := Lookup("missing"); ok {
		t.Fatal("missing scenario must not resolve")
	}
}

