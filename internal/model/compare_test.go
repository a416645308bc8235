package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestRun(id string, phases ...PhaseResult) *Run {
	return &Run{
		ID:         id,
		Benchmarks: []BenchmarkResult{{Name: "bench", Attempts: 5, Phases: phases}},
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	base := newTestRun("a",
		PhaseResult{Name: "bench", AvgTime: 100, TotalOperations: 10},
		PhaseResult{Name: "bench.copy", Depth: 1, AvgTime: 200, TotalOperations: 10},
		PhaseResult{Name: "bench.gone", Depth: 1, TotalTime: 50, TotalOperations: 1},
	)
	target := newTestRun("b",
		PhaseResult{Name: "bench", AvgTime: 80, TotalOperations: 10},
		PhaseResult{Name: "bench.copy", Depth: 1, AvgTime: 260, TotalOperations: 10},
		PhaseResult{Name: "bench.new", Depth: 1, TotalTime: 70, TotalOperations: 1},
	)

	got := Compare(base, target, 0)

	expected := &Comparison{
		BaseID:   "a",
		TargetID: "b",
		Deltas: []PhaseDelta{
			{Name: "bench", Base: 100, Target: 80, Change: -20, Verdict: VerdictImproved},
			{Name: "bench.copy", Base: 200, Target: 260, Change: 30, Verdict: VerdictRegressed},
			{Name: "bench.gone", Base: 50, Verdict: VerdictRemoved},
			{Name: "bench.new", Target: 70, Verdict: VerdictAdded},
		},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("comparison mismatch (-expected +got):\n%s", diff)
	}

	if !got.HasRegressions() {
		t.Error("expected regressions")
	}
	if got.Count(VerdictAdded) != 1 {
		t.Errorf("expected 1 added phase, got %d", got.Count(VerdictAdded))
	}
}

func TestCompareThreshold(t *testing.T) {
	t.Parallel()

	base := newTestRun("a", PhaseResult{Name: "bench", AvgTime: 100, TotalOperations: 2})
	target := newTestRun("b", PhaseResult{Name: "bench", AvgTime: 120, TotalOperations: 2})

	if got := Compare(base, target, 25).Deltas[0].Verdict; got != VerdictUnchanged {
		t.Errorf("expected UNCHANGED under a 25%% threshold, got %s", got)
	}
	if got := Compare(base, target, 10).Deltas[0].Verdict; got != VerdictRegressed {
		t.Errorf("expected REGRESSED under a 10%% threshold, got %s", got)
	}
}

func TestRelativeChangeZeroBase(t *testing.T) {
	t.Parallel()

	if got := relativeChange(0, 0); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := relativeChange(0, 10); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
}

func TestRunLookups(t *testing.T) {
	t.Parallel()

	run := newTestRun("a",
		PhaseResult{Name: "bench"},
		PhaseResult{Name: "bench.child", Depth: 1},
	)

	if _, ok := run.Benchmark("bench"); !ok {
		t.Error("expected benchmark bench to be found")
	}
	if _, ok := run.Benchmark("missing"); ok {
		t.Error("expected benchmark missing not to be found")
	}
	if run.PhaseCount() != 2 {
		t.Errorf("expected 2 phases, got %d", run.PhaseCount())
	}
	if len(run.Phases()) != 2 {
		t.Errorf("expected 2 named phases, got %d", len(run.Phases()))
	}
	roots := run.Benchmarks[0].Roots()
	if len(roots) != 1 || roots[0].Name != "bench" {
		t.Errorf("expected root bench, got %v", roots)
	}
}
