package benchmark

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recordingReporter records the reporter calls in order.
type recordingReporter struct {
	calls  []string
	failAt string
}

func (r *recordingReporter) record(call string) error {
	r.calls = append(r.calls, call)
	if call == r.failAt {
		return errors.New("failed at " + call)
	}
	return nil
}

func (r *recordingReporter) ReportHeader() error { return r.record("header") }
func (r *recordingReporter) ReportSystem() error { return r.record("system") }
func (r *recordingReporter) ReportEnvironment() error { return r.record("environment") }
func (r *recordingReporter) ReportBenchmarksHeader() error { return r.record("benchmarks-header") }
func (r *recordingReporter) ReportBenchmarksFooter() error { return r.record("benchmarks-footer") }
func (r *recordingReporter) ReportBenchmarkHeader() error { return r.record("benchmark-header") }
func (r *recordingReporter) ReportBenchmarkFooter() error { return r.record("benchmark-footer") }
func (r *recordingReporter) ReportPhasesHeader() error { return r.record("phases-header") }
func (r *recordingReporter) ReportPhasesFooter() error { return r.record("phases-footer") }
func (r *recordingReporter) ReportPhaseHeader() error { return r.record("phase-header") }
func (r *recordingReporter) ReportPhaseFooter() error { return r.record("phase-footer") }
func (r *recordingReporter) ReportFooter() error { return r.record("footer") }

func (r *recordingReporter) ReportBenchmark(b Benchmark, _ *Settings) error {
	return r.record("benchmark:" + b.Name())
}

func (r *recordingReporter) ReportPhase(phase *PhaseCore, _ *PhaseMetrics) error {
	return r.record("phase:" + phase.Name())
}

func launchedForReport(t *testing.T) *Launcher {
	t.Helper()
	launcher := NewLauncher()
	launcher.AddBenchmark(NewFunc("report", func(ctx *Context) {
		ctx.StartPhase("child").StopPhase()
	}, NewSettings(WithAttempts(1), WithOperations(1))))
	launcher.AddBenchmark(NewFunc("not-launched", func(*Context) {}, nil))
	if err := launcher.Launch(context.Background(), "report"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return launcher
}

func TestLauncherReportOrder(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{}
	if err := launchedForReport(t).Report(reporter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"header", "system", "environment", "benchmarks-header",
		"benchmark-header", "benchmark:report", "phases-header",
		"phase-header", "phase:report", "phase-footer",
		"phase-header", "phase:report.child", "phase-footer",
		"phases-footer", "benchmark-footer",
		"benchmarks-footer", "footer",
	}
	if diff := cmp.Diff(want, reporter.calls); diff != "" {
		t.Errorf("report order mismatch (-want +got):\n%s", diff)
	}
}

func TestLauncherReportStopsOnError(t *testing.T) {
	t.Parallel()

	reporter := &recordingReporter{failAt: "phases-header"}
	err := launchedForReport(t).Report(reporter)
	if err == nil {
		t.Fatal("expected error")
	}
	if last := reporter.calls[len(reporter.calls)-1]; last != "phases-header" {
		t.Errorf("expected reporting to stop at phases-header, stopped at %s", last)
	}
}

func TestNopReporter(t *testing.T) {
	t.Parallel()

	if err := launchedForReport(t).Report(NopReporter{}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
