package benchmark

// Reporter receives the results of launched benchmarks. The launcher
// calls the methods in document order: header, system, environment,
// then for every benchmark its header, settings, phases (depth-first,
// each wrapped by its own header and footer) and footer, and finally
// the report footer.
type Reporter interface {
	ReportHeader() error
	ReportSystem() error
	ReportEnvironment() error
	ReportBenchmarksHeader() error
	ReportBenchmarksFooter() error
	ReportBenchmarkHeader() error
	ReportBenchmarkFooter() error
	ReportBenchmark(b Benchmark, settings *Settings) error
	ReportPhasesHeader() error
	ReportPhasesFooter() error
	ReportPhaseHeader() error
	ReportPhaseFooter() error
	ReportPhase(phase *PhaseCore, metrics *PhaseMetrics) error
	ReportFooter() error
}

// NopReporter implements every Reporter method as a no-op. Embed it to
// implement only the methods a reporter cares about.
type NopReporter struct{}

func (NopReporter) ReportHeader() error { return nil }
func (NopReporter) ReportSystem() error { return nil }
func (NopReporter) ReportEnvironment() error { return nil }
func (NopReporter) ReportBenchmarksHeader() error { return nil }
func (NopReporter) ReportBenchmarksFooter() error { return nil }
func (NopReporter) ReportBenchmarkHeader() error { return nil }
func (NopReporter) ReportBenchmarkFooter() error { return nil }
func (NopReporter) ReportBenchmark(Benchmark, *Settings) error { return nil }
func (NopReporter) ReportPhasesHeader() error { return nil }
func (NopReporter) ReportPhasesFooter() error { return nil }
func (NopReporter) ReportPhaseHeader() error { return nil }
func (NopReporter) ReportPhaseFooter() error { return nil }
func (NopReporter) ReportPhase(*PhaseCore, *PhaseMetrics) error { return nil }
func (NopReporter) ReportFooter() error { return nil }

// report walks the given benchmarks through r.
func report(r Reporter, benchmarks []Benchmark, settings func(Benchmark) *Settings) error {
	if err := steps(r.ReportHeader, r.ReportSystem, r.ReportEnvironment, r.ReportBenchmarksHeader); err != nil {
		return err
	}
	for _, b := range benchmarks {
		if err := reportBenchmark(r, b, settings(b)); err != nil {
			return err
		}
	}
	return steps(r.ReportBenchmarksFooter, r.ReportFooter)
}

func reportBenchmark(r Reporter, b Benchmark, settings *Settings) error {
	if err := steps(
		r.ReportBenchmarkHeader,
		func() error { return r.ReportBenchmark(b, settings) },
		r.ReportPhasesHeader,
	); err != nil {
		return err
	}
	for _, phase := range b.Phases() {
		if err := reportPhase(r, phase); err != nil {
			return err
		}
	}
	return steps(r.ReportPhasesFooter, r.ReportBenchmarkFooter)
}

func reportPhase(r Reporter, phase *PhaseCore) error {
	if err := steps(
		r.ReportPhaseHeader,
		func() error { return r.ReportPhase(phase, phase.Metrics()) },
		r.ReportPhaseFooter,
	); err != nil {
		return err
	}
	for _, child := range phase.Children() {
		if err := reportPhase(r, child); err != nil {
			return err
		}
	}
	return nil
}

func steps(fns ...func() error) error {
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
