package benchmark

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// LauncherHandler is notified around every launch.
type LauncherHandler interface {
	// OnLaunching is called before a launch starts. current counts from 1
	// to total across all benchmarks of a Launch call.
	OnLaunching(current, total int, b Benchmark, ctx *Context, attempt int)

	// OnLaunched is called after a launch finished.
	OnLaunched(current, total int, b Benchmark, ctx *Context, attempt int)
}

// Builder creates a benchmark lazily, when the launcher first needs it.
type Builder func() Benchmark

// Launcher holds a set of benchmarks, launches them and reports their results.
type Launcher struct {
	mu         sync.Mutex
	benchmarks []Benchmark
	builders   []Builder
	handler    LauncherHandler
	logger     *slog.Logger
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithHandler sets the launch progress handler.
func WithHandler(handler LauncherHandler) LauncherOption {
	return func(l *Launcher) {
		l.handler = handler
	}
}

// WithLogger sets the logger used for launch diagnostics.
func WithLogger(logger *slog.Logger) LauncherOption {
	return func(l *Launcher) {
		l.logger = logger
	}
}

// NewLauncher creates an empty Launcher.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// SetHandler replaces the launch progress handler.
func (l *Launcher) SetHandler(handler LauncherHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handler = handler
}

// SetLogger replaces the logger used for launch diagnostics. A nil
// logger selects slog.Default.
func (l *Launcher) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = logger
}

// AddBenchmark adds a benchmark. Nil benchmarks are ignored.
func (l *Launcher) AddBenchmark(b Benchmark) {
	if b == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.benchmarks = append(l.benchmarks, b)
}

// ClearAllBenchmarks removes every benchmark.
func (l *Launcher) ClearAllBenchmarks() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.benchmarks = nil
}

// AddBenchmarkBuilder adds a builder that is run once, the first time
// the benchmarks are listed or launched. Nil builders are ignored.
func (l *Launcher) AddBenchmarkBuilder(builder Builder) {
	if builder == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.builders = append(l.builders, builder)
}

// ClearAllBenchmarksBuilders removes every pending builder.
func (l *Launcher) ClearAllBenchmarksBuilders() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.builders = nil
}

// Benchmarks returns every benchmark, running pending builders first.
func (l *Launcher) Benchmarks() []Benchmark {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.build()
	return slices.Clone(l.benchmarks)
}

// Filter returns the benchmarks whose names fully match pattern.
// An empty pattern matches every benchmark.
func (l *Launcher) Filter(pattern string) ([]Benchmark, error) {
	match, err := matcher(pattern)
	if err != nil {
		return nil, err
	}
	var result []Benchmark
	for _, b := range l.Benchmarks() {
		if match(b.Name()) {
			result = append(result, b)
		}
	}
	return result, nil
}

// Launch runs every benchmark whose name fully matches pattern, in the
// order they were added. Canceling ctx cancels the running launch and
// skips the remaining benchmarks; the results collected so far stay
// available for reporting.
func (l *Launcher) Launch(ctx context.Context, pattern string) error {
	benchmarks, err := l.Filter(pattern)
	if err != nil {
		return err
	}
	if len(benchmarks) == 0 {
		return ErrNoBenchmarks
	}

	l.mu.Lock()
	logger := l.logger
	p := &progress{handler: l.handler, logger: logger}
	l.mu.Unlock()

	for _, b := range benchmarks {
		p.total += b.countLaunches()
	}

	for _, b := range benchmarks {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.reset()
		if err := b.launch(ctx, p); err != nil {
			return fmt.Errorf("benchmark %q: %w", b.Name(), err)
		}
		logger.Debug("benchmark finished", "benchmark", b.Name(), "phases", len(b.Phases()))
	}
	return ctx.Err()
}

// Report writes the results of every launched benchmark to r.
func (l *Launcher) Report(r Reporter) error {
	var launched []Benchmark
	for _, b := range l.Benchmarks() {
		if b.Launched() {
			launched = append(launched, b)
		}
	}
	return report(r, launched, Benchmark.Settings)
}

// ReportHistograms writes one "<phase>.hdr" file with latency percentiles
// into dir for every phase that recorded latency. resolution is the
// number of ticks per half distance of the percentile output.
func (l *Launcher) ReportHistograms(dir string, resolution int32) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create histogram directory: %w", err)
	}
	for _, b := range l.Benchmarks() {
		if !b.Launched() {
			continue
		}
		for _, phase := range b.Phases() {
			if err := writeHistograms(dir, phase, resolution); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeHistograms(dir string, phase *PhaseCore, resolution int32) error {
	if phase.Metrics().Latency() {
		path := filepath.Join(dir, HistogramFileName(phase.Name()))
		f, err := os.Create(path) //nolint:gosec // path is sanitized
		if err != nil {
			return fmt.Errorf("failed to create histogram file: %w", err)
		}
		err = phase.PrintLatencyHistogram(f, resolution)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("failed to write histogram %s: %w", path, err)
		}
	}
	for _, child := range phase.Children() {
		if err := writeHistograms(dir, child, resolution); err != nil {
			return err
		}
	}
	return nil
}

var histogramNameReplacer = strings.NewReplacer(
	`\`, "_", "/", "_", "?", "_", "%", "_", "*", "_",
	":", "_", "|", "_", `"`, "_", "<", "_", ">", "_",
)

// HistogramFileName returns the file name used for the latency histogram
// of the named phase.
func HistogramFileName(phase string) string {
	return histogramNameReplacer.Replace(phase) + ".hdr"
}

// build runs pending builders. Callers hold l.mu.
func (l *Launcher) build() {
	for _, builder := range l.builders {
		if b := builder(); b != nil {
			l.benchmarks = append(l.benchmarks, b)
		}
	}
	l.builders = nil
}

func matcher(pattern string) (func(string) bool, error) {
	if pattern == "" {
		return func(string) bool { return true }, nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return re.MatchString, nil
}
