package config

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/phasebench/phasebench/benchmark"
)

// BenchmarkConfig overrides the settings of a benchmark. Zero values
// leave the setting of the benchmark unchanged.
type BenchmarkConfig struct {
	// Attempts overrides the number of attempts.
	Attempts int `yaml:"attempts,omitempty"`

	// Duration limits each launch by wall time, e.g. "2s".
	// Takes precedence over Operations when both are set.
	Duration time.Duration `yaml:"duration,omitempty"`

	// Operations limits each launch to a number of operations.
	Operations int64 `yaml:"operations,omitempty"`

	// Threads replaces the thread plan of multi-goroutine benchmarks.
	Threads []int `yaml:"threads,omitempty"`

	// Latency enables a latency histogram.
	Latency *LatencyConfig `yaml:"latency,omitempty"`
}

// LatencyConfig describes a latency histogram in nanoseconds.
type LatencyConfig struct {
	Lowest      int64 `yaml:"lowest"`
	Highest     int64 `yaml:"highest"`
	Significant int   `yaml:"significant"`

	// Automatic records the latency of every operation.
	Automatic bool `yaml:"automatic,omitempty"`
}

// File represents the structure of the .phasebench configuration file.
type File struct {
	// Defaults apply to every benchmark unless overridden below.
	Defaults BenchmarkConfig `yaml:"defaults,omitempty"`

	// Benchmarks maps benchmark names to their overrides.
	Benchmarks map[string]BenchmarkConfig `yaml:"benchmarks,omitempty"`
}

// GetBenchmarkConfig returns the overrides for a benchmark.
// It merges the benchmark-specific overrides with the defaults.
func (cf *File) GetBenchmarkConfig(name string) BenchmarkConfig {
	result := cf.Defaults
	result.Threads = slices.Clone(result.Threads)

	bc, ok := cf.Benchmarks[name]
	if !ok {
		return result
	}
	if bc.Attempts != 0 {
		result.Attempts = bc.Attempts
	}
	if bc.Duration != 0 || bc.Operations != 0 {
		result.Duration = bc.Duration
		result.Operations = bc.Operations
	}
	if len(bc.Threads) > 0 {
		result.Threads = slices.Clone(bc.Threads)
	}
	if bc.Latency != nil {
		result.Latency = bc.Latency
	}
	return result
}

// Names returns the benchmark names with overrides, sorted.
func (cf *File) Names() []string {
	return slices.Sorted(maps.Keys(cf.Benchmarks))
}

// Validate checks every override.
func (cf *File) Validate() error {
	if err := cf.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	for _, name := range cf.Names() {
		bc := cf.Benchmarks[name]
		if err := bc.Validate(); err != nil {
			return fmt.Errorf("benchmark %q: %w", name, err)
		}
	}
	return nil
}

// Validate checks that the overrides hold possible values.
func (bc BenchmarkConfig) Validate() error {
	if bc.Attempts < 0 {
		return fmt.Errorf("%w: attempts must be non-negative", ErrInvalidOverride)
	}
	if bc.Duration < 0 {
		return fmt.Errorf("%w: duration must be non-negative", ErrInvalidOverride)
	}
	if bc.Operations < 0 {
		return fmt.Errorf("%w: operations must be non-negative", ErrInvalidOverride)
	}
	for _, threads := range bc.Threads {
		if threads <= 0 {
			return fmt.Errorf("%w: threads must be positive", ErrInvalidOverride)
		}
	}
	if bc.Latency != nil {
		params := benchmark.LatencyParams{
			Lowest:      bc.Latency.Lowest,
			Highest:     bc.Latency.Highest,
			Significant: bc.Latency.Significant,
		}
		if !params.Valid() {
			return fmt.Errorf("%w: latency needs lowest >= 1, highest >= 2*lowest and significant in 1..5",
				ErrInvalidOverride)
		}
	}
	return nil
}

// Options converts the overrides to benchmark settings options.
func (bc BenchmarkConfig) Options() []benchmark.SettingsOption {
	var opts []benchmark.SettingsOption
	if bc.Attempts > 0 {
		opts = append(opts, benchmark.WithAttempts(bc.Attempts))
	}
	switch {
	case bc.Duration > 0:
		opts = append(opts, benchmark.WithDuration(bc.Duration))
	case bc.Operations > 0:
		opts = append(opts, benchmark.WithOperations(bc.Operations))
	}
	if len(bc.Threads) > 0 {
		opts = append(opts, benchmark.WithoutThreads())
		for _, threads := range bc.Threads {
			opts = append(opts, benchmark.WithThreads(threads))
		}
	}
	if bc.Latency != nil {
		opts = append(opts, benchmark.WithLatency(bc.Latency.Lowest, bc.Latency.Highest,
			bc.Latency.Significant, bc.Latency.Automatic))
	}
	return opts
}

// Apply applies the overrides for every benchmark in benchmarks and
// returns the number of benchmarks that were changed.
func (cf *File) Apply(benchmarks []benchmark.Benchmark) int {
	changed := 0
	for _, b := range benchmarks {
		opts := cf.GetBenchmarkConfig(b.Name()).Options()
		if len(opts) == 0 {
			continue
		}
		b.Settings().Apply(opts...)
		changed++
	}
	return changed
}
