package model

import "time"

// Run is the result of one report pass.
type Run struct {
	// ID identifies the run in the history database (a UUID).
	ID string `json:"id"`

	// Version is the phasebench version that produced the run.
	Version string `json:"version"`

	// CreatedAt is when the report pass started.
	CreatedAt time.Time `json:"created_at"`

	// Host describes the machine and build the benchmarks ran on.
	Host HostInfo `json:"host"`

	// Benchmarks holds one entry per reported benchmark, in report order.
	Benchmarks []BenchmarkResult `json:"benchmarks"`
}

// HostInfo describes the machine a run was measured on.
type HostInfo struct {
	CPUArchitecture   string `json:"cpu_architecture"`
	CPULogicalCores   int    `json:"cpu_logical_cores"`
	CPUPhysicalCores  int    `json:"cpu_physical_cores"`
	CPUClockSpeed     int64  `json:"cpu_clock_speed"`
	CPUHyperThreading bool   `json:"cpu_hyperthreading"`
	RAMTotal          int64  `json:"ram_total"`
	RAMFree           int64  `json:"ram_free"`
	OSVersion         string `json:"os_version"`
	OSBits            int    `json:"os_bits"`
	ProcessBits       int    `json:"process_bits"`

	// Configuration is "debug" or "release".
	Configuration string `json:"configuration"`
}

// BenchmarkResult holds the settings and phase results of one benchmark.
type BenchmarkResult struct {
	Name       string        `json:"name"`
	Attempts   int           `json:"attempts"`
	Duration   time.Duration `json:"duration,omitempty"`
	Operations int64         `json:"operations,omitempty"`

	// Phases lists every phase depth-first, root phases included.
	Phases []PhaseResult `json:"phases"`
}

// PhaseResult is the flattened best-attempt metrics of one phase.
// Times are in nanoseconds.
type PhaseResult struct {
	// Name is the dotted phase path, e.g. "bench(threads:4).thread".
	Name string `json:"name"`

	// Depth is 0 for root phases and grows by one per nesting level.
	Depth int `json:"depth"`

	AvgTime             int64 `json:"avg_time"`
	MinTime             int64 `json:"min_time"`
	MaxTime             int64 `json:"max_time"`
	TotalTime           int64 `json:"total_time"`
	TotalOperations     int64 `json:"total_operations"`
	TotalItems          int64 `json:"total_items"`
	TotalBytes          int64 `json:"total_bytes"`
	OperationsPerSecond int64 `json:"operations_per_second"`
	ItemsPerSecond      int64 `json:"items_per_second"`
	BytesPerSecond      int64 `json:"bytes_per_second"`
	Threads             int   `json:"threads"`

	// Latency is nil when the phase recorded no latency histogram.
	Latency *Latency `json:"latency,omitempty"`

	Custom []CustomValue `json:"custom,omitempty"`
}

// Latency summarizes a latency histogram.
type Latency struct {
	Min  int64   `json:"min"`
	Max  int64   `json:"max"`
	Mean float64 `json:"mean"`
	Stdv float64 `json:"stdv"`
}

// CustomValue is a user-defined phase value rendered as text.
type CustomValue struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Benchmark returns the named benchmark result.
func (r *Run) Benchmark(name string) (*BenchmarkResult, bool) {
	for i := range r.Benchmarks {
		if r.Benchmarks[i].Name == name {
			return &r.Benchmarks[i], true
		}
	}
	return nil, false
}

// Phases returns every phase of every benchmark, keyed by phase name.
// Phase names are unique within a run because they start with the
// benchmark name.
func (r *Run) Phases() map[string]PhaseResult {
	phases := make(map[string]PhaseResult)
	for _, b := range r.Benchmarks {
		for _, p := range b.Phases {
			phases[p.Name] = p
		}
	}
	return phases
}

// PhaseCount returns the number of phases in the run.
func (r *Run) PhaseCount() int {
	n := 0
	for _, b := range r.Benchmarks {
		n += len(b.Phases)
	}
	return n
}

// Roots returns the root phases of the benchmark.
func (b *BenchmarkResult) Roots() []PhaseResult {
	var roots []PhaseResult
	for _, p := range b.Phases {
		if p.Depth == 0 {
			roots = append(roots, p)
		}
	}
	return roots
}
