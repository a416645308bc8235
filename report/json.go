package report

import (
	"encoding/json"
	"io"

	"github.com/phasebench/phasebench/benchmark"
)

// JSON collects a whole report pass and writes it as one document when
// the report ends.
type JSON struct {
	benchmark.NopReporter
	base

	out io.Writer
	doc jsonDocument
}

// NewJSON creates a JSON reporter writing to w. Output is compact unless
// WithIndent or WithPrettyPrint is given.
func NewJSON(w io.Writer, opts ...Option) *JSON {
	return &JSON{base: newBase(opts), out: w}
}

type jsonDocument struct {
	Version     string            `json:"version"`
	System      *jsonSystem       `json:"system,omitempty"`
	Environment *jsonEnvironment  `json:"environment,omitempty"`
	Benchmarks  []jsonBenchmarkEl `json:"benchmarks"`
}

type jsonSystem struct {
	CPUArchitecture   string `json:"cpu_architecture"`
	CPULogicalCores   int    `json:"cpu_logical_cores"`
	CPUPhysicalCores  int    `json:"cpu_physical_cores"`
	CPUClockSpeed     int64  `json:"cpu_clock_speed"`
	CPUHyperThreading bool   `json:"cpu_hyper_threading"`
	RAMTotal          int64  `json:"ram_total"`
	RAMFree           int64  `json:"ram_free"`
}

type jsonEnvironment struct {
	Is64BitOS      bool   `json:"is_64_bit_os"`
	Is32BitOS      bool   `json:"is_32_bit_os"`
	Is64BitProcess bool   `json:"is_64_bit_process"`
	Is32BitProcess bool   `json:"is_32_bit_process"`
	IsDebug        bool   `json:"is_debug"`
	IsRelease      bool   `json:"is_release"`
	OSVersion      string `json:"os_version"`
	Timestamp      int64  `json:"timestamp"`
}

type jsonBenchmarkEl struct {
	Benchmark *jsonBenchmark `json:"benchmark"`
}

type jsonBenchmark struct {
	Name       string        `json:"name"`
	Attempts   int           `json:"attempts"`
	Infinite   bool          `json:"infinite,omitempty"`
	Duration   float64       `json:"duration,omitempty"`
	Operations int64         `json:"operations,omitempty"`
	Phases     []jsonPhaseEl `json:"phases"`
}

type jsonPhaseEl struct {
	Phase jsonPhase `json:"phase"`
}

// jsonPhase mirrors the console sections: optional fields are only
// present when the console would print them.
type jsonPhase struct {
	Name                string           `json:"name"`
	MinLatency          *int64           `json:"min_latency,omitempty"`
	MaxLatency          *int64           `json:"max_latency,omitempty"`
	MeanLatency         *float64         `json:"mean_latency,omitempty"`
	StdvLatency         *float64         `json:"stdv_latency,omitempty"`
	AvgTime             *int64           `json:"avg_time,omitempty"`
	MinTime             *int64           `json:"min_time,omitempty"`
	MaxTime             *int64           `json:"max_time,omitempty"`
	TotalTime           int64            `json:"total_time"`
	TotalOperations     *int64           `json:"total_operations,omitempty"`
	TotalItems          *int64           `json:"total_items,omitempty"`
	TotalBytes          *int64           `json:"total_bytes,omitempty"`
	OperationsPerSecond *int64           `json:"operations_per_second,omitempty"`
	ItemsPerSecond      *int64           `json:"items_per_second,omitempty"`
	BytesPerSecond      *int64           `json:"bytes_per_second,omitempty"`
	Custom              []map[string]any `json:"custom"`
}

func (r *JSON) ReportHeader() error {
	r.doc = jsonDocument{Version: r.opts.version, Benchmarks: []jsonBenchmarkEl{}}
	return nil
}

func (r *JSON) ReportSystem() error {
	info := r.hostInfo()
	r.doc.System = &jsonSystem{
		CPUArchitecture:   info.CPUArchitecture,
		CPULogicalCores:   info.CPULogicalCores,
		CPUPhysicalCores:  info.CPUPhysicalCores,
		CPUClockSpeed:     info.CPUClockSpeed,
		CPUHyperThreading: info.CPUHyperThreading,
		RAMTotal:          info.RAMTotal,
		RAMFree:           info.RAMFree,
	}
	return nil
}

func (r *JSON) ReportEnvironment() error {
	info := r.hostInfo()
	r.doc.Environment = &jsonEnvironment{
		Is64BitOS:      info.OSBits == 64,
		Is32BitOS:      info.OSBits == 32,
		Is64BitProcess: info.ProcessBits == 64,
		Is32BitProcess: info.ProcessBits == 32,
		IsDebug:        info.Debug,
		IsRelease:      !info.Debug,
		OSVersion:      info.OSVersion,
		Timestamp:      info.Timestamp.Unix(),
	}
	return nil
}

func (r *JSON) ReportBenchmark(b benchmark.Benchmark, settings *benchmark.Settings) error {
	jb := &jsonBenchmark{
		Name:       b.Name(),
		Attempts:   settings.Attempts(),
		Infinite:   settings.Infinite(),
		Duration:   settings.Duration().Seconds(),
		Operations: settings.Operations(),
		Phases:     []jsonPhaseEl{},
	}
	r.doc.Benchmarks = append(r.doc.Benchmarks, jsonBenchmarkEl{Benchmark: jb})
	return nil
}

func (r *JSON) ReportPhase(phase *benchmark.PhaseCore, m *benchmark.PhaseMetrics) error {
	p := jsonPhase{
		Name:      phase.Name(),
		TotalTime: m.TotalTime(),
		Custom:    []map[string]any{},
	}
	if m.TotalOperations() > 1 {
		if m.Latency() {
			p.MinLatency = ptr(m.MinLatency())
			p.MaxLatency = ptr(m.MaxLatency())
			p.MeanLatency = ptr(finiteOrZero(m.MeanLatency()))
			p.StdvLatency = ptr(finiteOrZero(m.StdvLatency()))
		} else {
			p.AvgTime = ptr(m.AvgTime())
			p.MinTime = ptr(m.MinTime())
			p.MaxTime = ptr(m.MaxTime())
		}
		p.TotalOperations = ptr(m.TotalOperations())
		p.OperationsPerSecond = ptr(m.OperationsPerSecond())
	}
	if m.TotalItems() > 0 {
		p.TotalItems = ptr(m.TotalItems())
		p.ItemsPerSecond = ptr(m.ItemsPerSecond())
	}
	if m.TotalBytes() > 0 {
		p.TotalBytes = ptr(m.TotalBytes())
		p.BytesPerSecond = ptr(m.BytesPerSecond())
	}
	for _, v := range customValues(m) {
		p.Custom = append(p.Custom, map[string]any{v.name: v.jsonValue()})
	}

	if n := len(r.doc.Benchmarks); n > 0 {
		last := r.doc.Benchmarks[n-1].Benchmark
		last.Phases = append(last.Phases, jsonPhaseEl{Phase: p})
	}
	return nil
}

func (r *JSON) ReportFooter() error {
	enc := json.NewEncoder(r.out)
	if r.opts.indent {
		enc.SetIndent(r.opts.indentPrefix, r.opts.indentString)
	}
	return enc.Encode(r.doc)
}

func ptr[T any](v T) *T {
	return &v
}
