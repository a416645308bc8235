package report

import (
	"github.com/google/uuid"

	"github.com/phasebench/phasebench/benchmark"
	"github.com/phasebench/phasebench/internal/model"
)

// Collector turns a report pass into a model.Run.
type Collector struct {
	benchmark.NopReporter
	base

	run   *model.Run
	depth map[*benchmark.PhaseCore]int
}

// NewCollector creates a collector.
func NewCollector(opts ...Option) *Collector {
	return &Collector{base: newBase(opts)}
}

// Run returns the collected run, or nil before a report pass started.
func (c *Collector) Run() *model.Run {
	return c.run
}

func (c *Collector) ReportHeader() error {
	info := c.hostInfo()
	c.run = &model.Run{
		ID:        uuid.NewString(),
		Version:   c.opts.version,
		CreatedAt: info.Timestamp,
		Host: model.HostInfo{
			CPUArchitecture:   info.CPUArchitecture,
			CPULogicalCores:   info.CPULogicalCores,
			CPUPhysicalCores:  info.CPUPhysicalCores,
			CPUClockSpeed:     info.CPUClockSpeed,
			CPUHyperThreading: info.CPUHyperThreading,
			RAMTotal:          info.RAMTotal,
			RAMFree:           info.RAMFree,
			OSVersion:         info.OSVersion,
			OSBits:            info.OSBits,
			ProcessBits:       info.ProcessBits,
			Configuration:     info.Configuration(),
		},
	}
	return nil
}

func (c *Collector) ReportBenchmark(b benchmark.Benchmark, settings *benchmark.Settings) error {
	if c.run == nil {
		return nil
	}
	c.run.Benchmarks = append(c.run.Benchmarks, model.BenchmarkResult{
		Name:       b.Name(),
		Attempts:   settings.Attempts(),
		Duration:   settings.Duration(),
		Operations: settings.Operations(),
	})
	c.depth = make(map[*benchmark.PhaseCore]int)
	for _, phase := range b.Phases() {
		c.walk(phase, 0)
	}
	return nil
}

func (c *Collector) walk(phase *benchmark.PhaseCore, depth int) {
	c.depth[phase] = depth
	for _, child := range phase.Children() {
		c.walk(child, depth+1)
	}
}

func (c *Collector) ReportPhase(phase *benchmark.PhaseCore, m *benchmark.PhaseMetrics) error {
	if c.run == nil || len(c.run.Benchmarks) == 0 {
		return nil
	}
	result := model.PhaseResult{
		Name:                phase.Name(),
		Depth:               c.depth[phase],
		AvgTime:             m.AvgTime(),
		MinTime:             m.MinTime(),
		MaxTime:             m.MaxTime(),
		TotalTime:           m.TotalTime(),
		TotalOperations:     m.TotalOperations(),
		TotalItems:          m.TotalItems(),
		TotalBytes:          m.TotalBytes(),
		OperationsPerSecond: m.OperationsPerSecond(),
		ItemsPerSecond:      m.ItemsPerSecond(),
		BytesPerSecond:      m.BytesPerSecond(),
		Threads:             m.Threads(),
	}
	if m.Latency() {
		result.Latency = &model.Latency{
			Min:  m.MinLatency(),
			Max:  m.MaxLatency(),
			Mean: finiteOrZero(m.MeanLatency()),
			Stdv: finiteOrZero(m.StdvLatency()),
		}
	}
	for _, v := range customValues(m) {
		result.Custom = append(result.Custom, model.CustomValue{Name: v.name, Kind: v.kind, Value: v.String()})
	}

	last := &c.run.Benchmarks[len(c.run.Benchmarks)-1]
	last.Phases = append(last.Phases, result)
	return nil
}
