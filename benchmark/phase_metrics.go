package benchmark

import (
	"io"
	"maps"
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/phasebench/phasebench/system"
)

// PhaseMetrics accumulates the measurements of one phase: timing,
// operation/item/byte counters, user supplied custom values and an
// optional latency histogram.
//
// A PhaseMetrics is owned by a single goroutine while a benchmark runs.
type PhaseMetrics struct {
	histogram *hdrhistogram.Histogram

	minTime         int64
	maxTime         int64
	totalTime       int64
	totalOperations int64
	totalItems      int64
	totalBytes      int64

	customInt     map[string]int
	customUint    map[string]uint
	customInt64   map[string]int64
	customUint64  map[string]uint64
	customFloat32 map[string]float32
	customFloat64 map[string]float64
	customString  map[string]string

	threads int

	iterstamp int64
	timestamp int64
}

func newPhaseMetrics() PhaseMetrics {
	return PhaseMetrics{
		minTime: math.MaxInt64,
		maxTime: math.MinInt64,
		threads: 1,
	}
}

// Latency reports whether latency is being recorded.
func (m *PhaseMetrics) Latency() bool { return m.histogram != nil }

// MinLatency returns the lowest recorded latency in nanoseconds.
func (m *PhaseMetrics) MinLatency() int64 {
	if m.histogram == nil {
		return 0
	}
	return m.histogram.Min()
}

// MaxLatency returns the highest recorded latency in nanoseconds.
func (m *PhaseMetrics) MaxLatency() int64 {
	if m.histogram == nil {
		return 0
	}
	return m.histogram.Max()
}

// MeanLatency returns the mean recorded latency in nanoseconds.
func (m *PhaseMetrics) MeanLatency() float64 {
	if m.histogram == nil {
		return 0
	}
	return m.histogram.Mean()
}

// StdvLatency returns the standard deviation of recorded latencies.
func (m *PhaseMetrics) StdvLatency() float64 {
	if m.histogram == nil {
		return 0
	}
	return m.histogram.StdDev()
}

// AvgTime returns the average time of one operation in nanoseconds.
func (m *PhaseMetrics) AvgTime() int64 {
	if m.totalOperations <= 0 {
		return 0
	}
	return m.totalTime / m.totalOperations
}

// MinTime returns the fastest per-operation time in nanoseconds.
func (m *PhaseMetrics) MinTime() int64 { return m.minTime }

// MaxTime returns the slowest per-operation time in nanoseconds.
func (m *PhaseMetrics) MaxTime() int64 { return m.maxTime }

// TotalTime returns the total measured time in nanoseconds.
func (m *PhaseMetrics) TotalTime() int64 { return m.totalTime }

// TotalOperations returns the number of measured operations.
func (m *PhaseMetrics) TotalOperations() int64 { return m.totalOperations }

// TotalItems returns the number of processed items.
func (m *PhaseMetrics) TotalItems() int64 { return m.totalItems }

// TotalBytes returns the number of processed bytes.
func (m *PhaseMetrics) TotalBytes() int64 { return m.totalBytes }

// OperationsPerSecond returns the operation throughput.
func (m *PhaseMetrics) OperationsPerSecond() int64 { return m.perSecond(m.totalOperations) }

// ItemsPerSecond returns the item throughput.
func (m *PhaseMetrics) ItemsPerSecond() int64 { return m.perSecond(m.totalItems) }

// BytesPerSecond returns the byte throughput.
func (m *PhaseMetrics) BytesPerSecond() int64 { return m.perSecond(m.totalBytes) }

func (m *PhaseMetrics) perSecond(value int64) int64 {
	if m.totalTime <= 0 || value <= 0 {
		return 0
	}
	result := system.MulDiv64(uint64(value), 1000000000, uint64(m.totalTime))
	if result > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(result)
}

// CustomInt returns the custom int values.
func (m *PhaseMetrics) CustomInt() map[string]int { return maps.Clone(m.customInt) }

// CustomUint returns the custom uint values.
func (m *PhaseMetrics) CustomUint() map[string]uint { return maps.Clone(m.customUint) }

// CustomInt64 returns the custom int64 values.
func (m *PhaseMetrics) CustomInt64() map[string]int64 { return maps.Clone(m.customInt64) }

// CustomUint64 returns the custom uint64 values.
func (m *PhaseMetrics) CustomUint64() map[string]uint64 { return maps.Clone(m.customUint64) }

// CustomFloat32 returns the custom float32 values.
func (m *PhaseMetrics) CustomFloat32() map[string]float32 { return maps.Clone(m.customFloat32) }

// CustomFloat64 returns the custom float64 values.
func (m *PhaseMetrics) CustomFloat64() map[string]float64 { return maps.Clone(m.customFloat64) }

// CustomString returns the custom string values.
func (m *PhaseMetrics) CustomString() map[string]string { return maps.Clone(m.customString) }

// HasCustom reports whether any custom value is set.
func (m *PhaseMetrics) HasCustom() bool {
	return len(m.customInt) > 0 || len(m.customUint) > 0 || len(m.customInt64) > 0 ||
		len(m.customUint64) > 0 || len(m.customFloat32) > 0 || len(m.customFloat64) > 0 ||
		len(m.customString) > 0
}

// Threads returns the number of threads that produced these metrics.
func (m *PhaseMetrics) Threads() int { return m.threads }

// AddOperations adds to the operation counter. Negative values are allowed.
func (m *PhaseMetrics) AddOperations(operations int64) { m.totalOperations += operations }

// AddItems adds to the item counter.
func (m *PhaseMetrics) AddItems(items int64) { m.totalItems += items }

// AddBytes adds to the byte counter.
func (m *PhaseMetrics) AddBytes(bytes int64) { m.totalBytes += bytes }

// AddLatency records one latency sample in nanoseconds. It does nothing
// when no latency histogram is configured.
func (m *PhaseMetrics) AddLatency(latency int64) {
	if m.histogram != nil {
		_ = m.histogram.RecordValue(latency)
	}
}

// SetCustomInt sets a custom int value.
func (m *PhaseMetrics) SetCustomInt(name string, value int) {
	if m.customInt == nil {
		m.customInt = make(map[string]int)
	}
	m.customInt[name] = value
}

// SetCustomUint sets a custom uint value.
func (m *PhaseMetrics) SetCustomUint(name string, value uint) {
	if m.customUint == nil {
		m.customUint = make(map[string]uint)
	}
	m.customUint[name] = value
}

// SetCustomInt64 sets a custom int64 value.
func (m *PhaseMetrics) SetCustomInt64(name string, value int64) {
	if m.customInt64 == nil {
		m.customInt64 = make(map[string]int64)
	}
	m.customInt64[name] = value
}

// SetCustomUint64 sets a custom uint64 value.
func (m *PhaseMetrics) SetCustomUint64(name string, value uint64) {
	if m.customUint64 == nil {
		m.customUint64 = make(map[string]uint64)
	}
	m.customUint64[name] = value
}

// SetCustomFloat32 sets a custom float32 value.
func (m *PhaseMetrics) SetCustomFloat32(name string, value float32) {
	if m.customFloat32 == nil {
		m.customFloat32 = make(map[string]float32)
	}
	m.customFloat32[name] = value
}

// SetCustomFloat64 sets a custom float64 value.
func (m *PhaseMetrics) SetCustomFloat64(name string, value float64) {
	if m.customFloat64 == nil {
		m.customFloat64 = make(map[string]float64)
	}
	m.customFloat64[name] = value
}

// SetCustomString sets a custom string value.
func (m *PhaseMetrics) SetCustomString(name string, value string) {
	if m.customString == nil {
		m.customString = make(map[string]string)
	}
	m.customString[name] = value
}

// SetThreads sets the number of threads that produce these metrics.
func (m *PhaseMetrics) SetThreads(threads int) { m.threads = threads }

// PrintLatencyHistogram writes the percentile distribution of the latency
// histogram. resolution is the number of ticks per half distance.
func (m *PhaseMetrics) PrintLatencyHistogram(w io.Writer, resolution int32) error {
	if m.histogram == nil {
		return nil
	}
	_, err := m.histogram.PercentilesPrint(w, resolution, 1.0)
	return err
}

// initLatencyHistogram replaces the histogram. Invalid parameters leave
// the metrics without a histogram.
func (m *PhaseMetrics) initLatencyHistogram(params LatencyParams) {
	m.histogram = nil
	if !params.Valid() {
		return
	}
	m.histogram = hdrhistogram.New(params.Lowest, params.Highest, params.Significant)
}

func (m *PhaseMetrics) startCollecting() {
	m.iterstamp = m.totalOperations
	m.timestamp = system.Timestamp()
}

func (m *PhaseMetrics) stopCollecting() {
	operations := m.totalOperations - m.iterstamp
	duration := system.Timestamp() - m.timestamp

	if operations > 0 {
		perOperation := duration / operations
		if perOperation < m.minTime {
			m.minTime = perOperation
		}
		if perOperation > m.maxTime {
			m.maxTime = perOperation
		}
	}
	m.totalTime += duration
}

// idle reports whether the metrics were never collected.
func (m *PhaseMetrics) idle() bool {
	return m.totalTime == 0 && m.totalOperations == 0
}

// mergeMetrics folds other into m. Min and max times widen, custom values
// are united, and when other has the lower total time its counters,
// histogram, custom values and threads win.
func (m *PhaseMetrics) mergeMetrics(other *PhaseMetrics) {
	if other.idle() {
		return
	}

	if other.minTime < m.minTime {
		m.minTime = other.minTime
	}
	if other.maxTime > m.maxTime {
		m.maxTime = other.maxTime
	}

	better := other.totalTime < m.totalTime
	m.customInt = mergeCustom(m.customInt, other.customInt, better)
	m.customUint = mergeCustom(m.customUint, other.customUint, better)
	m.customInt64 = mergeCustom(m.customInt64, other.customInt64, better)
	m.customUint64 = mergeCustom(m.customUint64, other.customUint64, better)
	m.customFloat32 = mergeCustom(m.customFloat32, other.customFloat32, better)
	m.customFloat64 = mergeCustom(m.customFloat64, other.customFloat64, better)
	m.customString = mergeCustom(m.customString, other.customString, better)

	if better {
		m.histogram, other.histogram = other.histogram, m.histogram
		m.totalTime = other.totalTime
		m.totalOperations = other.totalOperations
		m.totalItems = other.totalItems
		m.totalBytes = other.totalBytes
		m.threads = other.threads
	}
}

func mergeCustom[V any](dst, src map[string]V, overwrite bool) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	for k, v := range src {
		if _, ok := dst[k]; !ok || overwrite {
			dst[k] = v
		}
	}
	return dst
}

func (m *PhaseMetrics) resetMetrics() {
	*m = newPhaseMetrics()
}

// clone returns a deep copy of m.
func (m *PhaseMetrics) clone() PhaseMetrics {
	c := *m
	if m.histogram != nil {
		c.histogram = hdrhistogram.Import(m.histogram.Export())
	}
	c.customInt = maps.Clone(m.customInt)
	c.customUint = maps.Clone(m.customUint)
	c.customInt64 = maps.Clone(m.customInt64)
	c.customUint64 = maps.Clone(m.customUint64)
	c.customFloat32 = maps.Clone(m.customFloat32)
	c.customFloat64 = maps.Clone(m.customFloat64)
	c.customString = maps.Clone(m.customString)
	return c
}
