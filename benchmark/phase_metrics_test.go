package benchmark

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPhaseMetricsDefaults(t *testing.T) {
	t.Parallel()

	m := newPhaseMetrics()

	if m.Threads() != 1 {
		t.Errorf("expected 1 thread, got %d", m.Threads())
	}
	if m.MinTime() != math.MaxInt64 {
		t.Errorf("expected min time MaxInt64, got %d", m.MinTime())
	}
	if m.MaxTime() != math.MinInt64 {
		t.Errorf("expected max time MinInt64, got %d", m.MaxTime())
	}
	if m.AvgTime() != 0 {
		t.Errorf("expected avg time 0, got %d", m.AvgTime())
	}
	if m.OperationsPerSecond() != 0 {
		t.Errorf("expected 0 operations per second, got %d", m.OperationsPerSecond())
	}
	if m.Latency() {
		t.Error("expected no latency histogram")
	}
	if m.HasCustom() {
		t.Error("expected no custom values")
	}
}

func TestPhaseMetricsThroughput(t *testing.T) {
	t.Parallel()

	m := newPhaseMetrics()
	m.totalTime = 2000000000
	m.AddOperations(10)
	m.AddItems(1000)
	m.AddBytes(4096)

	if got := m.AvgTime(); got != 200000000 {
		t.Errorf("expected avg time 200000000, got %d", got)
	}
	if got := m.OperationsPerSecond(); got != 5 {
		t.Errorf("expected 5 operations per second, got %d", got)
	}
	if got := m.ItemsPerSecond(); got != 500 {
		t.Errorf("expected 500 items per second, got %d", got)
	}
	if got := m.BytesPerSecond(); got != 2048 {
		t.Errorf("expected 2048 bytes per second, got %d", got)
	}
}

func TestPhaseMetricsCollecting(t *testing.T) {
	t.Parallel()

	m := newPhaseMetrics()
	m.startCollecting()
	m.AddOperations(4)
	m.stopCollecting()

	if m.TotalTime() < 0 {
		t.Errorf("expected non-negative total time, got %d", m.TotalTime())
	}
	if m.MinTime() > m.MaxTime() {
		t.Errorf("expected min time %d <= max time %d", m.MinTime(), m.MaxTime())
	}
	if m.TotalOperations() != 4 {
		t.Errorf("expected 4 operations, got %d", m.TotalOperations())
	}
}

func TestPhaseMetricsMerge(t *testing.T) {
	t.Parallel()

	t.Run("lower total time wins", func(t *testing.T) {
		t.Parallel()

		result := newPhaseMetrics()
		result.totalTime = 100
		result.minTime, result.maxTime = 5, 20
		result.AddOperations(10)
		result.SetCustomInt("shared", 1)
		result.SetCustomString("kept", "result")

		better := newPhaseMetrics()
		better.totalTime = 50
		better.minTime, better.maxTime = 2, 10
		better.AddOperations(20)
		better.AddItems(7)
		better.SetThreads(4)
		better.SetCustomInt("shared", 2)
		better.SetCustomInt("added", 3)

		result.mergeMetrics(&better)

		if result.TotalTime() != 50 || result.TotalOperations() != 20 || result.TotalItems() != 7 {
			t.Errorf("expected counters of the better run, got time=%d ops=%d items=%d",
				result.TotalTime(), result.TotalOperations(), result.TotalItems())
		}
		if result.MinTime() != 2 || result.MaxTime() != 20 {
			t.Errorf("expected min 2 and max 20, got %d and %d", result.MinTime(), result.MaxTime())
		}
		if result.Threads() != 4 {
			t.Errorf("expected 4 threads, got %d", result.Threads())
		}
		if diff := cmp.Diff(map[string]int{"shared": 2, "added": 3}, result.CustomInt()); diff != "" {
			t.Errorf("custom int mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(map[string]string{"kept": "result"}, result.CustomString()); diff != "" {
			t.Errorf("custom string mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("higher total time only adds custom values", func(t *testing.T) {
		t.Parallel()

		result := newPhaseMetrics()
		result.totalTime = 50
		result.AddOperations(20)
		result.SetCustomFloat64("shared", 1.5)

		worse := newPhaseMetrics()
		worse.totalTime = 100
		worse.AddOperations(10)
		worse.SetCustomFloat64("shared", 2.5)
		worse.SetCustomFloat64("added", 3.5)

		result.mergeMetrics(&worse)

		if result.TotalTime() != 50 || result.TotalOperations() != 20 {
			t.Errorf("expected counters to be kept, got time=%d ops=%d", result.TotalTime(), result.TotalOperations())
		}
		if diff := cmp.Diff(map[string]float64{"shared": 1.5, "added": 3.5}, result.CustomFloat64()); diff != "" {
			t.Errorf("custom float mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("first merge into a fresh result copies the run", func(t *testing.T) {
		t.Parallel()

		p := newPhaseCore("root", 0)
		p.current.totalTime = 42
		p.current.AddOperations(3)
		p.updateMetrics()

		if p.Metrics().TotalTime() != 42 || p.Metrics().TotalOperations() != 3 {
			t.Errorf("expected time 42 and 3 operations, got %d and %d",
				p.Metrics().TotalTime(), p.Metrics().TotalOperations())
		}
		if p.Current().TotalOperations() != 0 {
			t.Errorf("expected current metrics to be reset, got %d operations", p.Current().TotalOperations())
		}
	})

	t.Run("idle metrics are ignored", func(t *testing.T) {
		t.Parallel()

		result := newPhaseMetrics()
		result.totalTime = 50
		result.AddOperations(5)

		idle := newPhaseMetrics()
		result.mergeMetrics(&idle)

		if result.TotalTime() != 50 || result.TotalOperations() != 5 {
			t.Errorf("expected result unchanged, got time=%d ops=%d", result.TotalTime(), result.TotalOperations())
		}
	})
}

func TestPhaseMetricsLatency(t *testing.T) {
	t.Parallel()

	t.Run("invalid parameters disable the histogram", func(t *testing.T) {
		t.Parallel()
		m := newPhaseMetrics()
		m.initLatencyHistogram(LatencyParams{})
		m.AddLatency(100)
		if m.Latency() {
			t.Error("expected no histogram")
		}
		if m.MinLatency() != 0 || m.MaxLatency() != 0 || m.MeanLatency() != 0 || m.StdvLatency() != 0 {
			t.Error("expected zero latency statistics without a histogram")
		}
	})

	t.Run("records samples", func(t *testing.T) {
		t.Parallel()
		m := newPhaseMetrics()
		m.initLatencyHistogram(LatencyParams{Lowest: 1, Highest: 1000000000, Significant: 3})
		for _, v := range []int64{100, 200, 300} {
			m.AddLatency(v)
		}
		if !m.Latency() {
			t.Fatal("expected a histogram")
		}
		if m.MinLatency() != 100 {
			t.Errorf("expected min latency 100, got %d", m.MinLatency())
		}
		if m.MaxLatency() < 300 || m.MaxLatency() > 301 {
			t.Errorf("expected max latency about 300, got %d", m.MaxLatency())
		}
		if m.MeanLatency() < 199 || m.MeanLatency() > 201 {
			t.Errorf("expected mean latency about 200, got %f", m.MeanLatency())
		}

		var buf bytes.Buffer
		if err := m.PrintLatencyHistogram(&buf, 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() == 0 {
			t.Error("expected percentile output")
		}
	})

	t.Run("clone copies the histogram", func(t *testing.T) {
		t.Parallel()
		m := newPhaseMetrics()
		m.initLatencyHistogram(LatencyParams{Lowest: 1, Highest: 1000000, Significant: 2})
		m.AddLatency(50)
		c := m.clone()
		m.AddLatency(5000)
		if c.MaxLatency() >= 5000 {
			t.Errorf("expected clone to be independent, got max latency %d", c.MaxLatency())
		}
	})

	t.Run("reset drops the histogram", func(t *testing.T) {
		t.Parallel()
		m := newPhaseMetrics()
		m.initLatencyHistogram(LatencyParams{Lowest: 1, Highest: 1000000, Significant: 2})
		m.SetCustomUint64("x", 1)
		m.resetMetrics()
		if m.Latency() || m.HasCustom() {
			t.Error("expected reset metrics")
		}
	})
}
