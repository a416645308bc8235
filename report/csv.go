package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/phasebench/phasebench/benchmark"
)

// CSVHeader is the first line of every CSV report.
const CSVHeader = "name,avg_time,min_time,max_time,total_time,total_operations,total_items," +
	"total_bytes,operations_per_second,items_per_second,bytes_per_second," +
	"min_latency,max_latency,mean_latency,stdv_latency"

// CSV writes one row per phase. Times are in nanoseconds; latency columns
// are empty for phases without a latency histogram.
type CSV struct {
	benchmark.NopReporter
	base

	out *errWriter
}

// NewCSV creates a CSV reporter writing to w.
func NewCSV(w io.Writer, opts ...Option) *CSV {
	return &CSV{base: newBase(opts), out: &errWriter{w: w}}
}

func (r *CSV) ReportHeader() error {
	_, err := io.WriteString(r.out, CSVHeader+"\n")
	return err
}

func (r *CSV) ReportPhase(phase *benchmark.PhaseCore, m *benchmark.PhaseMetrics) error {
	fields := []string{
		quote(phase.Name()),
		strconv.FormatInt(m.AvgTime(), 10),
		strconv.FormatInt(m.MinTime(), 10),
		strconv.FormatInt(m.MaxTime(), 10),
		strconv.FormatInt(m.TotalTime(), 10),
		strconv.FormatInt(m.TotalOperations(), 10),
		strconv.FormatInt(m.TotalItems(), 10),
		strconv.FormatInt(m.TotalBytes(), 10),
		strconv.FormatInt(m.OperationsPerSecond(), 10),
		strconv.FormatInt(m.ItemsPerSecond(), 10),
		strconv.FormatInt(m.BytesPerSecond(), 10),
	}
	if m.Latency() {
		fields = append(fields,
			strconv.FormatInt(m.MinLatency(), 10),
			strconv.FormatInt(m.MaxLatency(), 10),
			strconv.FormatFloat(m.MeanLatency(), 'f', 3, 64),
			strconv.FormatFloat(m.StdvLatency(), 'f', 3, 64),
		)
	} else {
		fields = append(fields, "", "", "", "")
	}
	_, err := io.WriteString(r.out, strings.Join(fields, ",")+"\n")
	return err
}

// quote always quotes s, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
