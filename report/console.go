package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/phasebench/phasebench/benchmark"
)

// Console writes human-readable, optionally colored reports.
type Console struct {
	benchmark.NopReporter
	base

	out *errWriter

	separator *color.Color
	label     *color.Color
	name      *color.Color
	count     *color.Color
	faint     *color.Color
	timing    *color.Color
	total     *color.Color
	items     *color.Color
	bytes     *color.Color
	custom    *color.Color
}

// NewConsole creates a console reporter writing to w. Colors follow
// terminal detection unless WithColor is given.
func NewConsole(w io.Writer, opts ...Option) *Console {
	r := &Console{base: newBase(opts), out: &errWriter{w: w}}
	r.separator = r.color(color.FgHiBlack)
	r.label = r.color(color.FgHiWhite)
	r.name = r.color(color.FgHiCyan)
	r.count = r.color(color.FgHiGreen)
	r.faint = r.color(color.FgHiBlack)
	r.timing = r.color(color.FgYellow)
	r.total = r.color(color.FgHiRed)
	r.items = r.color(color.FgHiMagenta)
	r.bytes = r.color(color.FgMagenta)
	r.custom = r.color(color.FgWhite)
	return r
}

func (r *Console) color(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if r.opts.color != nil {
		if *r.opts.color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return c
}

func (r *Console) line(ch byte) {
	r.separator.Fprint(r.out, Separator(ch))
	fmt.Fprintln(r.out)
}

func (r *Console) field(label string, c *color.Color, value string) {
	r.label.Fprint(r.out, label+": ")
	c.Fprint(r.out, value)
	fmt.Fprintln(r.out)
}

func (r *Console) ReportHeader() error {
	r.line('=')
	r.label.Fprint(r.out, "phasebench report. Version "+r.opts.version)
	fmt.Fprintln(r.out)
	return r.out.err
}

func (r *Console) ReportSystem() error {
	info := r.hostInfo()
	r.line('=')
	r.field("CPU architecture", r.name, info.CPUArchitecture)
	r.field("CPU logical cores", r.count, strconv.Itoa(info.CPULogicalCores))
	r.field("CPU physical cores", r.count, strconv.Itoa(info.CPUPhysicalCores))
	r.field("CPU clock speed", r.count, ClockSpeed(info.CPUClockSpeed))
	r.field("CPU Hyper-Threading", r.count, enabled(info.CPUHyperThreading))
	r.field("RAM total", r.timing, DataSize(info.RAMTotal))
	r.field("RAM free", r.timing, DataSize(info.RAMFree))
	return r.out.err
}

func (r *Console) ReportEnvironment() error {
	info := r.hostInfo()
	r.line('=')
	r.field("OS version", r.faint, info.OSVersion)
	r.field("OS bits", r.faint, strconv.Itoa(info.OSBits)+"-bit")
	r.field("Process bits", r.faint, strconv.Itoa(info.ProcessBits)+"-bit")
	r.field("Process configuration", r.faint, info.Configuration())
	r.field("Local timestamp", r.faint, info.Timestamp.Local().Format(time.ANSIC))
	r.field("UTC timestamp", r.faint, info.Timestamp.UTC().Format(time.ANSIC))
	return r.out.err
}

func (r *Console) ReportBenchmark(b benchmark.Benchmark, settings *benchmark.Settings) error {
	r.line('=')
	r.field("Benchmark", r.name, b.Name())
	r.field("Attempts", r.faint, strconv.Itoa(settings.Attempts()))
	if settings.Infinite() {
		r.field("Duration", r.faint, "infinite")
	} else if d := settings.Duration(); d > 0 {
		r.field("Duration", r.faint, strconv.FormatFloat(d.Seconds(), 'f', -1, 64)+" seconds")
	}
	if ops := settings.Operations(); ops > 0 {
		r.field("Operations", r.faint, strconv.FormatInt(ops, 10))
	}
	return r.out.err
}

func (r *Console) ReportPhase(phase *benchmark.PhaseCore, m *benchmark.PhaseMetrics) error {
	r.line('-')
	r.field("Phase", r.name, phase.Name())

	many := m.TotalOperations() > 1
	if many {
		if m.Latency() {
			r.field("Latency (Min)", r.timing, TimePeriod(m.MinLatency())+"/op")
			r.field("Latency (Max)", r.timing, TimePeriod(m.MaxLatency())+"/op")
			r.field("Latency (Mean)", r.timing, TimePeriod(int64(math.Round(m.MeanLatency())))+"/op")
			r.field("Latency (StDv)", r.timing, TimePeriod(int64(math.Round(m.StdvLatency())))+"/op")
		} else {
			r.field("Average time", r.timing, TimePeriod(m.AvgTime())+"/op")
			r.field("Minimal time", r.timing, TimePeriod(m.MinTime())+"/op")
			r.field("Maximal time", r.timing, TimePeriod(m.MaxTime())+"/op")
		}
	}
	r.field("Total time", r.total, TimePeriod(m.TotalTime()))
	if many {
		r.field("Total operations", r.count, strconv.FormatInt(m.TotalOperations(), 10))
	}
	if m.TotalItems() > 0 {
		r.field("Total items", r.items, strconv.FormatInt(m.TotalItems(), 10))
	}
	if m.TotalBytes() > 0 {
		r.field("Total bytes", r.bytes, DataSize(m.TotalBytes()))
	}
	if many {
		r.field("Operations throughput", r.count, strconv.FormatInt(m.OperationsPerSecond(), 10)+" ops/s")
	}
	if m.TotalItems() > 0 {
		r.field("Items throughput", r.items, strconv.FormatInt(m.ItemsPerSecond(), 10)+" items/s")
	}
	if m.TotalBytes() > 0 {
		r.field("Bytes throughput", r.bytes, DataSize(m.BytesPerSecond())+"/s")
	}

	if values := customValues(m); len(values) > 0 {
		r.label.Fprint(r.out, "Custom values:")
		fmt.Fprintln(r.out)
		for _, v := range values {
			r.faint.Fprint(r.out, "\t"+v.name+": ")
			r.custom.Fprint(r.out, v.String())
			fmt.Fprintln(r.out)
		}
	}
	return r.out.err
}

func (r *Console) ReportFooter() error {
	r.line('=')
	return r.out.err
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
