package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/phasebench/phasebench/benchmark"
)

// Markdown writes a GitHub-flavored markdown report when the report pass
// ends: host tables, then per benchmark a settings table, a phase table,
// custom values and a mermaid pie chart of the time spent in child phases.
type Markdown struct {
	benchmark.NopReporter
	base

	out        io.Writer
	printer    *message.Printer
	benchmarks []*mdBenchmark
}

type mdBenchmark struct {
	name     string
	settings [][]string
	phases   [][]string
	custom   [][]string
	charts   []string
}

// NewMarkdown creates a markdown reporter writing to w.
func NewMarkdown(w io.Writer, opts ...Option) *Markdown {
	return &Markdown{
		base:    newBase(opts),
		out:     w,
		printer: message.NewPrinter(language.English),
	}
}

func (r *Markdown) ReportHeader() error {
	r.benchmarks = nil
	return nil
}

func (r *Markdown) ReportBenchmark(b benchmark.Benchmark, settings *benchmark.Settings) error {
	mb := &mdBenchmark{name: b.Name()}
	mb.settings = append(mb.settings, []string{"Attempts", strconv.Itoa(settings.Attempts())})
	switch {
	case settings.Infinite():
		mb.settings = append(mb.settings, []string{"Duration", "infinite"})
	case settings.Duration() > 0:
		mb.settings = append(mb.settings, []string{"Duration", settings.Duration().String()})
	}
	if ops := settings.Operations(); ops > 0 {
		mb.settings = append(mb.settings, []string{"Operations", r.number(ops)})
	}
	r.benchmarks = append(r.benchmarks, mb)
	return nil
}

func (r *Markdown) ReportPhase(phase *benchmark.PhaseCore, m *benchmark.PhaseMetrics) error {
	if len(r.benchmarks) == 0 {
		return nil
	}
	mb := r.benchmarks[len(r.benchmarks)-1]

	perOp := "-"
	if m.TotalOperations() > 1 {
		if m.Latency() {
			perOp = TimePeriod(int64(m.MeanLatency())) + " (mean latency)"
		} else {
			perOp = TimePeriod(m.AvgTime())
		}
	}
	mb.phases = append(mb.phases, []string{
		"`" + phase.Name() + "`",
		perOp,
		TimePeriod(m.TotalTime()),
		r.number(m.TotalOperations()),
		r.number(m.OperationsPerSecond()),
		r.optional(m.TotalItems(), r.number(m.ItemsPerSecond())),
		r.optional(m.TotalBytes(), DataSize(m.BytesPerSecond())+"/s"),
	})

	for _, v := range customValues(m) {
		mb.custom = append(mb.custom, []string{"`" + phase.Name() + "`", v.name, v.String()})
	}

	if chart := r.timeChart(phase); chart != "" {
		mb.charts = append(mb.charts, chart)
	}
	return nil
}

// timeChart returns a pie chart of the total time of the direct children
// of phase in microseconds, or "" when there is nothing to plot.
func (r *Markdown) timeChart(phase *benchmark.PhaseCore) string {
	children := phase.Children()
	if len(children) == 0 {
		return ""
	}
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(phase.Name()+" time (mcs)"),
		piechart.WithShowData(true),
	)
	plotted := 0
	for _, child := range children {
		micros := child.Metrics().TotalTime() / 1000
		if micros <= 0 {
			continue
		}
		chart.LabelAndIntValue(strings.TrimPrefix(child.Name(), phase.Name()+"."), uint64(micros))
		plotted++
	}
	if plotted == 0 {
		return ""
	}
	return chart.String()
}

func (r *Markdown) ReportFooter() error {
	info := r.hostInfo()
	title := cases.Title(language.English)
	md := markdown.NewMarkdown(r.out)

	md.H1("phasebench report")
	md.PlainText("")
	md.PlainText("Version " + r.opts.version)
	md.PlainText("")

	md.H2("System")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"CPU architecture", info.CPUArchitecture},
			{"CPU logical cores", strconv.Itoa(info.CPULogicalCores)},
			{"CPU physical cores", strconv.Itoa(info.CPUPhysicalCores)},
			{"CPU clock speed", ClockSpeed(info.CPUClockSpeed)},
			{"CPU Hyper-Threading", enabled(info.CPUHyperThreading)},
			{"RAM total", DataSize(info.RAMTotal)},
			{"RAM free", DataSize(info.RAMFree)},
		},
	})
	md.PlainText("")

	md.H2("Environment")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"OS version", info.OSVersion},
			{"OS bits", strconv.Itoa(info.OSBits) + "-bit"},
			{"Process bits", strconv.Itoa(info.ProcessBits) + "-bit"},
			{"Process configuration", title.String(info.Configuration())},
			{"UTC timestamp", info.Timestamp.UTC().Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	if len(r.benchmarks) == 0 {
		md.Note("No benchmarks were launched.")
		md.PlainText("")
	}

	for _, mb := range r.benchmarks {
		md.H2("Benchmark: " + mb.name)
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"Setting", "Value"}, Rows: mb.settings})
		md.PlainText("")

		if len(mb.phases) > 0 {
			md.H3("Phases")
			md.PlainText("")
			md.Table(markdown.TableSet{
				Header: []string{"Phase", "Time/op", "Total time", "Operations", "Ops/s", "Items/s", "Bytes/s"},
				Rows:   mb.phases,
			})
			md.PlainText("")
		}

		if len(mb.custom) > 0 {
			md.H3("Custom values")
			md.PlainText("")
			md.Table(markdown.TableSet{Header: []string{"Phase", "Name", "Value"}, Rows: mb.custom})
			md.PlainText("")
		}

		for _, chart := range mb.charts {
			md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart)
			md.PlainText("")
		}
	}

	return md.Build()
}

func (r *Markdown) number(n int64) string {
	return r.printer.Sprintf("%d", n)
}

func (r *Markdown) optional(total int64, value string) string {
	if total <= 0 {
		return "-"
	}
	return value
}
