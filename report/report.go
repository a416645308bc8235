package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/phasebench/phasebench/benchmark"
	"github.com/phasebench/phasebench/system"
)

// DefaultVersion is reported when no version is configured.
const DefaultVersion = "dev"

// Format names an output format.
type Format string

const (
	// FormatConsole is colored human-readable text.
	FormatConsole Format = "console"
	// FormatCSV is comma-separated values.
	FormatCSV Format = "csv"
	// FormatJSON is a single JSON document.
	FormatJSON Format = "json"
	// FormatMarkdown is GitHub-flavored markdown.
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported output format.
var Formats = []Format{FormatConsole, FormatCSV, FormatJSON, FormatMarkdown}

// ErrUnknownFormat is returned by New for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// New creates the reporter for format writing to w.
func New(format Format, w io.Writer, opts ...Option) (benchmark.Reporter, error) {
	switch format {
	case FormatConsole:
		return NewConsole(w, opts...), nil
	case FormatCSV:
		return NewCSV(w, opts...), nil
	case FormatJSON:
		return NewJSON(w, opts...), nil
	case FormatMarkdown:
		return NewMarkdown(w, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Option configures a reporter. Options that do not apply to a reporter
// are ignored by it.
type Option func(*options)

type options struct {
	version string
	host    *system.Info

	// color is nil when colors follow terminal detection.
	color *bool

	indent       bool
	indentPrefix string
	indentString string
}

// WithVersion sets the version printed in report headers.
func WithVersion(version string) Option {
	return func(o *options) {
		o.version = version
	}
}

// WithHost sets the host information reported instead of a fresh
// system.Snapshot taken when the report starts.
func WithHost(info system.Info) Option {
	return func(o *options) {
		o.host = &info
	}
}

// WithColor forces console colors on or off.
func WithColor(enabled bool) Option {
	return func(o *options) {
		o.color = &enabled
	}
}

// WithIndent enables indented JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) Option {
	return func(o *options) {
		o.indent = true
		o.indentPrefix = prefix
		o.indentString = indent
	}
}

// WithPrettyPrint enables indented JSON with two-space indentation.
func WithPrettyPrint() Option {
	return WithIndent("", "  ")
}

// base provides common functionality for reporters.
type base struct {
	opts options
}

func newBase(opts []Option) base {
	b := base{opts: options{version: DefaultVersion}}
	for _, opt := range opts {
		opt(&b.opts)
	}
	return b
}

// hostInfo returns the configured host information, taking a snapshot
// on first use so that every section of a report agrees.
func (b *base) hostInfo() system.Info {
	if b.opts.host == nil {
		info := system.Snapshot()
		b.opts.host = &info
	}
	return *b.opts.host
}

// errWriter remembers the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// customValue is one user-defined phase value.
type customValue struct {
	name  string
	kind  string
	value any
}

func (v customValue) String() string {
	return fmt.Sprint(v.value)
}

// jsonValue returns the value for JSON documents. NaN and infinities have
// no JSON number form and are written as strings.
func (v customValue) jsonValue() any {
	switch f := v.value.(type) {
	case float32:
		if !finite(float64(f)) {
			return v.String()
		}
	case float64:
		if !finite(f) {
			return v.String()
		}
	}
	return v.value
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// finiteOrZero maps NaN and infinities to 0.
func finiteOrZero(f float64) float64 {
	if !finite(f) {
		return 0
	}
	return f
}

// customValues returns the custom values of m sorted by name. Values of
// different kinds sharing a name keep a fixed kind order.
func customValues(m *benchmark.PhaseMetrics) []customValue {
	var values []customValue
	values = appendCustom(values, "int", m.CustomInt())
	values = appendCustom(values, "uint", m.CustomUint())
	values = appendCustom(values, "int64", m.CustomInt64())
	values = appendCustom(values, "uint64", m.CustomUint64())
	values = appendCustom(values, "float32", m.CustomFloat32())
	values = appendCustom(values, "float64", m.CustomFloat64())
	values = appendCustom(values, "string", m.CustomString())
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].name < values[j].name
	})
	return values
}

func appendCustom[V any](dst []customValue, kind string, src map[string]V) []customValue {
	for name, value := range src {
		dst = append(dst, customValue{name: name, kind: kind, value: value})
	}
	return dst
}

// Multi writes one report pass to several reporters. It stops on the
// first error.
type Multi struct {
	reporters []benchmark.Reporter
}

// NewMulti creates a reporter that forwards to all given reporters.
func NewMulti(reporters ...benchmark.Reporter) *Multi {
	return &Multi{reporters: reporters}
}

func (m *Multi) each(fn func(benchmark.Reporter) error) error {
	for _, r := range m.reporters {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *Multi) ReportHeader() error {
	return m.each(benchmark.Reporter.ReportHeader)
}

func (m *Multi) ReportSystem() error {
	return m.each(benchmark.Reporter.ReportSystem)
}

func (m *Multi) ReportEnvironment() error {
	return m.each(benchmark.Reporter.ReportEnvironment)
}

func (m *Multi) ReportBenchmarksHeader() error {
	return m.each(benchmark.Reporter.ReportBenchmarksHeader)
}

func (m *Multi) ReportBenchmarksFooter() error {
	return m.each(benchmark.Reporter.ReportBenchmarksFooter)
}

func (m *Multi) ReportBenchmarkHeader() error {
	return m.each(benchmark.Reporter.ReportBenchmarkHeader)
}

func (m *Multi) ReportBenchmarkFooter() error {
	return m.each(benchmark.Reporter.ReportBenchmarkFooter)
}

func (m *Multi) ReportBenchmark(b benchmark.Benchmark, settings *benchmark.Settings) error {
	return m.each(func(r benchmark.Reporter) error { return r.ReportBenchmark(b, settings) })
}

func (m *Multi) ReportPhasesHeader() error {
	return m.each(benchmark.Reporter.ReportPhasesHeader)
}

func (m *Multi) ReportPhasesFooter() error {
	return m.each(benchmark.Reporter.ReportPhasesFooter)
}

func (m *Multi) ReportPhaseHeader() error {
	return m.each(benchmark.Reporter.ReportPhaseHeader)
}

func (m *Multi) ReportPhaseFooter() error {
	return m.each(benchmark.Reporter.ReportPhaseFooter)
}

func (m *Multi) ReportPhase(phase *benchmark.PhaseCore, metrics *benchmark.PhaseMetrics) error {
	return m.each(func(r benchmark.Reporter) error { return r.ReportPhase(phase, metrics) })
}

func (m *Multi) ReportFooter() error {
	return m.each(benchmark.Reporter.ReportFooter)
}
