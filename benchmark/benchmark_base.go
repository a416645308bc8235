package benchmark

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"time"
)

// Benchmark is a launchable benchmark. It is implemented by the values
// returned from New, NewThreads and NewPC.
type Benchmark interface {
	// Name returns the benchmark name.
	Name() string

	// Settings returns the launch settings.
	Settings() *Settings

	// Phases returns the root phases, one per launch description.
	Phases() []*PhaseCore

	// Launched reports whether the benchmark finished a launch.
	Launched() bool

	countLaunches() int
	launch(ctx context.Context, p *progress) error
	reset()
}

// base carries what every benchmark kind shares.
type base struct {
	name     string
	settings *Settings
	phases   []*PhaseCore
	launched bool
}

func newBase(name string, settings *Settings) base {
	if settings == nil {
		settings = NewSettings()
	}
	return base{name: name, settings: settings}
}

// Name implements Benchmark.
func (b *base) Name() string { return b.name }

// Settings implements Benchmark.
func (b *base) Settings() *Settings { return b.settings }

// Phases implements Benchmark.
func (b *base) Phases() []*PhaseCore { return slices.Clone(b.phases) }

// Launched implements Benchmark.
func (b *base) Launched() bool { return b.launched }

func (b *base) reset() {
	b.phases = nil
	b.launched = false
}

// params returns the input parameters, or a single unset triple.
func (b *base) params() []Params {
	params := b.settings.Params()
	if len(params) == 0 {
		params = []Params{{X: -1, Y: -1, Z: -1}}
	}
	return params
}

// rootPhase finds or creates the root phase for a launch description
// and binds the context to it.
func (b *base) rootPhase(c *Context) *PhaseCore {
	name := b.name + c.description
	for _, phase := range b.phases {
		if phase.name == name {
			c.bind(phase)
			return phase
		}
	}
	phase := newPhaseCore(name, 0)
	b.phases = append(b.phases, phase)
	c.bind(phase)
	return phase
}

func (b *base) updateMetrics() {
	for _, phase := range b.phases {
		phase.updateMetrics()
	}
}

func (b *base) discardMetrics() {
	for _, phase := range b.phases {
		phase.discardMetrics()
	}
}

// finishInterrupted keeps the phases of the launches that completed before
// the launch was interrupted. A benchmark with none stays unlaunched.
func (b *base) finishInterrupted(multi bool) {
	b.phases = slices.DeleteFunc(b.phases, func(p *PhaseCore) bool { return !p.measured() })
	for _, phase := range b.phases {
		phase.pruneUnmeasured()
	}
	if len(b.phases) == 0 {
		b.reset()
		return
	}
	b.finish(multi)
}

// finish merges worker phases and names the tree once all attempts ran.
func (b *base) finish(multi bool) {
	b.phases = mergeThreads(b.phases)
	if multi {
		updateOperations(b.phases)
	}
	updateNames(b.phases)
	b.launched = true
}

// watch cancels the launch when ctx is done. The returned function
// releases the watcher.
func watch(ctx context.Context, c *Context) func() bool {
	return context.AfterFunc(ctx, c.Cancel)
}

// progress tracks launch numbering across all benchmarks of a launcher run.
type progress struct {
	current int
	total   int
	handler LauncherHandler
	logger  *slog.Logger
}

func (p *progress) launching(b Benchmark, c *Context, attempt int) {
	p.current++
	p.logger.Debug("launching benchmark",
		"benchmark", b.Name(),
		"description", c.Description(),
		"attempt", attempt,
		"current", p.current,
		"total", p.total,
	)
	if p.handler != nil {
		p.handler.OnLaunching(p.current, p.total, b, c, attempt)
	}
}

func (p *progress) launched(b Benchmark, c *Context, attempt int) {
	if p.handler != nil {
		p.handler.OnLaunched(p.current, p.total, b, c, attempt)
	}
}

// limiter decides whether a run loop performs another operation.
type limiter struct {
	infinite  bool
	remaining int64
	deadline  time.Time
	timed     bool
}

func newLimiter(s *Settings) limiter {
	l := limiter{infinite: s.infinite, remaining: s.operations}
	if !s.infinite && s.operations == 0 {
		l.timed = true
		l.deadline = time.Now().Add(s.duration)
	}
	return l
}

func (l *limiter) next() bool {
	switch {
	case l.infinite:
		return true
	case l.timed:
		return time.Now().Before(l.deadline)
	case l.remaining > 0:
		l.remaining--
		return true
	default:
		return false
	}
}

// PanicError is returned by Launch when benchmark code panics.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("benchmark panicked: %v", e.Value)
}

// protect runs fn and converts a panic into a *PanicError.
func protect(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	fn()
	return nil
}
