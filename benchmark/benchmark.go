package benchmark

import (
	"context"

	"github.com/phasebench/phasebench/system"
)

// Single is a benchmark that runs on the launching goroutine.
type Single struct {
	base
	runner Runner
}

// New creates a single-goroutine benchmark. runner may also implement
// Fixture. A nil settings selects the defaults.
func New(name string, runner Runner, settings *Settings) *Single {
	return &Single{base: newBase(name, settings), runner: runner}
}

// NewFunc creates a single-goroutine benchmark from a function.
func NewFunc(name string, fn func(ctx *Context), settings *Settings) *Single {
	return New(name, RunFunc(fn), settings)
}

func (b *Single) countLaunches() int {
	return b.settings.Attempts() * max(1, len(b.settings.params))
}

func (b *Single) launch(ctx context.Context, p *progress) error {
	fixture, _ := b.runner.(Fixture)
	params := b.params()

	for attempt := 1; attempt <= b.settings.Attempts(); attempt++ {
		for _, param := range params {
			c := newContext(param, describeParams(param))
			root := b.rootPhase(&c)
			if err := b.run(ctx, p, &c, root, fixture, attempt); err != nil {
				return err
			}
			if ctx.Err() != nil {
				// A truncated attempt never competes for the best result.
				b.discardMetrics()
				b.finishInterrupted(false)
				return nil
			}
		}
		b.updateMetrics()
	}

	b.finish(false)
	return nil
}

func (b *Single) run(ctx context.Context, p *progress, c *Context, root *PhaseCore, fixture Fixture, attempt int) error {
	stop := watch(ctx, c)
	defer stop()

	p.launching(b, c, attempt)

	latencyAuto := b.settings.LatencyAuto()
	err := protect(func() {
		if fixture != nil {
			fixture.Initialize(c)
		}

		root.initLatencyHistogram(b.settings.Latency())
		root.current.startCollecting()
		limit := newLimiter(b.settings)
		for !c.Canceled() && limit.next() {
			c.metrics.AddOperations(1)
			if latencyAuto {
				started := system.Timestamp()
				b.runner.Run(c)
				c.metrics.AddLatency(system.Timestamp() - started)
				continue
			}
			b.runner.Run(c)
		}
		root.current.stopCollecting()

		if fixture != nil {
			fixture.Cleanup(c)
		}
	})
	if err != nil {
		return err
	}

	p.launched(b, c, attempt)
	return nil
}
