package benchmark

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/phasebench/phasebench/system"
)

// Threads is a benchmark that runs the same body on several goroutines
// at once. Worker goroutines start together behind a barrier.
type Threads struct {
	base
	runner ThreadsRunner
}

// NewThreads creates a multi-goroutine benchmark. runner may also
// implement ThreadsFixture and ThreadFixture. When the settings name no
// thread counts, one worker per physical core is used.
func NewThreads(name string, runner ThreadsRunner, settings *Settings) *Threads {
	return &Threads{base: newBase(name, settings), runner: runner}
}

// NewThreadsFunc creates a multi-goroutine benchmark from a function.
func NewThreadsFunc(name string, fn func(ctx *ContextThreads), settings *Settings) *Threads {
	return NewThreads(name, ThreadsRunFunc(fn), settings)
}

func (b *Threads) threadsPlan() []int {
	plan := b.settings.Threads()
	if len(plan) == 0 {
		plan = []int{system.CPUPhysicalCores()}
	}
	return plan
}

func (b *Threads) countLaunches() int {
	return b.settings.Attempts() * max(1, len(b.settings.threads)) * max(1, len(b.settings.params))
}

func (b *Threads) launch(ctx context.Context, p *progress) error {
	fixture, _ := b.runner.(ThreadsFixture)
	plan := b.threadsPlan()
	params := b.params()

	for attempt := 1; attempt <= b.settings.Attempts(); attempt++ {
		for _, threads := range plan {
			for _, param := range params {
				c := &ContextThreads{
					Context: newContext(param, describeThreads(threads, param)),
					threads: threads,
				}
				root := b.rootPhase(&c.Context)
				if err := b.run(ctx, p, c, root, fixture, attempt); err != nil {
					return err
				}
				if ctx.Err() != nil {
					b.finishInterrupted(true)
					return nil
				}
			}
		}
	}

	b.finish(true)
	return nil
}

func (b *Threads) run(ctx context.Context, p *progress, c *ContextThreads, root *PhaseCore, fixture ThreadsFixture, attempt int) error {
	stop := watch(ctx, &c.Context)
	defer stop()

	p.launching(b, &c.Context, attempt)

	if fixture != nil {
		if err := protect(func() { fixture.Initialize(c) }); err != nil {
			return err
		}
	}

	barrier := NewBarrier(c.threads)
	root.current.startCollecting()
	c.metrics.AddOperations(1)

	var g errgroup.Group
	for i := range c.threads {
		worker := int64(i + 1)
		g.Go(func() error {
			return b.work(c.clone(worker), barrier)
		})
	}
	err := g.Wait()

	root.current.stopCollecting()
	if err != nil {
		return err
	}

	if fixture != nil {
		if err := protect(func() { fixture.Cleanup(c) }); err != nil {
			return err
		}
	}

	p.launched(b, &c.Context, attempt)

	if ctx.Err() != nil {
		root.discardMetrics()
		return nil
	}
	root.updateMetrics()
	return nil
}

// work is the body of one worker goroutine. A worker that fails before
// reaching the barrier still arrives at it so the others are released.
func (b *Threads) work(c *ContextThreads, barrier *Barrier) (err error) {
	arrived := false
	defer func() {
		if err != nil {
			c.Cancel()
		}
		if !arrived {
			barrier.Wait()
		}
	}()

	phase := c.current.startChild("thread", c.worker, true)
	c.bind(phase)
	c.metrics.AddOperations(-1)
	c.metrics.SetThreads(c.threads)
	phase.initLatencyHistogram(b.settings.Latency())

	thread, _ := b.runner.(ThreadFixture)
	latencyAuto := b.settings.LatencyAuto()

	if thread != nil {
		if err := protect(func() { thread.InitializeThread(c) }); err != nil {
			return err
		}
	}

	arrived = true
	barrier.Wait()

	err = protect(func() {
		phase.current.startCollecting()
		limit := newLimiter(b.settings)
		for !c.Canceled() && limit.next() {
			c.metrics.AddOperations(1)
			if latencyAuto {
				started := system.Timestamp()
				b.runner.RunThread(c)
				c.metrics.AddLatency(system.Timestamp() - started)
				continue
			}
			b.runner.RunThread(c)
		}
		phase.current.stopCollecting()

		if thread != nil {
			thread.CleanupThread(c)
		}
	})
	return err
}
