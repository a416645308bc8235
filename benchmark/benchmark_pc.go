package benchmark

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/phasebench/phasebench/system"
)

// PC is a producers/consumers benchmark. Producers run until their
// operation or time limit is reached or StopProduce is called; consumers
// run until StopConsume is called or the launch is canceled.
type PC struct {
	base
	runner PCRunner
}

// NewPC creates a producers/consumers benchmark. runner may also
// implement PCFixture, ProducerFixture and ConsumerFixture. When the
// settings name no combinations, one producer and one consumer are used.
func NewPC(name string, runner PCRunner, settings *Settings) *PC {
	return &PC{base: newBase(name, settings), runner: runner}
}

func (b *PC) pcPlan() []PCPair {
	plan := b.settings.PC()
	if len(plan) == 0 {
		plan = []PCPair{{Producers: 1, Consumers: 1}}
	}
	return plan
}

func (b *PC) countLaunches() int {
	return b.settings.Attempts() * max(1, len(b.settings.pc)) * max(1, len(b.settings.params))
}

func (b *PC) launch(ctx context.Context, p *progress) error {
	fixture, _ := b.runner.(PCFixture)
	plan := b.pcPlan()
	params := b.params()

	for attempt := 1; attempt <= b.settings.Attempts(); attempt++ {
		for _, pair := range plan {
			for _, param := range params {
				c := &ContextPC{
					Context:   newContext(param, describePC(pair.Producers, pair.Consumers, param)),
					producers: pair.Producers,
					consumers: pair.Consumers,
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

func (b *PC) run(ctx context.Context, p *progress, c *ContextPC, root *PhaseCore, fixture PCFixture, attempt int) error {
	stop := watch(ctx, &c.Context)
	defer stop()

	p.launching(b, &c.Context, attempt)

	if fixture != nil {
		if err := protect(func() { fixture.Initialize(c) }); err != nil {
			return err
		}
	}

	barrier := NewBarrier(c.producers + c.consumers)
	root.current.startCollecting()
	c.metrics.AddOperations(1)

	var producing sync.WaitGroup
	producing.Add(c.producers)

	var g errgroup.Group
	for i := range c.producers {
		worker := int64(i + 1)
		g.Go(func() error {
			defer producing.Done()
			return b.produce(c.clone(worker), barrier)
		})
	}
	for i := range c.consumers {
		worker := int64(c.producers + i + 1)
		g.Go(func() error {
			return b.consume(c.clone(worker), barrier)
		})
	}
	g.Go(func() error {
		producing.Wait()
		c.StopProduce()
		return nil
	})
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

// worker prepares the phase of a producer or consumer goroutine.
func (b *PC) worker(c *ContextPC, name string, threads int) *PhaseCore {
	phase := c.current.startChild(name, c.worker, true)
	c.bind(phase)
	c.metrics.AddOperations(-1)
	c.metrics.SetThreads(threads)
	phase.initLatencyHistogram(b.settings.Latency())
	return phase
}

func (b *PC) produce(c *ContextPC, barrier *Barrier) (err error) {
	arrived := false
	defer func() {
		if err != nil {
			c.Cancel()
		}
		if !arrived {
			barrier.Wait()
		}
	}()

	phase := b.worker(c, "producer", c.producers)
	fixture, _ := b.runner.(ProducerFixture)
	latencyAuto := b.settings.LatencyAuto()

	if fixture != nil {
		if err := protect(func() { fixture.InitializeProducer(c) }); err != nil {
			return err
		}
	}

	arrived = true
	barrier.Wait()

	err = protect(func() {
		phase.current.startCollecting()
		limit := newLimiter(b.settings)
		for !c.ProduceStopped() && !c.Canceled() && limit.next() {
			c.metrics.AddOperations(1)
			if latencyAuto {
				started := system.Timestamp()
				b.runner.RunProducer(c)
				c.metrics.AddLatency(system.Timestamp() - started)
				continue
			}
			b.runner.RunProducer(c)
		}
		phase.current.stopCollecting()

		if fixture != nil {
			fixture.CleanupProducer(c)
		}
	})
	return err
}

func (b *PC) consume(c *ContextPC, barrier *Barrier) (err error) {
	arrived := false
	defer func() {
		if err != nil {
			c.Cancel()
		}
		if !arrived {
			barrier.Wait()
		}
	}()

	phase := b.worker(c, "consumer", c.consumers)
	fixture, _ := b.runner.(ConsumerFixture)
	latencyAuto := b.settings.LatencyAuto()

	if fixture != nil {
		if err := protect(func() { fixture.InitializeConsumer(c) }); err != nil {
			return err
		}
	}

	arrived = true
	barrier.Wait()

	err = protect(func() {
		phase.current.startCollecting()
		for !c.ConsumeStopped() && !c.Canceled() {
			c.metrics.AddOperations(1)
			if latencyAuto {
				started := system.Timestamp()
				b.runner.RunConsumer(c)
				c.metrics.AddLatency(system.Timestamp() - started)
				continue
			}
			b.runner.RunConsumer(c)
		}
		phase.current.stopCollecting()

		if fixture != nil {
			fixture.CleanupConsumer(c)
		}
	})
	return err
}
