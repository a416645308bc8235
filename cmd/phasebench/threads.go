package main

import (
	"sync"
	"sync/atomic"

	"github.com/phasebench/phasebench/benchmark"
)

// threadsSettings launches with 1, 2, 4 and 8 worker goroutines.
func threadsSettings() *benchmark.Settings {
	return benchmark.NewSettings(benchmark.WithThreadsSelector(1, 8, benchmark.Multiply(2)))
}

type atomicCounter struct{ counter atomic.Int64 }

func (c *atomicCounter) Initialize(*benchmark.ContextThreads) { c.counter.Store(0) }
func (c *atomicCounter) Cleanup(ctx *benchmark.ContextThreads) {
	ctx.Metrics().SetCustomInt64("counter", c.counter.Load())
}
func (c *atomicCounter) RunThread(*benchmark.ContextThreads) { c.counter.Add(1) }

type mutexCounter struct {
	mu      sync.Mutex
	counter int64
}

func (c *mutexCounter) Initialize(*benchmark.ContextThreads) { c.counter = 0 }
func (c *mutexCounter) Cleanup(ctx *benchmark.ContextThreads) {
	ctx.Metrics().SetCustomInt64("counter", c.counter)
}

func (c *mutexCounter) RunThread(*benchmark.ContextThreads) {
	c.mu.Lock()
	c.counter++
	c.mu.Unlock()
}

// localCounter counts on every worker without sharing.
type localCounter struct{}

func (localCounter) RunThread(ctx *benchmark.ContextThreads) { ctx.Metrics().AddItems(1) }

func init() {
	benchmark.Register(benchmark.NewThreads("counter.local", localCounter{}, threadsSettings()))
	benchmark.Register(benchmark.NewThreads("counter.atomic", &atomicCounter{}, threadsSettings()))
	benchmark.Register(benchmark.NewThreads("counter.mutex", &mutexCounter{}, threadsSettings()))
}
