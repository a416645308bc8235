package benchmark

import (
	"context"
	"sync"
)

// Executor measures code that is not structured as a benchmark: any
// goroutine can start and stop a named dynamic benchmark around the code
// it wants to measure. Concurrent measurements of the same name are kept
// apart and merged when reported.
type Executor struct {
	mu    sync.Mutex
	names []string
	slots map[string]*executorSlots
}

type executorSlots struct {
	active []*dynamicPhase
	idle   []*PhaseCore
	all    []*PhaseCore
}

// NewExecutor creates an empty Executor.
func NewExecutor() *Executor {
	return &Executor{slots: make(map[string]*executorSlots)}
}

// StartBenchmark starts measuring the named dynamic benchmark and returns
// its phase. Child phases started on it are private to the caller until
// the phase is stopped. A slot is handed out again only after its phase
// was stopped.
func (e *Executor) StartBenchmark(name string) Phase {
	e.mu.Lock()
	slots, ok := e.slots[name]
	if !ok {
		slots = &executorSlots{}
		e.slots[name] = slots
		e.names = append(e.names, name)
	}
	var slot *PhaseCore
	if n := len(slots.idle); n > 0 {
		slot = slots.idle[n-1]
		slots.idle = slots.idle[:n-1]
	} else {
		slot = newPhaseCore(name, int64(len(slots.all)+1))
		slots.all = append(slots.all, slot)
	}
	phase := &dynamicPhase{PhaseCore: slot, executor: e}
	slots.active = append(slots.active, phase)
	e.mu.Unlock()

	slot.current.startCollecting()
	slot.current.AddOperations(1)
	return phase
}

// StopBenchmark stops the named dynamic benchmark when exactly one
// measurement of it is running. With several running it does nothing:
// goroutines measuring the same name concurrently stop the Phase returned
// by StartBenchmark instead.
func (e *Executor) StopBenchmark(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	slots, ok := e.slots[name]
	if !ok || len(slots.active) != 1 {
		return
	}
	e.release(slots, slots.active[0])
}

// ScopeBenchmark starts the named dynamic benchmark and returns a scope
// that stops it on Close.
func (e *Executor) ScopeBenchmark(name string) *PhaseScope {
	return NewPhaseScope(e.StartBenchmark(name))
}

// release stops phase and returns its slot to the idle pool. A phase is
// released once; later calls do nothing. Callers hold e.mu.
func (e *Executor) release(slots *executorSlots, phase *dynamicPhase) {
	if phase.stopped {
		return
	}
	for i, active := range slots.active {
		if active == phase {
			slots.active = append(slots.active[:i], slots.active[i+1:]...)
			phase.stopped = true
			phase.current.stopCollecting()
			slots.idle = append(slots.idle, phase.PhaseCore)
			return
		}
	}
}

// Benchmarks returns a snapshot of every dynamic benchmark measured so
// far. Measurements still running are not included.
func (e *Executor) Benchmarks() []Benchmark {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]Benchmark, 0, len(e.names))
	for _, name := range e.names {
		slots := e.slots[name]
		var phases []*PhaseCore
		for _, slot := range slots.idle {
			snapshot := slot.clone()
			snapshot.updateMetrics()
			phases = append(phases, snapshot)
		}
		if len(phases) == 0 {
			continue
		}
		phases = mergeThreads(phases)
		updateNames(phases)
		result = append(result, &dynamicBenchmark{
			base: base{
				name:     name,
				settings: NewSettings(WithAttempts(1)),
				phases:   phases,
				launched: true,
			},
		})
	}
	return result
}

// Report writes the dynamic benchmarks to r.
func (e *Executor) Report(r Reporter) error {
	return report(r, e.Benchmarks(), Benchmark.Settings)
}

// dynamicPhase is one measurement of a dynamic benchmark. It releases
// its executor slot when stopped.
type dynamicPhase struct {
	*PhaseCore
	executor *Executor

	// stopped is guarded by executor.mu.
	stopped bool
}

// StopPhase implements Phase.
func (p *dynamicPhase) StopPhase() {
	p.executor.mu.Lock()
	defer p.executor.mu.Unlock()
	if slots, ok := p.executor.slots[p.PhaseCore.name]; ok {
		p.executor.release(slots, p)
	}
}

// dynamicBenchmark is the reportable snapshot of an executor benchmark.
type dynamicBenchmark struct {
	base
}

func (b *dynamicBenchmark) countLaunches() int { return 0 }

func (b *dynamicBenchmark) launch(context.Context, *progress) error { return nil }

func (b *dynamicBenchmark) reset() {}

var defaultExecutor = NewExecutor()

// DefaultExecutor returns the process-wide executor.
func DefaultExecutor() *Executor { return defaultExecutor }

// StartBenchmark starts a dynamic benchmark on the default executor.
func StartBenchmark(name string) Phase { return defaultExecutor.StartBenchmark(name) }

// StopBenchmark stops a dynamic benchmark on the default executor.
func StopBenchmark(name string) { defaultExecutor.StopBenchmark(name) }

// ScopeBenchmark starts a scoped dynamic benchmark on the default executor.
func ScopeBenchmark(name string) *PhaseScope { return defaultExecutor.ScopeBenchmark(name) }
