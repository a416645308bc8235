package benchmark

import (
	"io"
	"math"
	"slices"
	"sync"
)

// PhaseCore is the node of a benchmark phase tree. It holds the metrics
// of the run in progress (Current) and the merged result of all finished
// runs (Metrics).
type PhaseCore struct {
	mu       sync.Mutex
	name     string
	worker   int64
	children []*PhaseCore

	current PhaseMetrics
	result  PhaseMetrics

	// merged marks a duplicate that was folded into a sibling.
	merged bool
}

func newPhaseCore(name string, worker int64) *PhaseCore {
	p := &PhaseCore{
		name:    name,
		worker:  worker,
		current: newPhaseMetrics(),
		result:  newPhaseMetrics(),
	}
	p.result.totalTime = math.MaxInt64
	return p
}

// Name returns the phase name. After a benchmark finished, child phases
// carry their full dotted path, e.g. "root.child".
func (p *PhaseCore) Name() string { return p.name }

// Worker returns the id of the goroutine that owns the phase.
func (p *PhaseCore) Worker() int64 { return p.worker }

// Children returns the child phases in creation order.
func (p *PhaseCore) Children() []*PhaseCore {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.children)
}

// Metrics returns the merged result metrics.
func (p *PhaseCore) Metrics() *PhaseMetrics { return &p.result }

// Current returns the metrics of the run in progress.
func (p *PhaseCore) Current() *PhaseMetrics { return &p.current }

// StartPhase implements Phase.
func (p *PhaseCore) StartPhase(name string) Phase {
	return p.startChild(name, p.worker, false)
}

// StartPhaseThreadSafe implements Phase. The child is keyed by the
// worker owning p; use Context.StartPhaseThreadSafe to share a phase
// between goroutines.
func (p *PhaseCore) StartPhaseThreadSafe(name string) Phase {
	return p.startChild(name, p.worker, true)
}

// StopPhase implements Phase.
func (p *PhaseCore) StopPhase() {
	p.current.stopCollecting()
}

// ScopePhase implements Phase.
func (p *PhaseCore) ScopePhase(name string) *PhaseScope {
	return NewPhaseScope(p.StartPhase(name))
}

// ScopePhaseThreadSafe implements Phase.
func (p *PhaseCore) ScopePhaseThreadSafe(name string) *PhaseScope {
	return NewPhaseScope(p.StartPhaseThreadSafe(name))
}

// PrintLatencyHistogram writes the latency percentiles of the result metrics.
func (p *PhaseCore) PrintLatencyHistogram(w io.Writer, resolution int32) error {
	return p.result.PrintLatencyHistogram(w, resolution)
}

// startChild finds or creates the child phase, starts collecting and
// counts one operation. Thread-safe lookups match on name and worker.
func (p *PhaseCore) startChild(name string, worker int64, threadSafe bool) *PhaseCore {
	if threadSafe {
		p.mu.Lock()
	}
	child := p.findOrCreate(name, worker, threadSafe)
	if threadSafe {
		p.mu.Unlock()
	}

	child.current.startCollecting()
	child.current.AddOperations(1)
	return child
}

func (p *PhaseCore) findOrCreate(name string, worker int64, byWorker bool) *PhaseCore {
	for _, child := range p.children {
		if child.name == name && (!byWorker || child.worker == worker) {
			return child
		}
	}
	child := newPhaseCore(name, worker)
	p.children = append(p.children, child)
	return child
}

func (p *PhaseCore) initLatencyHistogram(params LatencyParams) {
	p.current.initLatencyHistogram(params)
}

// updateMetrics folds the current metrics of the whole subtree into the
// results and resets them for the next run.
func (p *PhaseCore) updateMetrics() {
	for _, child := range p.children {
		child.updateMetrics()
	}
	p.result.mergeMetrics(&p.current)
	p.current.resetMetrics()
}

// discardMetrics drops the metrics of the run in progress in the subtree.
func (p *PhaseCore) discardMetrics() {
	for _, child := range p.children {
		child.discardMetrics()
	}
	p.current.resetMetrics()
}

// measured reports whether a finished run was merged into the result.
func (p *PhaseCore) measured() bool { return p.result.totalTime != math.MaxInt64 }

// pruneUnmeasured removes child phases that never finished a run.
func (p *PhaseCore) pruneUnmeasured() {
	p.children = slices.DeleteFunc(p.children, func(c *PhaseCore) bool { return !c.measured() })
	for _, child := range p.children {
		child.pruneUnmeasured()
	}
}

// clone deep-copies the subtree.
func (p *PhaseCore) clone() *PhaseCore {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := &PhaseCore{
		name:    p.name,
		worker:  p.worker,
		current: p.current.clone(),
		result:  p.result.clone(),
	}
	for _, child := range p.children {
		c.children = append(c.children, child.clone())
	}
	return c
}

// mergeThreads folds phases with the same name into the first of them,
// moving the children of the duplicates along, and repeats the process
// for every level of the tree.
func mergeThreads(phases []*PhaseCore) []*PhaseCore {
	for i, phase := range phases {
		if phase.merged {
			continue
		}
		for _, next := range phases[i+1:] {
			if next.merged || next.name != phase.name {
				continue
			}
			phase.result.mergeMetrics(&next.result)
			phase.children = append(phase.children, next.children...)
			next.children = nil
			next.merged = true
		}
	}

	phases = slices.DeleteFunc(phases, func(p *PhaseCore) bool { return p.merged })
	for _, phase := range phases {
		phase.children = mergeThreads(phase.children)
	}
	return phases
}

// updateNames gives every phase its full dotted name.
func updateNames(phases []*PhaseCore) {
	for _, phase := range phases {
		phase.rename(phase.name)
	}
}

func (p *PhaseCore) rename(name string) {
	for _, child := range p.children {
		child.rename(name + "." + child.name)
	}
	p.name = name
}

// updateOperations makes the root operation count of a multi-goroutine
// benchmark the sum of the work its worker phases did.
func updateOperations(phases []*PhaseCore) {
	for _, root := range phases {
		var total int64
		for _, child := range root.children {
			total += int64(child.result.threads) * child.result.totalOperations
		}
		if total > 0 {
			root.result.totalOperations += total - 1
		}
	}
}
