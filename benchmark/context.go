package benchmark

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// launchFlags is shared by every copy of a launch context.
type launchFlags struct {
	canceled       atomic.Bool
	produceStopped atomic.Bool
	consumeStopped atomic.Bool
}

// Context is handed to benchmark code on every call. It carries the
// launch parameters, the metrics of the current phase and the shared
// cancellation flag.
type Context struct {
	x, y, z     int
	description string
	worker      int64

	current *PhaseCore
	metrics *PhaseMetrics
	flags   *launchFlags
}

func newContext(params Params, description string) Context {
	return Context{
		x:           params.X,
		y:           params.Y,
		z:           params.Z,
		description: description,
		flags:       &launchFlags{},
	}
}

// X returns the first input parameter, or -1.
func (c *Context) X() int { return c.x }

// Y returns the second input parameter, or -1.
func (c *Context) Y() int { return c.y }

// Z returns the third input parameter, or -1.
func (c *Context) Z() int { return c.z }

// Worker returns the id of the goroutine the context belongs to.
// The launching goroutine has id 0, workers count from 1.
func (c *Context) Worker() int64 { return c.worker }

// Metrics returns the metrics of the phase in progress.
func (c *Context) Metrics() *PhaseMetrics { return c.metrics }

// Canceled reports whether the launch was canceled.
func (c *Context) Canceled() bool { return c.flags.canceled.Load() }

// Cancel stops the launch. Every goroutine of the launch observes it.
func (c *Context) Cancel() { c.flags.canceled.Store(true) }

// Description returns the parameters of the launch, e.g. "(threads:4,100)".
func (c *Context) Description() string { return c.description }

// String implements fmt.Stringer.
func (c *Context) String() string { return c.description }

// Name implements Phase.
func (c *Context) Name() string { return c.current.Name() }

// StartPhase implements Phase.
func (c *Context) StartPhase(name string) Phase {
	return c.current.startChild(name, c.worker, false)
}

// StartPhaseThreadSafe implements Phase. The child phase is private to
// the calling worker.
func (c *Context) StartPhaseThreadSafe(name string) Phase {
	return c.current.startChild(name, c.worker, true)
}

// StopPhase implements Phase.
func (c *Context) StopPhase() { c.current.StopPhase() }

// ScopePhase implements Phase.
func (c *Context) ScopePhase(name string) *PhaseScope {
	return NewPhaseScope(c.StartPhase(name))
}

// ScopePhaseThreadSafe implements Phase.
func (c *Context) ScopePhaseThreadSafe(name string) *PhaseScope {
	return NewPhaseScope(c.StartPhaseThreadSafe(name))
}

// bind points the context at phase.
func (c *Context) bind(phase *PhaseCore) {
	c.current = phase
	c.metrics = &phase.current
}

// ContextThreads is the context of a multi-goroutine benchmark.
type ContextThreads struct {
	Context
	threads int
}

// Threads returns the number of worker goroutines of the launch.
func (c *ContextThreads) Threads() int { return c.threads }

func (c *ContextThreads) clone(worker int64) *ContextThreads {
	clone := *c
	clone.worker = worker
	return &clone
}

// ContextPC is the context of a producers/consumers benchmark.
type ContextPC struct {
	Context
	producers int
	consumers int
}

// Producers returns the number of producer goroutines.
func (c *ContextPC) Producers() int { return c.producers }

// Consumers returns the number of consumer goroutines.
func (c *ContextPC) Consumers() int { return c.consumers }

// ProduceStopped reports whether production has stopped, either because
// a producer called StopProduce or because every producer finished.
func (c *ContextPC) ProduceStopped() bool { return c.flags.produceStopped.Load() }

// ConsumeStopped reports whether a consumer called StopConsume.
func (c *ContextPC) ConsumeStopped() bool { return c.flags.consumeStopped.Load() }

// StopProduce stops every producer of the launch.
func (c *ContextPC) StopProduce() { c.flags.produceStopped.Store(true) }

// StopConsume stops every consumer of the launch.
func (c *ContextPC) StopConsume() { c.flags.consumeStopped.Store(true) }

func (c *ContextPC) clone(worker int64) *ContextPC {
	clone := *c
	clone.worker = worker
	return &clone
}

// describeParams renders "(x)", "(x,y)" or "(x,y,z)" with optional leading fields.
func describeParams(params Params, fields ...string) string {
	for _, v := range []int{params.X, params.Y, params.Z} {
		if v < 0 {
			break
		}
		fields = append(fields, strconv.Itoa(v))
	}
	if len(fields) == 0 {
		return ""
	}
	return "(" + strings.Join(fields, ",") + ")"
}

func describeThreads(threads int, params Params) string {
	return describeParams(params, "threads:"+strconv.Itoa(threads))
}

func describePC(producers, consumers int, params Params) string {
	return describeParams(params,
		"producers:"+strconv.Itoa(producers),
		"consumers:"+strconv.Itoa(consumers))
}
