package main

import (
	"github.com/phasebench/phasebench/benchmark"
)

// executorRunner measures the cost of timing a dynamic benchmark with
// two nested phases through a private executor.
type executorRunner struct {
	executor *benchmark.Executor
}

func (r *executorRunner) Initialize(*benchmark.Context) { r.executor = benchmark.NewExecutor() }

func (r *executorRunner) Cleanup(ctx *benchmark.Context) {
	ctx.Metrics().SetCustomInt("benchmarks", len(r.executor.Benchmarks()))
	r.executor = nil
}

func (r *executorRunner) Run(*benchmark.Context) {
	scope := r.executor.ScopeBenchmark("calculate")
	outer := scope.StartPhase("calculate.1")
	inner := outer.StartPhase("calculate.1.1")
	inner.StopPhase()
	outer.StopPhase()
	_ = scope.Close()
}

func init() {
	benchmark.Register(benchmark.New("executor.ScopeBenchmark()", &executorRunner{}, nil))
}
