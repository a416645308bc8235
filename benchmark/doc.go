// Package benchmark is a micro-benchmark framework with hierarchical
// phase timing.
//
// A benchmark is created with New (one goroutine), NewThreads (several
// goroutines running the same body) or NewPC (producer and consumer
// goroutines) and configured with Settings: how many attempts to make,
// whether a launch is limited by operations, by time or runs until
// canceled, which thread counts or producer/consumer combinations and
// which x/y/z input parameters to launch with, and whether to record a
// latency histogram.
//
// Every launch runs under a root phase named after the benchmark and its
// parameters. Benchmark code may open nested phases through the Context
// it receives; each phase accumulates time, operation, item and byte
// counters and custom values in PhaseMetrics. Of all attempts, the one
// with the lowest total time is kept.
//
// A Launcher filters and runs benchmarks and hands their results to a
// Reporter (see the report package). The Executor measures code that is
// not shaped as a benchmark.
//
//	var sorter = benchmark.NewFunc("sort", func(ctx *benchmark.Context) {
//		data := make([]int, ctx.X())
//		slices.Sort(data)
//		ctx.Metrics().AddItems(int64(len(data)))
//	}, benchmark.NewSettings(benchmark.WithParamRange(1000, 1000000)))
//
//	func init() { benchmark.Register(sorter) }
package benchmark
