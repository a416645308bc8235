package benchmark

var defaultLauncher = NewLauncher()

// Default returns the process-wide launcher used by Register and the
// phasebench console.
func Default() *Launcher { return defaultLauncher }

// Register adds a benchmark to the default launcher. It is meant to be
// called from package init functions.
func Register(b Benchmark) { defaultLauncher.AddBenchmark(b) }

// RegisterBuilder adds a benchmark builder to the default launcher.
func RegisterBuilder(builder Builder) { defaultLauncher.AddBenchmarkBuilder(builder) }
