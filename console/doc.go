// Package console implements the phasebench command line launcher.
//
// A benchmark binary registers its benchmarks with benchmark.Register and
// calls Execute from main:
//
//	func main() {
//		console.Execute()
//	}
//
// Without a subcommand every registered benchmark is launched and
// reported to stdout, like "phasebench run". Further commands list the
// registered benchmarks, browse and compare saved runs, and write a
// starter configuration file.
package console
