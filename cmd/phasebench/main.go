// Package main provides the entry point for the phasebench CLI.
//
// The binary carries a set of example benchmarks covering every benchmark
// kind: single-goroutine benchmarks with fixtures and parameters,
// multi-goroutine benchmarks, producers/consumers queues and dynamic
// benchmarks measured through an executor.
//
// Usage:
//
//	phasebench
//	phasebench run -f 'sort.*' -o csv
//	phasebench list --settings
//
// See --help for all available options.
package main

import "github.com/phasebench/phasebench/console"

// main is the entry point for phasebench.
func main() {
	console.Execute()
}
