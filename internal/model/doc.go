// Package model defines the records phasebench stores and compares.
//
// A Run is one report pass over launched benchmarks: the host it ran on,
// every benchmark with its settings, and the flattened results of every
// phase. Runs are produced by report.Collector, persisted by the database
// package and compared by the console history commands.
//
// The records carry plain values only, so they serialize to JSON and map
// onto database rows without reaching back into the benchmark package.
package model
