package benchmark

import "errors"

var (
	// ErrInvalidPattern is returned when a benchmark filter is not a valid
	// regular expression.
	ErrInvalidPattern = errors.New("invalid benchmark filter pattern")

	// ErrNoBenchmarks is returned by Launch when the filter matches nothing.
	ErrNoBenchmarks = errors.New("no benchmarks match the filter")
)
