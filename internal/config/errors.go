package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so that callers can use
// errors.Is() while users still get a readable message.
var (
	// ErrInvalidOutput is returned when the output format is not one of
	// Outputs.
	ErrInvalidOutput = errors.New("invalid output format: must be console, csv, json or markdown")

	// ErrInvalidHistograms is returned when the histogram resolution is negative.
	// Use 0 to disable histogram files.
	ErrInvalidHistograms = errors.New("invalid histograms resolution: must be non-negative")

	// ErrInvalidFilter is returned when the benchmark filter is not a valid
	// regular expression.
	ErrInvalidFilter = errors.New("invalid benchmark filter")

	// ErrInvalidHistoryLimit is returned when the history limit is negative.
	ErrInvalidHistoryLimit = errors.New("invalid history limit: must be non-negative")

	// ErrInvalidOverride is returned when a configuration file override
	// holds an impossible value.
	ErrInvalidOverride = errors.New("invalid benchmark override")
)
