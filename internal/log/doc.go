// Package log builds the slog loggers of the phasebench console.
//
// Loggers write to stderr so that reports on stdout stay machine
// readable. The Handler wraps any slog.Handler and shortens paths under
// the user's home directory to "~", which keeps saved launch logs
// shareable without exposing account names.
//
// # Usage
//
//	logger := log.New(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("histogram written", "path", "/home/alice/bench/sort.hdr")
//	// path=~/bench/sort.hdr
package log
