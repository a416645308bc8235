// Package report provides benchmark.Reporter implementations.
//
// This package contains reporters for different output formats:
//   - Console: colored human-readable text for terminals
//   - CSV: one row per phase for spreadsheets and scripts
//   - JSON: a single structured document for tool integration
//   - Markdown: GitHub-flavored tables and mermaid charts for sharing
//   - Collector: a model.Run for the history database
//
// Reporters are driven by benchmark.Launcher.Report or
// benchmark.Executor.Report. Multi fans one report pass out to several
// reporters, e.g. to print results and save them in the same pass.
package report
