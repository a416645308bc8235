// Package database provides SQLite-based storage for benchmark run history.
//
// This package implements the HistoryDB, which stores:
//   - Runs: one row per report pass, with the host description and the
//     full run document as JSON
//   - Phases: one row per phase result, indexed by name for trend queries
//
// The database is a single file (modernc.org/sqlite, no cgo) in the
// phasebench data directory, written in WAL mode so that history queries
// do not block a run being saved.
package database
