package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/phasebench/phasebench/internal/model"
)

// FileName is the name of the database file inside its directory.
const FileName = "phasebench.db"

// HistoryDB stores benchmark runs in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist,
// ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store one report pass each, the full run as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		version TEXT NOT NULL,
		created_at TEXT NOT NULL,
		cpu_architecture TEXT,
		os_version TEXT,
		configuration TEXT,
		benchmarks INTEGER NOT NULL DEFAULT 0,
		phases INTEGER NOT NULL DEFAULT 0,
		run_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

	-- Phases store the flattened results for trend queries
	CREATE TABLE IF NOT EXISTS phases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		benchmark TEXT NOT NULL,
		name TEXT NOT NULL,
		depth INTEGER NOT NULL,
		avg_time INTEGER,
		min_time INTEGER,
		max_time INTEGER,
		total_time INTEGER,
		total_operations INTEGER,
		total_items INTEGER,
		total_bytes INTEGER,
		operations_per_second INTEGER,
		items_per_second INTEGER,
		bytes_per_second INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_phases_run ON phases(run_id);
	CREATE INDEX IF NOT EXISTS idx_phases_name ON phases(name);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// createdAtFormat is fixed width so that stored timestamps sort as text.
const createdAtFormat = "2006-01-02 15:04:05.000000000"

// SaveRun stores run and its phases in one transaction.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *model.Run) (err error) {
	runJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to serialize run: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, version, created_at, cpu_architecture, os_version, configuration, benchmarks, phases, run_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Version,
		run.CreatedAt.UTC().Format(createdAtFormat),
		run.Host.CPUArchitecture,
		run.Host.OSVersion,
		run.Host.Configuration,
		len(run.Benchmarks),
		run.PhaseCount(),
		string(runJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO phases (run_id, benchmark, name, depth, avg_time, min_time, max_time, total_time,
		total_operations, total_items, total_bytes, operations_per_second, items_per_second, bytes_per_second)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare phase insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range run.Benchmarks {
		for _, p := range b.Phases {
			_, err = stmt.ExecContext(ctx,
				run.ID, b.Name, p.Name, p.Depth,
				p.AvgTime, p.MinTime, p.MaxTime, p.TotalTime,
				p.TotalOperations, p.TotalItems, p.TotalBytes,
				p.OperationsPerSecond, p.ItemsPerSecond, p.BytesPerSecond,
			)
			if err != nil {
				return fmt.Errorf("failed to save phase %s: %w", p.Name, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by its id or by a unique id prefix.
func (hdb *HistoryDB) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if id == "" {
		return nil, ErrRunNotFound
	}

	rows, err := hdb.db.QueryContext(ctx, `
	SELECT run_json FROM runs
	WHERE id = ? OR id LIKE ? ESCAPE '\'
	ORDER BY id = ? DESC
	LIMIT 2
	`, id, escapeLike(id)+"%", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	switch {
	case len(docs) == 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case len(docs) > 1:
		// An exact match sorts first and wins over longer ids sharing it as prefix.
		exact, err := decodeRun(docs[0])
		if err != nil {
			return nil, err
		}
		if exact.ID == id {
			return exact, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRunID, id)
	default:
		return decodeRun(docs[0])
	}
}

// RunSummary contains summary information about a stored run.
// This is used for listing history without loading full runs.
type RunSummary struct {
	ID              string
	Version         string
	CreatedAt       time.Time
	CPUArchitecture string
	OSVersion       string
	Configuration   string
	Benchmarks      int
	Phases          int
}

// ListRuns returns up to limit run summaries, newest first.
// A limit <= 0 returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := hdb.db.QueryContext(ctx, `
	SELECT id, version, created_at, cpu_architecture, os_version, configuration, benchmarks, phases
	FROM runs
	ORDER BY created_at DESC, rowid DESC
	LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunSummary
	for rows.Next() {
		var s RunSummary
		var createdAt string
		var arch, osVersion, configuration sql.NullString

		if err := rows.Scan(&s.ID, &s.Version, &createdAt, &arch, &osVersion, &configuration,
			&s.Benchmarks, &s.Phases); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}

		s.CreatedAt = parseTimestamp(createdAt)
		s.CPUArchitecture = arch.String
		s.OSVersion = osVersion.String
		s.Configuration = configuration.String
		results = append(results, s)
	}

	return results, rows.Err()
}

// LatestRuns returns up to n full runs, newest first.
func (hdb *HistoryDB) LatestRuns(ctx context.Context, n int) ([]*model.Run, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT run_json FROM runs
	ORDER BY created_at DESC, rowid DESC
	LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run, err := decodeRun(doc)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// PhasePoint is one stored result of a phase.
type PhasePoint struct {
	RunID               string
	CreatedAt           time.Time
	AvgTime             int64
	TotalTime           int64
	TotalOperations     int64
	OperationsPerSecond int64
}

// PhaseHistory returns up to limit stored results of the named phase,
// newest first. A limit <= 0 returns every result.
func (hdb *HistoryDB) PhaseHistory(ctx context.Context, name string, limit int) ([]PhasePoint, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := hdb.db.QueryContext(ctx, `
	SELECT p.run_id, r.created_at, p.avg_time, p.total_time, p.total_operations, p.operations_per_second
	FROM phases p
	JOIN runs r ON r.id = p.run_id
	WHERE p.name = ?
	ORDER BY r.created_at DESC, r.rowid DESC
	LIMIT ?
	`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get phase history: %w", err)
	}
	defer rows.Close()

	var points []PhasePoint
	for rows.Next() {
		var p PhasePoint
		var createdAt string
		if err := rows.Scan(&p.RunID, &createdAt, &p.AvgTime, &p.TotalTime,
			&p.TotalOperations, &p.OperationsPerSecond); err != nil {
			return nil, fmt.Errorf("failed to scan phase point: %w", err)
		}
		p.CreatedAt = parseTimestamp(createdAt)
		points = append(points, p)
	}

	return points, rows.Err()
}

// DeleteRun removes a run and its phases.
func (hdb *HistoryDB) DeleteRun(ctx context.Context, id string) error {
	result, err := hdb.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

func decodeRun(doc string) (*model.Run, error) {
	var run model.Run
	if err := json.Unmarshal([]byte(doc), &run); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}
	return &run, nil
}

// escapeLike escapes the LIKE wildcards of s.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := range len(s) {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	createdAtFormat,        // format written by SaveRun
	"2006-01-02 15:04:05",  // SQLite default datetime format
	"2006-01-02T15:04:05Z", // ISO 8601 with Z suffix
	time.RFC3339Nano,
}

// parseTimestamp attempts to parse a UTC timestamp string using multiple
// formats. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
