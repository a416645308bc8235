package console

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/phasebench/phasebench/internal/database"
	"github.com/phasebench/phasebench/internal/model"
)

// newTestRun returns a run whose phases take the given time per operation.
func newTestRun(id string, createdAt time.Time, phases map[string]int64) *model.Run {
	result := model.BenchmarkResult{Name: "suite", Attempts: 1, Operations: 100}
	for name, avg := range phases {
		result.Phases = append(result.Phases, model.PhaseResult{
			Name:                name,
			AvgTime:             avg,
			TotalTime:           avg * 100,
			TotalOperations:     100,
			OperationsPerSecond: 1_000_000_000 / avg,
			Threads:             1,
		})
	}
	return &model.Run{
		ID:         id,
		Version:    "v1.0.0",
		CreatedAt:  createdAt,
		Host:       model.HostInfo{CPUArchitecture: "test-cpu", OSVersion: "TestOS", Configuration: "release"},
		Benchmarks: []model.BenchmarkResult{result},
	}
}

// seedHistory saves runs into a new database and returns its directory.
func seedHistory(t *testing.T, runs ...*model.Run) string {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	for _, run := range runs {
		if err := db.SaveRun(context.Background(), run); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}
	return dir
}

func TestHistoryCmd(t *testing.T) {
	base := time.Now().Add(-2 * time.Hour).UTC()
	dir := seedHistory(t,
		newTestRun("aaaaaaaa-1111", base, map[string]int64{"sort": 100}),
		newTestRun("bbbbbbbb-2222", base.Add(time.Hour), map[string]int64{"sort": 120}),
	)

	t.Run("lists runs newest first", func(t *testing.T) {
		stdout, _, err := executeRoot(t, newTestLauncher(), "history", "--db-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first := strings.Index(stdout, "bbbbbbbb")
		second := strings.Index(stdout, "aaaaaaaa")
		if first < 0 || second < 0 || first > second {
			t.Errorf("expected bbbbbbbb before aaaaaaaa, got %q", stdout)
		}
		if strings.Contains(stdout, "-2222") {
			t.Errorf("expected ids to be shortened, got %q", stdout)
		}
		if !strings.Contains(stdout, "hour ago") || !strings.Contains(stdout, "2 run(s)") {
			t.Errorf("expected ages and a count, got %q", stdout)
		}
	})

	t.Run("limit", func(t *testing.T) {
		stdout, _, err := executeRoot(t, newTestLauncher(), "history", "--db-dir", dir, "-n", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(stdout, "aaaaaaaa") {
			t.Errorf("expected only the newest run, got %q", stdout)
		}
	})

	t.Run("phase history", func(t *testing.T) {
		stdout, _, err := executeRoot(t, newTestLauncher(), "history", "--db-dir", dir, "--phase", "sort")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"120 ns", "100 ns", "10,000,000"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected %q in %q", want, stdout)
			}
		}
	})

	t.Run("unknown phase", func(t *testing.T) {
		stdout, _, err := executeRoot(t, newTestLauncher(), "history", "--db-dir", dir, "--phase", "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No saved results") {
			t.Errorf("expected an empty notice, got %q", stdout)
		}
	})

	t.Run("negative limit", func(t *testing.T) {
		if _, _, err := executeRoot(t, newTestLauncher(), "history", "--db-dir", dir, "-n", "-1"); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("missing database", func(t *testing.T) {
		_, _, err := executeRoot(t, newTestLauncher(), "history", "--db-dir", t.TempDir())
		if !errors.Is(err, database.ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
	})
}

func TestHistoryDelete(t *testing.T) {
	dir := seedHistory(t, newTestRun("cccccccc-3333", time.Now().UTC(), map[string]int64{"sort": 100}))

	stdout, _, err := executeRoot(t, newTestLauncher(), "history", "--db-dir", dir, "--delete", "cccc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Deleted run cccccccc-3333") {
		t.Errorf("expected a confirmation, got %q", stdout)
	}

	stdout, _, err = executeRoot(t, newTestLauncher(), "history", "--db-dir", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "No saved runs") {
		t.Errorf("expected an empty history, got %q", stdout)
	}

	_, _, err = executeRoot(t, newTestLauncher(), "history", "--db-dir", dir, "--delete", "cccc")
	if !errors.Is(err, database.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestShortID(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"":                                     "",
		"abc":                                  "abc",
		"0f8fad5b-d9cb-469f-a165-70867728950e": "0f8fad5b",
	}
	for input, expected := range testCases {
		if got := shortID(input); got != expected {
			t.Errorf("shortID(%q): expected %q, got %q", input, expected, got)
		}
	}
}

func TestSaveAndCompareRuns(t *testing.T) {
	dir := t.TempDir()

	for range 2 {
		_, stderr, err := executeRoot(t, newTestLauncher(), "run", "-o", "csv", "--save", "--db-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr, "Saved run") {
			t.Errorf("expected a saved notice, got %q", stderr)
		}
	}

	stdout, _, err := executeRoot(t, newTestLauncher(), "history", "--db-dir", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "2 run(s)") {
		t.Errorf("expected 2 runs, got %q", stdout)
	}

	stdout, _, err = executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir, "--all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "noop") || !strings.Contains(stdout, "spin") {
		t.Errorf("expected both phases compared, got %q", stdout)
	}
}
