package console

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/phasebench/phasebench/internal/database"
	"github.com/phasebench/phasebench/internal/model"
)

// seedComparison saves a base and a target run covering every verdict.
func seedComparison(t *testing.T) string {
	t.Helper()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return seedHistory(t,
		newTestRun("base-run-0001", base, map[string]int64{
			"copy": 200, "same": 100, "sort": 100, "old": 50,
		}),
		newTestRun("target-run-0002", base.Add(time.Hour), map[string]int64{
			"copy": 100, "same": 102, "sort": 150, "new": 70,
		}),
	)
}

func TestCompareCmd(t *testing.T) {
	dir := seedComparison(t)

	t.Run("text", func(t *testing.T) {
		stdout, _, err := executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"base-run", "target-r", "REGRESSED", "IMPROVED", "+50.00%", "-50.00%", "new", "gone",
			"Improved: 1  Regressed: 1  Unchanged: 1  Added: 1  Removed: 1"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected %q in %q", want, stdout)
			}
		}
		if strings.Contains(stdout, "UNCHANGED") {
			t.Errorf("expected unchanged phases to be hidden, got %q", stdout)
		}
	})

	t.Run("all", func(t *testing.T) {
		stdout, _, err := executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir, "--all")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "UNCHANGED") {
			t.Errorf("expected unchanged phases, got %q", stdout)
		}
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir, "--json", "base", "target")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var result ComparisonResult
		if err := json.Unmarshal([]byte(stdout), &result); err != nil {
			t.Fatalf("expected JSON, got %q: %v", stdout, err)
		}
		if result.BaseRun.ID != "base-run-0001" || result.TargetRun.ID != "target-run-0002" {
			t.Errorf("unexpected runs %s and %s", result.BaseRun.ID, result.TargetRun.ID)
		}
		expected := []PhaseChange{
			{Name: "copy", Base: 200, Target: 100, Change: -50, Verdict: "IMPROVED"},
			{Name: "new", Target: 70, Verdict: "ADDED"},
			{Name: "old", Base: 50, Verdict: "REMOVED"},
			{Name: "sort", Base: 100, Target: 150, Change: 50, Verdict: "REGRESSED"},
		}
		if diff := cmp.Diff(expected, result.Phases, cmpopts.IgnoreUnexported(PhaseChange{})); diff != "" {
			t.Errorf("phases mismatch (-expected +got):\n%s", diff)
		}
		if result.Summary["unchanged"] != 1 {
			t.Errorf("expected 1 unchanged phase, got %d", result.Summary["unchanged"])
		}
	})

	t.Run("markdown", func(t *testing.T) {
		stdout, _, err := executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir, "--markdown")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"# Run Comparison", "## Summary", "## Phases", "**REGRESSED**", "`sort`"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected %q in %q", want, stdout)
			}
		}
	})

	t.Run("threshold hides small changes", func(t *testing.T) {
		stdout, _, err := executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir, "-t", "60")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(stdout, "REGRESSED") || strings.Contains(stdout, "IMPROVED") {
			t.Errorf("expected no verdicts beyond 60%%, got %q", stdout)
		}
	})

	t.Run("fail on regression", func(t *testing.T) {
		_, _, err := executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir, "--fail-on-regression")
		if !errors.Is(err, ErrRegression) {
			t.Errorf("expected ErrRegression, got %v", err)
		}
	})

	t.Run("single argument compares with the latest run", func(t *testing.T) {
		stdout, _, err := executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir, "--json", "base")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, `"target-run-0002"`) {
			t.Errorf("expected the latest run as target, got %q", stdout)
		}
	})

	t.Run("latest run as base", func(t *testing.T) {
		if _, _, err := executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir, "target"); err == nil {
			t.Error("expected an error comparing the latest run with itself")
		}
	})

	t.Run("unknown run", func(t *testing.T) {
		_, _, err := executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir, "missing", "target")
		if !errors.Is(err, database.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("exclusive formats", func(t *testing.T) {
		if _, _, err := executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir, "--json", "--markdown"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestCompareNeedsTwoRuns(t *testing.T) {
	dir := seedHistory(t, newTestRun("only", time.Now().UTC(), map[string]int64{"sort": 100}))

	_, _, err := executeRoot(t, newTestLauncher(), "compare", "--db-dir", dir)
	if err == nil || !strings.Contains(err.Error(), "at least 2") {
		t.Errorf("expected an at least 2 runs error, got %v", err)
	}
}

func TestNewComparisonResult(t *testing.T) {
	t.Parallel()

	base := newTestRun("a", time.Now(), map[string]int64{"x": 100})
	target := newTestRun("b", time.Now(), map[string]int64{"x": 100})
	result := newComparisonResult(base, target, model.Compare(base, target, 0), 0, false)

	if result.Threshold != model.DefaultThreshold {
		t.Errorf("expected the default threshold, got %v", result.Threshold)
	}
	if len(result.Phases) != 0 {
		t.Errorf("expected unchanged phases to be dropped, got %v", result.Phases)
	}
	if result.Summary["unchanged"] != 1 {
		t.Errorf("expected 1 unchanged phase, got %v", result.Summary)
	}
}
