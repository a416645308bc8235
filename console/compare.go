package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/phasebench/phasebench/internal/database"
	"github.com/phasebench/phasebench/internal/model"
	"github.com/phasebench/phasebench/report"
)

// ErrRegression is returned by compare --fail-on-regression when a phase
// got slower than the threshold allows.
var ErrRegression = errors.New("performance regression detected")

// NewCompareCmd creates the compare command.
// This command compares two runs stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [base-run] [target-run]",
		Short: "Compare two saved runs phase by phase",
		Long: `Compare shows how the time per operation of every phase changed between
two saved runs.

Runs are named by id or by any unique id prefix. Without arguments the two
most recent runs are compared; with one argument that run is compared
against the most recent one.

A phase counts as improved or regressed when its time per operation moved
by more than the threshold (default 5%). Phases present in only one of
the runs are shown as new or gone.

Examples:
  # Compare the two most recent runs
  phasebench compare

  # Compare a baseline with the most recent run
  phasebench compare 0f8fad5b

  # Compare two runs with a 10% threshold in Markdown
  phasebench compare --threshold 10 --markdown 0f8fad5b 7c9e6679

  # Fail a CI job on regressions
  phasebench compare --fail-on-regression`,
		Args: cobra.MaximumNArgs(2),
		RunE: runCompareCmd,
	}

	cmd.Flags().Float64P("threshold", "t", model.DefaultThreshold,
		"Relative change in percent treated as noise")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.Flags().BoolP("all", "a", false,
		"Include unchanged phases in the output")

	cmd.Flags().Bool("fail-on-regression", false,
		"Exit with an error when any phase regressed")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	threshold, err := cmd.Flags().GetFloat64("threshold")
	if err != nil {
		return err
	}
	if threshold < 0 {
		return fmt.Errorf("invalid threshold %v: must be non-negative", threshold)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	failOnRegression, err := cmd.Flags().GetBool("fail-on-regression")
	if err != nil {
		return err
	}

	db, err := openHistory(getDBDir(cmd))
	if err != nil {
		return err
	}
	defer db.Close()

	base, target, err := selectRuns(cmd.Context(), db, args)
	if err != nil {
		return err
	}

	comparison := model.Compare(base, target, threshold)
	result := newComparisonResult(base, target, comparison, threshold, all)

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		err = outputComparisonJSON(out, result)
	case markdownOutput:
		err = outputComparisonMarkdown(out, result)
	default:
		err = outputComparisonText(out, result)
	}
	if err != nil {
		return err
	}

	if failOnRegression && comparison.HasRegressions() {
		return fmt.Errorf("%w: %d phase(s)", ErrRegression, comparison.Count(model.VerdictRegressed))
	}
	return nil
}

// selectRuns resolves the base and target runs from the arguments.
func selectRuns(ctx context.Context, db *database.HistoryDB, args []string) (base, target *model.Run, err error) {
	switch len(args) {
	case 2:
		if base, err = db.GetRun(ctx, args[0]); err != nil {
			return nil, nil, fmt.Errorf("base run: %w", err)
		}
		if target, err = db.GetRun(ctx, args[1]); err != nil {
			return nil, nil, fmt.Errorf("target run: %w", err)
		}
		return base, target, nil
	case 1:
		if base, err = db.GetRun(ctx, args[0]); err != nil {
			return nil, nil, fmt.Errorf("base run: %w", err)
		}
		latest, err := db.LatestRuns(ctx, 1)
		if err != nil {
			return nil, nil, err
		}
		if len(latest) == 0 {
			return nil, nil, database.ErrRunNotFound
		}
		if latest[0].ID == base.ID {
			return nil, nil, fmt.Errorf("run %s is the most recent run; name a target run", shortID(base.ID))
		}
		return base, latest[0], nil
	default:
		latest, err := db.LatestRuns(ctx, 2)
		if err != nil {
			return nil, nil, err
		}
		if len(latest) < 2 {
			return nil, nil, fmt.Errorf("at least 2 saved runs are required for comparison (found %d)", len(latest))
		}
		return latest[1], latest[0], nil
	}
}

// ComparisonResult holds the result of comparing two runs for display.
type ComparisonResult struct {
	// BaseRun and TargetRun describe the compared runs.
	BaseRun   RunMetadata `json:"base_run"`
	TargetRun RunMetadata `json:"target_run"`

	// Threshold is the relative change in percent treated as noise.
	Threshold float64 `json:"threshold"`

	// Phases lists the compared phases sorted by name.
	Phases []PhaseChange `json:"phases"`

	// Summary counts the phases per verdict.
	Summary map[string]int `json:"summary"`
}

// RunMetadata contains metadata about a run for comparison display.
type RunMetadata struct {
	ID              string    `json:"id"`
	Version         string    `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	CPUArchitecture string    `json:"cpu_architecture"`
	Configuration   string    `json:"configuration"`
}

// PhaseChange is one row of the comparison.
type PhaseChange struct {
	Name    string  `json:"name"`
	Base    int64   `json:"base_ns_per_op"`
	Target  int64   `json:"target_ns_per_op"`
	Change  float64 `json:"change_percent"`
	Verdict string  `json:"verdict"`

	verdict model.Verdict
}

// newComparisonResult builds the display form of c. Unchanged phases
// are dropped unless all is set; the summary always counts every phase.
func newComparisonResult(base, target *model.Run, c *model.Comparison, threshold float64, all bool) *ComparisonResult {
	if threshold <= 0 {
		threshold = model.DefaultThreshold
	}
	result := &ComparisonResult{
		BaseRun:   runMetadata(base),
		TargetRun: runMetadata(target),
		Threshold: threshold,
		Phases:    []PhaseChange{},
		Summary:   make(map[string]int),
	}

	for _, v := range []model.Verdict{
		model.VerdictImproved, model.VerdictRegressed, model.VerdictUnchanged,
		model.VerdictAdded, model.VerdictRemoved,
	} {
		result.Summary[strings.ToLower(v.String())] = c.Count(v)
	}

	for _, d := range c.Deltas {
		if d.Verdict == model.VerdictUnchanged && !all {
			continue
		}
		result.Phases = append(result.Phases, PhaseChange{
			Name:    d.Name,
			Base:    d.Base,
			Target:  d.Target,
			Change:  d.Change,
			Verdict: d.Verdict.String(),
			verdict: d.Verdict,
		})
	}
	return result
}

func runMetadata(run *model.Run) RunMetadata {
	return RunMetadata{
		ID:              run.ID,
		Version:         run.Version,
		CreatedAt:       run.CreatedAt,
		CPUArchitecture: run.Host.CPUArchitecture,
		Configuration:   run.Host.Configuration,
	}
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(w io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText outputs the comparison result as a text table.
func outputComparisonText(w io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(w, "Run Comparison (threshold %s)\n", formatPercent(result.Threshold, false))
	fmt.Fprintln(w, report.Separator('='))
	fmt.Fprintf(w, "Base run:   %s  %s  %s\n", shortID(result.BaseRun.ID),
		result.BaseRun.CreatedAt.Local().Format(time.DateTime), result.BaseRun.Version)
	fmt.Fprintf(w, "Target run: %s  %s  %s\n", shortID(result.TargetRun.ID),
		result.TargetRun.CreatedAt.Local().Format(time.DateTime), result.TargetRun.Version)
	if result.BaseRun.CPUArchitecture != result.TargetRun.CPUArchitecture {
		fmt.Fprintln(w, "Warning: the runs were measured on different CPUs")
	}
	fmt.Fprintln(w)

	if len(result.Phases) == 0 {
		fmt.Fprintln(w, "No phase changed beyond the threshold.")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("Phase", "Base", "Target", "Change", "Verdict")
		for _, p := range result.Phases {
			if err := table.Append(p.Name, formatTime(p.Base), formatTime(p.Target),
				formatChange(p), p.Verdict); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nImproved: %d  Regressed: %d  Unchanged: %d  Added: %d  Removed: %d\n",
		result.Summary["improved"], result.Summary["regressed"], result.Summary["unchanged"],
		result.Summary["added"], result.Summary["removed"])
	return err
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(w io.Writer, result *ComparisonResult) error {
	printer := message.NewPrinter(language.English)
	md := markdown.NewMarkdown(w)

	md.H1("Run Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"", "Base", "Target"},
		Rows: [][]string{
			{"Run", markdown.Code(result.BaseRun.ID), markdown.Code(result.TargetRun.ID)},
			{"Date", result.BaseRun.CreatedAt.Format(time.DateTime), result.TargetRun.CreatedAt.Format(time.DateTime)},
			{"Version", result.BaseRun.Version, result.TargetRun.Version},
			{"CPU", result.BaseRun.CPUArchitecture, result.TargetRun.CPUArchitecture},
			{"Build", result.BaseRun.Configuration, result.TargetRun.Configuration},
		},
	})
	md.PlainText("")

	md.H2("Summary")
	md.PlainText("")
	md.BulletList(
		printer.Sprintf("Threshold: %s", formatPercent(result.Threshold, false)),
		printer.Sprintf("Improved: %d", result.Summary["improved"]),
		printer.Sprintf("Regressed: %d", result.Summary["regressed"]),
		printer.Sprintf("Unchanged: %d", result.Summary["unchanged"]),
		printer.Sprintf("Added: %d", result.Summary["added"]),
		printer.Sprintf("Removed: %d", result.Summary["removed"]),
	)
	md.PlainText("")

	md.H2("Phases")
	md.PlainText("")
	if len(result.Phases) == 0 {
		md.Note("No phase changed beyond the threshold.")
		return md.Build()
	}

	rows := make([][]string, 0, len(result.Phases))
	for _, p := range result.Phases {
		verdict := p.Verdict
		if p.verdict == model.VerdictRegressed {
			verdict = markdown.Bold(verdict)
		}
		rows = append(rows, []string{
			markdown.Code(p.Name),
			printer.Sprintf("%d ns", p.Base),
			printer.Sprintf("%d ns", p.Target),
			formatChange(p),
			verdict,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Phase", "Base / op", "Target / op", "Change", "Verdict"},
		Rows:   rows,
	})

	return md.Build()
}

func formatTime(ns int64) string {
	if ns == 0 {
		return "-"
	}
	return report.TimePeriod(ns)
}

// formatChange renders the relative change, or the verdict symbol for
// phases present in only one run.
func formatChange(p PhaseChange) string {
	if p.verdict == model.VerdictAdded || p.verdict == model.VerdictRemoved {
		return p.verdict.Symbol()
	}
	return formatPercent(p.Change, true)
}

func formatPercent(v float64, signed bool) string {
	if signed {
		return fmt.Sprintf("%+.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}
