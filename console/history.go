package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/phasebench/phasebench/internal/config"
	"github.com/phasebench/phasebench/internal/database"
	"github.com/phasebench/phasebench/report"
)

// shortIDLength is the number of run id characters shown in tables.
// Any unique prefix is accepted where a run id is expected.
const shortIDLength = 8

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved runs",
		Long: `History lists the runs saved with 'phasebench run --save', newest first.

With --phase it lists the stored results of one phase across runs instead,
which shows how a single measurement moved over time.

Examples:
  # List the 20 most recent runs
  phasebench history

  # List every saved run
  phasebench history --limit 0

  # Show how the sort phase evolved
  phasebench history --phase 'sort(1000)'

  # Delete a run by id prefix
  phasebench history --delete 0f8fad5b`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of entries to list (0 lists all)")
	cmd.Flags().StringP("phase", "p", "",
		"List the stored results of the named phase")
	cmd.Flags().String("delete", "",
		"Delete the run with the given id or unique id prefix")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return config.ErrInvalidHistoryLimit
	}

	phase, err := cmd.Flags().GetString("phase")
	if err != nil {
		return err
	}

	deleteID, err := cmd.Flags().GetString("delete")
	if err != nil {
		return err
	}

	db, err := openHistory(getDBDir(cmd))
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case deleteID != "":
		return deleteRun(ctx, out, db, deleteID)
	case phase != "":
		return listPhaseHistory(ctx, out, db, phase, limit)
	default:
		return listRuns(ctx, out, db, limit)
	}
}

// openHistory opens an existing history database.
func openHistory(dbDir string) (*database.HistoryDB, error) {
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(dbDir, opts)
	if err != nil {
		if errors.Is(err, database.ErrDatabaseNotFound) {
			return nil, fmt.Errorf("%w (use 'phasebench run --save' to save a run)", err)
		}
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// listRuns prints the saved runs as a table.
func listRuns(ctx context.Context, w io.Writer, db *database.HistoryDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No saved runs found in the database.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Date", "Age", "Version", "CPU", "OS", "Build", "Benchmarks", "Phases")
	for _, run := range runs {
		if err := table.Append(
			shortID(run.ID),
			run.CreatedAt.Local().Format(time.DateTime),
			humanize.Time(run.CreatedAt),
			run.Version,
			run.CPUArchitecture,
			run.OSVersion,
			run.Configuration,
			strconv.Itoa(run.Benchmarks),
			strconv.Itoa(run.Phases),
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "\n%d run(s). Use 'phasebench compare <base> <target>' to compare two runs.\n", len(runs))
	return err
}

// listPhaseHistory prints the stored results of one phase as a table.
func listPhaseHistory(ctx context.Context, w io.Writer, db *database.HistoryDB, phase string, limit int) error {
	points, err := db.PhaseHistory(ctx, phase, limit)
	if err != nil {
		return err
	}

	if len(points) == 0 {
		_, err := fmt.Fprintf(w, "No saved results found for phase %s\n", phase)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Run", "Date", "Age", "Avg time", "Total time", "Operations", "Ops/s")
	for _, p := range points {
		if err := table.Append(
			shortID(p.RunID),
			p.CreatedAt.Local().Format(time.DateTime),
			humanize.Time(p.CreatedAt),
			report.TimePeriod(p.AvgTime),
			report.TimePeriod(p.TotalTime),
			humanize.Comma(p.TotalOperations),
			humanize.Comma(p.OperationsPerSecond),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

// deleteRun removes a run by id or unique prefix.
func deleteRun(ctx context.Context, w io.Writer, db *database.HistoryDB, id string) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if err := db.DeleteRun(ctx, run.ID); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Deleted run %s\n", run.ID)
	return err
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}
